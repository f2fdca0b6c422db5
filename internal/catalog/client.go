// Package catalog adapts the external media service holding the
// theme/movie/frame tree. The core treats it as a collaborator that may fail
// or return partial data; failures are logged and the room lives on with
// whatever catalog it has.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"moviequiz/internal/domain"
)

// Folder is one directory entry in the media service's asset tree.
type Folder struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Lister is the read-only surface the handlers use. Themes are top-level
// folders under the catalog root, movies are folders within a theme, frames
// are the asset URLs within a movie.
type Lister interface {
	ListThemes(ctx context.Context) ([]Folder, error)
	ListMovies(ctx context.Context, theme string) ([]Folder, error)
	ListFrames(ctx context.Context, theme, movie string) ([]string, error)
}

// Client talks to the Cloudinary Admin API over basic auth.
type Client struct {
	http      *http.Client
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	root      string
}

func NewClient(baseURL, cloudName, apiKey, apiSecret, root string) *Client {
	return &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		baseURL:   baseURL,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		root:      root,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := fmt.Sprintf("%s/v1_1/%s/%s", c.baseURL, c.cloudName, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog: %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) subFolders(ctx context.Context, folder string) ([]Folder, error) {
	var body struct {
		Folders []Folder `json:"folders"`
	}
	if err := c.get(ctx, "folders/"+folder, nil, &body); err != nil {
		return nil, err
	}
	return body.Folders, nil
}

func (c *Client) ListThemes(ctx context.Context) ([]Folder, error) {
	return c.subFolders(ctx, c.root)
}

func (c *Client) ListMovies(ctx context.Context, theme string) ([]Folder, error) {
	return c.subFolders(ctx, c.root+"/"+theme)
}

func (c *Client) ListFrames(ctx context.Context, theme, movie string) ([]string, error) {
	var body struct {
		Resources []struct {
			URL       string `json:"url"`
			SecureURL string `json:"secure_url"`
		} `json:"resources"`
	}

	q := url.Values{}
	q.Set("asset_folder", c.root+"/"+theme+"/"+movie)
	if err := c.get(ctx, "resources/by_asset_folder", q, &body); err != nil {
		return nil, err
	}

	frames := make([]string, 0, len(body.Resources))
	for _, res := range body.Resources {
		u := res.SecureURL
		if u == "" {
			u = res.URL
		}
		frames = append(frames, u)
	}
	return frames, nil
}

// BuildCatalog assembles the theme→movies mapping a room caches. Per-theme
// failures leave the catalog partially populated rather than aborting it.
func BuildCatalog(ctx context.Context, lister Lister) (domain.ThemeCatalog, error) {
	themes, err := lister.ListThemes(ctx)
	if err != nil {
		return nil, err
	}

	tc := make(domain.ThemeCatalog, len(themes))
	for _, theme := range themes {
		movies, err := lister.ListMovies(ctx, theme.Name)
		if err != nil {
			log.Warn().Err(err).Str("module", "catalog").Str("theme", theme.Name).Msg("movie listing failed, theme left empty")
			tc[theme.Name] = []domain.Movie{}
			continue
		}
		list := make([]domain.Movie, 0, len(movies))
		for i, m := range movies {
			list = append(list, domain.Movie{Index: i, Name: m.Name})
		}
		tc[theme.Name] = list
	}
	return tc, nil
}

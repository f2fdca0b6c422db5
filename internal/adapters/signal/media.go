package signal

import (
	"context"

	"github.com/rs/zerolog/log"

	"moviequiz/internal/catalog"
)

// handleGetThemes serves the theme→movie catalog, fetching it from the media
// service on the room's first request and from the room cache afterwards.
// The fetch suspends, so the room handle is stale afterwards: the room is
// re-resolved by code and the result discarded if an interleaved end_game
// destroyed it.
func (ctl *Controller) handleGetThemes(ctx context.Context, c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	room, ok := ctl.room(p.Room)
	if !ok {
		return
	}

	if themes, cached := room.Themes(); cached {
		ctl.ToRoom(room.Code, "", "all_themes", themes)
		return
	}

	tc, err := catalog.BuildCatalog(ctx, ctl.lister)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", p.Room).Msg("catalog fetch failed, room stays live")
		return
	}

	room, ok = ctl.room(p.Room)
	if !ok {
		log.Info().Str("module", "signal").Str("room", p.Room).Msg("room gone during catalog fetch, result discarded")
		return
	}
	room.SetThemes(tc)

	themes, _ := room.Themes()
	ctl.ToRoom(room.Code, "", "all_themes", themes)
}

type framesResponse struct {
	Movie  string   `json:"movie"`
	Frames []string `json:"frames"`
}

// handleGetFrames records the host's theme/movie selection and sends the
// movie's frame URLs. Frame listings are not cached: a movie is revisited at
// most once per round.
func (ctl *Controller) handleGetFrames(ctx context.Context, c *WsConn, data []byte) {
	var p framesPayload
	if !decode(data, &p) {
		return
	}
	room, ok := ctl.room(p.Room)
	if !ok {
		return
	}
	room.SelectMovie(p.Theme, p.Movie)

	frames, err := ctl.lister.ListFrames(ctx, p.Theme, p.Movie)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", p.Room).Str("movie", p.Movie).Msg("frame fetch failed")
		return
	}

	room, ok = ctl.room(p.Room)
	if !ok {
		return
	}
	ctl.ToRoom(room.Code, "", "all_frames", framesResponse{Movie: p.Movie, Frames: frames})
}

// handleChangeFrame is a broadcast-only cue with no state change.
func (ctl *Controller) handleChangeFrame(c *WsConn, data []byte) {
	var p roomPayload
	if !decode(data, &p) {
		return
	}
	if room, ok := ctl.room(p.Room); ok {
		ctl.ToRoom(room.Code, c.id, "change_frame", nil)
	}
}

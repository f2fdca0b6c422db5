package domain

// Movie is one entry within a theme. Immutable except Guessed/GuessedBy,
// which are set once on a confirmed-correct answer.
type Movie struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Guessed   bool   `json:"guessed"`
	GuessedBy string `json:"whoGuessed,omitempty"` // emblem of the guessing player
}

// ThemeCatalog maps theme names to their ordered movie lists.
type ThemeCatalog map[string][]Movie

// Result is the outcome of a finished game. On a tie, Players names every
// slot holding the maximum score.
type Result struct {
	Tie     bool     `json:"tie"`
	Players []string `json:"players"`
	Score   int      `json:"score"`
}

package core

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"moviequiz/internal/domain"
)

// Scoring ledger: a read/accumulate view over the player slots, not a
// separate store.

// AddPoints applies a score delta to the named player. Deltas may be
// negative and there is no floor; the host legitimately deducts points. An
// unmatched name is a logged no-op. After mutation the full roster goes to
// the room (and the target connection, the game display), and the new total
// to the player's own connection.
func (r *Room) AddPoints(name string, delta int, target domain.ConnID, emit Emitter) {
	r.mu.Lock()
	slot := r.slotByNameLocked(name)
	if slot == nil {
		r.mu.Unlock()
		log.Warn().Str("module", "core.scoring").Str("room", string(r.Code)).Str("name", name).Msg("points for unknown player dropped")
		return
	}
	slot.Score += delta
	roster := r.rosterLocked()
	playerConn := slot.Conn
	score := slot.Score
	r.mu.Unlock()

	log.Info().Str("module", "core.scoring").Str("room", string(r.Code)).Str("name", name).Int("delta", delta).Int("score", score).Msg("points applied")

	emit.ToRoom(r.Code, "", "all_points", roster)
	if target != "" {
		emit.ToConn(target, "all_points", roster)
	}
	if playerConn != "" {
		emit.ToConn(playerConn, "your_points", score)
	}
}

// Score returns the named player's current total.
func (r *Room) Score(name string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := r.slotByNameLocked(name)
	if slot == nil {
		return 0, false
	}
	return slot.Score, true
}

// resultLocked determines the winner or tie. Tie detection is by value
// equality of the maximum score, never by sort stability: every slot holding
// the max is named.
func (r *Room) resultLocked() domain.Result {
	top := lo.MaxBy(r.players, func(a, b *domain.PlayerSlot) bool {
		return a.Score > b.Score
	})
	if top == nil {
		return domain.Result{}
	}

	winners := lo.FilterMap(r.players, func(s *domain.PlayerSlot, _ int) (string, bool) {
		return s.Name, s.Score == top.Score
	})

	return domain.Result{
		Tie:     len(winners) > 1,
		Players: winners,
		Score:   top.Score,
	}
}

package core

import (
	"github.com/rs/zerolog/log"

	"moviequiz/internal/domain"
)

// Transition handlers. Illegal transitions are ignored, not errored: with no
// acknowledgement/retry contract at the protocol level, duplicate and late
// events are expected and must leave the room untouched.

// correctAnswerPoints is the automatic award for a confirmed-correct answer.
// Hosts hand out any further points explicitly through send_points.
const correctAnswerPoints = 1

// StartGame relays the lobby→game-screen navigation cue. It carries no state
// change of its own; the actual Lobby exit happens on roster completion.
func (r *Room) StartGame(sender domain.ConnID, emit Emitter) {
	r.mu.Lock()
	ended := r.state == StateEnded
	r.mu.Unlock()
	if ended {
		return
	}
	emit.ToRoom(r.Code, sender, "start_game", nil)
}

// StartRound moves ThemeSelection→RoundActive once a movie is selected.
func (r *Room) StartRound(sender domain.ConnID, emit Emitter) {
	r.mu.Lock()
	if r.state != StateThemeSelection || r.activeMovie == "" {
		r.mu.Unlock()
		log.Debug().Str("module", "core.room").Str("room", string(r.Code)).Str("state", r.state.String()).Msg("start_round ignored")
		return
	}
	r.state = StateRoundActive
	r.roundActive = true
	r.mu.Unlock()

	log.Info().Str("module", "core.room").Str("room", string(r.Code)).Msg("round started")
	emit.ToRoom(r.Code, sender, "start_round", nil)
}

// EndRound returns to ThemeSelection without resolving the movie.
func (r *Room) EndRound(sender domain.ConnID, emit Emitter) {
	r.mu.Lock()
	if r.state != StateRoundActive && r.state != StateThemeSelection {
		r.mu.Unlock()
		return
	}
	r.state = StateThemeSelection
	r.roundActive = false
	r.answering = ""
	r.mu.Unlock()

	log.Info().Str("module", "core.room").Str("room", string(r.Code)).Msg("round ended")
	emit.ToRoom(r.Code, sender, "round_end", nil)
}

// PlayerAnswer gives the named player the answer floor, provided the round
// is active and nobody else holds it.
func (r *Room) PlayerAnswer(name string, sender domain.ConnID, emit Emitter) {
	r.mu.Lock()
	if r.state != StateRoundActive || r.answering != "" || r.slotByNameLocked(name) == nil {
		r.mu.Unlock()
		log.Debug().Str("module", "core.room").Str("room", string(r.Code)).Str("name", name).Msg("player_answer ignored")
		return
	}
	r.answering = name
	r.mu.Unlock()

	log.Info().Str("module", "core.room").Str("room", string(r.Code)).Str("name", name).Msg("player answering")
	emit.ToRoom(r.Code, sender, "player_answer", name)
}

// AnswerYes resolves the answering sub-state: the active movie is marked
// guessed and credited to the player's emblem, the floor is cleared and the
// room passes through RoundResolved back to ThemeSelection for the next pick.
func (r *Room) AnswerYes(sender domain.ConnID, emit Emitter) {
	r.mu.Lock()
	if r.state != StateRoundActive || r.answering == "" {
		r.mu.Unlock()
		log.Debug().Str("module", "core.room").Str("room", string(r.Code)).Msg("answer_yes ignored, nobody answering")
		return
	}

	slot := r.slotByNameLocked(r.answering)
	if slot != nil {
		r.markGuessedLocked(slot.Emblem)
		slot.Score += correctAnswerPoints
	}
	r.answering = ""
	r.roundActive = false
	// RoundResolved is momentary: the next movie pick starts immediately,
	// so the room lands straight back in ThemeSelection.
	r.state = StateThemeSelection
	r.activeMovie = ""

	roster := r.rosterLocked()
	var playerConn domain.ConnID
	var score int
	if slot != nil {
		playerConn = slot.Conn
		score = slot.Score
	}
	r.mu.Unlock()

	log.Info().Str("module", "core.room").Str("room", string(r.Code)).Msg("correct answer")
	emit.ToRoom(r.Code, sender, "answer_yes", nil)
	emit.ToRoom(r.Code, "", "all_points", roster)
	if playerConn != "" {
		emit.ToConn(playerConn, "your_points", score)
	}
}

// AnswerNo clears the answer floor and lets others (or the same player) try
// again within the still-active round.
func (r *Room) AnswerNo(sender domain.ConnID, emit Emitter) {
	r.mu.Lock()
	if r.state != StateRoundActive || r.answering == "" {
		r.mu.Unlock()
		return
	}
	r.answering = ""
	r.mu.Unlock()

	emit.ToRoom(r.Code, sender, "answer_no", nil)
}

// markGuessedLocked records the guess attribution on the active movie.
func (r *Room) markGuessedLocked(emblem string) {
	movies, ok := r.catalog[r.activeTheme]
	if !ok {
		return
	}
	for i := range movies {
		if movies[i].Name == r.activeMovie && !movies[i].Guessed {
			movies[i].Guessed = true
			movies[i].GuessedBy = emblem
			return
		}
	}
}

// EndGame computes the final result and moves the room to Ended. It reports
// whether this call performed the transition, so the caller schedules
// destruction exactly once.
func (r *Room) EndGame(emit Emitter) (domain.Result, bool) {
	r.mu.Lock()
	if r.state == StateEnded {
		r.mu.Unlock()
		return domain.Result{}, false
	}
	r.state = StateEnded
	r.roundActive = false
	r.answering = ""
	res := r.resultLocked()
	r.mu.Unlock()

	event := "end_game"
	if res.Tie {
		event = "end_game_tie"
	}
	log.Info().Str("module", "core.room").Str("room", string(r.Code)).Strs("players", res.Players).Int("score", res.Score).Bool("tie", res.Tie).Msg("game ended")
	emit.ToRoom(r.Code, "", event, res)
	return res, true
}

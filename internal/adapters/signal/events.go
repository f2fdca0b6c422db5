package signal

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// One explicit schema per event, validated at the boundary before anything
// reaches the state machine.

var validate = validator.New()

type roomPayload struct {
	Type string `json:"type"`
	Room string `json:"room" validate:"required,max=36"`
}

type playerJoinPayload struct {
	Type     string `json:"type"`
	Room     string `json:"room" validate:"required,max=36"`
	Name     string `json:"name" validate:"required,max=36"`
	PlayerID string `json:"playerId" validate:"omitempty,max=64"`
}

type roleJoinPayload struct {
	Type string `json:"type"`
	Room string `json:"room" validate:"required,max=36"`
	ID   string `json:"id" validate:"omitempty,max=64"`
}

type answerPayload struct {
	Type string `json:"type"`
	Room string `json:"room" validate:"required,max=36"`
	Name string `json:"name" validate:"required,max=36"`
}

type pointsPayload struct {
	Type   string `json:"type"`
	Room   string `json:"room" validate:"required,max=36"`
	Name   string `json:"name" validate:"required,max=36"`
	Points int    `json:"points"`
	Target string `json:"target" validate:"omitempty,max=64"`
}

type framesPayload struct {
	Type  string `json:"type"`
	Room  string `json:"room" validate:"required,max=36"`
	Theme string `json:"theme" validate:"required,max=128"`
	Movie string `json:"movie" validate:"required,max=128"`
}

// decode unmarshals and validates an event payload. Failures are logged and
// the event is dropped; no error event goes back to the client.
func decode(data []byte, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad payload")
		return false
	}
	if err := validate.Struct(v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("invalid payload")
		return false
	}
	return true
}

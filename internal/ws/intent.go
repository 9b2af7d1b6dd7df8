package ws

import (
	"errors"
	"fmt"

	"github.com/kiliankoe/impostrico/internal/chips"
	"github.com/kiliankoe/impostrico/internal/spy"
)

var ErrUnknownIntent = errors.New("unknown intent")

// IntentPayload is the wire form of a user action for either game.
type IntentPayload struct {
	Game     string   `json:"game"`
	Type     string   `json:"type"`
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Names    []string `json:"names"`
	PlayerID int      `json:"playerId"`
	Board    string   `json:"board"`
}

func decodeSpy(p IntentPayload) (spy.Intent, error) {
	switch p.Type {
	case "editName":
		return spy.EditName{Index: p.Index, Name: p.Name}, nil
	case "addName":
		return spy.AddName{}, nil
	case "removeName":
		return spy.RemoveName{Index: p.Index}, nil
	case "submitNames":
		return spy.SubmitNames{Names: p.Names}, nil
	case "pullToReveal":
		return spy.PullToReveal{}, nil
	case "nextPlayer":
		return spy.NextPlayer{}, nil
	case "handoffDone":
		return spy.HandoffDone{}, nil
	case "voteEliminate":
		return spy.VoteEliminate{PlayerID: p.PlayerID}, nil
	case "dismissElimination":
		return spy.DismissElimination{}, nil
	case "endRound":
		return spy.EndRound{}, nil
	case "restart":
		return spy.Restart{}, nil
	}
	return nil, fmt.Errorf("%w: spy %q", ErrUnknownIntent, p.Type)
}

func decodeChips(p IntentPayload) (chips.Intent, error) {
	switch p.Type {
	case "start":
		return chips.Start{}, nil
	case "toggleChip":
		return chips.ToggleChip{Index: p.Index}, nil
	case "ready":
		return chips.Ready{}, nil
	case "continue":
		return chips.Continue{}, nil
	case "revealChip":
		seat := chips.Seat(p.Board)
		if !seat.Valid() {
			return nil, fmt.Errorf("%w: board %q", ErrUnknownIntent, p.Board)
		}
		return chips.RevealChip{Board: seat, Index: p.Index}, nil
	case "restart":
		return chips.Restart{}, nil
	}
	return nil, fmt.Errorf("%w: chips %q", ErrUnknownIntent, p.Type)
}

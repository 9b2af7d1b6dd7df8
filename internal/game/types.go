package game

import (
	"errors"

	"github.com/kiliankoe/impostrico/internal/chips"
	"github.com/kiliankoe/impostrico/internal/spy"
)

// GameType selects which of the table's games is on screen.
type GameType string

const (
	GameSpy   GameType = "spy"
	GameChips GameType = "chips"
)

func (g GameType) Valid() bool { return g == GameSpy || g == GameChips }

var (
	ErrTableNotFound = errors.New("table not found")
	ErrNotHost       = errors.New("not host")
	ErrUnknownGame   = errors.New("unknown game")
	ErrTableInUse    = errors.New("another table is running")
)

// State is everything a renderer needs for one table.
type State struct {
	Code   string     `json:"code"`
	Active GameType   `json:"active"`
	Spy    spy.View   `json:"spy"`
	Chips  chips.View `json:"chips"`
}

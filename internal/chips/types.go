// Package chips runs the two-player bomb game. Each player hides three bombs
// on the other's board of nine chips; players then take turns uncovering chips
// on the opponent's board and lose a life for every bomb they hit.
package chips

import "errors"

type Phase string

const (
	PhaseIntro    Phase = "INTRO"
	PhaseSetup    Phase = "SETUP"
	PhaseGameplay Phase = "GAMEPLAY"
	PhaseGameOver Phase = "GAME_OVER"
)

// SetupStep is the sub-step of SETUP.
type SetupStep string

const (
	StepP1Placing SetupStep = "p1_placing"
	StepHandoff   SetupStep = "transition"
	StepP2Placing SetupStep = "p2_placing"
)

type Seat string

const (
	Player1 Seat = "player1"
	Player2 Seat = "player2"
)

// Opponent returns the other seat.
func (s Seat) Opponent() Seat {
	if s == Player1 {
		return Player2
	}
	return Player1
}

func (s Seat) Valid() bool { return s == Player1 || s == Player2 }

const (
	BoardSize     = 9
	BombsPerBoard = 3
	StartingLives = 3
)

var ErrChipOutOfRange = errors.New("chip index out of range")

type Chip struct {
	IsBomb     bool `json:"isBomb"`
	IsRevealed bool `json:"isRevealed"`
}

type Board [BoardSize]Chip

// NewBoard builds an unrevealed board with bombs at the given indices.
func NewBoard(bombs []int) Board {
	var b Board
	for _, i := range bombs {
		if i >= 0 && i < BoardSize {
			b[i].IsBomb = true
		}
	}
	return b
}

// Bombs counts bomb chips.
func (b Board) Bombs() int {
	n := 0
	for _, c := range b {
		if c.IsBomb {
			n++
		}
	}
	return n
}

type Boards struct {
	Player1 Board `json:"player1"`
	Player2 Board `json:"player2"`
}

// Of returns a pointer to the board that belongs to s.
func (b *Boards) Of(s Seat) *Board {
	if s == Player1 {
		return &b.Player1
	}
	return &b.Player2
}

// Intent is a user action consumed by Flow.Dispatch.
type Intent interface {
	chipsIntent()
}

type Start struct{}

// ToggleChip adds or removes Index from the bomb set being placed.
type ToggleChip struct {
	Index int
}

type Ready struct{}

// Continue leaves the hand-off screen between the two placing steps.
type Continue struct{}

// RevealChip uncovers Index on the board owned by Board.
type RevealChip struct {
	Board Seat
	Index int
}

type Restart struct{}

func (Start) chipsIntent()      {}
func (ToggleChip) chipsIntent() {}
func (Ready) chipsIntent()      {}
func (Continue) chipsIntent()   {}
func (RevealChip) chipsIntent() {}
func (Restart) chipsIntent()    {}

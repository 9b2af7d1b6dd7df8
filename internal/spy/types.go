// Package spy runs the hot-seat spy game: everyone but one player learns a
// secret word, and the table votes players out until the spy is found or the
// round is ended.
package spy

import "errors"

type Phase string

const (
	PhaseSetup    Phase = "SETUP"
	PhaseReveal   Phase = "REVEAL"
	PhasePlay     Phase = "PLAY"
	PhaseGameOver Phase = "GAME_OVER"
)

// RevealStep is the screen shown for the current player during REVEAL.
type RevealStep string

const (
	StepIntro   RevealStep = "intro"
	StepRole    RevealStep = "role"
	StepHandoff RevealStep = "handoff"
)

const MinPlayers = 3

var (
	ErrTooFewPlayers   = errors.New("at least 3 players are required")
	ErrBlankName       = errors.New("all player names are required")
	ErrSubmitPending   = errors.New("a word request is already pending")
	ErrWordUnavailable = errors.New("could not get a secret word, try again")
)

type Player struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	IsSpy        bool   `json:"isSpy"`
	IsEliminated bool   `json:"isEliminated"`
}

// Intent is a user action consumed by Flow.Dispatch.
type Intent interface {
	spyIntent()
}

// EditName sets the draft name of seat Index.
type EditName struct {
	Index int
	Name  string
}

// AddName appends an empty seat to the draft.
type AddName struct{}

// RemoveName drops seat Index; refused while only MinPlayers seats remain.
type RemoveName struct {
	Index int
}

// SubmitNames validates the draft and asks for a secret word. A non-nil
// Names replaces the draft first.
type SubmitNames struct {
	Names []string
}

type PullToReveal struct{}

type NextPlayer struct{}

type HandoffDone struct{}

type VoteEliminate struct {
	PlayerID int
}

type DismissElimination struct{}

type EndRound struct{}

type Restart struct{}

func (EditName) spyIntent()           {}
func (AddName) spyIntent()            {}
func (RemoveName) spyIntent()         {}
func (SubmitNames) spyIntent()        {}
func (PullToReveal) spyIntent()       {}
func (NextPlayer) spyIntent()         {}
func (HandoffDone) spyIntent()        {}
func (VoteEliminate) spyIntent()      {}
func (DismissElimination) spyIntent() {}
func (EndRound) spyIntent()           {}
func (Restart) spyIntent()            {}

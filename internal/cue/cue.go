package cue

import (
	"github.com/rs/zerolog"
)

// Cue names a sound effect tied to a game event.
type Cue string

const (
	Click      Cue = "click"
	Reveal     Cue = "reveal"
	Eliminate  Cue = "eliminate"
	GameStart  Cue = "game_start"
	Win        Cue = "win"
	Lose       Cue = "lose"
	ChipSelect Cue = "chip_select"
	ChipReady  Cue = "chip_ready"
	ChipGood   Cue = "chip_good"
	ChipBomb   Cue = "chip_bomb"
)

// Player plays cues. Implementations must not block the caller.
type Player interface {
	Play(c Cue)
}

// Fire plays c on p and swallows anything that goes wrong, so game
// transitions never depend on audio.
func Fire(p Player, c Cue) {
	if p == nil {
		return
	}
	defer func() { _ = recover() }()
	p.Play(c)
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(Cue) {}

// Func adapts a plain function to a Player.
type Func func(Cue)

func (f Func) Play(c Cue) { f(c) }

// Fanout plays each cue on every player in order.
type Fanout []Player

func (f Fanout) Play(c Cue) {
	for _, p := range f {
		Fire(p, c)
	}
}

// Log writes a debug line per cue.
type Log struct {
	Logger zerolog.Logger
	Scope  string
}

func (l Log) Play(c Cue) {
	l.Logger.Debug().Str("scope", l.Scope).Str("cue", string(c)).Msg("cue")
}

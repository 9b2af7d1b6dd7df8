package cue

import "time"

// Waveform is an oscillator shape understood by Web Audio.
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
	Triangle Waveform = "triangle"
)

// Tone is one oscillator note within a cue, started At after the cue begins.
type Tone struct {
	Freq     float64       `json:"freq"`
	Duration time.Duration `json:"-"`
	Wave     Waveform      `json:"wave"`
	At       time.Duration `json:"-"`

	DurationMS int64 `json:"durationMs"`
	AtMS       int64 `json:"atMs"`
}

func tone(freq float64, dur time.Duration, wave Waveform, at time.Duration) Tone {
	return Tone{
		Freq:       freq,
		Duration:   dur,
		Wave:       wave,
		At:         at,
		DurationMS: dur.Milliseconds(),
		AtMS:       at.Milliseconds(),
	}
}

const ms = time.Millisecond

var tones = map[Cue][]Tone{
	Click: {
		tone(600, 50*ms, Triangle, 0),
		tone(800, 50*ms, Triangle, 50*ms),
	},
	Reveal: {
		tone(400, 100*ms, Sine, 0),
		tone(600, 100*ms, Sine, 100*ms),
		tone(800, 200*ms, Sine, 200*ms),
	},
	Eliminate: {
		tone(500, 200*ms, Sawtooth, 0),
		tone(300, 300*ms, Sawtooth, 150*ms),
	},
	GameStart: {
		tone(523.25, 100*ms, Sine, 0),
		tone(659.25, 100*ms, Sine, 100*ms),
		tone(783.99, 200*ms, Sine, 200*ms),
	},
	Win: {
		tone(783.99, 150*ms, Sine, 0),
		tone(1046.50, 300*ms, Sine, 150*ms),
	},
	Lose: {
		tone(300, 250*ms, Square, 0),
		tone(200, 400*ms, Square, 200*ms),
	},
	ChipSelect: {
		tone(800, 50*ms, Triangle, 0),
	},
	ChipReady: {
		tone(600, 100*ms, Sine, 0),
		tone(900, 150*ms, Sine, 100*ms),
	},
	ChipGood: {
		tone(1000, 100*ms, Sine, 0),
	},
	ChipBomb: {
		tone(150, 300*ms, Sawtooth, 0),
	},
}

// Tones returns the note sequence for c, or nil for an unknown cue.
func Tones(c Cue) []Tone {
	ts, ok := tones[c]
	if !ok {
		return nil
	}
	out := make([]Tone, len(ts))
	copy(out, ts)
	return out
}

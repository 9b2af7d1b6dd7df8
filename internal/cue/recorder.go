package cue

import "sync"

// Recorder keeps every cue it is asked to play. Useful in tests.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

func (r *Recorder) Play(c Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, c)
}

// Cues returns a copy of the recorded cues.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cue, len(r.cues))
	copy(out, r.cues)
	return out
}

// Last returns the most recent cue, or "" if none was played.
func (r *Recorder) Last() Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cues) == 0 {
		return ""
	}
	return r.cues[len(r.cues)-1]
}

// Reset forgets all recorded cues.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = nil
}

package spy

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/impostrico/internal/cue"
	"github.com/kiliankoe/impostrico/internal/words"
)

const (
	DefaultHandoffDelay = 1500 * time.Millisecond
	DefaultWordTimeout  = 20 * time.Second
)

type Options struct {
	Words words.Provider
	Cues  cue.Player
	Rand  *rand.Rand

	// HandoffDelay is how long the hand-off screen stays up before the next
	// player's intro. Zero means DefaultHandoffDelay; negative disables the
	// timer so only HandoffDone advances.
	HandoffDelay time.Duration
	WordTimeout  time.Duration

	// OnChange is called outside the lock when state changes without a
	// Dispatch call returning: a submission starting and the hand-off timer.
	OnChange func()

	// OnGameOver is called outside the lock, once per finished round.
	OnGameOver func(GameOverView)
}

type state struct {
	phase Phase

	draft   []string
	loading bool
	errMsg  string

	players  []Player
	word     string
	category string

	revealIx int
	step     RevealStep

	lastEliminated int
}

// Flow owns one spy game session.
type Flow struct {
	mu       sync.Mutex
	opts     Options
	st       state
	gen      uint64
	timer    *time.Timer
	finished bool
}

func NewFlow(opts Options) *Flow {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Words == nil {
		opts.Words = words.NewStaticProvider(nil)
	}
	if opts.HandoffDelay == 0 {
		opts.HandoffDelay = DefaultHandoffDelay
	}
	if opts.WordTimeout <= 0 {
		opts.WordTimeout = DefaultWordTimeout
	}
	f := &Flow{opts: opts}
	f.st = freshState()
	return f
}

func freshState() state {
	return state{phase: PhaseSetup, draft: make([]string, MinPlayers)}
}

// SetOnGameOver replaces the game-over listener.
func (f *Flow) SetOnGameOver(fn func(GameOverView)) {
	f.mu.Lock()
	f.opts.OnGameOver = fn
	f.mu.Unlock()
}

// SetOnChange replaces the change listener.
func (f *Flow) SetOnChange(fn func()) {
	f.mu.Lock()
	f.opts.OnChange = fn
	f.mu.Unlock()
}

func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.phase
}

// Players returns a copy of the session's players.
func (f *Flow) Players() []Player {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Player, len(f.st.players))
	copy(out, f.st.players)
	return out
}

// Close stops a pending hand-off timer.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopTimer()
}

// Dispatch applies in to the session. Validation and provider failures are
// returned; actions that do not fit the current phase are ignored.
func (f *Flow) Dispatch(ctx context.Context, in Intent) error {
	if s, ok := in.(SubmitNames); ok {
		return f.submit(ctx, s)
	}

	f.mu.Lock()
	err := f.apply(in)
	var over *GameOverView
	if f.finished {
		f.finished = false
		g := f.st.gameOver()
		over = &g
	}
	fn := f.opts.OnGameOver
	f.mu.Unlock()

	if over != nil && fn != nil {
		fn(*over)
	}
	return err
}

func (f *Flow) apply(in Intent) error {
	switch v := in.(type) {
	case EditName:
		if f.st.phase != PhaseSetup || f.st.loading || v.Index < 0 || v.Index >= len(f.st.draft) {
			return nil
		}
		f.st.draft[v.Index] = v.Name
		f.st.errMsg = ""
	case AddName:
		if f.st.phase != PhaseSetup || f.st.loading {
			return nil
		}
		f.st.draft = append(f.st.draft, "")
		f.play(cue.Click)
	case RemoveName:
		if f.st.phase != PhaseSetup || f.st.loading || len(f.st.draft) <= MinPlayers {
			return nil
		}
		if v.Index < 0 || v.Index >= len(f.st.draft) {
			return nil
		}
		f.st.draft = append(f.st.draft[:v.Index], f.st.draft[v.Index+1:]...)
		f.play(cue.Click)
	case PullToReveal:
		if f.st.phase != PhaseReveal || f.st.step != StepIntro {
			return nil
		}
		f.st.step = StepRole
		f.play(cue.Reveal)
	case NextPlayer:
		if f.st.phase != PhaseReveal || f.st.step != StepRole {
			return nil
		}
		if f.st.revealIx == len(f.st.players)-1 {
			f.st.phase = PhasePlay
			f.st.step = ""
			f.play(cue.GameStart)
			return nil
		}
		f.st.step = StepHandoff
		f.play(cue.Click)
		f.scheduleHandoff()
	case HandoffDone:
		f.stopTimer()
		f.advanceHandoff(f.st.revealIx)
	case VoteEliminate:
		f.eliminate(v.PlayerID)
	case DismissElimination:
		if f.st.phase == PhasePlay {
			f.st.lastEliminated = 0
		}
	case EndRound:
		if f.st.phase != PhasePlay {
			return nil
		}
		f.st.lastEliminated = 0
		f.play(cue.Click)
		f.finish()
	case Restart:
		f.stopTimer()
		f.gen++
		f.st = freshState()
		f.play(cue.Click)
	default:
		return fmt.Errorf("spy: unsupported intent %T", in)
	}
	return nil
}

func (f *Flow) submit(ctx context.Context, s SubmitNames) error {
	f.mu.Lock()
	if f.st.phase != PhaseSetup {
		f.mu.Unlock()
		return nil
	}
	if f.st.loading {
		f.mu.Unlock()
		return ErrSubmitPending
	}
	if s.Names != nil {
		f.st.draft = append([]string(nil), s.Names...)
	}
	names, err := validate(f.st.draft)
	if err != nil {
		f.st.errMsg = err.Error()
		f.mu.Unlock()
		return err
	}
	f.st.loading = true
	f.st.errMsg = ""
	gen := f.gen
	category := words.RandomCategory(f.opts.Rand)
	provider := f.opts.Words
	timeout := f.opts.WordTimeout
	f.play(cue.Click)
	notify := f.opts.OnChange
	f.mu.Unlock()

	if notify != nil {
		notify()
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	word, err := provider.Suggest(cctx, category)
	if err == nil {
		word, err = words.Sanitize(word)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen || f.st.phase != PhaseSetup {
		// restarted while the request was in flight
		return nil
	}
	f.st.loading = false
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("word provider failed")
		f.st.errMsg = ErrWordUnavailable.Error()
		return fmt.Errorf("%w: %w", ErrWordUnavailable, err)
	}

	spyIx := f.opts.Rand.Intn(len(names))
	players := make([]Player, len(names))
	for i, n := range names {
		players[i] = Player{ID: i + 1, Name: n, IsSpy: i == spyIx}
	}
	f.st.players = players
	f.st.word = word
	f.st.category = category
	f.st.phase = PhaseReveal
	f.st.revealIx = 0
	f.st.step = StepIntro
	f.st.lastEliminated = 0
	return nil
}

// validate trims names and checks the seat rules. Duplicates are allowed.
func validate(draft []string) ([]string, error) {
	names := make([]string, len(draft))
	filled := 0
	for i, n := range draft {
		names[i] = strings.TrimSpace(n)
		if names[i] != "" {
			filled++
		}
	}
	if filled < MinPlayers {
		return nil, ErrTooFewPlayers
	}
	if filled != len(names) {
		return nil, ErrBlankName
	}
	return names, nil
}

func (f *Flow) scheduleHandoff() {
	f.stopTimer()
	if f.opts.HandoffDelay < 0 {
		return
	}
	gen, ix := f.gen, f.st.revealIx
	f.timer = time.AfterFunc(f.opts.HandoffDelay, func() {
		f.mu.Lock()
		if gen != f.gen || !f.advanceHandoff(ix) {
			f.mu.Unlock()
			return
		}
		notify := f.opts.OnChange
		f.mu.Unlock()
		if notify != nil {
			notify()
		}
	})
}

func (f *Flow) stopTimer() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// advanceHandoff moves from the hand-off screen after player ix to the next
// player's intro. It reports whether anything changed.
func (f *Flow) advanceHandoff(ix int) bool {
	if f.st.phase != PhaseReveal || f.st.step != StepHandoff || f.st.revealIx != ix {
		return false
	}
	f.st.revealIx++
	f.st.step = StepIntro
	return true
}

func (f *Flow) eliminate(id int) {
	if f.st.phase != PhasePlay {
		return
	}
	for i := range f.st.players {
		p := &f.st.players[i]
		if p.ID != id {
			continue
		}
		if p.IsEliminated {
			return
		}
		p.IsEliminated = true
		f.st.lastEliminated = id
		f.play(cue.Eliminate)
		if p.IsSpy {
			f.finish()
		}
		return
	}
}

// finish ends the round. lastEliminated is kept so the game-over screen can
// show who was voted out last.
func (f *Flow) finish() {
	f.st.phase = PhaseGameOver
	f.finished = true
	if f.spy().IsEliminated {
		f.play(cue.Win)
	} else {
		f.play(cue.Lose)
	}
}

func (f *Flow) spy() Player {
	for _, p := range f.st.players {
		if p.IsSpy {
			return p
		}
	}
	return Player{}
}

func (f *Flow) play(c cue.Cue) {
	cue.Fire(f.opts.Cues, c)
}

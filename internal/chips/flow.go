package chips

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kiliankoe/impostrico/internal/cue"
)

type state struct {
	phase Phase
	step  SetupStep

	// pending bombs per board owner
	pending map[Seat]map[int]bool

	boards Boards
	lives  map[Seat]int
	turn   Seat
	winner Seat
}

func freshState() state {
	return state{
		phase:   PhaseIntro,
		pending: map[Seat]map[int]bool{Player1: {}, Player2: {}},
		lives:   map[Seat]int{Player1: StartingLives, Player2: StartingLives},
		turn:    Player1,
	}
}

// Flow owns one chips game session. All transitions are synchronous.
type Flow struct {
	mu         sync.Mutex
	cues       cue.Player
	st         state
	finished   bool
	onGameOver func(GameOverView)
}

func NewFlow(cues cue.Player) *Flow {
	return &Flow{cues: cues, st: freshState()}
}

// SetOnGameOver registers fn to run once each time a game ends. It is called
// after the lock is released with the final summary.
func (f *Flow) SetOnGameOver(fn func(GameOverView)) {
	f.mu.Lock()
	f.onGameOver = fn
	f.mu.Unlock()
}

func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.phase
}

// Boards returns a copy of both boards.
func (f *Flow) Boards() Boards {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.boards
}

func (f *Flow) Lives(s Seat) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.lives[s]
}

func (f *Flow) Turn() Seat {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.turn
}

// Winner is empty until the game is over.
func (f *Flow) Winner() Seat {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.winner
}

// placingFor is the seat whose board is being filled in the current step.
func (st *state) placingFor() (Seat, bool) {
	if st.phase != PhaseSetup {
		return "", false
	}
	switch st.step {
	case StepP1Placing:
		return Player2, true
	case StepP2Placing:
		return Player1, true
	}
	return "", false
}

// Dispatch applies in to the session. Actions that do not fit the current
// phase are ignored.
func (f *Flow) Dispatch(_ context.Context, in Intent) error {
	f.mu.Lock()
	err := f.apply(in)
	var over *GameOverView
	if f.finished {
		f.finished = false
		g := f.st.gameOver()
		over = &g
	}
	fn := f.onGameOver
	f.mu.Unlock()

	if over != nil && fn != nil {
		fn(*over)
	}
	return err
}

func (f *Flow) apply(in Intent) error {
	switch v := in.(type) {
	case Start:
		if f.st.phase != PhaseIntro {
			return nil
		}
		f.st.phase = PhaseSetup
		f.st.step = StepP1Placing
		f.play(cue.Click)
	case ToggleChip:
		if v.Index < 0 || v.Index >= BoardSize {
			return fmt.Errorf("%w: %d", ErrChipOutOfRange, v.Index)
		}
		owner, ok := f.st.placingFor()
		if !ok {
			return nil
		}
		set := f.st.pending[owner]
		switch {
		case set[v.Index]:
			delete(set, v.Index)
		case len(set) < BombsPerBoard:
			set[v.Index] = true
		default:
			return nil
		}
		f.play(cue.ChipSelect)
	case Ready:
		owner, ok := f.st.placingFor()
		if !ok || len(f.st.pending[owner]) != BombsPerBoard {
			return nil
		}
		f.play(cue.ChipReady)
		if f.st.step == StepP1Placing {
			f.st.step = StepHandoff
			return nil
		}
		f.st.boards = Boards{
			Player1: NewBoard(sortedKeys(f.st.pending[Player1])),
			Player2: NewBoard(sortedKeys(f.st.pending[Player2])),
		}
		f.st.lives = map[Seat]int{Player1: StartingLives, Player2: StartingLives}
		f.st.turn = Player1
		f.st.phase = PhaseGameplay
		f.st.step = ""
	case Continue:
		if f.st.phase != PhaseSetup || f.st.step != StepHandoff {
			return nil
		}
		f.st.step = StepP2Placing
		f.play(cue.Click)
	case RevealChip:
		if v.Index < 0 || v.Index >= BoardSize {
			return fmt.Errorf("%w: %d", ErrChipOutOfRange, v.Index)
		}
		f.reveal(v.Board, v.Index)
	case Restart:
		f.st = freshState()
		f.play(cue.Click)
	default:
		return fmt.Errorf("chips: unsupported intent %T", in)
	}
	return nil
}

func (f *Flow) reveal(board Seat, ix int) {
	if f.st.phase != PhaseGameplay || board != f.st.turn.Opponent() {
		return
	}
	chip := &f.st.boards.Of(board)[ix]
	if chip.IsRevealed {
		return
	}
	chip.IsRevealed = true

	if !chip.IsBomb {
		f.play(cue.ChipGood)
		f.st.turn = f.st.turn.Opponent()
		return
	}

	f.play(cue.ChipBomb)
	f.st.lives[f.st.turn]--
	if f.st.lives[f.st.turn] <= 0 {
		f.st.lives[f.st.turn] = 0
		f.st.winner = f.st.turn.Opponent()
		f.st.phase = PhaseGameOver
		f.finished = true
		f.play(cue.Win)
		return
	}
	f.st.turn = f.st.turn.Opponent()
}

func (f *Flow) play(c cue.Cue) {
	cue.Fire(f.cues, c)
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

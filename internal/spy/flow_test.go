package spy

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiliankoe/impostrico/internal/cue"
	"github.com/kiliankoe/impostrico/internal/words"
)

var bg = context.Background()

func fixedWord(word string) words.Provider {
	return words.ProviderFunc(func(context.Context, string) (string, error) {
		return word, nil
	})
}

func newTestFlow(t *testing.T, p words.Provider, rec *cue.Recorder) *Flow {
	t.Helper()
	if rec == nil {
		rec = &cue.Recorder{}
	}
	f := NewFlow(Options{
		Words:        p,
		Cues:         rec,
		Rand:         rand.New(rand.NewSource(42)),
		HandoffDelay: -1,
	})
	t.Cleanup(f.Close)
	return f
}

// revealAll walks every player through intro, role and hand-off.
func revealAll(t *testing.T, f *Flow) []string {
	t.Helper()
	var seen []string
	for f.Phase() == PhaseReveal {
		v := f.View()
		require.Equal(t, StepIntro, v.Reveal.Step)
		require.Equal(t, len(seen), v.Reveal.Index)
		seen = append(seen, v.Reveal.PlayerName)
		require.NoError(t, f.Dispatch(bg, PullToReveal{}))
		require.NoError(t, f.Dispatch(bg, NextPlayer{}))
		if f.Phase() == PhaseReveal {
			require.NoError(t, f.Dispatch(bg, HandoffDone{}))
		}
	}
	return seen
}

func spyOf(t *testing.T, f *Flow) Player {
	t.Helper()
	for _, p := range f.Players() {
		if p.IsSpy {
			return p
		}
	}
	t.Fatal("no spy")
	return Player{}
}

func TestScenarioSpyFound(t *testing.T) {
	rec := &cue.Recorder{}
	f := newTestFlow(t, fixedWord("قطة"), rec)

	t.Log("Given three players and a provider answering قطة")
	err := f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}})
	require.NoError(t, err)

	t.Log("Then the game is in REVEAL with three steps")
	v := f.View()
	require.Equal(t, PhaseReveal, v.Phase)
	assert.Equal(t, 3, v.Reveal.Total)

	seen := revealAll(t, f)
	assert.Equal(t, []string{"Ali", "Sara", "Omar"}, seen)
	require.Equal(t, PhasePlay, f.Phase())
	assert.Equal(t, cue.GameStart, rec.Last())

	t.Log("When the spy is voted out")
	require.NoError(t, f.Dispatch(bg, VoteEliminate{PlayerID: spyOf(t, f).ID}))

	t.Log("Then the game is over and the spy was found")
	v = f.View()
	require.Equal(t, PhaseGameOver, v.Phase)
	assert.True(t, v.GameOver.SpyWasFound)
	assert.Equal(t, "قطة", v.GameOver.SecretWord)
	assert.Contains(t, words.Categories, v.GameOver.Category)
	assert.Equal(t, cue.Win, rec.Last())
	require.NotNil(t, v.GameOver.LastEliminated)
	assert.Equal(t, spyOf(t, f).ID, v.GameOver.LastEliminated.ID)
}

func TestCategoryComesFromList(t *testing.T) {
	var asked string
	p := words.ProviderFunc(func(_ context.Context, c string) (string, error) {
		asked = c
		return "قطة", nil
	})
	f := newTestFlow(t, p, nil)
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}}))
	assert.Contains(t, words.Categories, asked)

	require.NoError(t, f.Dispatch(bg, PullToReveal{}))
	v := f.View()
	if !v.Reveal.IsSpy {
		assert.Equal(t, asked, v.Reveal.Category)
		assert.Equal(t, "قطة", v.Reveal.Word)
	}
}

func TestExactlyOneSpy(t *testing.T) {
	for n := MinPlayers; n <= 10; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		f := NewFlow(Options{Words: fixedWord("x"), Rand: rand.New(rand.NewSource(int64(n))), HandoffDelay: -1})
		require.NoError(t, f.Dispatch(bg, SubmitNames{Names: names}))

		spies := 0
		for i, p := range f.Players() {
			assert.Equal(t, i+1, p.ID)
			assert.Equal(t, names[i], p.Name)
			if p.IsSpy {
				spies++
			}
		}
		assert.Equal(t, 1, spies, "n=%d", n)
		assert.Equal(t, names, revealAll(t, f))
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  error
	}{
		{"empty", []string{"", "", ""}, ErrTooFewPlayers},
		{"two names", []string{"Ali", "Sara"}, ErrTooFewPlayers},
		{"two filled of three", []string{"Ali", " ", "Sara"}, ErrTooFewPlayers},
		{"blank among many", []string{"Ali", "Sara", "", "Omar"}, ErrBlankName},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			p := words.ProviderFunc(func(context.Context, string) (string, error) {
				calls++
				return "x", nil
			})
			f := newTestFlow(t, p, nil)

			err := f.Dispatch(bg, SubmitNames{Names: tc.names})
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			v := f.View()
			assert.Equal(t, PhaseSetup, v.Phase)
			assert.Equal(t, tc.want.Error(), v.Setup.Error)
			assert.False(t, v.Setup.Loading)
			assert.Zero(t, calls)
		})
	}

	t.Run("duplicates and padding are fine", func(t *testing.T) {
		f := newTestFlow(t, fixedWord("x"), nil)
		require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{" Ali ", "Ali", "Ali"}}))
		assert.Equal(t, "Ali", f.Players()[0].Name)
	})
}

func TestDraftEditing(t *testing.T) {
	f := newTestFlow(t, fixedWord("x"), nil)

	require.NoError(t, f.Dispatch(bg, RemoveName{Index: 0}))
	assert.Len(t, f.View().Setup.Names, MinPlayers, "cannot go below the minimum")

	require.NoError(t, f.Dispatch(bg, AddName{}))
	v := f.View()
	assert.Len(t, v.Setup.Names, 4)
	assert.True(t, v.Setup.CanRemove)

	for i, n := range []string{"Ali", "Sara", "Gone", "Omar"} {
		require.NoError(t, f.Dispatch(bg, EditName{Index: i, Name: n}))
	}
	require.NoError(t, f.Dispatch(bg, RemoveName{Index: 2}))
	assert.Equal(t, []string{"Ali", "Sara", "Omar"}, f.View().Setup.Names)

	require.NoError(t, f.Dispatch(bg, EditName{Index: 9, Name: "nobody"}))
	require.NoError(t, f.Dispatch(bg, SubmitNames{}))
	assert.Equal(t, PhaseReveal, f.Phase())
}

func TestProviderFailure(t *testing.T) {
	tests := []struct {
		name string
		p    words.Provider
	}{
		{"network error", words.ProviderFunc(func(context.Context, string) (string, error) {
			return "", errors.New("dial tcp: refused")
		})},
		{"empty answer", fixedWord("  ")},
		{"multi word answer", fixedWord("قطة سوداء")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFlow(t, tc.p, nil)
			err := f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}})
			assert.True(t, errors.Is(err, ErrWordUnavailable), "got %v", err)

			v := f.View()
			assert.Equal(t, PhaseSetup, v.Phase)
			assert.False(t, v.Setup.Loading)
			assert.NotEmpty(t, v.Setup.Error)
			assert.Empty(t, f.Players(), "no partial game")
		})
	}
}

func TestSubmitWhilePending(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := words.ProviderFunc(func(ctx context.Context, _ string) (string, error) {
		close(started)
		<-release
		return "قطة", nil
	})
	f := newTestFlow(t, p, nil)

	done := make(chan error, 1)
	go func() {
		done <- f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}})
	}()
	<-started

	assert.True(t, f.View().Setup.Loading)
	err := f.Dispatch(bg, SubmitNames{Names: []string{"X", "Y", "Z"}})
	assert.True(t, errors.Is(err, ErrSubmitPending))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseReveal, f.Phase())
	assert.Equal(t, "Ali", f.Players()[0].Name)
}

func TestRestartDiscardsPendingResult(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := words.ProviderFunc(func(ctx context.Context, _ string) (string, error) {
		close(started)
		<-release
		return "قطة", nil
	})
	f := newTestFlow(t, p, nil)

	done := make(chan error, 1)
	go func() {
		done <- f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}})
	}()
	<-started
	require.NoError(t, f.Dispatch(bg, Restart{}))
	close(release)
	require.NoError(t, <-done)

	v := f.View()
	assert.Equal(t, PhaseSetup, v.Phase)
	assert.False(t, v.Setup.Loading)
	assert.Equal(t, []string{"", "", ""}, v.Setup.Names)
}

func TestRevealHidesRoleOutsideRoleStep(t *testing.T) {
	f := newTestFlow(t, fixedWord("قطة"), nil)
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}}))

	v := f.View().Reveal
	assert.Equal(t, "Ali", v.PlayerName)
	assert.Empty(t, v.Word)
	assert.False(t, v.IsSpy)

	t.Log("intents for the wrong step are ignored")
	require.NoError(t, f.Dispatch(bg, NextPlayer{}))
	require.NoError(t, f.Dispatch(bg, HandoffDone{}))
	assert.Equal(t, StepIntro, f.View().Reveal.Step)

	require.NoError(t, f.Dispatch(bg, PullToReveal{}))
	require.NoError(t, f.Dispatch(bg, NextPlayer{}))
	v = f.View().Reveal
	assert.Equal(t, StepHandoff, v.Step)
	assert.Equal(t, "Sara", v.PlayerName)
	assert.Empty(t, v.Word)
	assert.Equal(t, 0, v.Index)
}

func TestHandoffTimerAdvances(t *testing.T) {
	changed := make(chan struct{}, 4)
	f := NewFlow(Options{
		Words:        fixedWord("قطة"),
		Rand:         rand.New(rand.NewSource(1)),
		HandoffDelay: 10 * time.Millisecond,
		OnChange:     func() { changed <- struct{}{} },
	})
	defer f.Close()

	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}}))
	<-changed // loading started

	require.NoError(t, f.Dispatch(bg, PullToReveal{}))
	require.NoError(t, f.Dispatch(bg, NextPlayer{}))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("hand-off timer never fired")
	}
	v := f.View().Reveal
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, StepIntro, v.Step)
}

func TestRestartCancelsHandoffTimer(t *testing.T) {
	f := NewFlow(Options{
		Words:        fixedWord("قطة"),
		Rand:         rand.New(rand.NewSource(1)),
		HandoffDelay: 20 * time.Millisecond,
	})
	defer f.Close()
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}}))
	require.NoError(t, f.Dispatch(bg, PullToReveal{}))
	require.NoError(t, f.Dispatch(bg, NextPlayer{}))
	require.NoError(t, f.Dispatch(bg, Restart{}))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, PhaseSetup, f.Phase())
}

func TestElimination(t *testing.T) {
	rec := &cue.Recorder{}
	f := newTestFlow(t, fixedWord("قطة"), rec)
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar", "Lina"}}))
	revealAll(t, f)

	var innocent Player
	for _, p := range f.Players() {
		if !p.IsSpy {
			innocent = p
			break
		}
	}

	rec.Reset()
	require.NoError(t, f.Dispatch(bg, VoteEliminate{PlayerID: innocent.ID}))
	v := f.View()
	require.Equal(t, PhasePlay, v.Phase)
	require.NotNil(t, v.Play.LastEliminated)
	assert.Equal(t, innocent.ID, v.Play.LastEliminated.ID)
	assert.Equal(t, []cue.Cue{cue.Eliminate}, rec.Cues())

	t.Log("voting the same player again changes nothing")
	require.NoError(t, f.Dispatch(bg, DismissElimination{}))
	require.NoError(t, f.Dispatch(bg, VoteEliminate{PlayerID: innocent.ID}))
	assert.Nil(t, f.View().Play.LastEliminated)
	assert.Len(t, rec.Cues(), 1)

	require.NoError(t, f.Dispatch(bg, VoteEliminate{PlayerID: 99}))
	assert.Equal(t, PhasePlay, f.Phase())

	eliminated := 0
	for _, p := range f.Players() {
		if p.IsEliminated {
			eliminated++
		}
	}
	assert.Equal(t, 1, eliminated)
}

func TestEndRoundWithoutFindingSpy(t *testing.T) {
	rec := &cue.Recorder{}
	f := newTestFlow(t, fixedWord("قطة"), rec)
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}}))

	require.NoError(t, f.Dispatch(bg, EndRound{}))
	assert.Equal(t, PhaseReveal, f.Phase(), "end round only applies during play")

	revealAll(t, f)
	for _, p := range f.Players() {
		if !p.IsSpy {
			require.NoError(t, f.Dispatch(bg, VoteEliminate{PlayerID: p.ID}))
			break
		}
	}
	require.NoError(t, f.Dispatch(bg, EndRound{}))

	v := f.View()
	require.Equal(t, PhaseGameOver, v.Phase)
	assert.False(t, v.GameOver.SpyWasFound)
	assert.Nil(t, v.GameOver.LastEliminated, "ending the round is not a vote")
	assert.Equal(t, spyOf(t, f).Name, v.GameOver.SpyName)
	assert.Equal(t, cue.Lose, rec.Last())

	require.NoError(t, f.Dispatch(bg, VoteEliminate{PlayerID: 1}))
	assert.Equal(t, PhaseGameOver, f.Phase())
}

func TestRestartResetsEverything(t *testing.T) {
	f := newTestFlow(t, fixedWord("قطة"), nil)
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar", "Lina"}}))
	revealAll(t, f)
	require.NoError(t, f.Dispatch(bg, EndRound{}))

	require.NoError(t, f.Dispatch(bg, Restart{}))
	v := f.View()
	assert.Equal(t, PhaseSetup, v.Phase)
	assert.Equal(t, &SetupView{Names: []string{"", "", ""}}, v.Setup)
	assert.Empty(t, f.Players())
	assert.Nil(t, v.GameOver)
}

func TestGameOverListenerFiresOncePerRound(t *testing.T) {
	f := newTestFlow(t, fixedWord("قطة"), nil)
	var mu sync.Mutex
	var rounds []GameOverView
	f.SetOnGameOver(func(v GameOverView) {
		mu.Lock()
		rounds = append(rounds, v)
		mu.Unlock()
	})

	t.Log("Given a round in play where several devices vote the spy out at once")
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}}))
	revealAll(t, f)
	spyID := spyOf(t, f).ID

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.Dispatch(bg, VoteEliminate{PlayerID: spyID}))
		}()
	}
	wg.Wait()
	require.NoError(t, f.Dispatch(bg, EndRound{}))

	t.Log("Then the listener saw exactly one finished round")
	mu.Lock()
	require.Len(t, rounds, 1)
	assert.True(t, rounds[0].SpyWasFound)
	assert.Equal(t, "قطة", rounds[0].SecretWord)
	mu.Unlock()

	t.Log("When a second round is played and ended")
	require.NoError(t, f.Dispatch(bg, Restart{}))
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}}))
	revealAll(t, f)
	require.NoError(t, f.Dispatch(bg, EndRound{}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, rounds, 2)
	assert.False(t, rounds[1].SpyWasFound)
}

func TestCuePanicsDoNotBreakFlow(t *testing.T) {
	f := NewFlow(Options{
		Words:        fixedWord("قطة"),
		Cues:         cue.Func(func(cue.Cue) { panic("no audio device") }),
		HandoffDelay: -1,
	})
	require.NoError(t, f.Dispatch(bg, SubmitNames{Names: []string{"Ali", "Sara", "Omar"}}))
	revealAll(t, f)
	assert.Equal(t, PhasePlay, f.Phase())
}

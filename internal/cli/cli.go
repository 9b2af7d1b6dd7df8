// Package cli is a line-oriented terminal front end for a single table.
package cli

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/impostrico/internal/chips"
	"github.com/kiliankoe/impostrico/internal/cue"
	"github.com/kiliankoe/impostrico/internal/game"
	"github.com/kiliankoe/impostrico/internal/spy"
)

type conn struct {
	In  io.Reader
	Out io.Writer
}

type App struct {
	conn    *conn
	scanner *bufio.Scanner
	table   *game.Table

	// HandoffWait is how long to wait for the flow's own hand-off timer
	// before skipping it.
	HandoffWait time.Duration
	pollEvery   time.Duration
}

func New(in io.Reader, out io.Writer, tbl *game.Table) *App {
	return &App{
		conn:        &conn{In: in, Out: out},
		scanner:     bufio.NewScanner(in),
		table:       tbl,
		HandoffWait: 3 * time.Second,
		pollEvery:   50 * time.Millisecond,
	}
}

// Bell rings the terminal bell on the loud cues.
func Bell(w io.Writer) cue.Player {
	return cue.Func(func(c cue.Cue) {
		switch c {
		case cue.Eliminate, cue.ChipBomb, cue.Win, cue.Lose:
			_, _ = io.WriteString(w, "\a")
		}
	})
}

// Run reads commands until the input ends or the user quits.
func (a *App) Run(ctx context.Context) error {
	SendText(a.conn.Out, menuText)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.render()

		line, ok := a.readLine()
		if !ok {
			return a.scanner.Err()
		}
		switch strings.ToLower(line) {
		case "quit", "q", "exit":
			return nil
		case string(game.GameSpy), string(game.GameChips):
			_ = a.table.Select(game.GameType(strings.ToLower(line)))
			continue
		}

		var err error
		if a.table.Active() == game.GameChips {
			err = a.handleChips(ctx, line)
		} else {
			err = a.handleSpy(ctx, line)
		}
		if err != nil {
			SendText(a.conn.Out, errorText, err.Error())
		}
	}
}

func (a *App) render() {
	if a.table.Active() == game.GameChips {
		renderChips(a.conn.Out, a.table.Chips.View())
		return
	}
	v := a.table.Spy.View()
	renderSpy(a.conn.Out, v)
}

func (a *App) readLine() (string, bool) {
	if !a.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.scanner.Text()), true
}

func (a *App) handleSpy(ctx context.Context, line string) error {
	v := a.table.Spy.View()
	switch v.Phase {
	case spy.PhaseSetup:
		if line == "" {
			return nil
		}
		names := strings.Split(line, ",")
		err := a.table.DispatchSpy(ctx, spy.SubmitNames{Names: names})
		if err != nil {
			log.Debug().Err(err).Msg("submit names")
		}
		// the error is shown through the setup view
		return nil
	case spy.PhaseReveal:
		switch v.Reveal.Step {
		case spy.StepIntro:
			return a.table.DispatchSpy(ctx, spy.PullToReveal{})
		case spy.StepRole:
			// clear the secret off the screen before the next player looks
			SendText(a.conn.Out, "%s", strings.Repeat("\n", 40))
			if err := a.table.DispatchSpy(ctx, spy.NextPlayer{}); err != nil {
				return err
			}
			return a.waitHandoff(ctx)
		}
	case spy.PhasePlay:
		if v.Play.LastEliminated != nil {
			_ = a.table.DispatchSpy(ctx, spy.DismissElimination{})
		}
		if strings.EqualFold(line, "end") {
			return a.table.DispatchSpy(ctx, spy.EndRound{})
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			SendText(a.conn.Out, unknownInputText, line)
			return nil
		}
		return a.table.DispatchSpy(ctx, spy.VoteEliminate{PlayerID: id})
	case spy.PhaseGameOver:
		return a.table.DispatchSpy(ctx, spy.Restart{})
	}
	return nil
}

// waitHandoff shows the hand-off screen until the flow moves on by itself,
// then skips it if that takes longer than HandoffWait.
func (a *App) waitHandoff(ctx context.Context) error {
	v := a.table.Spy.View()
	if v.Phase != spy.PhaseReveal || v.Reveal.Step != spy.StepHandoff {
		return nil
	}
	renderSpy(a.conn.Out, v)

	deadline := time.Now().Add(a.HandoffWait)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.pollEvery):
		}
		if r := a.table.Spy.View().Reveal; r == nil || r.Step != spy.StepHandoff {
			return nil
		}
	}
	return a.table.DispatchSpy(ctx, spy.HandoffDone{})
}

func (a *App) handleChips(ctx context.Context, line string) error {
	v := a.table.Chips.View()
	switch v.Phase {
	case chips.PhaseIntro:
		return a.table.DispatchChips(ctx, chips.Start{})
	case chips.PhaseSetup:
		if v.Setup.Step == chips.StepHandoff {
			return a.table.DispatchChips(ctx, chips.Continue{})
		}
		if strings.EqualFold(line, "ready") {
			return a.table.DispatchChips(ctx, chips.Ready{})
		}
		n, ok := a.chipNumber(line)
		if !ok {
			return nil
		}
		return a.table.DispatchChips(ctx, chips.ToggleChip{Index: n - 1})
	case chips.PhaseGameplay:
		n, ok := a.chipNumber(line)
		if !ok {
			return nil
		}
		board := v.Gameplay.Turn.Opponent()
		return a.table.DispatchChips(ctx, chips.RevealChip{Board: board, Index: n - 1})
	case chips.PhaseGameOver:
		return a.table.DispatchChips(ctx, chips.Restart{})
	}
	return nil
}

func (a *App) chipNumber(line string) (int, bool) {
	n, err := strconv.Atoi(line)
	if err != nil {
		SendText(a.conn.Out, unknownInputText, line)
		return 0, false
	}
	return n, true
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/kiliankoe/impostrico/internal/chips"
	"github.com/kiliankoe/impostrico/internal/spy"
)

const (
	menuText        = "Type \"spy\" or \"chips\" to switch games, \"quit\" to leave.\n"
	namesPromptText = "Enter at least 3 player names separated by commas:\n"
	revealIntroText = "%s, take the device and press Enter to reveal your role 👀\n"
	spyRoleText     = "You are the SPY 🕵️ Blend in!\nPress Enter and pass the device.\n"
	wordRoleText    = "Category: %s\nSecret word: %s\nPress Enter and pass the device.\n"
	handoffText     = "Pass the device to %s...\n"
	votePromptText  = "Vote someone out by number, or type \"end\" to reveal the spy:\n"
	notSpyText      = "%s was not the spy. Keep going!\n"
	spyFoundText    = "🎉 The spy %s was found!\n"
	spyEscapedText  = "😈 The spy %s got away!\n"
	wordWasText     = "The word was %s (%s).\n"
	againText       = "Press Enter to play again.\n"

	chipsIntroText   = "Chips! Hide 3 bombs on your opponent's board, then take turns uncovering chips.\nPress Enter to start.\n"
	placeText        = "%s, hide bombs on %s's board (%d/3). Toggle with 1-9, type \"ready\" when done:\n"
	chipsHandoffText = "Pass the device to the other player and press Enter.\n"
	turnText         = "%s's turn. Lives: player1 %d, player2 %d\nPick a chip on %s's board (1-9):\n"
	chipsWinnerText  = "🏆 %s wins!\n"
	unknownInputText = "Sorry, I didn't get \"%s\".\n"
	errorText        = "⚠️  %s\n"
	loadingText      = "Fetching a secret word...\n"
)

func SendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

func renderSpy(w io.Writer, v spy.View) {
	switch {
	case v.Setup != nil:
		if v.Setup.Error != "" {
			SendText(w, errorText, v.Setup.Error)
		}
		if v.Setup.Loading {
			SendText(w, loadingText)
			return
		}
		SendText(w, namesPromptText)
	case v.Reveal != nil:
		r := v.Reveal
		switch r.Step {
		case spy.StepIntro:
			SendText(w, revealIntroText, r.PlayerName)
		case spy.StepRole:
			if r.IsSpy {
				SendText(w, spyRoleText)
			} else {
				SendText(w, wordRoleText, r.Category, r.Word)
			}
		case spy.StepHandoff:
			SendText(w, handoffText, r.PlayerName)
		}
	case v.Play != nil:
		if le := v.Play.LastEliminated; le != nil {
			SendText(w, notSpyText, le.Name)
		}
		for _, p := range v.Play.Players {
			if p.IsEliminated {
				SendText(w, "  %d. %s ❌\n", p.ID, p.Name)
			} else {
				SendText(w, "  %d. %s\n", p.ID, p.Name)
			}
		}
		SendText(w, votePromptText)
	case v.GameOver != nil:
		g := v.GameOver
		if g.SpyWasFound {
			SendText(w, spyFoundText, g.SpyName)
		} else {
			SendText(w, spyEscapedText, g.SpyName)
		}
		SendText(w, wordWasText, g.SecretWord, g.Category)
		SendText(w, againText)
	}
}

func renderChips(w io.Writer, v chips.View) {
	switch v.Phase {
	case chips.PhaseIntro:
		SendText(w, chipsIntroText)
	case chips.PhaseSetup:
		s := v.Setup
		if s.Step == chips.StepHandoff {
			SendText(w, chipsHandoffText)
			return
		}
		SendText(w, "%s", boardText(s.Board))
		SendText(w, placeText, s.Placer, s.Board.Owner, s.Selected)
	case chips.PhaseGameplay:
		g := v.Gameplay
		for _, b := range g.Boards {
			SendText(w, "%s\n%s", b.Owner, boardText(b))
		}
		SendText(w, turnText, g.Turn, g.Lives[chips.Player1], g.Lives[chips.Player2], g.Turn.Opponent())
	case chips.PhaseGameOver:
		SendText(w, chipsWinnerText, v.GameOver.Winner)
		SendText(w, againText)
	}
}

// boardText draws a 3x3 grid. Hidden chips show their number, revealed ones
// show 💣 or ✅, and bombs being placed show *.
func boardText(b chips.BoardView) string {
	var sb strings.Builder
	for i, c := range b.Chips {
		cell := fmt.Sprintf(" %d ", i+1)
		switch {
		case c.IsRevealed && c.IsBomb:
			cell = " 💣"
		case c.IsRevealed:
			cell = " ✅"
		case c.IsBomb:
			cell = " * "
		}
		sb.WriteString("[" + cell + "]")
		if i%3 == 2 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

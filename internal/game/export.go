package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/impostrico/internal/chips"
	"github.com/kiliankoe/impostrico/internal/spy"
)

// Exporter appends a plain-text summary of every finished game to File.
// A nil Exporter does nothing.
type Exporter struct {
	File string

	mu  sync.Mutex
	now func() time.Time
}

func NewExporter(file string) *Exporter {
	return &Exporter{File: file, now: time.Now}
}

// Spy records a finished spy game.
func (e *Exporter) Spy(code string, v spy.GameOverView) {
	if e == nil {
		return
	}
	var sb strings.Builder
	e.header(&sb, code, "Spy")
	sb.WriteString(fmt.Sprintf("Category: %s\n", v.Category))
	sb.WriteString(fmt.Sprintf("Secret word: %s\n", v.SecretWord))
	sb.WriteString("Players:\n")
	for _, p := range v.Players {
		line := "- " + p.Name
		if p.IsSpy {
			line += " (spy)"
		}
		if p.IsEliminated {
			line += " [eliminated]"
		}
		sb.WriteString(line + "\n")
	}
	if v.SpyWasFound {
		sb.WriteString(fmt.Sprintf("\nThe spy %s was found.\n", v.SpyName))
	} else {
		sb.WriteString(fmt.Sprintf("\nThe spy %s got away.\n", v.SpyName))
	}
	e.write(code, sb.String())
}

// Chips records a finished chips game.
func (e *Exporter) Chips(code string, v chips.GameOverView) {
	if e == nil {
		return
	}
	var sb strings.Builder
	e.header(&sb, code, "Chips")
	sb.WriteString(fmt.Sprintf("Winner: %s\n", v.Winner))
	sb.WriteString(fmt.Sprintf("Lives: player1 %d, player2 %d\n", v.Lives[chips.Player1], v.Lives[chips.Player2]))
	sb.WriteString("player1 board: " + boardLine(v.Boards.Player1) + "\n")
	sb.WriteString("player2 board: " + boardLine(v.Boards.Player2) + "\n")
	e.write(code, sb.String())
}

func (e *Exporter) header(sb *strings.Builder, code, game string) {
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	sb.WriteString(fmt.Sprintf("%s - table %s - %s\n", game, code, now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
}

// boardLine renders bombs as B and safe chips as o, upper case when revealed.
func boardLine(b chips.Board) string {
	var sb strings.Builder
	for _, c := range b {
		switch {
		case c.IsBomb && c.IsRevealed:
			sb.WriteByte('B')
		case c.IsBomb:
			sb.WriteByte('b')
		case c.IsRevealed:
			sb.WriteByte('O')
		default:
			sb.WriteByte('o')
		}
	}
	return sb.String()
}

func (e *Exporter) write(code, content string) {
	if err := e.append(content + "\n"); err != nil {
		log.Error().Err(err).Str("code", code).Str("file", e.File).Msg("export failed")
		return
	}
	log.Info().Str("code", code).Str("file", e.File).Msg("game exported")
}

func (e *Exporter) append(content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(e.File), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.OpenFile(e.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(content); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

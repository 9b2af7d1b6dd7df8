package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/impostrico/internal/chips"
	"github.com/kiliankoe/impostrico/internal/cue"
	"github.com/kiliankoe/impostrico/internal/spy"
)

// Table is one device's pair of games plus the game currently shown.
type Table struct {
	Code      string
	CreatedAt time.Time
	HostToken string

	Spy   *spy.Flow
	Chips *chips.Flow

	exporter *Exporter

	mu     sync.Mutex
	active GameType
}

func (t *Table) Active() GameType {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Select switches the visible game. Each game keeps its own state.
func (t *Table) Select(g GameType) error {
	if !g.Valid() {
		return ErrUnknownGame
	}
	t.mu.Lock()
	t.active = g
	t.mu.Unlock()
	return nil
}

func (t *Table) CheckHost(token string) error {
	if token == "" || token != t.HostToken {
		return ErrNotHost
	}
	return nil
}

func (t *Table) DispatchSpy(ctx context.Context, in spy.Intent) error {
	return t.Spy.Dispatch(ctx, in)
}

func (t *Table) DispatchChips(ctx context.Context, in chips.Intent) error {
	return t.Chips.Dispatch(ctx, in)
}

func (t *Table) spyFinished(v spy.GameOverView) {
	log.Info().Str("code", t.Code).Str("game", string(GameSpy)).Bool("spyFound", v.SpyWasFound).Msg("game finished")
	t.exporter.Spy(t.Code, v)
}

func (t *Table) chipsFinished(v chips.GameOverView) {
	log.Info().Str("code", t.Code).Str("game", string(GameChips)).Str("winner", string(v.Winner)).Msg("game finished")
	t.exporter.Chips(t.Code, v)
}

func (t *Table) State() State {
	return State{
		Code:   t.Code,
		Active: t.Active(),
		Spy:    t.Spy.View(),
		Chips:  t.Chips.View(),
	}
}

// Close stops background timers.
func (t *Table) Close() {
	t.Spy.Close()
}

type Options struct {
	// Spy is the template for each table's spy flow. OnChange and Cues are
	// set per table.
	Spy spy.Options
	// Cues builds the cue player for a table. Nil means silent.
	Cues func(code string) cue.Player
	// OnChange is called when a table changes outside of a dispatch.
	OnChange func(code string)

	SingleSession bool
	Export        *Exporter
}

type Manager struct {
	mu     sync.RWMutex
	opts   Options
	tables map[string]*Table
	active string // most recently created table
}

func NewManager(opts Options) *Manager {
	return &Manager{opts: opts, tables: make(map[string]*Table)}
}

// CreateTable starts a table and makes it the active one. In single-session
// mode the previous table is dropped.
func (m *Manager) CreateTable() (code string, hostToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create()
}

// OpenTable is CreateTable for remote callers. In single-session mode a
// running table is only replaced by its own host.
func (m *Manager) OpenTable(hostToken string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opts.SingleSession && m.active != "" {
		if cur := m.tables[m.active]; cur != nil && cur.CheckHost(hostToken) != nil {
			return "", "", ErrTableInUse
		}
	}
	code, token := m.create()
	return code, token, nil
}

func (m *Manager) create() (code string, hostToken string) {
	code = randomCode(5)
	for m.tables[code] != nil {
		code = randomCode(5)
	}
	hostToken = uuid.NewString()

	var cues cue.Player = cue.Nop{}
	if m.opts.Cues != nil {
		cues = m.opts.Cues(code)
	}
	so := m.opts.Spy
	so.Cues = cues
	so.Rand = nil // rand.Rand is not safe to share between tables
	if onChange := m.opts.OnChange; onChange != nil {
		so.OnChange = func() { onChange(code) }
	}

	t := &Table{
		Code:      code,
		CreatedAt: time.Now().UTC(),
		HostToken: hostToken,
		Chips:     chips.NewFlow(cues),
		exporter:  m.opts.Export,
		active:    GameSpy,
	}
	so.OnGameOver = t.spyFinished
	t.Spy = spy.NewFlow(so)
	t.Chips.SetOnGameOver(t.chipsFinished)

	if m.opts.SingleSession && m.active != "" {
		if old := m.tables[m.active]; old != nil {
			old.Close()
			delete(m.tables, m.active)
			log.Info().Str("code", m.active).Msg("table replaced")
		}
	}
	m.tables[code] = t
	m.active = code
	log.Info().Str("code", code).Msg("table created")
	return code, hostToken
}

func (m *Manager) Get(code string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t := m.tables[code]
	if t == nil {
		return nil, ErrTableNotFound
	}
	return t, nil
}

// Active returns the most recently created table, or nil.
func (m *Manager) Active() *Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == "" {
		return nil
	}
	return m.tables[m.active]
}

func (m *Manager) Remove(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tables[code]
	if t == nil {
		return
	}
	t.Close()
	delete(m.tables, code)
	if m.active == code {
		m.active = ""
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

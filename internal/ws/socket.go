package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/impostrico/internal/chips"
	"github.com/kiliankoe/impostrico/internal/cue"
	"github.com/kiliankoe/impostrico/internal/game"
	"github.com/kiliankoe/impostrico/internal/spy"
)

type ConnCtx struct {
	Code  string
	Token string
}

type cueEvent struct {
	code string
	cue  cue.Cue
}

type Server struct {
	TM *game.Manager

	mu sync.RWMutex
	io *socketio.Server

	cues chan cueEvent
}

func New() *Server {
	return &Server{cues: make(chan cueEvent, 64)}
}

func (srv *Server) SetManager(tm *game.Manager) { srv.TM = tm }

// CuePlayer returns a player that emits cues to everyone at table code. It
// never blocks; cues are dropped when the queue is full.
func (srv *Server) CuePlayer(code string) cue.Player {
	return cue.Func(func(c cue.Cue) {
		select {
		case srv.cues <- cueEvent{code: code, cue: c}:
		default:
			log.Warn().Str("code", code).Str("cue", string(c)).Msg("cue dropped")
		}
	})
}

// Notify re-broadcasts the state of table code. Used for changes that happen
// outside a socket event, like the reveal hand-off timer.
func (srv *Server) Notify(code string) {
	srv.emitState(code)
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.mu.Lock()
	srv.io = io
	srv.mu.Unlock()

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// table:create
	io.OnEvent("/", "table:create", func(s socketio.Conn, payload struct {
		Token string `json:"token"`
	}) map[string]any {
		code, token, err := srv.TM.OpenTable(payload.Token)
		if err != nil {
			return srv.err(s, err)
		}
		srv.attach(s, code, token)
		log.Info().Str("sid", s.ID()).Str("code", code).Msg("table:create")
		srv.emitState(code)
		return map[string]any{"tableCode": code, "token": token}
	})

	// table:resume (reconnection)
	io.OnEvent("/", "table:resume", func(s socketio.Conn, payload struct {
		TableCode string `json:"tableCode"`
		Token     string `json:"token"`
	}) map[string]any {
		tbl, err := srv.TM.Get(payload.TableCode)
		if err != nil {
			return srv.err(s, err)
		}
		if err := tbl.CheckHost(payload.Token); err != nil {
			return srv.err(s, err)
		}
		srv.attach(s, payload.TableCode, payload.Token)
		log.Info().Str("sid", s.ID()).Str("code", payload.TableCode).Msg("table:resume")
		s.Emit("table:state", tbl.State())
		return map[string]any{"ok": true}
	})

	// game:select
	io.OnEvent("/", "game:select", func(s socketio.Conn, payload struct {
		Game string `json:"game"`
	}) map[string]any {
		tbl, ctx, err := srv.table(s)
		if err != nil {
			return srv.err(s, err)
		}
		if err := tbl.Select(game.GameType(payload.Game)); err != nil {
			return srv.err(s, err)
		}
		log.Info().Str("code", ctx.Code).Str("game", payload.Game).Msg("game:select")
		srv.emitState(ctx.Code)
		return map[string]any{"ok": true}
	})

	// intent
	io.OnEvent("/", "intent", func(s socketio.Conn, payload IntentPayload) map[string]any {
		tbl, ctx, err := srv.table(s)
		if err != nil {
			return srv.err(s, err)
		}
		switch game.GameType(payload.Game) {
		case game.GameSpy:
			in, err := decodeSpy(payload)
			if err != nil {
				return srv.err(s, err)
			}
			if _, ok := in.(spy.SubmitNames); ok {
				// the word request can take seconds; answer right away
				go srv.submit(s, tbl, in)
				return map[string]any{"ok": true, "pending": true}
			}
			err = tbl.DispatchSpy(context.Background(), in)
			srv.logIntent(ctx.Code, payload, err)
			srv.emitState(ctx.Code)
			if err != nil {
				return srv.err(s, err)
			}
		case game.GameChips:
			in, err := decodeChips(payload)
			if err != nil {
				return srv.err(s, err)
			}
			err = tbl.DispatchChips(context.Background(), in)
			srv.logIntent(ctx.Code, payload, err)
			srv.emitState(ctx.Code)
			if err != nil {
				return srv.err(s, err)
			}
		default:
			return srv.err(s, game.ErrUnknownGame)
		}
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()
	go srv.pumpCues()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) submit(s socketio.Conn, tbl *game.Table, in spy.Intent) {
	err := tbl.DispatchSpy(context.Background(), in)
	srv.logIntent(tbl.Code, IntentPayload{Game: string(game.GameSpy), Type: "submitNames"}, err)
	if err != nil {
		srv.err(s, err)
	}
	srv.emitState(tbl.Code)
}

func (srv *Server) attach(s socketio.Conn, code, token string) {
	s.LeaveAll()
	s.SetContext(&ConnCtx{Code: code, Token: token})
	s.Join(code)
}

// table resolves the table the connection is attached to and checks its token.
func (srv *Server) table(s socketio.Conn) (*game.Table, *ConnCtx, error) {
	ctx, ok := s.Context().(*ConnCtx)
	if !ok || ctx.Code == "" {
		return nil, nil, game.ErrTableNotFound
	}
	tbl, err := srv.TM.Get(ctx.Code)
	if err != nil {
		return nil, nil, err
	}
	if err := tbl.CheckHost(ctx.Token); err != nil {
		return nil, nil, err
	}
	return tbl, ctx, nil
}

func (srv *Server) emitState(code string) {
	srv.mu.RLock()
	io := srv.io
	srv.mu.RUnlock()
	if io == nil || srv.TM == nil {
		return
	}
	tbl, err := srv.TM.Get(code)
	if err != nil {
		return
	}
	io.BroadcastToRoom("/", code, "table:state", tbl.State())
}

func (srv *Server) pumpCues() {
	for ev := range srv.cues {
		srv.mu.RLock()
		io := srv.io
		srv.mu.RUnlock()
		if io == nil {
			continue
		}
		io.BroadcastToRoom("/", ev.code, "cue", cuePayload(ev.cue))
	}
}

func cuePayload(c cue.Cue) map[string]any {
	return map[string]any{"name": string(c), "tones": cue.Tones(c)}
}

func (srv *Server) logIntent(code string, p IntentPayload, err error) {
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("code", code).Str("game", p.Game).Str("intent", p.Type).Msg("intent")
}

func (srv *Server) err(s socketio.Conn, err error) map[string]any {
	s.Emit("error", map[string]any{"code": errorCode(err), "message": err.Error()})
	return map[string]any{"error": err.Error(), "code": errorCode(err)}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrTableNotFound):
		return "table_not_found"
	case errors.Is(err, game.ErrNotHost):
		return "unauthorized"
	case errors.Is(err, game.ErrTableInUse):
		return "table_in_use"
	case errors.Is(err, game.ErrUnknownGame), errors.Is(err, ErrUnknownIntent):
		return "bad_request"
	case errors.Is(err, spy.ErrTooFewPlayers), errors.Is(err, spy.ErrBlankName), errors.Is(err, chips.ErrChipOutOfRange):
		return "validation"
	case errors.Is(err, spy.ErrSubmitPending):
		return "pending"
	case errors.Is(err, spy.ErrWordUnavailable):
		return "word_unavailable"
	}
	return "internal"
}

package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/masquerade/internal/config"
	"github.com/kiliankoe/masquerade/internal/game"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const namespace = "/"

// Conn is the part of socketio.Conn the handlers use.
type Conn interface {
	ID() string
	Context() interface{}
	SetContext(v interface{})
	Emit(event string, v ...interface{})
	Join(room string)
}

// Broadcaster delivers an event to every connection in a room.
type Broadcaster interface {
	BroadcastToRoom(namespace string, room, event string, args ...interface{}) bool
}

type ConnCtx struct {
	limiter *rate.Limiter
}

type Server struct {
	RM     *game.RoomManager
	config config.Config
	out    Broadcaster
	now    func() time.Time

	exportMu sync.Mutex
}

type joinPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type guessPayload struct {
	RoomID         string `json:"roomId"`
	TargetPlayerID string `json:"targetPlayerId"`
}

func New(rm *game.RoomManager, cfg config.Config) *Server {
	return &Server{RM: rm, config: cfg, now: time.Now}
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.out = io

	io.OnConnect(namespace, func(s socketio.Conn) error {
		srv.onConnect(s)
		return nil
	})
	io.OnEvent(namespace, "join_room", func(s socketio.Conn, p joinPayload) {
		srv.onJoin(s, p)
	})
	io.OnEvent(namespace, "start_game_manual", func(s socketio.Conn, roomID string) {
		srv.onStartManual(s, roomID)
	})
	io.OnEvent(namespace, "make_guess", func(s socketio.Conn, p guessPayload) {
		srv.onGuess(s, p)
	})
	io.OnEvent(namespace, "next_round", func(s socketio.Conn, roomID string) {
		srv.onNextRound(s, roomID)
	})
	io.OnError(namespace, func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect(namespace, func(s socketio.Conn, reason string) {
		srv.onDisconnect(s, reason)
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return io
}

func (srv *Server) onConnect(c Conn) {
	c.SetContext(&ConnCtx{limiter: rate.NewLimiter(rate.Limit(srv.config.EventRate), srv.config.EventBurst)})
	log.Info().Str("sid", c.ID()).Msg("socket connected")
}

func (srv *Server) onJoin(c Conn, p joinPayload) {
	if !srv.allow(c, "join_room") {
		return
	}
	events, err := srv.RM.Join(p.RoomID, p.PlayerName, c.ID())
	if err != nil && len(events) == 0 {
		srv.reject(c, "join_room", p.RoomID, err)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("sid", c.ID()).Str("room", p.RoomID).Msg("join_room")
	}
	// join under the registry's room id so broadcasts reach this socket
	roomID := events[0].RoomID
	c.Join(roomID)
	log.Info().Str("sid", c.ID()).Str("room", roomID).Str("name", p.PlayerName).Msg("join_room")
	srv.dispatch(events)
}

func (srv *Server) onStartManual(c Conn, roomID string) {
	if !srv.allow(c, "start_game_manual") {
		return
	}
	events, err := srv.RM.StartManual(roomID, c.ID())
	if err != nil {
		srv.reject(c, "start_game_manual", roomID, err)
		return
	}
	log.Info().Str("sid", c.ID()).Str("room", roomID).Msg("start_game_manual")
	srv.dispatch(events)
}

func (srv *Server) onGuess(c Conn, p guessPayload) {
	if !srv.allow(c, "make_guess") {
		return
	}
	events, err := srv.RM.Guess(p.RoomID, c.ID(), p.TargetPlayerID)
	if err != nil {
		srv.reject(c, "make_guess", p.RoomID, err)
		return
	}
	log.Info().Str("sid", c.ID()).Str("room", p.RoomID).Str("target", p.TargetPlayerID).Msg("make_guess")
	srv.dispatch(events)
}

func (srv *Server) onNextRound(c Conn, roomID string) {
	if !srv.allow(c, "next_round") {
		return
	}
	events, err := srv.RM.NextRound(roomID)
	if err != nil {
		srv.reject(c, "next_round", roomID, err)
		return
	}
	log.Info().Str("sid", c.ID()).Str("room", roomID).Msg("next_round")
	srv.dispatch(events)
}

func (srv *Server) onDisconnect(c Conn, reason string) {
	srv.dispatch(srv.RM.Leave(c.ID()))
	log.Info().Str("sid", c.ID()).Str("reason", reason).Msg("socket disconnected")
}

// allow applies the per-connection inbound rate limit.
func (srv *Server) allow(c Conn, event string) bool {
	ctx, ok := c.Context().(*ConnCtx)
	if !ok || ctx.limiter == nil {
		return true
	}
	if ctx.limiter.Allow() {
		return true
	}
	log.Warn().Str("sid", c.ID()).Str("event", event).Msg("rate limited")
	return false
}

// reject tells the sender about errors they can act on and drops the rest.
func (srv *Server) reject(c Conn, event, roomID string, err error) {
	if game.IsUserError(err) {
		log.Info().Str("sid", c.ID()).Str("room", roomID).Err(err).Msg(event + " rejected")
		c.Emit("error", userMessage(err))
		return
	}
	log.Debug().Str("sid", c.ID()).Str("room", roomID).Err(err).Msg(event + " ignored")
}

func (srv *Server) dispatch(events []game.Event) {
	for _, ev := range events {
		srv.out.BroadcastToRoom(namespace, ev.RoomID, string(ev.Name), ev.Payload)
		if ev.Name == game.EvtRoundEnded && srv.config.ExportEnabled {
			srv.export(ev)
		}
	}
}

func (srv *Server) export(ev game.Event) {
	snap, ok := ev.Payload.(game.Room)
	if !ok {
		return
	}
	srv.exportMu.Lock()
	defer srv.exportMu.Unlock()
	if err := game.ExportRound(snap, srv.config.ExportFile, srv.now()); err != nil {
		log.Error().Err(err).Str("room", ev.RoomID).Msg("failed to export round")
		return
	}
	log.Info().Str("room", ev.RoomID).Str("file", srv.config.ExportFile).Msg("exported round")
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, game.ErrInvalidName):
		return "Please enter a name"
	case errors.Is(err, game.ErrInvalidRoom):
		return "Please enter a room code"
	case errors.Is(err, game.ErrAlreadyJoined):
		return "You are already in this room"
	default:
		return err.Error()
	}
}

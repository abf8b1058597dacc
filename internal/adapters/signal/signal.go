package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Beacon/internal/app"
	"github.com/dkeye/Beacon/internal/config"
	"github.com/dkeye/Beacon/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Coord   *app.Coordinator
	Feed    *app.AdminFeed
	Limiter *JoinRateLimiter

	ReadLimit  int64
	SendBuffer int
}

func NewController(cfg *config.Config, coord *app.Coordinator, feed *app.AdminFeed) *Controller {
	return &Controller{
		Coord:      coord,
		Feed:       feed,
		Limiter:    NewJoinRateLimiter(cfg.JoinLimit, cfg.JoinWindow),
		ReadLimit:  cfg.ReadLimit,
		SendBuffer: cfg.SendBuffer,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal serves the client channel.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ctl.serve(ctx, c, false)
}

// HandleAdmin serves the admin channel: no room password gating, and a
// snapshot task runs for the life of the connection.
func (ctl *Controller) HandleAdmin(ctx context.Context, c *gin.Context) {
	ctl.serve(ctx, c, true)
}

func (ctl *Controller) serve(ctx context.Context, c *gin.Context, admin bool) {
	sid := core.ClientID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Bool("admin", admin).
		Str("token", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.ReadLimit)

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Coord.Peers.Bind(sid, conn, admin, cancel)

	if admin {
		go ctl.Feed.Run(ctx, sid, conn)
	}
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, admin, conn)
}

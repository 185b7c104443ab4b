// Package signal adapts WebSocket connections to the relay coordinator.
// It owns transport resources; the relay core never touches sockets.
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

	"github.com/tutorarc/backend/internal/config"
	"github.com/tutorarc/backend/internal/domain"
	"github.com/tutorarc/backend/internal/relay"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Coord *relay.Coordinator
	Cfg   *config.Config
}

func NewController(coord *relay.Coordinator, cfg *config.Config) *Controller {
	return &Controller{Coord: coord, Cfg: cfg}
}

// wsConn wraps one gorilla connection with a buffered outbound queue so
// relay fan-out never blocks on a slow peer.
type wsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
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

// HandleSignal upgrades the request and registers the connection with
// the coordinator. Each socket gets its own id; the browser client
// token identifies the user, not the tab.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	connID := domain.ConnID(uuid.NewString())
	conn := &wsConn{
		conn: ws,
		send: make(chan []byte, 32),
	}

	log.Info().
		Str("module", "signal").
		Str("conn", string(connID)).
		Str("client_token", c.GetString("client_token")).
		Msg("new WS connection")

	ctl.Coord.Connect(connID, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, connID, conn, cancel)
	go ctl.readPump(ctx, connID, conn, cancel)
}

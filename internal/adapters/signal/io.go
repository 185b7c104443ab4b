package signal

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tutorarc/backend/internal/domain"
)

const writeWait = 5 * time.Second

// pongWait leaves the peer slightly more than one ping period to answer.
func (ctl *Controller) pongWait() time.Duration {
	return ctl.Cfg.PingPeriod * 10 / 9
}

func (ctl *Controller) writePump(ctx context.Context, id domain.ConnID, c *wsConn, cancel context.CancelFunc) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump is the single reader for a socket; dispatching synchronously
// keeps per-connection event order FIFO. On exit the coordinator runs
// the disconnect transition, which is what turns an abrupt close into a
// user-left broadcast.
func (ctl *Controller) readPump(ctx context.Context, id domain.ConnID, c *wsConn, cancel context.CancelFunc) {
	limiter := newEventRateLimiter(64, time.Second)

	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump closing")
		cancel()
		ctl.Coord.Disconnect(id)
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.Cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("readPump read error")
				}
				return
			}
			if !limiter.Allow() {
				log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("event rate limit exceeded, dropping")
				continue
			}
			ctl.Coord.HandleEvent(id, data)
		}
	}
}

// Package http wires the gin router: the signaling WebSocket endpoint,
// the live-session REST API and small operational endpoints.
package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tutorarc/backend/internal/adapters/signal"
	"github.com/tutorarc/backend/internal/config"
	"github.com/tutorarc/backend/internal/relay"
	"github.com/tutorarc/backend/internal/session"
)

// ClientTokenMiddleware issues a stable browser token. It identifies a
// returning user across sockets; it is never a routing key.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, coord *relay.Coordinator, store session.Store) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	cookieStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("TutorArcSessions", cookieStore))
	r.Use(ClientTokenMiddleware())

	log.Info().Str("module", "adapters.http").Msg("router setup")

	ctl := signal.NewController(coord, cfg)
	r.GET("/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	sessionsAPI := &LiveSessionHandlers{Store: store}
	api := r.Group("/api")
	api.POST("/livesessions", sessionsAPI.Create)
	api.GET("/livesessions", sessionsAPI.List)
	api.GET("/livesessions/:id", sessionsAPI.Get)
	api.PUT("/livesessions/:id", sessionsAPI.Update)
	api.DELETE("/livesessions/:id", sessionsAPI.Delete)

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    coord.Rooms.List(),
		})
	})

	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"iceServers": ICEServers(cfg.ICE),
		})
	})

	r.GET("/healthz", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

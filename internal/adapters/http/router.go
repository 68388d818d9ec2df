package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soliskit/pinto/internal/adapters/rtc"
	"github.com/soliskit/pinto/internal/adapters/signal"
	"github.com/soliskit/pinto/internal/app/orch"
	"github.com/soliskit/pinto/internal/config"
	"github.com/soliskit/pinto/internal/domain"
)

const sessionTokenKey = "token"

// ClientTokenMiddleware gives every client a stable token kept in the
// session cookie.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(sessionTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(sessionTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(signal.ClientTokenKey, token)
		c.Next()
	}
}

// OriginMiddleware rejects cross-origin requests from origins not in allowed.
// An empty list allows every origin.
func OriginMiddleware(allowed []string) gin.HandlerFunc {
	check := signal.OriginChecker(allowed)
	return func(c *gin.Context) {
		if !check(c.Request) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "origin-not-allowed"})
			return
		}
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, o *orch.Orchestrator, ctrl *signal.SignalWSController) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(OriginMiddleware(cfg.AllowedOrigins))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "./"+cfg.Key)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "peers": o.Registry.Count()})
	})

	store := cookie.NewStore([]byte(cfg.Secret))
	api := r.Group("/"+cfg.Key, sessions.Sessions("pinto", store), ClientTokenMiddleware())

	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Pinto Signaling Server",
			"description": "Relays WebRTC signaling between peers and tracks room membership",
		})
	})
	api.GET("/id", func(c *gin.Context) {
		id, err := o.Issuer.Issue()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.Code(err)})
			return
		}
		c.JSON(http.StatusOK, id)
	})
	api.GET("/peers", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Registry.Count())
	})
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Rooms.List())
	})
	api.GET("/ice", func(c *gin.Context) {
		conf, err := rtc.Configuration(cfg.ICEServers)
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("ice servers")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}
		c.JSON(http.StatusOK, conf.ICEServers)
	})
	api.GET("/ws", ctrl.HandleSignal)

	log.Info().Str("module", "adapters.http").Str("key", cfg.Key).Msg("router setup")
	return r
}

package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/rewardly/taskbot/internal/config"
	"github.com/rewardly/taskbot/internal/server/http/middleware"
)

// TelegramWebhook is the handler that feeds pushed updates into the bot.
type TelegramWebhook http.HandlerFunc

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Setup configures the gin router with the webhook endpoint and health probe.
func Setup(webhook TelegramWebhook, health HealthChecker, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/healthz", func(c *gin.Context) {
		if err := health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.WebhookURL != "" {
		engine.POST("/webhook", requireSecretToken(cfg.WebhookSecret), gin.WrapF(http.HandlerFunc(webhook)))
	}

	return engine
}

// requireSecretToken rejects webhook calls that do not carry the token
// Telegram echoes back from SetWebhook.
func requireSecretToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" && c.GetHeader(secretTokenHeader) != secret {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

package bot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover returns middleware that recovers from panics in handlers.
func Recover(logger *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)
				}
			}()
			next(ctx, b, update)
		}
	}
}

// Logging returns middleware that logs update processing time.
func Logging(logger *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			updateType := "unknown"
			var userID int64

			switch {
			case update.Message != nil:
				updateType = "message"
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
			case update.CallbackQuery != nil:
				updateType = "callback_query"
				userID = update.CallbackQuery.From.ID
			}

			next(ctx, b, update)

			logger.Debug("update processed",
				slog.String("type", updateType),
				slog.Int64("user_id", userID),
				slog.Duration("duration", time.Since(start)),
			)
		}
	}
}

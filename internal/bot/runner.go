package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"

	"github.com/rewardly/taskbot/internal/config"
)

// Runner drives update delivery: long polling by default, webhook push when
// a public URL is configured. Updates keep flowing until Stop is called, so
// the run context is detached from the short-lived startup context.
type Runner struct {
	bot    *bot.Bot
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewRunner(b *bot.Bot, cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{bot: b, cfg: cfg, logger: logger}
}

// Start begins consuming updates in the background.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}

	if r.cfg.WebhookURL != "" {
		if _, err := r.bot.SetWebhook(ctx, &bot.SetWebhookParams{
			URL:         r.cfg.WebhookURL,
			SecretToken: r.cfg.WebhookSecret,
		}); err != nil {
			return fmt.Errorf("set webhook: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.started = true

	go func() {
		defer close(r.done)
		if r.cfg.WebhookURL != "" {
			r.logger.Info("starting webhook update loop", slog.String("url", r.cfg.WebhookURL))
			r.bot.StartWebhook(runCtx)
			return
		}
		r.logger.Info("starting long polling")
		r.bot.Start(runCtx)
	}()
	return nil
}

// Stop halts update delivery and waits for the loop to drain.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return
	}
	r.cancel()
	<-r.done
	r.started = false
	r.logger.Info("update loop stopped")
}

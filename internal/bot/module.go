package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/fx"

	"github.com/rewardly/taskbot/internal/config"
)

// Module wires the bot transport: the API client, session store, handlers,
// and the update runner.
var Module = fx.Options(
	fx.Provide(newBot),
	fx.Provide(NewSessionStore),
	fx.Provide(newHandler),
	fx.Provide(newRunner),
	fx.Invoke(registerHandlers),
)

// textRoute defers free-text dispatch to a handler that is constructed after
// the bot itself, since the default handler must be set at bot.New time.
type textRoute struct {
	mu sync.RWMutex
	h  *Handler
}

func (r *textRoute) set(h *Handler) {
	r.mu.Lock()
	r.h = h
	r.mu.Unlock()
}

func (r *textRoute) dispatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	r.mu.RLock()
	h := r.h
	r.mu.RUnlock()
	if h != nil {
		h.handleText(ctx, b, update)
	}
}

type botParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newBot(p botParams) (*bot.Bot, *textRoute, error) {
	route := &textRoute{}
	opts := []bot.Option{
		bot.WithMiddlewares(Recover(p.Logger), Logging(p.Logger)),
		bot.WithDefaultHandler(route.dispatch),
	}
	b, err := bot.New(p.Config.BotToken, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create bot: %w", err)
	}
	return b, route, nil
}

type handlerParams struct {
	fx.In

	Bot       *bot.Bot
	Config    *config.Config
	Facade    Facade
	Sessions  *SessionStore
	Rechecker Rechecker
	Logger    *slog.Logger
}

func newHandler(p handlerParams) *Handler {
	return New(Deps{
		Bot:       p.Bot,
		Cfg:       p.Config,
		Facade:    p.Facade,
		Sessions:  p.Sessions,
		Rechecker: p.Rechecker,
		Logger:    p.Logger,
	})
}

type runnerParams struct {
	fx.In

	Bot    *bot.Bot
	Config *config.Config
	Logger *slog.Logger
}

func newRunner(p runnerParams) *Runner {
	return NewRunner(p.Bot, p.Config, p.Logger)
}

func registerHandlers(h *Handler, route *textRoute) {
	h.Register()
	route.set(h)
}

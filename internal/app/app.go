package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbot "github.com/go-telegram/bot"
	"go.uber.org/fx"

	"github.com/rewardly/taskbot/internal/bot"
	"github.com/rewardly/taskbot/internal/config"
	"github.com/rewardly/taskbot/internal/server/http/router"
	"github.com/rewardly/taskbot/internal/storage/postgres"
	"github.com/rewardly/taskbot/internal/worker"
)

const recheckWorkers = 4

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewRewardsFacade,
		newHTTPServer,
		newMembershipRechecker,
		func(f *RewardsFacade) bot.Facade { return f },
		func(f *RewardsFacade) worker.MembershipFacade { return f },
		func(r *worker.MembershipRechecker) bot.Rechecker { return r },
		func(b *tgbot.Bot) router.TelegramWebhook { return router.TelegramWebhook(b.WebhookHandler()) },
		func(s *postgres.Storage) router.HealthChecker { return s },
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade worker.MembershipFacade
	Config *config.Config
	Logger *slog.Logger
}

func newMembershipRechecker(p workerParams) *worker.MembershipRechecker {
	return worker.NewMembershipRechecker(
		p.Facade,
		p.Config.MembershipRecheckDelay,
		recheckWorkers,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Runner     *bot.Runner
	Worker     *worker.MembershipRechecker
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting taskbot", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			if err := p.Runner.Start(ctx); err != nil {
				return err
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Runner.Stop()
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("taskbot stopped")
			return nil
		},
	})
}

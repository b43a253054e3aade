package di

import (
	"go.uber.org/fx"

	"github.com/rewardly/taskbot/internal/adapter/telegram"
	"github.com/rewardly/taskbot/internal/app"
	"github.com/rewardly/taskbot/internal/bot"
	"github.com/rewardly/taskbot/internal/config"
	"github.com/rewardly/taskbot/internal/logger"
	"github.com/rewardly/taskbot/internal/server/http/router"
	"github.com/rewardly/taskbot/internal/storage/postgres"
	"github.com/rewardly/taskbot/internal/usecase"
)

// Module assembles the full dependency graph. Extra options let tests swap
// individual components for stubs.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		bot.Module,
		telegram.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

package telegram

import (
	"log/slog"

	"github.com/go-telegram/bot"
	"go.uber.org/fx"

	"github.com/rewardly/taskbot/internal/config"
)

// Module exposes the Telegram gateway to fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Bot    *bot.Bot
	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) Gateway {
	return NewBotGateway(p.Bot, p.Config.ChannelID, p.Logger)
}

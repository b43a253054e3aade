package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Gateway exposes Bot API operations the service layer depends on.
type Gateway interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
	Notify(ctx context.Context, chatID int64, text string) error
	NotifyMarkup(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error
}

// API is the slice of the Bot API client used by the gateway.
type API interface {
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// BotGateway implements Gateway on top of the Bot API.
type BotGateway struct {
	api     API
	channel string
	logger  *slog.Logger
}

// NewBotGateway creates a gateway bound to the required channel.
func NewBotGateway(api API, channel string, logger *slog.Logger) *BotGateway {
	return &BotGateway{api: api, channel: channel, logger: logger}
}

// IsMember reports whether the user currently belongs to the channel.
// Transport failures surface as errors, not as a negative answer.
func (g *BotGateway) IsMember(ctx context.Context, userID int64) (bool, error) {
	member, err := g.api.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: g.channel,
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("get chat member: %w", err)
	}

	switch member.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember:
		return true, nil
	case models.ChatMemberTypeRestricted:
		return member.Restricted != nil && member.Restricted.IsMember, nil
	default:
		return false, nil
	}
}

// Notify sends a plain text message to the chat.
func (g *BotGateway) Notify(ctx context.Context, chatID int64, text string) error {
	_, err := g.api.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// NotifyMarkup sends a message with an attached reply markup.
func (g *BotGateway) NotifyMarkup(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	_, err := g.api.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: markup})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

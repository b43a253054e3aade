package test

import (
	"context"

	"github.com/go-telegram/bot/models"
)

// SentMessage captures one outbound notification.
type SentMessage struct {
	ChatID int64
	Text   string
	Markup models.ReplyMarkup
}

// GatewayStub implements the Telegram gateway for tests.
type GatewayStub struct {
	IsMemberFn     func(ctx context.Context, userID int64) (bool, error)
	NotifyFn       func(ctx context.Context, chatID int64, text string) error
	NotifyMarkupFn func(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error

	Sent []SentMessage
}

func (s *GatewayStub) IsMember(ctx context.Context, userID int64) (bool, error) {
	if s.IsMemberFn != nil {
		return s.IsMemberFn(ctx, userID)
	}
	return true, nil
}

func (s *GatewayStub) Notify(ctx context.Context, chatID int64, text string) error {
	s.Sent = append(s.Sent, SentMessage{ChatID: chatID, Text: text})
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, chatID, text)
	}
	return nil
}

func (s *GatewayStub) NotifyMarkup(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	s.Sent = append(s.Sent, SentMessage{ChatID: chatID, Text: text, Markup: markup})
	if s.NotifyMarkupFn != nil {
		return s.NotifyMarkupFn(ctx, chatID, text, markup)
	}
	return nil
}

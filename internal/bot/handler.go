package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rewardly/taskbot/internal/config"
	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	facade    Facade
	sessions  *SessionStore
	rechecker Rechecker
	logger    *slog.Logger

	usernameOnce sync.Once
	username     string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot       *bot.Bot
	Cfg       *config.Config
	Facade    Facade
	Sessions  *SessionStore
	Rechecker Rechecker
	Logger    *slog.Logger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		facade:    deps.Facade,
		sessions:  deps.Sessions,
		rechecker: deps.Rechecker,
		logger:    deps.Logger,
	}
}

// Register wires commands, callbacks, and the free-text fallback.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)

	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add_task", bot.MatchTypePrefix, h.handleAddTask)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/remove_task", bot.MatchTypePrefix, h.handleRemoveTask)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/announcement", bot.MatchTypePrefix, h.handleAnnouncement)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/deleteannouncement", bot.MatchTypePrefix, h.handleDeleteAnnouncement)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setbalance", bot.MatchTypePrefix, h.handleSetBalance)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/removebalance", bot.MatchTypePrefix, h.handleRemoveBalance)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pending", bot.MatchTypePrefix, h.handlePendingSubmissions)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/withdrawals", bot.MatchTypePrefix, h.handlePendingWithdrawals)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, h.handleStats)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "joined", bot.MatchTypeExact, h.handleJoined)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu_balance", bot.MatchTypeExact, h.handleMenuBalance)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu_tasks", bot.MatchTypeExact, h.handleMenuTasks)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu_completed", bot.MatchTypeExact, h.handleMenuCompleted)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu_referrals", bot.MatchTypeExact, h.handleMenuReferrals)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu_withdraw", bot.MatchTypeExact, h.handleMenuWithdraw)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu_history", bot.MatchTypeExact, h.handleMenuHistory)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu_announcements", bot.MatchTypeExact, h.handleMenuAnnouncements)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu_payout", bot.MatchTypeExact, h.handleMenuPayout)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "menu", bot.MatchTypeExact, h.handleMenu)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "task_", bot.MatchTypePrefix, h.handleTaskDetail)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "respond_", bot.MatchTypePrefix, h.handleRespond)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "approve_", bot.MatchTypePrefix, h.handleApproveTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "decline_", bot.MatchTypePrefix, h.handleDeclineTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wapprove_", bot.MatchTypePrefix, h.handleApproveWithdrawal)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wdecline_", bot.MatchTypePrefix, h.handleDeclineWithdrawal)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "wcancel_", bot.MatchTypePrefix, h.handleCancelWithdrawal)
}

func (h *Handler) isAdmin(userID int64) bool {
	return h.cfg.IsAdmin(userID)
}

// botUsername resolves and caches the bot's own username for deep links.
func (h *Handler) botUsername(ctx context.Context, b *bot.Bot) string {
	h.usernameOnce.Do(func() {
		me, err := b.GetMe(ctx)
		if err != nil {
			h.logger.Error("resolve bot username failed", slog.String("error", err.Error()))
			return
		}
		h.username = me.Username
	})
	return h.username
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.replyMarkup(ctx, b, chatID, text, nil)
}

func (h *Handler) replyMarkup(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: markup}); err != nil {
		h.logger.Warn("send message failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

func (h *Handler) answerCallback(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	if update.CallbackQuery == nil {
		return
	}
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
	}); err != nil {
		h.logger.Warn("answer callback failed", slog.String("error", err.Error()))
	}
}

func callbackChatID(update *models.Update) int64 {
	if update.CallbackQuery == nil {
		return 0
	}
	if msg := update.CallbackQuery.Message.Message; msg != nil {
		return msg.Chat.ID
	}
	return update.CallbackQuery.From.ID
}

func displayName(from *models.User) string {
	if from == nil {
		return ""
	}
	if from.Username != "" {
		return from.Username
	}
	return from.FirstName
}

// userLabel renders a stored account for listings, falling back to the
// numeric ID when no username is known.
func userLabel(u model.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}

// userMessage maps domain errors onto user-facing text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return "Not found. It may have been removed."
	case errors.Is(err, domainErrors.ErrNotPending):
		return "Already processed."
	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		return "Your balance does not cover that amount."
	case errors.Is(err, domainErrors.ErrBelowMinimum):
		return "That amount is below the minimum."
	case errors.Is(err, domainErrors.ErrNoPayoutDestination):
		return "Set your payout ID first."
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		return "That is not a valid amount."
	case errors.Is(err, domainErrors.ErrEmptyResponse):
		return "The message cannot be empty."
	case errors.Is(err, domainErrors.ErrNotMember):
		return "Join the channel first."
	default:
		return "Something went wrong. Try again later."
	}
}

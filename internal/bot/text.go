package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleText routes free-form messages by the sender's session state. It runs
// as the bot's default handler, so only messages no command matched land here.
func (h *Handler) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	switch sess := h.sessions.Get(userID); sess.State {
	case stateAwaitingResponse:
		h.acceptResponse(ctx, b, update, sess.TaskID, text)
	case stateAwaitingPayoutID:
		h.acceptPayoutID(ctx, b, chatID, userID, text)
	case stateAwaitingWithdrawAmount:
		h.acceptWithdrawAmount(ctx, b, chatID, userID, text)
	default:
		h.reply(ctx, b, chatID, "Use /start to open the menu.")
	}
}

func (h *Handler) acceptResponse(ctx context.Context, b *bot.Bot, update *models.Update, taskID int64, text string) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	task, err := h.facade.SubmitTask(ctx, userID, taskID, text)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.sessions.Clear(userID)
	h.reply(ctx, b, chatID, fmt.Sprintf("Your answer for %q is in review. You will be notified once it is checked.", task.Title))

	review := fmt.Sprintf("New submission from @%s\n%s (%d pts)\n\nQ: %s\nA: %s",
		displayName(update.Message.From), task.Title, task.Reward, task.Question, text)
	h.facade.NotifyAdminsMarkup(ctx, review, reviewKeyboard(userID, taskID))
}

func (h *Handler) acceptPayoutID(ctx context.Context, b *bot.Bot, chatID, userID int64, text string) {
	if err := h.facade.SetPayoutID(ctx, userID, text); err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.sessions.Clear(userID)
	h.replyMarkup(ctx, b, chatID, fmt.Sprintf("Payout ID saved: %s", text), mainMenuKeyboard())
}

func (h *Handler) acceptWithdrawAmount(ctx context.Context, b *bot.Bot, chatID, userID int64, text string) {
	amount, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		h.reply(ctx, b, chatID, "Send the amount as a whole number of points.")
		return
	}

	withdrawal, err := h.facade.RequestWithdrawal(ctx, userID, amount)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.sessions.Clear(userID)
	h.replyMarkup(ctx, b, chatID,
		fmt.Sprintf("Withdrawal #%d for %d pts requested. The points are held until it is reviewed.", withdrawal.ID, withdrawal.Amount),
		mainMenuKeyboard())

	review := fmt.Sprintf("Withdrawal request #%d\nUser %d • %d pts → %s", withdrawal.ID, userID, withdrawal.Amount, withdrawal.PayoutID)
	h.facade.NotifyAdminsMarkup(ctx, review, withdrawalReviewKeyboard(withdrawal.ID))
}

package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rewardly/taskbot/internal/domain/model"
)

func (h *Handler) handleMenuWithdraw(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	user, err := h.facade.Profile(ctx, userID)
	if err != nil {
		h.answerCallback(ctx, b, update, userMessage(err))
		return
	}
	h.answerCallback(ctx, b, update, "")

	if !user.HasPayoutID() {
		h.sessions.AwaitPayoutID(userID)
		h.reply(ctx, b, chatID, "You have no payout ID yet. Send it now to continue.")
		return
	}

	h.sessions.AwaitWithdrawAmount(userID)
	h.reply(ctx, b, chatID, fmt.Sprintf(
		"Your balance: %d pts. Minimum withdrawal: %d pts.\nSend the amount to withdraw.",
		user.Balance, h.facade.MinWithdrawal(),
	))
}

func (h *Handler) handleMenuPayout(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	userID := update.CallbackQuery.From.ID

	h.sessions.AwaitPayoutID(userID)
	h.reply(ctx, b, callbackChatID(update), "Send your payout ID.")
}

func (h *Handler) handleMenuHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	withdrawals, err := h.facade.Withdrawals(ctx, userID)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	if len(withdrawals) == 0 {
		h.replyMarkup(ctx, b, chatID, "You have no withdrawals yet.", mainMenuKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("Your withdrawals:\n")
	for _, w := range withdrawals {
		fmt.Fprintf(&sb, "\n#%d  %d pts  %s  %s", w.ID, w.Amount, w.Status, w.CreatedAt.Format("2006-01-02"))
	}
	h.replyMarkup(ctx, b, chatID, sb.String(), historyKeyboard(withdrawals))
}

// handleCancelWithdrawal lets the requester pull back a pending withdrawal.
func (h *Handler) handleCancelWithdrawal(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	id, ok := callbackID(update.CallbackQuery.Data, "wcancel_")
	if !ok {
		return
	}
	withdrawal, err := h.facade.CancelWithdrawal(ctx, id, userID)
	if err != nil {
		h.answerCallback(ctx, b, update, userMessage(err))
		return
	}
	h.answerCallback(ctx, b, update, "Cancelled")
	h.reply(ctx, b, chatID, fmt.Sprintf("Withdrawal #%d cancelled. %d pts returned to your balance.", withdrawal.ID, withdrawal.Amount))
}

func (h *Handler) handleApproveWithdrawal(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdmin(update.CallbackQuery.From.ID) {
		h.answerCallback(ctx, b, update, "Not allowed")
		return
	}
	id, ok := callbackID(update.CallbackQuery.Data, "wapprove_")
	if !ok {
		return
	}

	withdrawal, err := h.facade.ApproveWithdrawal(ctx, id)
	if err != nil {
		h.answerCallback(ctx, b, update, userMessage(err))
		return
	}
	h.answerCallback(ctx, b, update, "Approved")
	h.notifyWithdrawalResolved(ctx, withdrawal)
}

func (h *Handler) handleDeclineWithdrawal(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdmin(update.CallbackQuery.From.ID) {
		h.answerCallback(ctx, b, update, "Not allowed")
		return
	}
	id, ok := callbackID(update.CallbackQuery.Data, "wdecline_")
	if !ok {
		return
	}

	withdrawal, err := h.facade.DeclineWithdrawal(ctx, id)
	if err != nil {
		h.answerCallback(ctx, b, update, userMessage(err))
		return
	}
	h.answerCallback(ctx, b, update, "Declined")
	h.notifyWithdrawalResolved(ctx, withdrawal)
}

func (h *Handler) notifyWithdrawalResolved(ctx context.Context, w *model.Withdrawal) {
	var text string
	switch w.Status {
	case model.WithdrawalStatusApproved:
		text = fmt.Sprintf("Your withdrawal #%d for %d pts was approved. Payout is on the way to %s.", w.ID, w.Amount, w.PayoutID)
	case model.WithdrawalStatusDeclined:
		text = fmt.Sprintf("Your withdrawal #%d was declined. %d pts returned to your balance.", w.ID, w.Amount)
	default:
		return
	}
	if err := h.facade.Notify(ctx, w.UserID, text); err != nil {
		h.logger.Warn("withdrawal notification failed", "user_id", w.UserID, "error", err.Error())
	}
}

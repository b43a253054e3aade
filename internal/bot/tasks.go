package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleMenuTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	tasks, err := h.facade.AvailableTasks(ctx, userID)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	if len(tasks) == 0 {
		h.replyMarkup(ctx, b, chatID, "No tasks available right now. Check back later.", mainMenuKeyboard())
		return
	}
	h.replyMarkup(ctx, b, chatID, "Available tasks:", taskListKeyboard(tasks))
}

func (h *Handler) handleTaskDetail(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	chatID := callbackChatID(update)

	taskID, ok := callbackID(update.CallbackQuery.Data, "task_")
	if !ok {
		return
	}
	task, err := h.facade.Task(ctx, taskID)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}

	text := fmt.Sprintf("%s\n\n%s\n\nReward: %d pts\n\n%s", task.Title, task.Description, task.Reward, task.Question)
	h.replyMarkup(ctx, b, chatID, text, taskDetailKeyboard(task.ID))
}

// handleRespond arms the session so the next plain message is treated as the
// user's answer to the task question.
func (h *Handler) handleRespond(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	taskID, ok := callbackID(update.CallbackQuery.Data, "respond_")
	if !ok {
		return
	}
	task, err := h.facade.Task(ctx, taskID)
	if err != nil {
		h.answerCallback(ctx, b, update, userMessage(err))
		return
	}
	h.answerCallback(ctx, b, update, "")
	h.sessions.AwaitResponse(userID, taskID)
	h.reply(ctx, b, chatID, fmt.Sprintf("Send your answer as a reply:\n\n%s", task.Question))
}

func (h *Handler) handleMenuCompleted(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	tasks, err := h.facade.CompletedTasks(ctx, userID)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	if len(tasks) == 0 {
		h.replyMarkup(ctx, b, chatID, "You have not completed any tasks yet.", mainMenuKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("Completed tasks:\n")
	for _, task := range tasks {
		fmt.Fprintf(&sb, "\n• %s (+%d pts)", task.Title, task.Reward)
	}
	h.replyMarkup(ctx, b, chatID, sb.String(), mainMenuKeyboard())
}

func (h *Handler) handleApproveTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdmin(update.CallbackQuery.From.ID) {
		h.answerCallback(ctx, b, update, "Not allowed")
		return
	}
	userID, taskID, ok := callbackPair(update.CallbackQuery.Data, "approve_")
	if !ok {
		return
	}

	result, err := h.facade.ApproveTask(ctx, userID, taskID)
	if err != nil {
		h.answerCallback(ctx, b, update, userMessage(err))
		return
	}
	h.answerCallback(ctx, b, update, "Approved")

	if err := h.facade.Notify(ctx, userID, fmt.Sprintf("Your submission was approved. +%d pts", result.Reward)); err != nil {
		h.logger.Warn("approval notification failed", "user_id", userID, "error", err.Error())
	}
	if result.ReferrerID != nil && result.ReferralBonus > 0 {
		text := fmt.Sprintf("Your invitee completed a task. +%d pts referral bonus", result.ReferralBonus)
		if err := h.facade.Notify(ctx, *result.ReferrerID, text); err != nil {
			h.logger.Warn("referral notification failed", "user_id", *result.ReferrerID, "error", err.Error())
		}
	}
}

func (h *Handler) handleDeclineTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdmin(update.CallbackQuery.From.ID) {
		h.answerCallback(ctx, b, update, "Not allowed")
		return
	}
	userID, taskID, ok := callbackPair(update.CallbackQuery.Data, "decline_")
	if !ok {
		return
	}

	if err := h.facade.DeclineTask(ctx, userID, taskID); err != nil {
		h.answerCallback(ctx, b, update, userMessage(err))
		return
	}
	h.answerCallback(ctx, b, update, "Declined")

	if err := h.facade.Notify(ctx, userID, "Your submission was declined. You can pick the task up again."); err != nil {
		h.logger.Warn("decline notification failed", "user_id", userID, "error", err.Error())
	}
}

// callbackID parses "<prefix><id>" callback data.
func callbackID(data, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// callbackPair parses "<prefix><first>_<second>" callback data.
func callbackPair(data, prefix string) (int64, int64, bool) {
	parts := strings.SplitN(strings.TrimPrefix(data, prefix), "_", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	first, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	second, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return first, second, true
}

package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const addTaskUsage = "Usage: /add_task Title | Description | Reward | Question"

// adminMessage extracts the sender and argument string of an admin command,
// or reports that the sender is not an operator.
func (h *Handler) adminMessage(update *models.Update) (chatID int64, args string, ok bool) {
	if update.Message == nil || update.Message.From == nil {
		return 0, "", false
	}
	if !h.isAdmin(update.Message.From.ID) {
		return 0, "", false
	}
	return update.Message.Chat.ID, commandArgs(update.Message.Text), true
}

func (h *Handler) handleAddTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, args, ok := h.adminMessage(update)
	if !ok {
		return
	}

	title, description, reward, question, err := parseTaskSpec(args)
	if err != nil {
		h.reply(ctx, b, chatID, addTaskUsage)
		return
	}
	task, err := h.facade.CreateTask(ctx, title, description, reward, question)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("Task #%d created: %s (%d pts)", task.ID, task.Title, task.Reward))
}

func (h *Handler) handleRemoveTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, args, ok := h.adminMessage(update)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		h.reply(ctx, b, chatID, "Usage: /remove_task <task id>")
		return
	}
	if err := h.facade.DeleteTask(ctx, id); err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("Task #%d removed along with its submissions.", id))
}

func (h *Handler) handleAnnouncement(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, args, ok := h.adminMessage(update)
	if !ok {
		return
	}

	announcement, err := h.facade.PublishAnnouncement(ctx, args)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	delivered, err := h.facade.Broadcast(ctx, announcement.Message)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("Announcement #%d published and delivered to %d user(s).", announcement.ID, delivered))
}

func (h *Handler) handleDeleteAnnouncement(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, args, ok := h.adminMessage(update)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		h.reply(ctx, b, chatID, "Usage: /deleteannouncement <announcement id>")
		return
	}
	if err := h.facade.RemoveAnnouncement(ctx, id); err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("Announcement #%d deleted.", id))
}

func (h *Handler) handleSetBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, args, ok := h.adminMessage(update)
	if !ok {
		return
	}

	userID, amount, err := parseUserAmount(args)
	if err != nil {
		h.reply(ctx, b, chatID, "Usage: /setbalance <user id> <balance>")
		return
	}
	if err := h.facade.SetBalance(ctx, userID, amount); err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("Balance of user %d set to %d pts.", userID, amount))
}

func (h *Handler) handleRemoveBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, args, ok := h.adminMessage(update)
	if !ok {
		return
	}

	userID, amount, err := parseUserAmount(args)
	if err != nil {
		h.reply(ctx, b, chatID, "Usage: /removebalance <user id> <amount>")
		return
	}
	if err := h.facade.DeductBalance(ctx, userID, amount); err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("Deducted %d pts from user %d.", amount, userID))
}

func (h *Handler) handlePendingSubmissions(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, _, ok := h.adminMessage(update)
	if !ok {
		return
	}

	submissions, err := h.facade.PendingSubmissions(ctx)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	if len(submissions) == 0 {
		h.reply(ctx, b, chatID, "No submissions waiting for review.")
		return
	}

	for _, s := range submissions {
		text := fmt.Sprintf("@%s • %s (%d pts)\n\nQ: %s\nA: %s", s.Username, s.Title, s.Reward, s.Question, s.Response)
		h.replyMarkup(ctx, b, chatID, text, reviewKeyboard(s.UserID, s.TaskID))
	}
}

func (h *Handler) handlePendingWithdrawals(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, _, ok := h.adminMessage(update)
	if !ok {
		return
	}

	withdrawals, err := h.facade.PendingWithdrawals(ctx)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	if len(withdrawals) == 0 {
		h.reply(ctx, b, chatID, "No withdrawals waiting for review.")
		return
	}

	for _, w := range withdrawals {
		text := fmt.Sprintf("#%d @%s • %d pts → %s", w.ID, w.Username, w.Amount, w.PayoutID)
		h.replyMarkup(ctx, b, chatID, text, withdrawalReviewKeyboard(w.ID))
	}
}

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, _, ok := h.adminMessage(update)
	if !ok {
		return
	}

	count, err := h.facade.UserCount(ctx)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	users, err := h.facade.Users(ctx)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Registered users: %d\n", count)
	for _, u := range users {
		fmt.Fprintf(&sb, "\n#%d %s: %d pts", u.ID, userLabel(u), u.Balance)
	}
	h.reply(ctx, b, chatID, sb.String())
}

// commandArgs strips the leading "/command" token from a message.
func commandArgs(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parseTaskSpec splits "Title | Description | Reward | Question".
func parseTaskSpec(args string) (title, description string, reward int64, question string, err error) {
	parts := strings.Split(args, "|")
	if len(parts) != 4 {
		return "", "", 0, "", fmt.Errorf("expected 4 fields, got %d", len(parts))
	}
	reward, err = strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return "", "", 0, "", fmt.Errorf("parse reward: %w", err)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), reward, strings.TrimSpace(parts[3]), nil
}

// parseUserAmount splits "<user id> <amount>".
func parseUserAmount(args string) (int64, int64, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse user id: %w", err)
	}
	amount, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse amount: %w", err)
	}
	return userID, amount, nil
}

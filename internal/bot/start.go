package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
)

const joinPrompt = "To start earning points you need to be a member of our channel. Join and tap the button below."

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	referrerID := parseStartPayload(update.Message.Text)
	user, created, err := h.facade.Register(ctx, userID, displayName(update.Message.From), referrerID)
	if err != nil {
		h.logger.Error("register user failed", "user_id", userID, "error", err.Error())
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	if created && user.ReferrerID != nil {
		h.notifyReferralSignup(ctx, *user.ReferrerID, user.Username)
	}

	first, bonus, err := h.facade.ConfirmMembership(ctx, userID)
	switch {
	case errors.Is(err, domainErrors.ErrNotMember):
		// Re-verify later so a join without the button press still counts.
		h.rechecker.Schedule(userID)
		h.replyMarkup(ctx, b, chatID, joinPrompt, joinKeyboard(h.cfg.ChannelID))
		return
	case err != nil:
		h.logger.Error("confirm membership failed", "user_id", userID, "error", err.Error())
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}

	if first {
		h.rechecker.Schedule(userID)
		h.notifyJoinBonus(ctx, bonus)
	}
	h.sendMenu(ctx, b, userID, chatID)
}

// notifyJoinBonus tells the inviter their invitee joined. Sent regardless of
// whether a bonus is configured; delivery failures never affect an
// already-credited bonus.
func (h *Handler) notifyJoinBonus(ctx context.Context, bonus *model.JoinBonus) {
	if bonus == nil {
		return
	}
	text := "Your invitee joined the channel."
	if bonus.Amount > 0 {
		text += fmt.Sprintf(" +%d pts", bonus.Amount)
	}
	if err := h.facade.Notify(ctx, bonus.ReferrerID, text); err != nil {
		h.logger.Warn("join bonus notification failed", "user_id", bonus.ReferrerID, "error", err.Error())
	}
}

// notifyReferralSignup tells the inviter a new user registered through their
// link.
func (h *Handler) notifyReferralSignup(ctx context.Context, referrerID int64, invitee string) {
	text := "Someone signed up with your referral link."
	if invitee != "" {
		text = fmt.Sprintf("%s signed up with your referral link.", invitee)
	}
	if err := h.facade.Notify(ctx, referrerID, text); err != nil {
		h.logger.Warn("referral signup notification failed", "user_id", referrerID, "error", err.Error())
	}
}

// handleJoined processes the "I joined" button under the join prompt.
func (h *Handler) handleJoined(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	first, bonus, err := h.facade.ConfirmMembership(ctx, userID)
	switch {
	case errors.Is(err, domainErrors.ErrNotMember):
		h.rechecker.Schedule(userID)
		h.answerCallback(ctx, b, update, "You are not in the channel yet. Join first, then tap again.")
		return
	case err != nil:
		h.logger.Error("confirm membership failed", "user_id", userID, "error", err.Error())
		h.answerCallback(ctx, b, update, userMessage(err))
		return
	}
	h.answerCallback(ctx, b, update, "Membership confirmed")

	if first {
		h.rechecker.Schedule(userID)
		h.notifyJoinBonus(ctx, bonus)
	}
	h.sendMenu(ctx, b, userID, chatID)
}

func (h *Handler) handleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	h.sendMenu(ctx, b, update.CallbackQuery.From.ID, callbackChatID(update))
}

func (h *Handler) handleMenuBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	user, err := h.facade.Profile(ctx, userID)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	text := fmt.Sprintf("Your balance: %d pts", user.Balance)
	if user.HasPayoutID() {
		text += fmt.Sprintf("\nPayout ID: %s", *user.PayoutID)
	} else {
		text += "\nPayout ID: not set"
	}
	h.replyMarkup(ctx, b, chatID, text, mainMenuKeyboard())
}

func (h *Handler) handleMenuReferrals(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	userID := update.CallbackQuery.From.ID
	chatID := callbackChatID(update)

	referrals, err := h.facade.Referrals(ctx, userID)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You invited %d user(s).\n", len(referrals))
	fmt.Fprintf(&sb, "You earn %d%% of every reward your invitees collect.\n", h.cfg.ReferralPercent)
	for _, r := range referrals {
		completed := 0
		if tasks, err := h.facade.CompletedTasks(ctx, r.ID); err == nil {
			completed = len(tasks)
		}
		fmt.Fprintf(&sb, "\n%s: %d task(s) completed", userLabel(r), completed)
	}
	if len(referrals) > 0 {
		sb.WriteString("\n")
	}
	if username := h.botUsername(ctx, b); username != "" {
		fmt.Fprintf(&sb, "\nYour invite link:\nhttps://t.me/%s?start=%d", username, userID)
	}
	h.replyMarkup(ctx, b, chatID, sb.String(), mainMenuKeyboard())
}

func (h *Handler) handleMenuAnnouncements(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, b, update, "")
	chatID := callbackChatID(update)

	announcements, err := h.facade.Announcements(ctx)
	if err != nil {
		h.reply(ctx, b, chatID, userMessage(err))
		return
	}
	if len(announcements) == 0 {
		h.replyMarkup(ctx, b, chatID, "No announcements yet.", mainMenuKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("Announcements:\n")
	for _, a := range announcements {
		fmt.Fprintf(&sb, "\n#%d %s\n%s\n", a.ID, a.CreatedAt.Format("2006-01-02"), a.Message)
	}
	h.replyMarkup(ctx, b, chatID, sb.String(), mainMenuKeyboard())
}

// sendMenu shows the main menu with the current balance.
func (h *Handler) sendMenu(ctx context.Context, b *bot.Bot, userID, chatID int64) {
	text := "Main menu"
	if user, err := h.facade.Profile(ctx, userID); err == nil {
		text = fmt.Sprintf("Main menu\nBalance: %d pts", user.Balance)
	}
	h.replyMarkup(ctx, b, chatID, text, mainMenuKeyboard())
}

// parseStartPayload extracts an inviter id from a "/start <id>" deep link.
func parseStartPayload(text string) *int64 {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) != 2 {
		return nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

package bot

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/rewardly/taskbot/internal/domain/model"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// URLButton creates a URL inline keyboard button.
func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return InlineKeyboard(
		ButtonRow(InlineButton("💰 Balance", "menu_balance"), InlineButton("📋 Tasks", "menu_tasks")),
		ButtonRow(InlineButton("✅ Completed", "menu_completed"), InlineButton("👥 Referrals", "menu_referrals")),
		ButtonRow(InlineButton("💸 Withdraw", "menu_withdraw"), InlineButton("📜 History", "menu_history")),
		ButtonRow(InlineButton("📢 Announcements", "menu_announcements"), InlineButton("🏦 Payout ID", "menu_payout")),
	)
}

func joinKeyboard(channelID string) *models.InlineKeyboardMarkup {
	confirm := ButtonRow(InlineButton("✅ I joined", "joined"))
	if url := channelURL(channelID); url != "" {
		return InlineKeyboard(ButtonRow(URLButton("📣 Open channel", url)), confirm)
	}
	return InlineKeyboard(confirm)
}

func taskListKeyboard(tasks []model.Task) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(tasks)+1)
	for _, task := range tasks {
		label := fmt.Sprintf("%s (+%d)", task.Title, task.Reward)
		rows = append(rows, ButtonRow(InlineButton(label, fmt.Sprintf("task_%d", task.ID))))
	}
	rows = append(rows, ButtonRow(InlineButton("⬅️ Menu", "menu")))
	return InlineKeyboard(rows...)
}

func taskDetailKeyboard(taskID int64) *models.InlineKeyboardMarkup {
	return InlineKeyboard(
		ButtonRow(InlineButton("✍️ Submit response", fmt.Sprintf("respond_%d", taskID))),
		ButtonRow(InlineButton("⬅️ Back", "menu_tasks")),
	)
}

func reviewKeyboard(userID, taskID int64) *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(
		InlineButton("✅ Approve", fmt.Sprintf("approve_%d_%d", userID, taskID)),
		InlineButton("❌ Decline", fmt.Sprintf("decline_%d_%d", userID, taskID)),
	))
}

func withdrawalReviewKeyboard(id int64) *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(
		InlineButton("✅ Approve", fmt.Sprintf("wapprove_%d", id)),
		InlineButton("❌ Decline", fmt.Sprintf("wdecline_%d", id)),
	))
}

func historyKeyboard(withdrawals []model.Withdrawal) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, w := range withdrawals {
		if w.Status != model.WithdrawalStatusPending {
			continue
		}
		label := fmt.Sprintf("🚫 Cancel #%d (%d pts)", w.ID, w.Amount)
		rows = append(rows, ButtonRow(InlineButton(label, fmt.Sprintf("wcancel_%d", w.ID))))
	}
	rows = append(rows, ButtonRow(InlineButton("⬅️ Menu", "menu")))
	return InlineKeyboard(rows...)
}

// channelURL derives a public t.me link from a channel username. Numeric
// chat IDs have no public link.
func channelURL(channelID string) string {
	if strings.HasPrefix(channelID, "@") {
		return "https://t.me/" + strings.TrimPrefix(channelID, "@")
	}
	return ""
}

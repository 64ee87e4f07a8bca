package services

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskboard/internal/models"
)

// TelegramService is an optional reminder channel; a nil service means the
// bot token was not configured and every send is a silent no-op.
type TelegramService struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramService(botToken string) (*TelegramService, error) {
	if botToken == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramService{bot: bot}, nil
}

func (t *TelegramService) SendTaskReminder(chatID int64, task *models.Task) error {
	if t == nil || t.bot == nil || chatID == 0 {
		return nil
	}
	due := "—"
	if task.DueDate != nil {
		due = task.DueDate.Format("2006-01-02")
	}
	text := "⏰ Task due soon\n" +
		"• <b>" + html.EscapeString(task.Text) + "</b>\n" +
		"• Due: <code>" + due + "</code>"
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramAlerter pings the firm's staff chat about new submissions. It is
// an optional channel: the notifier works without it.
type TelegramAlerter struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramAlerter(token string, chatID int64, debug bool) (*TelegramAlerter, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	api.Debug = debug

	return &TelegramAlerter{api: api, chatID: chatID}, nil
}

func (t *TelegramAlerter) Alert(text string) error {
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	return nil
}

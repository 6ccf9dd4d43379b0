package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Min interval between two messages to the same chat; Telegram answers 429 above ~30/min.
const telegramSendInterval = 2 * time.Second

// TelegramSender posts plain text messages to one chat
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramSender connects the bot and verifies the token
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

// Send delivers text, waiting out the per-chat send interval
func (t *TelegramSender) Send(ctx context.Context, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if wait := telegramSendInterval - time.Since(t.lastSend); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	t.lastSend = time.Now()
	return nil
}

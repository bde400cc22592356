package services

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notify")}
}

func (n *LogNotifier) Notify(_ context.Context, note Notification) error {
	n.logger.Info("reminder",
		zap.String("kind", note.Kind),
		zap.String("username", note.Username),
		zap.String("mission_id", note.MissionID),
		zap.String("text", note.Text))
	return nil
}

// TelegramSender is the part of tgbotapi.BotAPI used for delivery
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts notifications to one Telegram chat
type TelegramNotifier struct {
	sender TelegramSender
	chatID int64
}

func NewTelegramNotifier(sender TelegramSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID}
}

// NewTelegramNotifierFromToken connects to the Bot API with token
func NewTelegramNotifierFromToken(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewTelegramNotifier(api, chatID), nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, note.Text)
	msg.DisableWebPagePreview = true
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// MultiNotifier fans a notification out to several notifiers
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, note Notification) error {
	for _, n := range m {
		if err := n.Notify(ctx, note); err != nil {
			return err
		}
	}
	return nil
}

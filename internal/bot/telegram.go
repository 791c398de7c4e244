package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/fcbot/internal/service"
)

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, assistant *service.AssistantService) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	handler := NewHandler(assistant)

	return &TelegramBot{
		bot:     bot,
		handler: handler,
		chatID:  chatID,
	}, nil
}

func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	return serve(ctx, t.handler, updates, t.bot.Send)
}

// serve answers updates until ctx is done or the updates channel closes.
func serve(ctx context.Context, h *Handler, updates <-chan tgbotapi.Update, send func(tgbotapi.Chattable) (tgbotapi.Message, error)) error {
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				slog.Info("Telegram updates channel closed")
				return nil
			}
			if update.Message == nil {
				continue
			}

			var msg tgbotapi.MessageConfig
			if update.Message.IsCommand() {
				msg = h.HandleCommand(ctx, update)
			} else if update.Message.Text != "" {
				msg = h.HandleText(ctx, update)
			} else {
				continue
			}

			if _, err := send(msg); err != nil {
				slog.Error("Error sending message", "chat_id", update.Message.Chat.ID, "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// SendMessage posts text to the configured admin chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return fmt.Errorf("chat ID not set")
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	_, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Error sending message", "error", err)
	}
	return err
}

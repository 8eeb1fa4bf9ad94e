// Copyright (c) 2026 LinkUp. All rights reserved.

package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier implements [Notifier] over the Telegram Bot API.
//
// Messages use Markdown and carry an inline button opening the mini-app, so
// the notification doubles as a deep link back into the product.
type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	webAppURL string
	logger    *slog.Logger
}

// NewTelegramNotifier authorizes the bot and returns the notifier.
func NewTelegramNotifier(botToken, webAppURL string, logger *slog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram_notifier_bot_init_failed: %w", err)
	}

	logger.Info("telegram_bot_authorized", slog.String("username", bot.Self.UserName))

	return &TelegramNotifier{
		bot:       bot,
		webAppURL: webAppURL,
		logger:    logger,
	}, nil
}

// # Notifier Methods

// EventInvitation implements [Notifier].
func (notifier *TelegramNotifier) EventInvitation(context context.Context, telegramID int64, eventTitle string) error {
	text := fmt.Sprintf("🎉 You're in! Your request to join *%s* was accepted.", eventTitle)
	return notifier.send(context, telegramID, text)
}

// EventUpdated implements [Notifier].
func (notifier *TelegramNotifier) EventUpdated(context context.Context, telegramID int64, eventTitle string) error {
	text := fmt.Sprintf("📅 The event *%s* was updated. Check the new details.", eventTitle)
	return notifier.send(context, telegramID, text)
}

// ResponseReceived implements [Notifier].
func (notifier *TelegramNotifier) ResponseReceived(context context.Context, telegramID int64, eventTitle, responderName string) error {
	text := fmt.Sprintf("👋 *%s* wants to join your event *%s*.", responderName, eventTitle)
	return notifier.send(context, telegramID, text)
}

// send delivers a Markdown message with the mini-app button.
func (notifier *TelegramNotifier) send(_ context.Context, telegramID int64, text string) error {
	message := tgbotapi.NewMessage(telegramID, text)
	message.ParseMode = tgbotapi.ModeMarkdown
	if notifier.webAppURL != "" {
		message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Open LinkUp", notifier.webAppURL),
			),
		)
	}

	if _, err := notifier.bot.Send(message); err != nil {
		return fmt.Errorf("telegram_notifier_send_failed: %w", err)
	}

	return nil
}

// # Bot Command Loop

/*
Run consumes bot updates with long polling until the context is cancelled.

Description: The only command the bot answers is /start, with a welcome
message and the mini-app button. Everything else is ignored.

Parameters:
  - context: context.Context (Cancellation stops the update loop)
*/
func (notifier *TelegramNotifier) Run(context context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := notifier.bot.GetUpdatesChan(updateConfig)

	notifier.logger.Info("telegram_bot_polling_started")

	for {
		select {
		case <-context.Done():
			notifier.logger.Info("telegram_bot_polling_stopped")
			notifier.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				notifier.logger.Info("telegram_bot_updates_closed")
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if update.Message.Command() != "start" {
				continue
			}

			welcome := tgbotapi.NewMessage(update.Message.Chat.ID,
				"Welcome to *LinkUp*! Find people to share activities with.")
			welcome.ParseMode = tgbotapi.ModeMarkdown
			if notifier.webAppURL != "" {
				welcome.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
					tgbotapi.NewInlineKeyboardRow(
						tgbotapi.NewInlineKeyboardButtonURL("Open LinkUp", notifier.webAppURL),
					),
				)
			}

			if _, err := notifier.bot.Send(welcome); err != nil {
				notifier.logger.Warn("telegram_bot_welcome_failed", slog.String("error", err.Error()))
			}
		}
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/steveiliop56/authlink/internal/model"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ChatSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendLink(ctx context.Context, chatID int64, text string, button model.LinkButton) error
}

type TelegramServiceConfig struct {
	Token              string
	APIURL             string
	Debug              bool
	PollTimeout        int
	WebhookURL         string
	WebhookSecret      string
	DropPendingUpdates bool
}

type TelegramService struct {
	config   TelegramServiceConfig
	bot      *tgbotapi.BotAPI
	stopOnce sync.Once
}

func NewTelegramService(config TelegramServiceConfig) *TelegramService {
	return &TelegramService{
		config: config,
	}
}

// Init calls getMe, so a bad token fails here rather than on the first update.
func (telegram *TelegramService) Init() error {
	if telegram.config.Token == "" {
		return errors.New("telegram bot token is empty")
	}

	endpoint := telegram.config.APIURL
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	httpClient := &http.Client{
		// Long polling holds the request open for PollTimeout seconds
		Timeout: time.Duration(telegram.config.PollTimeout+30) * time.Second,
	}

	bot, err := tgbotapi.NewBotAPIWithClient(telegram.config.Token, endpoint, httpClient)

	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}

	bot.Debug = telegram.config.Debug
	telegram.bot = bot

	tlog.Bot.Info().Str("username", bot.Self.UserName).Msg("Connected to telegram")

	return nil
}

// The Bot API client has no context support, ctx only bounds callers that wait on us.
func (telegram *TelegramService) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := telegram.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (telegram *TelegramService) SendLink(ctx context.Context, chatID int64, text string, button model.LinkButton) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(button.Text, button.URL)),
	)

	_, err := telegram.bot.Send(msg)
	return err
}

func (telegram *TelegramService) RegisterWebhook() error {
	params := tgbotapi.Params{}
	params["url"] = telegram.config.WebhookURL
	params.AddNonEmpty("secret_token", telegram.config.WebhookSecret)
	params.AddBool("drop_pending_updates", telegram.config.DropPendingUpdates)

	_, err := telegram.bot.MakeRequest("setWebhook", params)

	if err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	tlog.Bot.Info().Str("url", telegram.config.WebhookURL).Msg("Registered webhook")
	return nil
}

// DeleteWebhook is required before polling, the platform refuses getUpdates while a webhook is set.
func (telegram *TelegramService) DeleteWebhook() error {
	_, err := telegram.bot.Request(tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: telegram.config.DropPendingUpdates,
	})

	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	return nil
}

func (telegram *TelegramService) Updates() tgbotapi.UpdatesChannel {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = telegram.config.PollTimeout
	return telegram.bot.GetUpdatesChan(config)
}

// StopPolling is final, the client cannot poll again afterwards.
func (telegram *TelegramService) StopPolling() {
	telegram.stopOnce.Do(telegram.bot.StopReceivingUpdates)
}

// CommandFromUpdate extracts a bot command, ignoring every other kind of update.
func CommandFromUpdate(update tgbotapi.Update) (model.ChatCommand, bool) {
	message := update.Message

	if message == nil || message.Chat == nil || !message.IsCommand() {
		return model.ChatCommand{}, false
	}

	identity := model.Identity{
		ChatID: message.Chat.ID,
	}

	if message.From != nil {
		identity.UserID = message.From.ID
		identity.Username = message.From.UserName
	}

	return model.ChatCommand{
		Identity: identity,
		Command:  message.Command(),
		Args:     message.CommandArguments(),
	}, true
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/steveiliop56/authlink/internal/metrics"
	"github.com/steveiliop56/authlink/internal/model"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/exp/slices"
)

type CommandServiceConfig struct {
	AppName      string
	ProviderName string
}

type commandHandler struct {
	description string
	handle      func(ctx context.Context, cmd model.ChatCommand) error
}

// CommandService turns chat commands into authorization attempts and reports outcomes back to the chat.
type CommandService struct {
	config      CommandServiceConfig
	issuer      *IssuerService
	credentials *CredentialService
	sender      ChatSender
	handlers    map[string]commandHandler
}

func NewCommandService(config CommandServiceConfig, issuer *IssuerService, credentials *CredentialService, sender ChatSender) *CommandService {
	return &CommandService{
		config:      config,
		issuer:      issuer,
		credentials: credentials,
		sender:      sender,
	}
}

func (commands *CommandService) Init() error {
	if commands.issuer == nil || commands.credentials == nil || commands.sender == nil {
		return errors.New("command service requires an issuer, a credential store and a chat sender")
	}

	if commands.config.AppName == "" {
		commands.config.AppName = "authlink"
	}

	if commands.config.ProviderName == "" {
		commands.config.ProviderName = "provider"
	}

	commands.handlers = map[string]commandHandler{
		"start":  {description: "show the welcome message", handle: commands.startHandler},
		"help":   {description: "list the available commands", handle: commands.helpHandler},
		"auth":   {description: "link your " + commands.config.ProviderName + " account", handle: commands.authHandler},
		"status": {description: "show whether your account is linked", handle: commands.statusHandler},
		"revoke": {description: "forget the linked account", handle: commands.revokeHandler},
	}

	return nil
}

func (commands *CommandService) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	cmd, ok := CommandFromUpdate(update)

	if !ok {
		tlog.Bot.Debug().Int("update_id", update.UpdateID).Msg("Ignoring non-command update")
		return nil
	}

	return commands.Handle(ctx, cmd)
}

func (commands *CommandService) Handle(ctx context.Context, cmd model.ChatCommand) error {
	handler, exists := commands.handlers[cmd.Command]

	if !exists {
		metrics.ChatUpdates.WithLabelValues("unknown").Inc()
		tlog.Bot.Debug().Str("command", cmd.Command).Msg("Unknown command")
		return commands.helpHandler(ctx, cmd)
	}

	metrics.ChatUpdates.WithLabelValues(cmd.Command).Inc()
	tlog.Bot.Info().Str("command", cmd.Command).Int64("user_id", cmd.Identity.UserID).Int64("chat_id", cmd.Identity.ChatID).Msg("Handling command")

	err := handler.handle(ctx, cmd)

	if err != nil {
		return fmt.Errorf("command /%s failed: %w", cmd.Command, err)
	}

	return nil
}

func (commands *CommandService) NotifyOutcome(ctx context.Context, outcome Outcome) error {
	var text string

	switch outcome.Status {
	case StatusResolved:
		text = fmt.Sprintf("Your %s account is now linked.", commands.config.ProviderName)
	case StatusOrphaned:
		text = "The provider granted access but the result could not be linked to you. Please send /auth again."
	default:
		switch outcome.Reason {
		case "access_denied":
			text = "Authorization was denied. Send /auth if you want to try again."
		case ReasonExchangeFailed:
			text = "The provider did not accept the authorization. Send /auth to try again."
		default:
			text = fmt.Sprintf("Authorization failed (%s). Send /auth to try again.", outcome.Reason)
		}
	}

	return commands.sender.SendText(ctx, outcome.Identity.ChatID, text)
}

func (commands *CommandService) startHandler(ctx context.Context, cmd model.ChatCommand) error {
	text := fmt.Sprintf("Welcome to %s. Send /auth to link your %s account.", commands.config.AppName, commands.config.ProviderName)
	return commands.sender.SendText(ctx, cmd.Identity.ChatID, text)
}

func (commands *CommandService) helpHandler(ctx context.Context, cmd model.ChatCommand) error {
	names := make([]string, 0, len(commands.handlers))
	for name := range commands.handlers {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "/%s - %s\n", name, commands.handlers[name].description)
	}

	return commands.sender.SendText(ctx, cmd.Identity.ChatID, sb.String())
}

func (commands *CommandService) authHandler(ctx context.Context, cmd model.ChatCommand) error {
	authURL, _, err := commands.issuer.Issue(cmd.Identity)

	if err != nil {
		tlog.App.Error().Err(err).Int64("user_id", cmd.Identity.UserID).Msg("Failed to issue authorization")
		return commands.sender.SendText(ctx, cmd.Identity.ChatID, "Authorization is unavailable right now, please try again later.")
	}

	return commands.sender.SendLink(ctx, cmd.Identity.ChatID, "Tap the button below to start the authorization:", model.LinkButton{
		Text: "Authorize " + commands.config.ProviderName,
		URL:  authURL,
	})
}

func (commands *CommandService) statusHandler(ctx context.Context, cmd model.ChatCommand) error {
	credential, ok := commands.credentials.Get(cmd.Identity)

	if !ok {
		return commands.sender.SendText(ctx, cmd.Identity.ChatID, "No account is linked yet. Send /auth to link one.")
	}

	text := fmt.Sprintf("Linked since %s.", credential.ObtainedAt.Format(time.RFC1123))

	if len(credential.Scopes) > 0 {
		text += "\nScopes: " + strings.Join(credential.Scopes, ", ")
	}

	if !credential.Expiry.IsZero() {
		text += "\nAccess token expires " + credential.Expiry.Format(time.RFC1123)
	}

	return commands.sender.SendText(ctx, cmd.Identity.ChatID, text)
}

func (commands *CommandService) revokeHandler(ctx context.Context, cmd model.ChatCommand) error {
	if !commands.credentials.Forget(cmd.Identity) {
		return commands.sender.SendText(ctx, cmd.Identity.ChatID, "No account was linked.")
	}

	return commands.sender.SendText(ctx, cmd.Identity.ChatID, "The linked account has been forgotten.")
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/steveiliop56/authlink/internal/config"
	"github.com/steveiliop56/authlink/internal/metrics"
	"github.com/steveiliop56/authlink/internal/server"
	"github.com/steveiliop56/authlink/internal/supervisor"
	"github.com/steveiliop56/authlink/internal/utils"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/prometheus/client_golang/prometheus"
)

// Display names that Capitalize would get wrong
var providerNames = map[string]string{
	"github": "GitHub",
	"oidc":   "OIDC",
}

type BootstrapApp struct {
	config      config.Config
	services    Services
	coordinator *supervisor.Coordinator
	callback    *server.HTTPServer
}

func NewBootstrapApp(config config.Config) *BootstrapApp {
	return &BootstrapApp{
		config: config,
	}
}

// ResolveConfig fills the values derived from other settings: secrets read from files,
// the redirect URL and the provider display name.
func ResolveConfig(cfg config.Config) config.Config {
	cfg.OAuth.ClientSecret = utils.GetSecret(cfg.OAuth.ClientSecret, cfg.OAuth.ClientSecretFile)
	cfg.OAuth.ClientSecretFile = ""

	cfg.Bot.Token = utils.GetSecret(cfg.Bot.Token, cfg.Bot.TokenFile)
	cfg.Bot.TokenFile = ""

	if cfg.OAuth.RedirectURL == "" {
		cfg.OAuth.RedirectURL = utils.JoinURL(cfg.AppURL, cfg.Server.CallbackPath)
	}

	if cfg.OAuth.Name == "" {
		if name, ok := providerNames[cfg.OAuth.Provider]; ok {
			cfg.OAuth.Name = name
		} else {
			cfg.OAuth.Name = utils.Capitalize(cfg.OAuth.Provider)
		}
	}

	return cfg
}

func (app *BootstrapApp) Setup() error {
	app.config = ResolveConfig(app.config)

	err := app.config.Validate()

	if err != nil {
		return err
	}

	tlog.App.Trace().Str("redirectUrl", app.config.OAuth.RedirectURL).Str("provider", app.config.OAuth.Provider).Str("mode", app.config.Bot.Mode).Msg("Resolved config")

	if app.config.Metrics.Enabled {
		err = metrics.Register(prometheus.DefaultRegisterer)

		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	services, err := app.initServices()

	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	app.services = services

	tasks, err := app.setupTasks()

	if err != nil {
		return err
	}

	coordinator := supervisor.NewCoordinator(supervisor.CoordinatorConfig{}, tasks...)

	err = coordinator.Init()

	if err != nil {
		return fmt.Errorf("failed to initialize coordinator: %w", err)
	}

	app.coordinator = coordinator

	return nil
}

// Run blocks until ctx is cancelled, every listener has stopped and pending code exchanges are done.
func (app *BootstrapApp) Run(ctx context.Context) error {
	if app.coordinator == nil {
		return errors.New("app is not set up")
	}

	err := app.coordinator.Run(ctx)

	resolver := app.services.resolverService

	drainCtx, cancel := context.WithTimeout(context.Background(), resolver.DrainTimeout())
	defer cancel()

	if waitErr := resolver.Wait(drainCtx); waitErr != nil {
		tlog.App.Warn().Err(waitErr).Msg("Stopped before every authorization exchange finished")
	}

	return err
}

// CallbackAddr is the bound callback listener address once Run has prepared it.
func (app *BootstrapApp) CallbackAddr() string {
	if app.callback == nil {
		return ""
	}
	return app.callback.Addr()
}

func (app *BootstrapApp) setupTasks() ([]supervisor.Task, error) {
	shutdownTimeout := time.Duration(app.config.Server.ShutdownTimeout) * time.Second

	callbackRouter, err := app.setupCallbackRouter()

	if err != nil {
		return nil, fmt.Errorf("failed to setup callback routes: %w", err)
	}

	app.callback = server.NewHTTPServer(server.HTTPServerConfig{
		Name:            "callback",
		Address:         app.config.Server.Address,
		Port:            app.config.Server.Port,
		ShutdownTimeout: shutdownTimeout,
	}, callbackRouter)

	// The chat listener goes first so the webhook is registered before callbacks arrive
	var chat supervisor.Task

	switch app.config.Bot.Mode {
	case config.BotModePush:
		webhookRouter, err := app.setupWebhookRouter()

		if err != nil {
			return nil, fmt.Errorf("failed to setup webhook routes: %w", err)
		}

		chat = server.NewWebhookListener(app.services.telegramService, server.NewHTTPServer(server.HTTPServerConfig{
			Name:            "webhook",
			Address:         app.config.Bot.Webhook.Address,
			Port:            app.config.Bot.Webhook.Port,
			ShutdownTimeout: shutdownTimeout,
		}, webhookRouter))
	default:
		chat = server.NewPollListener(app.services.telegramService, app.services.commandService)
	}

	sweeper := server.NewSweeper(server.SweeperConfig{
		Interval: time.Duration(app.config.OAuth.SweepInterval) * time.Second,
	}, app.services.stateStoreService)

	tlog.App.Debug().Str("chat", chat.Name()).Msg("Configured listeners")

	return []supervisor.Task{chat, app.callback, sweeper}, nil
}

package config_test

import (
	"testing"

	"github.com/steveiliop56/authlink/internal/config"

	"gotest.tools/v3/assert"
)

func validConfig() config.Config {
	return config.Config{
		AppURL: "https://authlink.example.com",
		Server: config.ServerConfig{
			Port:         8080,
			Address:      "0.0.0.0",
			CallbackPath: "/oauth2callback",
		},
		OAuth: config.OAuthConfig{
			Provider:        "google",
			ClientID:        "client-id",
			StateTTL:        600,
			SweepInterval:   60,
			ExchangeTimeout: 30,
		},
		Bot: config.BotConfig{
			Token: "123:abc",
			Mode:  config.BotModePull,
		},
		Metrics: config.MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: config.LogConfig{
			Level: "info",
		},
	}
}

func TestValidConfig(t *testing.T) {
	assert.NilError(t, validConfig().Validate())
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *config.Config)
		expect string
	}{
		{"missing app url", func(c *config.Config) { c.AppURL = "" }, "AppURL"},
		{"unknown provider", func(c *config.Config) { c.OAuth.Provider = "saml" }, "Provider"},
		{"missing client id", func(c *config.Config) { c.OAuth.ClientID = "" }, "ClientID"},
		{"relative callback path", func(c *config.Config) { c.Server.CallbackPath = "callback" }, "CallbackPath"},
		{"zero state ttl", func(c *config.Config) { c.OAuth.StateTTL = 0 }, "StateTTL"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }, "Level"},
		{"generic without endpoints", func(c *config.Config) { c.OAuth.Provider = "generic" }, "requires auth url and token url"},
		{"oidc without issuer", func(c *config.Config) { c.OAuth.Provider = "oidc" }, "requires an issuer"},
		{"missing bot token", func(c *config.Config) { c.Bot.Token = "" }, "bot token is required"},
		{"callback on health route", func(c *config.Config) { c.Server.CallbackPath = "/health" }, "collides with a built-in route"},
		{"callback on metrics route", func(c *config.Config) { c.Server.CallbackPath = "/metrics" }, "collides with a built-in route"},
		{"metrics path", func(c *config.Config) { c.Metrics.Path = "" }, "metrics path must start with /"},
		{"unknown mode", func(c *config.Config) { c.Bot.Mode = "stream" }, "Mode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.expect)
		})
	}
}

func TestPushModeValidation(t *testing.T) {
	push := func() config.Config {
		cfg := validConfig()
		cfg.Bot.Mode = config.BotModePush
		cfg.Bot.Webhook = config.WebhookConfig{
			URL:     "https://bot.example.com/webhook",
			Address: "0.0.0.0",
			Port:    8443,
			Path:    "/webhook",
		}
		return cfg
	}

	assert.NilError(t, push().Validate())

	cfg := push()
	cfg.Bot.Webhook.URL = ""
	assert.ErrorContains(t, cfg.Validate(), "requires a webhook url")

	cfg = push()
	cfg.Bot.Webhook.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "requires a webhook port")

	cfg = push()
	cfg.Bot.Webhook.Path = "webhook"
	assert.ErrorContains(t, cfg.Validate(), "webhook path must start with /")

	cfg = push()
	cfg.Bot.Webhook.Port = 8080
	assert.ErrorContains(t, cfg.Validate(), "conflicts with callback listener")
}

func TestListenersConflict(t *testing.T) {
	assert.Assert(t, config.ListenersConflict("0.0.0.0", 8080, "127.0.0.1", 8080))
	assert.Assert(t, config.ListenersConflict("127.0.0.1", 8080, "127.0.0.1", 8080))
	assert.Assert(t, config.ListenersConflict("", 8080, "::1", 8080))
	assert.Assert(t, !config.ListenersConflict("127.0.0.1", 8080, "127.0.0.2", 8080))
	assert.Assert(t, !config.ListenersConflict("0.0.0.0", 8080, "0.0.0.0", 8443))
}

func TestDefaultConfigurationNeedsOnlySecrets(t *testing.T) {
	cfg := config.NewDefaultConfiguration()
	cfg.AppURL = "https://authlink.example.com"
	cfg.OAuth.ClientID = "client-id"
	cfg.Bot.Token = "123:abc"

	assert.NilError(t, cfg.Validate())

	// Updates queued while the bot was down are not replayed
	assert.Assert(t, cfg.Bot.Webhook.DropPendingUpdates)

	// Push mode defaults put the webhook on its own port
	cfg.Bot.Mode = config.BotModePush
	cfg.Bot.Webhook.URL = "https://bot.example.com/webhook"
	assert.NilError(t, cfg.Validate())
}

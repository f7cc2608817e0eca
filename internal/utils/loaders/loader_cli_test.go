package loaders_test

import (
	"testing"

	"github.com/steveiliop56/authlink/internal/config"
	"github.com/steveiliop56/authlink/internal/utils/loaders"

	"github.com/traefik/paerser/cli"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestFlagLoader(t *testing.T) {
	cfg := config.NewDefaultConfiguration()
	cmd := &cli.Command{Configuration: cfg}

	done, err := (&loaders.FlagLoader{}).Load([]string{
		"--oauth.provider=github",
		"--server.port=9090",
		"--bot.mode=push",
	}, cmd)

	assert.NilError(t, err)
	assert.Assert(t, done)
	assert.Equal(t, "github", cfg.OAuth.Provider)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.BotModePush, cfg.Bot.Mode)
	assert.Equal(t, "/oauth2callback", cfg.Server.CallbackPath)
}

func TestFlagLoaderWithoutArgs(t *testing.T) {
	cmd := &cli.Command{Configuration: config.NewDefaultConfiguration()}

	done, err := (&loaders.FlagLoader{}).Load(nil, cmd)
	assert.NilError(t, err)
	assert.Assert(t, !done)
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("AUTHLINKTEST_OAUTH_CLIENTID", "client-id")
	t.Setenv("AUTHLINKTEST_OAUTH_SCOPES", "read:user,repo")
	t.Setenv("AUTHLINKTEST_BOT_WEBHOOK_PORT", "8444")

	cfg := config.NewDefaultConfiguration()
	cmd := &cli.Command{Configuration: cfg}

	done, err := (&loaders.EnvLoader{Prefix: "AUTHLINKTEST_"}).Load(nil, cmd)

	assert.NilError(t, err)
	assert.Assert(t, done)
	assert.Equal(t, "client-id", cfg.OAuth.ClientID)
	assert.Check(t, is.DeepEqual([]string{"read:user", "repo"}, cfg.OAuth.Scopes))
	assert.Equal(t, 8444, cfg.Bot.Webhook.Port)
	assert.Equal(t, "google", cfg.OAuth.Provider)
}

func TestEnvLoaderWithoutVariables(t *testing.T) {
	cmd := &cli.Command{Configuration: config.NewDefaultConfiguration()}

	done, err := (&loaders.EnvLoader{Prefix: "AUTHLINKUNSET_"}).Load(nil, cmd)
	assert.NilError(t, err)
	assert.Assert(t, !done)
}

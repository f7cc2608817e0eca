package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/steveiliop56/authlink/internal/bootstrap"
	"github.com/steveiliop56/authlink/internal/config"
	"github.com/steveiliop56/authlink/internal/utils/loaders"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/rs/zerolog/log"
	"github.com/traefik/paerser/cli"
)

func main() {
	tConfig := config.NewDefaultConfiguration()

	loaders := []cli.ResourceLoader{
		&loaders.DotenvLoader{},
		&loaders.FileLoader{},
		&loaders.FlagLoader{},
		&loaders.EnvLoader{},
	}

	cmdAuthlink := &cli.Command{
		Name:          "authlink",
		Description:   "Link chat users to their OAuth accounts.",
		Configuration: tConfig,
		Resources:     loaders,
		Run: func(_ []string) error {
			return runCmd(*tConfig)
		},
	}

	err := cmdAuthlink.AddCommand(versionCmd())

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to add version command")
	}

	err = cmdAuthlink.AddCommand(healthcheckCmd())

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to add healthcheck command")
	}

	err = cli.Execute(cmdAuthlink)

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}

func runCmd(cfg config.Config) error {
	logger := tlog.NewLogger(cfg.Log)
	logger.Init()

	tlog.App.Info().Str("version", config.Version).Msg("Starting authlink")

	app := bootstrap.NewBootstrapApp(cfg)

	err := app.Setup()

	if err != nil {
		return fmt.Errorf("failed to bootstrap app: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx)

	if err != nil {
		return fmt.Errorf("failed to run app: %w", err)
	}

	tlog.App.Info().Msg("Stopped authlink")

	return nil
}

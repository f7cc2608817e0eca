package loaders

import (
	"fmt"
	"os"

	"github.com/steveiliop56/authlink/internal/config"

	"github.com/traefik/paerser/cli"
	"github.com/traefik/paerser/env"
	"github.com/traefik/paerser/flag"
)

// FlagLoader wins over the environment as soon as any argument is given.
type FlagLoader struct{}

func (*FlagLoader) Load(args []string, cmd *cli.Command) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	if err := flag.Decode(args, cmd.Configuration); err != nil {
		return false, fmt.Errorf("failed to decode configuration from flags: %w", err)
	}

	return true, nil
}

type EnvLoader struct {
	// Defaults to config.DefaultNamePrefix
	Prefix string
}

func (e *EnvLoader) Load(_ []string, cmd *cli.Command) (bool, error) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = config.DefaultNamePrefix
	}

	vars := env.FindPrefixedEnvVars(os.Environ(), prefix, cmd.Configuration)
	if len(vars) == 0 {
		return false, nil
	}

	if err := env.Decode(vars, prefix, cmd.Configuration); err != nil {
		return false, fmt.Errorf("failed to decode configuration from environment variables: %w", err)
	}

	return true, nil
}

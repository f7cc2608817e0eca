package loaders

import (
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/traefik/paerser/cli"
	"github.com/traefik/paerser/file"
	"github.com/traefik/paerser/flag"
)

// paerser roots every parsed flag under "traefik"
const configFileFlag = "traefik.experimental.configFile"

type FileLoader struct{}

func (f *FileLoader) Load(args []string, cmd *cli.Command) (bool, error) {
	flags, err := flag.Parse(args, cmd.Configuration)

	if err != nil {
		return false, err
	}

	if _, ok := flags[configFileFlag]; !ok {
		return false, nil
	}

	tlog.App.Warn().Str("file", flags[configFileFlag]).Msg("Using experimental file config loader, this feature may change or be removed in future releases")

	err = file.Decode(flags[configFileFlag], cmd.Configuration)

	if err != nil {
		return false, err
	}

	return true, nil
}

package loaders

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/traefik/paerser/cli"
)

// DotenvLoader exports a .env file into the process environment for the EnvLoader.
// It never claims the configuration itself, so the next loader always runs.
type DotenvLoader struct {
	Files []string
}

func (d *DotenvLoader) Load(_ []string, _ *cli.Command) (bool, error) {
	files := d.Files
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return false, nil
}

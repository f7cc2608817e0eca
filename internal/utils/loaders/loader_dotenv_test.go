package loaders_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/steveiliop56/authlink/internal/utils/loaders"

	"gotest.tools/v3/assert"
)

func TestDotenvLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(path, []byte("AUTHLINK_DOTENV_TEST=from-dotenv\n"), 0600)
	assert.NilError(t, err)

	t.Cleanup(func() { os.Unsetenv("AUTHLINK_DOTENV_TEST") })

	loader := &loaders.DotenvLoader{Files: []string{path}}

	done, err := loader.Load(nil, nil)
	assert.NilError(t, err)
	assert.Assert(t, !done)
	assert.Equal(t, "from-dotenv", os.Getenv("AUTHLINK_DOTENV_TEST"))
}

func TestDotenvLoaderMissingFile(t *testing.T) {
	loader := &loaders.DotenvLoader{Files: []string{filepath.Join(t.TempDir(), "missing.env")}}

	done, err := loader.Load(nil, nil)
	assert.NilError(t, err)
	assert.Assert(t, !done)
}

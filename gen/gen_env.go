package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/steveiliop56/authlink/internal/config"
)

type EnvEntry struct {
	Name        string
	Description string
	Value       string
}

func generateExampleEnv() {
	cfg := config.NewDefaultConfiguration()
	entries := make([]EnvEntry, 0)

	root := reflect.TypeOf(cfg).Elem()
	rootValue := reflect.ValueOf(cfg).Elem()

	walkAndBuild(root, rootValue, config.DefaultNamePrefix, &entries, buildEnvEntry, buildEnvMapEntry, buildEnvChildPath)
	compiled := compileEnv(entries)

	err := os.Remove(".env.example")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to remove example env file", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile(".env.example", compiled, 0644)
	if err != nil {
		slog.Error("failed to write example env file", "error", err)
		os.Exit(1)
	}
}

func buildEnvEntry(child reflect.StructField, childValue reflect.Value, parentPath string, entries *[]EnvEntry) {
	value, ok := defaultString(childValue)
	if !ok {
		return
	}

	// quote non-empty strings so values with spaces survive
	if childValue.Kind() == reflect.String && value != "" {
		value = fmt.Sprintf(`"%s"`, value)
	}

	*entries = append(*entries, EnvEntry{
		Name:        parentPath + strings.ToUpper(child.Name),
		Description: child.Tag.Get("description"),
		Value:       value,
	})
}

func buildEnvMapEntry(child reflect.StructField, parentPath string, entries *[]EnvEntry) {
	if child.Type.Key().Kind() != reflect.String {
		slog.Info("unsupported map key type", "type", child.Type.Key().Kind())
		return
	}

	*entries = append(*entries, EnvEntry{
		Name:        parentPath + strings.ToUpper(child.Name) + "_NAME",
		Description: child.Tag.Get("description"),
	})
}

func buildEnvChildPath(parentPath string, child reflect.StructField) string {
	return parentPath + strings.ToUpper(child.Name) + "_"
}

func compileEnv(entries []EnvEntry) []byte {
	buffer := bytes.Buffer{}
	buffer.WriteString("# authlink example configuration\n\n")

	for _, entry := range entries {
		buffer.WriteString("# ")
		buffer.WriteString(entry.Description)
		buffer.WriteString("\n")
		buffer.WriteString(entry.Name)
		buffer.WriteString("=")
		buffer.WriteString(entry.Value)
		buffer.WriteString("\n\n")
	}

	return buffer.Bytes()
}

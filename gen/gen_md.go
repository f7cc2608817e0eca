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

type MarkdownEntry struct {
	Env         string
	Flag        string
	Description string
	Default     string
}

func generateMarkdown() {
	cfg := config.NewDefaultConfiguration()
	entries := make([]MarkdownEntry, 0)

	root := reflect.TypeOf(cfg).Elem()
	rootValue := reflect.ValueOf(cfg).Elem()

	walkAndBuild(root, rootValue, "", &entries, buildMdEntry, buildMdMapEntry, buildMdChildPath)
	compiled := compileMd(entries)

	err := os.Remove("config.gen.md")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to remove config reference file", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile("config.gen.md", compiled, 0644)
	if err != nil {
		slog.Error("failed to write config reference file", "error", err)
		os.Exit(1)
	}
}

func envName(flagPath string) string {
	return config.DefaultNamePrefix + strings.ToUpper(strings.ReplaceAll(flagPath, ".", "_"))
}

func buildMdEntry(child reflect.StructField, childValue reflect.Value, parentPath string, entries *[]MarkdownEntry) {
	value, ok := defaultString(childValue)
	if !ok {
		return
	}

	flagPath := parentPath + child.Tag.Get("yaml")

	*entries = append(*entries, MarkdownEntry{
		Env:         envName(flagPath),
		Flag:        "--" + flagPath,
		Description: child.Tag.Get("description"),
		Default:     fmt.Sprintf("`%s`", value),
	})
}

func buildMdMapEntry(child reflect.StructField, parentPath string, entries *[]MarkdownEntry) {
	if child.Type.Key().Kind() != reflect.String {
		slog.Info("unsupported map key type", "type", child.Type.Key().Kind())
		return
	}

	flagPath := parentPath + child.Tag.Get("yaml")

	*entries = append(*entries, MarkdownEntry{
		Env:         envName(flagPath) + "_[NAME]",
		Flag:        "--" + flagPath + ".[name]",
		Description: child.Tag.Get("description"),
		Default:     "``",
	})
}

func buildMdChildPath(parentPath string, child reflect.StructField) string {
	return parentPath + child.Tag.Get("yaml") + "."
}

func compileMd(entries []MarkdownEntry) []byte {
	buffer := bytes.Buffer{}

	buffer.WriteString("# authlink configuration reference\n\n")
	buffer.WriteString("| Environment | Flag | Description | Default |\n")
	buffer.WriteString("| - | - | - | - |\n")

	previousSection := ""

	for _, entry := range entries {
		if !strings.Contains(strings.TrimPrefix(entry.Flag, "--"), ".") {
			fmt.Fprintf(&buffer, "| `%s` | `%s` | %s | %s |\n", entry.Env, entry.Flag, entry.Description, entry.Default)
			continue
		}

		section := strings.Split(strings.TrimPrefix(entry.Flag, "--"), ".")[0]
		if section != previousSection {
			buffer.WriteString("\n## " + section + "\n\n")
			buffer.WriteString("| Environment | Flag | Description | Default |\n")
			buffer.WriteString("| - | - | - | - |\n")
			previousSection = section
		}
		fmt.Fprintf(&buffer, "| `%s` | `%s` | %s | %s |\n", entry.Env, entry.Flag, entry.Description, entry.Default)
	}

	return buffer.Bytes()
}

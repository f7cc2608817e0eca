package main

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Generates .env.example and config.gen.md from the config struct tags and defaults.
func main() {
	slog.Info("generating example env file")
	generateExampleEnv()
	slog.Info("generating config reference markdown file")
	generateMarkdown()
}

func walkAndBuild[T any](parent reflect.Type, parentValue reflect.Value,
	parentPath string, entries *[]T,
	buildEntry func(child reflect.StructField, childValue reflect.Value, parentPath string, entries *[]T),
	buildMap func(child reflect.StructField, parentPath string, entries *[]T),
	buildChildPath func(parentPath string, child reflect.StructField) string,
) {
	for i := 0; i < parent.NumField(); i++ {
		field := parent.Field(i)
		fieldType := field.Type
		fieldValue := parentValue.Field(i)

		if field.Tag.Get("yaml") == "-" {
			continue
		}

		switch fieldType.Kind() {
		case reflect.Struct:
			childPath := buildChildPath(parentPath, field)
			walkAndBuild(fieldType, fieldValue, childPath, entries, buildEntry, buildMap, buildChildPath)
		case reflect.Map:
			buildMap(field, parentPath, entries)
		case reflect.Bool, reflect.String, reflect.Slice, reflect.Int:
			buildEntry(field, fieldValue, parentPath, entries)
		default:
			slog.Info("unknown type", "type", fieldType.Kind())
		}
	}
}

// defaultString renders a default value the way both outputs show it.
func defaultString(value reflect.Value) (string, bool) {
	switch value.Kind() {
	case reflect.Slice:
		sl, ok := value.Interface().([]string)
		if !ok {
			slog.Error("invalid default value", "value", value.Interface())
			return "", false
		}
		return strings.Join(sl, ","), true
	default:
		return fmt.Sprintf("%v", value.Interface()), true
	}
}

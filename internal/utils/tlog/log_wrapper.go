package tlog

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/steveiliop56/authlink/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Stream names, written to every entry as log_stream.
const (
	StreamApp   = "app"
	StreamHTTP  = "http"
	StreamAudit = "audit"
	StreamBot   = "bot"
)

type Logger struct {
	Audit zerolog.Logger
	HTTP  zerolog.Logger
	App   zerolog.Logger
	Bot   zerolog.Logger
}

var (
	Audit = zerolog.Nop()
	HTTP  = zerolog.Nop()
	App   = zerolog.Nop()
	Bot   = zerolog.Nop()
)

func NewLogger(cfg config.LogConfig) *Logger {
	var out io.Writer = os.Stderr

	if !cfg.Json {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	return NewLoggerWithWriter(cfg, out)
}

// NewLoggerWithWriter builds every stream on top of out.
func NewLoggerWithWriter(cfg config.LogConfig, out io.Writer) *Logger {
	level := levelOrDefault(cfg.Level, zerolog.InfoLevel)
	base := zerolog.New(out).With().Timestamp().Logger().Level(level)

	logger := &Logger{}

	streams := []struct {
		name   string
		cfg    config.LogStreamConfig
		caller bool
		target *zerolog.Logger
	}{
		{StreamApp, cfg.Streams.App, true, &logger.App},
		{StreamHTTP, cfg.Streams.HTTP, false, &logger.HTTP},
		// Audit entries are events, a source location adds nothing to them
		{StreamAudit, cfg.Streams.Audit, false, &logger.Audit},
		{StreamBot, cfg.Streams.Bot, true, &logger.Bot},
	}

	for _, stream := range streams {
		*stream.target = streamLogger(base, stream.name, stream.cfg, stream.caller, level)
	}

	return logger
}

// NewSimpleLogger is used by subcommands that run without a loaded config, only the app stream is on.
func NewSimpleLogger() *Logger {
	return NewLogger(config.LogConfig{
		Level: "info",
		Streams: config.LogStreams{
			App: config.LogStreamConfig{Enabled: true},
		},
	})
}

func (l *Logger) Init() {
	Audit = l.Audit
	HTTP = l.HTTP
	App = l.App
	Bot = l.Bot
}

func streamLogger(base zerolog.Logger, name string, streamCfg config.LogStreamConfig, caller bool, level zerolog.Level) zerolog.Logger {
	if !streamCfg.Enabled {
		return zerolog.Nop()
	}

	ctx := base.With().Str("log_stream", name)

	if caller {
		ctx = ctx.Caller()
	}

	return ctx.Logger().Level(levelOrDefault(streamCfg.Level, level))
}

func levelOrDefault(level string, fallback zerolog.Level) zerolog.Level {
	if level == "" {
		return fallback
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))

	if err != nil {
		log.Warn().Err(err).Str("level", level).Msg("Invalid log level, using the default")
		return fallback
	}

	return parsed
}

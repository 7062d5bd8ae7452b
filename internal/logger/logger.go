package logger

import (
	"io"
	"os"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"github.com/tjjh89017/readflag/internal/config"
)

var DefaultSet = wire.NewSet(
	NewLogger,
)

var LevelMap = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

func NewLogger(config *config.Config) *zerolog.Logger {
	return newLogger(os.Stdout, config.Log.Level)
}

func newLogger(out io.Writer, level string) *zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()

	if level, ok := LevelMap[level]; ok {
		logger = logger.Level(level)
	}

	return &logger
}

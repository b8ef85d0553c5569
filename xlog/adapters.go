package xlog

import (
	"log/slog"

	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// ToSlog creates a slog.Logger that writes to logger.
func ToSlog(logger *Logger) *slog.Logger {
	return slog.New(slogzerolog.Option{
		Logger: logger,
	}.NewZerologHandler())
}

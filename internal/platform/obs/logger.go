package obs

import (
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is the process-wide logfmt logger.
var Logger log.Logger = newLogger(os.Stderr, "info")

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, levelOption(lvl))
}

// Configure replaces the process logger. Unknown levels fall back to info.
func Configure(w io.Writer, lvl string) {
	Logger = newLogger(w, lvl)
}

func levelOption(lvl string) level.Option {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// Info logs keyvals at info level.
func Info(keyvals ...any) { _ = level.Info(Logger).Log(keyvals...) }

// Warn logs keyvals at warn level.
func Warn(keyvals ...any) { _ = level.Warn(Logger).Log(keyvals...) }

// Error logs keyvals at error level.
func Error(keyvals ...any) { _ = level.Error(Logger).Log(keyvals...) }

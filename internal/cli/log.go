package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// EnvLogFormat selects the log encoding: text (default), json or logfmt.
// Machine formats suit `localfile serve` under a log collector.
const EnvLogFormat = "LOCALFILE_LOG_FORMAT"

func logFormatter(name string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// newLogger writes to w at level. Text timestamps read "15:04:05.00";
// machine formats use RFC 3339.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	format := logFormatter(os.Getenv(EnvLogFormat))
	timeFormat := "15:04:05.00"
	if format != log.TextFormatter {
		timeFormat = time.RFC3339
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           level,
		Formatter:       format,
	})
}

// progress logs completion of a long step with its elapsed time, e.g.
// "Assembled acme-nl (1.234s)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default() for commands run without
// the root PersistentPreRunE, as in tests.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

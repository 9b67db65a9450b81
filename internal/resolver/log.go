package resolver

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/chainguard-dev/clog"
)

// LoggerFromContext mirrors chainguard-dev/apko's own clog.FromContext
// usage: callers that care about structured diagnostics stash a logger on
// their context.Context; callers that don't still get clog's own built-in
// default rather than a nil-pointer panic.
func LoggerFromContext(ctx context.Context) *clog.Logger {
	return clog.FromContext(ctx)
}

// WithDefaultLogger returns a context carrying a charmbracelet/log-backed
// clog.Logger, the same handler apko's CLI entry points install on their
// own contexts. A library has no business mutating slog's process-wide
// default, so this is offered as an explicit opt-in for callers that want
// it rather than as an import-time side effect.
func WithDefaultLogger(ctx context.Context) context.Context {
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: false,
	})
	return clog.WithLogger(ctx, clog.New(handler))
}

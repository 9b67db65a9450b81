package resolver

import (
	"context"
	"testing"
)

func TestLoggerFromContextNeverReturnsNil(t *testing.T) {
	if LoggerFromContext(context.Background()) == nil {
		t.Errorf("expected a usable default logger for a bare context")
	}
}

func TestWithDefaultLoggerIsRetrievable(t *testing.T) {
	ctx := WithDefaultLogger(context.Background())
	if LoggerFromContext(ctx) == nil {
		t.Errorf("expected the installed logger to be retrievable from the context")
	}
}

func TestDebugLogsNilIsSafe(t *testing.T) {
	var d *DebugLogs
	d.addNote("unreachable")
	d.addNotef("unreachable %d", 1)
	d.increaseIndent()
	d.decreaseIndent()
	if d.String() != "" {
		t.Errorf("expected a nil *DebugLogs to render as empty")
	}
}

func TestDebugLogsRecordsIndentedSteps(t *testing.T) {
	d := NewDebugLogs()
	d.addNote("resolving a")
	d.increaseIndent()
	d.addNotef("found %s", "a@npm:1.0.0")
	d.decreaseIndent()
	d.addNote("done")

	want := "resolving a\n  found a@npm:1.0.0\ndone\n"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

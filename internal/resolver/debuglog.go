package resolver

import "fmt"

// DebugLogs is the same indent-aware step tracer the teacher codebase
// threads through its own resolverQuery (resolver.go's debugLogs field):
// every meaningful branch in the algorithm appends one line at the current
// indent level, and nested sub-resolutions indent further. Kept separate
// from the leveled clog logger in log.go, which is for user-facing
// diagnostics rather than step-by-step tracing. A nil *DebugLogs is always
// safe to call methods on; every method is a no-op, so callers that don't
// enable tracing pay only a nil check per step.
type DebugLogs struct {
	indent string
	lines  []string
}

// NewDebugLogs returns a tracer ready to record steps.
func NewDebugLogs() *DebugLogs {
	return &DebugLogs{}
}

func (d *DebugLogs) addNote(note string) {
	if d == nil {
		return
	}
	d.lines = append(d.lines, d.indent+note)
}

func (d *DebugLogs) addNotef(format string, args ...interface{}) {
	if d == nil {
		return
	}
	d.addNote(fmt.Sprintf(format, args...))
}

func (d *DebugLogs) increaseIndent() {
	if d == nil {
		return
	}
	d.indent += "  "
}

func (d *DebugLogs) decreaseIndent() {
	if d == nil {
		return
	}
	d.indent = d.indent[:len(d.indent)-2]
}

// String renders the recorded trace, one step per line.
func (d *DebugLogs) String() string {
	if d == nil {
		return ""
	}
	out := ""
	for _, line := range d.lines {
		out += line + "\n"
	}
	return out
}

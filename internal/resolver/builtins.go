package resolver

import "strings"

// builtinModules is the set of Node built-in module names as of a recent
// Node LTS. The fallback/bare-specifier logic that consults this set lives
// in locator.go (C5); this file supplies only the membership test (C7).
var builtinModules = map[string]bool{
	"assert": true, "assert/strict": true, "async_hooks": true, "buffer": true,
	"child_process": true, "cluster": true, "console": true, "constants": true,
	"crypto": true, "dgram": true, "diagnostics_channel": true, "dns": true,
	"dns/promises": true, "domain": true, "events": true, "fs": true,
	"fs/promises": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"path/posix": true, "path/win32": true, "perf_hooks": true, "process": true,
	"punycode": true, "querystring": true, "readline": true, "repl": true,
	"stream": true, "stream/consumers": true, "stream/promises": true,
	"stream/web": true, "string_decoder": true, "sys": true, "timers": true,
	"timers/promises": true, "tls": true, "trace_events": true, "tty": true,
	"url": true, "util": true, "util/types": true, "v8": true, "vm": true,
	"wasi": true, "worker_threads": true, "zlib": true,
}

// IsBuiltinModule reports whether specifier names a Node built-in, whether
// or not it carries the "node:" prefix. A "node:"-prefixed specifier is
// always a builtin, even if the manifest declares a package literally
// named "node:fs" (SPEC_FULL.md §9's decided open question).
func IsBuiltinModule(specifier string) bool {
	if strings.HasPrefix(specifier, "node:") {
		return true
	}
	return builtinModules[specifier]
}

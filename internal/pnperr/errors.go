// Package pnperr defines the typed error taxonomy shared by the manifest
// parser, the manifest index, the ZIP reader, and the resolver. Every kind
// listed here carries whichever of Ident/Parent/Specifier applies to it, so
// a caller can recover the structured fields with errors.As instead of
// parsing an error string.
package pnperr

import "fmt"

// Kind identifies which of the failure modes in SPEC_FULL.md §7 occurred.
type Kind uint8

const (
	UndeclaredDependency Kind = iota
	MissingPeerDependency
	QualifiedPathResolutionFailed
	ExportsNotFound
	InvalidManifest
	ZipCorrupted
	ZipMissingEntry
	IoError
)

func (k Kind) String() string {
	switch k {
	case UndeclaredDependency:
		return "UndeclaredDependency"
	case MissingPeerDependency:
		return "MissingPeerDependency"
	case QualifiedPathResolutionFailed:
		return "QualifiedPathResolutionFailed"
	case ExportsNotFound:
		return "ExportsNotFound"
	case InvalidManifest:
		return "InvalidManifest"
	case ZipCorrupted:
		return "ZipCorrupted"
	case ZipMissingEntry:
		return "ZipMissingEntry"
	case IoError:
		return "IoError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete type every resolution failure is returned as. The
// Ident/Parent/Specifier/Probed fields are populated only where they apply
// to the Kind; zero values are omitted from Error()'s message.
type Error struct {
	Kind Kind

	// Ident is the dependency name involved, when applicable (e.g. the
	// missing peer's name, or the bare specifier's package ident).
	Ident string

	// Parent is the path or locator description of the file or package
	// that triggered resolution, when applicable.
	Parent string

	// Specifier is the raw import/require string being resolved.
	Specifier string

	// Probed lists the candidate paths C6 tried before giving up, for
	// QualifiedPathResolutionFailed.
	Probed []string

	// Err wraps the underlying cause for IoError/ZipCorrupted/InvalidManifest.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Ident != "" {
		msg += fmt.Sprintf(" ident=%q", e.Ident)
	}
	if e.Specifier != "" {
		msg += fmt.Sprintf(" specifier=%q", e.Specifier)
	}
	if e.Parent != "" {
		msg += fmt.Sprintf(" parent=%q", e.Parent)
	}
	if len(e.Probed) > 0 {
		msg += fmt.Sprintf(" probed=%v", e.Probed)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, &pnperr.Error{Kind: pnperr.UndeclaredDependency})
// style checks: when the target is itself a *Error, only Kind is compared
// and every other field is ignored. The idiomatic path is errors.As plus
// inspecting Kind directly;
// this method exists only to support simple kind-equality checks in tests.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

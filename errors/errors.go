package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred.
type Phase string

const (
	PhaseParse    Phase = "parse"    // WAT/binary parsing
	PhaseDecode   Phase = "decode"   // binary module decoding
	PhaseValidate Phase = "validate" // module structural validation
	PhaseLinking  Phase = "linking"  // instantiation and import resolution
	PhaseLoad     Phase = "load"     // Runtime.Load orchestration
	PhaseHost     Phase = "host"     // host function registration
	PhaseRuntime  Phase = "runtime"  // facade-level calls (Program methods)
)

// Kind categorizes the error.
type Kind string

const (
	KindInvalidData     Kind = "invalid_data"
	KindUnsupported     Kind = "unsupported"
	KindNotFound        Kind = "not_found"
	KindInvalidInput    Kind = "invalid_input"
	KindImportNotFound  Kind = "import_not_found"
	KindImportMismatch  Kind = "import_type_mismatch"
	KindExportNotFound  Kind = "export_not_found"
	KindImmutableGlobal Kind = "immutable_global"
	KindInstantiation   Kind = "instantiation"
	KindInvalidArgument Kind = "invalid_argument"
)

// Error is the structured error type used throughout this module.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors.

// Unsupported creates an unsupported-feature error.
func Unsupported(phase Phase, what string) *Error {
	return &Error{Phase: phase, Kind: KindUnsupported, Detail: what}
}

// InvalidData creates an invalid-data error.
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidData, Path: path, Detail: detail}
}

// Wrap wraps an existing error with additional context.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Detail: detail, Cause: cause}
}

// NotFound creates a not-found error.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{Phase: phase, Kind: KindNotFound, Detail: fmt.Sprintf("%s %q not found", what, name)}
}

// InvalidInput creates an invalid-input error.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidInput, Detail: detail}
}

// ImportNotFound creates an error for an import with no matching host or
// module export.
func ImportNotFound(module, name string) *Error {
	return &Error{
		Phase:  PhaseLinking,
		Kind:   KindImportNotFound,
		Detail: fmt.Sprintf("import %s.%s not found", module, name),
		Path:   []string{module, name},
	}
}

// ImportTypeMismatch creates an error for an import resolved to an item of
// the wrong type or signature.
func ImportTypeMismatch(module, name, detail string) *Error {
	return &Error{
		Phase:  PhaseLinking,
		Kind:   KindImportMismatch,
		Detail: detail,
		Path:   []string{module, name},
	}
}

// ExportNotFound creates an error for a facade lookup of a missing export.
func ExportNotFound(module, name string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindExportNotFound,
		Detail: fmt.Sprintf("export %s.%s not found", module, name),
		Path:   []string{module, name},
	}
}

// ImmutableGlobal creates an error for a write to a non-mutable global.
func ImmutableGlobal(module, name string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindImmutableGlobal,
		Detail: fmt.Sprintf("global %s.%s is not mutable", module, name),
		Path:   []string{module, name},
	}
}

// InvalidArgument creates an error for an exported-function call whose
// argument count or value types don't match the function's signature.
func InvalidArgument(module, name, detail string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInvalidArgument,
		Detail: detail,
		Path:   []string{module, name},
	}
}

// Instantiation creates an instantiation error.
func Instantiation(cause error) *Error {
	return &Error{Phase: PhaseLinking, Kind: KindInstantiation, Detail: "instantiate module", Cause: cause}
}

// Load creates a module loading error.
func Load(detail string, cause error) *Error {
	return &Error{Phase: PhaseLoad, Kind: KindInvalidData, Detail: detail, Cause: cause}
}

// ParseFailed creates a parsing error.
func ParseFailed(what string, cause error) *Error {
	return &Error{Phase: PhaseParse, Kind: KindInvalidData, Detail: fmt.Sprintf("parse %s", what), Cause: cause}
}

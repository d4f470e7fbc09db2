// Package errors provides structured error types for the wasm-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries a field path, a human detail string, and
// an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLinking, errors.KindImportMismatch).
//		Path("env", "memory").
//		Detail("expected min 1, got 2").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ImportNotFound("env", "memory")
//	err := errors.ExportNotFound("main", "run")
//
// Traps raised during instruction execution are not *errors.Error; they are
// *vm.Trap, a distinct type carrying a vm.TrapKind. Parsing, validation, and
// linking failures are always *errors.Error; function invocation failures
// are either *errors.Error (invalid arguments) or *vm.Trap (runtime faults).
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

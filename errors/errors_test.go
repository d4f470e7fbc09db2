package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseLinking,
				Kind:   KindImportMismatch,
				Path:   []string{"env", "memory"},
				Detail: "expected min 1, got 2",
			},
			contains: []string{"[linking]", "import_type_mismatch", "env.memory", "expected min 1, got 2"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindInvalidData,
			},
			contains: []string{"[decode]", "invalid_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRuntime,
				Kind:   KindNotFound,
				Detail: "no exported memory",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[runtime]", "not_found", "no exported memory", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Phase: PhaseLoad, Kind: KindInvalidData, Cause: cause}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{Phase: PhaseLoad, Kind: KindImportNotFound, Path: []string{"foo"}}

	if !err.Is(&Error{Phase: PhaseLoad, Kind: KindImportNotFound}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindImportNotFound}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseLoad, Kind: KindNotFound}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseLoad, Kind: KindImportNotFound}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseHost, KindInvalidInput).
		Path("add").
		Value(42).
		Cause(cause).
		Detail("expected %d args, got %d", 2, 1).
		Build()

	if err.Phase != PhaseHost {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseHost)
	}
	if err.Kind != KindInvalidInput {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
	}
	if len(err.Path) != 1 || err.Path[0] != "add" {
		t.Errorf("Path = %v, want [add]", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected 2 args, got 1" {
		t.Errorf("Detail = %v, want 'expected 2 args, got 1'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("ImportNotFound", func(t *testing.T) {
		err := ImportNotFound("env", "memory")
		if err.Kind != KindImportNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindImportNotFound)
		}
		if !strings.Contains(err.Error(), "env.memory") {
			t.Errorf("Error() = %v, should mention env.memory", err.Error())
		}
	})

	t.Run("ImportTypeMismatch", func(t *testing.T) {
		err := ImportTypeMismatch("env", "add", "signature mismatch")
		if err.Kind != KindImportMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindImportMismatch)
		}
	})

	t.Run("ExportNotFound", func(t *testing.T) {
		err := ExportNotFound("main", "run")
		if err.Kind != KindExportNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindExportNotFound)
		}
	})

	t.Run("ImmutableGlobal", func(t *testing.T) {
		err := ImmutableGlobal("main", "counter")
		if err.Kind != KindImmutableGlobal {
			t.Errorf("Kind = %v, want %v", err.Kind, KindImmutableGlobal)
		}
	})

	t.Run("InvalidArgument", func(t *testing.T) {
		err := InvalidArgument("main", "add", "wrong argument count")
		if err.Kind != KindInvalidArgument {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidArgument)
		}
		if !strings.Contains(err.Error(), "main.add") {
			t.Errorf("Error() = %v, should mention main.add", err.Error())
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseDecode, "simd")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseRuntime, "global", "counter")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
	})
}

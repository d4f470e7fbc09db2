package vm

import "fmt"

// TrapKind categorizes a runtime fault per the core specification's trap
// taxonomy. Every trap is fatal to the current call.
type TrapKind string

const (
	TrapUnreachable               TrapKind = "unreachable"
	TrapIntegerDivideByZero       TrapKind = "integer_divide_by_zero"
	TrapIntegerOverflow           TrapKind = "integer_overflow"
	TrapInvalidConversion         TrapKind = "invalid_conversion"
	TrapOutOfBoundsMemoryAccess   TrapKind = "out_of_bounds_memory_access"
	TrapOutOfBoundsTableAccess    TrapKind = "out_of_bounds_table_access"
	TrapIndirectCallTypeMismatch  TrapKind = "indirect_call_type_mismatch"
	TrapUninitializedElement      TrapKind = "uninitialized_element"
	TrapElementSegmentOutOfBounds TrapKind = "element_segment_out_of_bounds"
	TrapDataSegmentOutOfBounds    TrapKind = "data_segment_out_of_bounds"
	TrapStackOverflow             TrapKind = "stack_overflow"
	// TrapHostError wraps an error returned by a host-provided function;
	// not part of the core specification's taxonomy, but required by
	// "a host-raised error becomes a trap" (spec.md §6.3).
	TrapHostError TrapKind = "host_error"
)

// Trap is the error type raised by the execution engine for every runtime
// fault. Traps are distinct from *errors.Error: they originate from
// instruction execution rather than from parsing, validation, or linking.
type Trap struct {
	Kind   TrapKind
	Detail string
}

// NewTrap constructs a Trap of the given kind with a human-readable detail.
func NewTrap(kind TrapKind, detail string) *Trap {
	return &Trap{Kind: kind, Detail: detail}
}

func (t *Trap) Error() string {
	if t.Detail == "" {
		return fmt.Sprintf("trap: %s", t.Kind)
	}
	return fmt.Sprintf("trap: %s: %s", t.Kind, t.Detail)
}

// Is lets errors.Is match traps by kind alone.
func (t *Trap) Is(target error) bool {
	o, ok := target.(*Trap)
	return ok && t.Kind == o.Kind
}

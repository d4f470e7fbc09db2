// Package vm implements the WebAssembly runtime core: values, the store,
// linear memory, tables, the flattened instruction stream, and the stack
// machine that executes it.
package vm

import "github.com/wippyai/wasm-runtime/wasm"

// ValueType identifies the kind held by a Value.
type ValueType = wasm.ValType

// Value types reuse the wasm package's tags so a decoded FuncType can be
// compared directly against runtime values without translation.
const (
	ValueI32 = wasm.ValI32
	ValueI64 = wasm.ValI64
	ValueF32 = wasm.ValF32
	ValueF64 = wasm.ValF64
)

// Value is a tagged union over the four WebAssembly numeric types. I32/I64
// are stored as bit patterns; signedness is a property of the operator that
// consumes the value, never of the value itself.
type Value struct {
	Type ValueType
	I32  int32
	I64  int64
	F32  float32
	F64  float64
}

// I32Value constructs an i32 value from a bit pattern.
func I32Value(v int32) Value { return Value{Type: ValueI32, I32: v} }

// I64Value constructs an i64 value from a bit pattern.
func I64Value(v int64) Value { return Value{Type: ValueI64, I64: v} }

// F32Value constructs an f32 value.
func F32Value(v float32) Value { return Value{Type: ValueF32, F32: v} }

// F64Value constructs an f64 value.
func F64Value(v float64) Value { return Value{Type: ValueF64, F64: v} }

// BoolValue encodes a WebAssembly comparison result: 1 for true, 0 for false.
func BoolValue(b bool) Value {
	if b {
		return I32Value(1)
	}
	return I32Value(0)
}

// IsTrue reports whether an i32 value is non-zero, the WebAssembly truthiness
// rule used by br_if, if, and select.
func (v Value) IsTrue() bool { return v.I32 != 0 }

// ZeroValue returns the zero value for a ValueType, used to initialize locals
// that were not supplied as arguments.
func ZeroValue(t ValueType) Value {
	switch t {
	case ValueI32:
		return I32Value(0)
	case ValueI64:
		return I64Value(0)
	case ValueF32:
		return F32Value(0)
	case ValueF64:
		return F64Value(0)
	default:
		return Value{}
	}
}

package runtime

import (
	"strconv"
	"strings"

	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/vm"
)

// ExportedFunction is a callable handle to one module's exported function.
type ExportedFunction struct {
	module string
	name   string
	fn     *vm.FunctionInstance
	engine *vm.Engine
}

// Signature renders the function's type as "(p1, p2) -> r1, r2".
func (f *ExportedFunction) Signature() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range f.fn.Type.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if len(f.fn.Type.Results) > 0 {
		b.WriteString(" -> ")
		for i, r := range f.fn.Type.Results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.String())
		}
	}
	return b.String()
}

// Name is the export name this handle was resolved from.
func (f *ExportedFunction) Name() string { return f.name }

// ArgCount returns the number of parameters the function declares.
func (f *ExportedFunction) ArgCount() int { return len(f.fn.Type.Params) }

// ParamTypes returns the function's declared parameter types in order.
func (f *ExportedFunction) ParamTypes() []vm.ValueType { return f.fn.Type.Params }

// ResultTypes returns the function's declared result types in order.
func (f *ExportedFunction) ResultTypes() []vm.ValueType { return f.fn.Type.Results }

// Invoke calls the function with args, validating arity and value types
// before entering the engine. A mismatch fails with InvalidArgument; an
// engine trap during the call surfaces verbatim.
func (f *ExportedFunction) Invoke(args ...vm.Value) (*vm.Value, error) {
	want := f.fn.Type.Params
	if len(args) != len(want) {
		return nil, errors.InvalidArgument(f.module, f.name,
			"wrong argument count")
	}
	for i, a := range args {
		if a.Type != want[i] {
			return nil, errors.InvalidArgument(f.module, f.name,
				"argument "+strconv.Itoa(i)+": expected "+want[i].String()+", got "+a.Type.String())
		}
	}

	results, tr := f.engine.Call(f.fn, args)
	if tr != nil {
		return nil, tr
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

package vm

import (
	"testing"

	"github.com/wippyai/wasm-runtime/wasm"
)

func TestStore_AllocateFunction(t *testing.T) {
	s := NewStore()
	fn := &FunctionInstance{Type: FuncType{Results: []ValueType{ValueI32}}}
	addr := s.AllocateFunction(fn)
	if addr != 0 {
		t.Errorf("first AllocateFunction addr = %d, want 0", addr)
	}
	if s.Functions[addr] != fn {
		t.Error("stored function does not match allocated instance")
	}
}

func TestStore_AllocateTable(t *testing.T) {
	s := NewStore()
	addr := s.AllocateTable(wasm.Limits{Min: 3})
	if len(s.Tables[addr].Elements) != 3 {
		t.Errorf("table size = %d, want 3", len(s.Tables[addr].Elements))
	}
}

func TestStore_AllocateMemory(t *testing.T) {
	s := NewStore()
	addr, err := s.AllocateMemory(DefaultMemoryProvider(), 2, nil)
	if err != nil {
		t.Fatalf("AllocateMemory failed: %v", err)
	}
	if s.Memories[addr].Size() != 2 {
		t.Errorf("memory size = %d, want 2", s.Memories[addr].Size())
	}
}

func TestStore_AllocateGlobal(t *testing.T) {
	s := NewStore()
	addr := s.AllocateGlobal(ValueI32, true, I32Value(42))
	g := s.Globals[addr]
	if !g.Mutable || g.Value.I32 != 42 {
		t.Errorf("global = %+v, want mutable=true value=42", g)
	}
}

func TestFuncType_Equal(t *testing.T) {
	a := FuncType{Params: []ValueType{ValueI32, ValueI64}, Results: []ValueType{ValueF32}}
	b := FuncType{Params: []ValueType{ValueI32, ValueI64}, Results: []ValueType{ValueF32}}
	c := FuncType{Params: []ValueType{ValueI32}, Results: []ValueType{ValueF32}}
	if !a.Equal(b) {
		t.Error("identical signatures should be Equal")
	}
	if a.Equal(c) {
		t.Error("differing param count should not be Equal")
	}
}

func TestFunctionInstance_IsHost(t *testing.T) {
	host := &FunctionInstance{Host: func(args []Value, ctx HostContext) ([]Value, error) { return nil, nil }}
	module := &FunctionInstance{Body: &FlattenedBody{}}
	if !host.IsHost() {
		t.Error("host function IsHost() = false, want true")
	}
	if module.IsHost() {
		t.Error("module function IsHost() = true, want false")
	}
}

package vm

import (
	"testing"

	"github.com/wippyai/wasm-runtime/wasm"
)

// buildModule wires a single memory-less ModuleInstance backed by a fresh
// Store, with funcs appended in the order given. Each func's body is
// flattened from its raw instruction list.
func buildModule(t *testing.T, funcs []struct {
	typ    FuncType
	instrs []wasm.Instruction
	locals []ValueType
}) (*ModuleInstance, *Store) {
	t.Helper()
	store := NewStore()
	mi := &ModuleInstance{Store: store}
	for _, f := range funcs {
		body, err := Flatten(f.locals, f.instrs)
		if err != nil {
			t.Fatalf("Flatten failed: %v", err)
		}
		addr := store.AllocateFunction(&FunctionInstance{Type: f.typ, Module: mi, Body: body})
		mi.FuncAddrs = append(mi.FuncAddrs, addr)
	}
	return mi, store
}

func i32c(v int32) wasm.Instruction { return wasm.Instruction{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: v}} }

func TestEngine_AddTwoConstants(t *testing.T) {
	instrs := []wasm.Instruction{
		i32c(2),
		i32c(3),
		{Opcode: wasm.OpI32Add},
		{Opcode: wasm.OpEnd},
	}
	mi, store := buildModule(t, []struct {
		typ    FuncType
		instrs []wasm.Instruction
		locals []ValueType
	}{{FuncType{Results: []ValueType{ValueI32}}, instrs, nil}})

	e := NewEngine()
	results, tr := e.Call(store.Functions[mi.FuncAddrs[0]], nil)
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if len(results) != 1 || results[0].I32 != 5 {
		t.Errorf("results = %v, want [5]", results)
	}
}

func TestEngine_IfElse(t *testing.T) {
	// (if (result i32) (local.get 0) (then i32.const 1) (else i32.const 0))
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 0}},
		{Opcode: wasm.OpIf, Imm: wasm.BlockImm{Type: wasm.BlockTypeI32}},
		i32c(1),
		{Opcode: wasm.OpElse},
		i32c(0),
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpEnd},
	}
	mi, store := buildModule(t, []struct {
		typ    FuncType
		instrs []wasm.Instruction
		locals []ValueType
	}{{FuncType{Params: []ValueType{ValueI32}, Results: []ValueType{ValueI32}}, instrs, []ValueType{ValueI32}}})

	e := NewEngine()
	results, tr := e.Call(store.Functions[mi.FuncAddrs[0]], []Value{I32Value(1)})
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if results[0].I32 != 1 {
		t.Errorf("condition true: results = %v, want [1]", results)
	}

	results, tr = e.Call(store.Functions[mi.FuncAddrs[0]], []Value{I32Value(0)})
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if results[0].I32 != 0 {
		t.Errorf("condition false: results = %v, want [0]", results)
	}
}

// TestEngine_BranchAfterIfDoesNotLeakLabel guards against the if-label
// surviving past its matching End on the fallthrough path: a leaked label
// shifts what a later br targets, causing code between the if and the br to
// run twice instead of once.
func TestEngine_BranchAfterIfDoesNotLeakLabel(t *testing.T) {
	// (block
	//   (if (i32.const 0) (then nop))   ;; false: falls through the no-else path
	//   local.get 0
	//   i32.const 1
	//   i32.add
	//   local.set 0
	//   br 0
	// )
	// local.get 0
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpBlock, Imm: wasm.BlockImm{Type: wasm.BlockTypeVoid}},
		i32c(0),
		{Opcode: wasm.OpIf, Imm: wasm.BlockImm{Type: wasm.BlockTypeVoid}},
		{Opcode: wasm.OpNop},
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 0}},
		i32c(1),
		{Opcode: wasm.OpI32Add},
		{Opcode: wasm.OpLocalSet, Imm: wasm.LocalImm{LocalIdx: 0}},
		{Opcode: wasm.OpBr, Imm: wasm.BranchImm{LabelIdx: 0}},
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 0}},
		{Opcode: wasm.OpEnd},
	}
	mi, store := buildModule(t, []struct {
		typ    FuncType
		instrs []wasm.Instruction
		locals []ValueType
	}{{FuncType{Results: []ValueType{ValueI32}}, instrs, []ValueType{ValueI32}}})

	e := NewEngine()
	results, tr := e.Call(store.Functions[mi.FuncAddrs[0]], nil)
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if results[0].I32 != 1 {
		t.Errorf("counter = %v, want [1] (if-label must not leak and cause the increment to run twice)", results)
	}
}

func TestEngine_LoopCountdown(t *testing.T) {
	// local 0 = counter (param), decrements to 0 via a loop + br_if.
	// (loop $l
	//   local.get 0
	//   i32.const 1
	//   i32.sub
	//   local.tee 0
	//   br_if $l
	// )
	// local.get 0
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpLoop, Imm: wasm.BlockImm{Type: wasm.BlockTypeVoid}},
		{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 0}},
		i32c(1),
		{Opcode: wasm.OpI32Sub},
		{Opcode: wasm.OpLocalTee, Imm: wasm.LocalImm{LocalIdx: 0}},
		{Opcode: wasm.OpBrIf, Imm: wasm.BranchImm{LabelIdx: 0}},
		{Opcode: wasm.OpEnd},
		{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: 0}},
		{Opcode: wasm.OpEnd},
	}
	mi, store := buildModule(t, []struct {
		typ    FuncType
		instrs []wasm.Instruction
		locals []ValueType
	}{{FuncType{Params: []ValueType{ValueI32}, Results: []ValueType{ValueI32}}, instrs, []ValueType{ValueI32}}})

	e := NewEngine()
	results, tr := e.Call(store.Functions[mi.FuncAddrs[0]], []Value{I32Value(5)})
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if results[0].I32 != 0 {
		t.Errorf("loop countdown result = %v, want [0]", results)
	}
}

func TestEngine_UnreachableTraps(t *testing.T) {
	instrs := []wasm.Instruction{
		{Opcode: wasm.OpUnreachable},
		{Opcode: wasm.OpEnd},
	}
	mi, store := buildModule(t, []struct {
		typ    FuncType
		instrs []wasm.Instruction
		locals []ValueType
	}{{FuncType{}, instrs, nil}})

	e := NewEngine()
	_, tr := e.Call(store.Functions[mi.FuncAddrs[0]], nil)
	if tr == nil || tr.Kind != TrapUnreachable {
		t.Fatalf("trap = %v, want %v", tr, TrapUnreachable)
	}
}

func TestEngine_CallBetweenFunctions(t *testing.T) {
	// func 0: (call 1) -- forwards to func 1 which returns a constant.
	callInstrs := []wasm.Instruction{
		{Opcode: wasm.OpCall, Imm: wasm.CallImm{FuncIdx: 1}},
		{Opcode: wasm.OpEnd},
	}
	calleeInstrs := []wasm.Instruction{
		i32c(99),
		{Opcode: wasm.OpEnd},
	}
	mi, store := buildModule(t, []struct {
		typ    FuncType
		instrs []wasm.Instruction
		locals []ValueType
	}{
		{FuncType{Results: []ValueType{ValueI32}}, callInstrs, nil},
		{FuncType{Results: []ValueType{ValueI32}}, calleeInstrs, nil},
	})

	e := NewEngine()
	results, tr := e.Call(store.Functions[mi.FuncAddrs[0]], nil)
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if results[0].I32 != 99 {
		t.Errorf("results = %v, want [99]", results)
	}
}

func TestEngine_HostFunctionTrapWrapping(t *testing.T) {
	store := NewStore()
	mi := &ModuleInstance{Store: store}
	hostFn := &FunctionInstance{
		Type: FuncType{},
		Host: func(args []Value, ctx HostContext) ([]Value, error) {
			return nil, errPlainHost
		},
	}
	addr := store.AllocateFunction(hostFn)
	mi.FuncAddrs = append(mi.FuncAddrs, addr)

	e := NewEngine()
	_, tr := e.Call(store.Functions[mi.FuncAddrs[0]], nil)
	if tr == nil || tr.Kind != TrapHostError {
		t.Fatalf("trap = %v, want %v", tr, TrapHostError)
	}
}

type hostErr string

func (e hostErr) Error() string { return string(e) }

const errPlainHost = hostErr("boom")

func TestEngine_MemoryLoadStoreRoundTrip(t *testing.T) {
	store := NewStore()
	memAddr, err := store.AllocateMemory(DefaultMemoryProvider(), 1, nil)
	if err != nil {
		t.Fatalf("AllocateMemory failed: %v", err)
	}
	mi := &ModuleInstance{Store: store, MemAddrs: []Addr{memAddr}}

	instrs := []wasm.Instruction{
		i32c(0),  // address
		i32c(42), // value
		{Opcode: wasm.OpI32Store, Imm: wasm.MemoryImm{Offset: 0}},
		i32c(0),
		{Opcode: wasm.OpI32Load, Imm: wasm.MemoryImm{Offset: 0}},
		{Opcode: wasm.OpEnd},
	}
	body, err := Flatten(nil, instrs)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	fnAddr := store.AllocateFunction(&FunctionInstance{
		Type:   FuncType{Results: []ValueType{ValueI32}},
		Module: mi,
		Body:   body,
	})
	mi.FuncAddrs = append(mi.FuncAddrs, fnAddr)

	e := NewEngine()
	results, tr := e.Call(store.Functions[mi.FuncAddrs[0]], nil)
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if results[0].I32 != 42 {
		t.Errorf("results = %v, want [42]", results)
	}
}

package linker

import (
	"testing"

	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/vm"
	"github.com/wippyai/wasm-runtime/wasm"
)

// addModule builds a minimal module exporting a single function "add" that
// returns the sum of its two i32 params, plus one mutable i32 global "ctr"
// initialized to 10 and exported, and one exported memory "mem".
func addModule() *wasm.Module {
	addBody := []byte{
		wasm.OpLocalGet, 0x00,
		wasm.OpLocalGet, 0x01,
		wasm.OpI32Add,
		wasm.OpEnd,
	}
	return &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}},
		},
		Funcs:    []uint32{0},
		Code:     []wasm.FuncBody{{Code: addBody}},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValI32, Mutable: true}, Init: []byte{wasm.OpI32Const, 0x0A, wasm.OpEnd}},
		},
		Exports: []wasm.Export{
			{Name: "add", Kind: wasm.KindFunc, Idx: 0},
			{Name: "ctr", Kind: wasm.KindGlobal, Idx: 0},
			{Name: "mem", Kind: wasm.KindMemory, Idx: 0},
		},
	}
}

func TestInstantiate_ExportsResolvable(t *testing.T) {
	store := vm.NewStore()
	reg := NewRegistry()
	mi, err := Instantiate(store, reg, addModule(), vm.DefaultMemoryProvider())
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	exp, ok := mi.FindExport("add")
	if !ok || exp.Kind != vm.ExternFunc {
		t.Fatalf("export 'add' not found or wrong kind: %+v, ok=%v", exp, ok)
	}

	e := vm.NewEngine()
	fn := store.Functions[exp.Addr]
	results, tr := e.Call(fn, []vm.Value{vm.I32Value(2), vm.I32Value(3)})
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if results[0].I32 != 5 {
		t.Errorf("add(2,3) = %v, want [5]", results)
	}
}

func TestInstantiate_GlobalInitializerEvaluated(t *testing.T) {
	store := vm.NewStore()
	reg := NewRegistry()
	mi, err := Instantiate(store, reg, addModule(), vm.DefaultMemoryProvider())
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	exp, _ := mi.FindExport("ctr")
	g := store.Globals[exp.Addr]
	if g.Value.I32 != 10 {
		t.Errorf("global ctr = %d, want 10", g.Value.I32)
	}
	if !g.Mutable {
		t.Error("global ctr should be mutable")
	}
}

func TestInstantiate_MissingImportFails(t *testing.T) {
	mod := &wasm.Module{
		Imports: []wasm.Import{
			{Module: "env", Name: "missing", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}},
		},
		Types: []wasm.FuncType{{}},
	}
	store := vm.NewStore()
	reg := NewRegistry()
	_, err := Instantiate(store, reg, mod, vm.DefaultMemoryProvider())
	if err == nil {
		t.Fatal("expected ImportNotFound, got nil error")
	}
	var wantErr *errors.Error
	if !asError(err, &wantErr) || wantErr.Kind != errors.KindImportNotFound {
		t.Errorf("err = %v, want Kind=%v", err, errors.KindImportNotFound)
	}
}

func TestInstantiate_ImportTypeMismatchFails(t *testing.T) {
	store := vm.NewStore()
	reg := NewRegistry()
	// Register "env.thing" as a global, then try to import it as a func.
	reg.DefineGlobal(store, "env", "thing", vm.ValueI32, false, vm.I32Value(1))

	mod := &wasm.Module{
		Imports: []wasm.Import{
			{Module: "env", Name: "thing", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}},
		},
		Types: []wasm.FuncType{{}},
	}
	_, err := Instantiate(store, reg, mod, vm.DefaultMemoryProvider())
	if err == nil {
		t.Fatal("expected ImportTypeMismatch, got nil error")
	}
	var wantErr *errors.Error
	if !asError(err, &wantErr) || wantErr.Kind != errors.KindImportMismatch {
		t.Errorf("err = %v, want Kind=%v", err, errors.KindImportMismatch)
	}
}

func TestInstantiate_HostImportCallable(t *testing.T) {
	store := vm.NewStore()
	reg := NewRegistry()
	called := false
	reg.DefineFunc(store, "env", "log", vm.FuncType{Params: []vm.ValueType{vm.ValueI32}}, func(args []vm.Value, ctx vm.HostContext) ([]vm.Value, error) {
		called = true
		return nil, nil
	})

	mod := &wasm.Module{
		Types: []wasm.FuncType{{Params: []wasm.ValType{wasm.ValI32}}},
		Imports: []wasm.Import{
			{Module: "env", Name: "log", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}},
		},
		Exports: []wasm.Export{{Name: "log", Kind: wasm.KindFunc, Idx: 0}},
	}
	mi, err := Instantiate(store, reg, mod, vm.DefaultMemoryProvider())
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	exp, _ := mi.FindExport("log")
	e := vm.NewEngine()
	if _, tr := e.Call(store.Functions[exp.Addr], []vm.Value{vm.I32Value(1)}); tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if !called {
		t.Error("host function was not invoked")
	}
}

func TestInstantiate_DependencyOrderAllowsCrossModuleImport(t *testing.T) {
	store := vm.NewStore()
	reg := NewRegistry()
	providerMI, err := Instantiate(store, reg, addModule(), vm.DefaultMemoryProvider())
	if err != nil {
		t.Fatalf("Instantiate (provider) failed: %v", err)
	}
	reg.DefineModule("math", providerMI)

	consumer := &wasm.Module{
		Types: []wasm.FuncType{{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}}},
		Imports: []wasm.Import{
			{Module: "math", Name: "add", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}},
		},
		Exports: []wasm.Export{{Name: "add", Kind: wasm.KindFunc, Idx: 0}},
	}
	consumerMI, err := Instantiate(store, reg, consumer, vm.DefaultMemoryProvider())
	if err != nil {
		t.Fatalf("Instantiate (consumer) failed: %v", err)
	}
	exp, _ := consumerMI.FindExport("add")
	e := vm.NewEngine()
	results, tr := e.Call(store.Functions[exp.Addr], []vm.Value{vm.I32Value(4), vm.I32Value(5)})
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if results[0].I32 != 9 {
		t.Errorf("imported add(4,5) = %v, want [9]", results)
	}
}

func TestInstantiate_DataSegmentPlaced(t *testing.T) {
	mod := &wasm.Module{
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Data: []wasm.DataSegment{
			{Offset: []byte{wasm.OpI32Const, 0x04, wasm.OpEnd}, Init: []byte{1, 2, 3}},
		},
	}
	store := vm.NewStore()
	reg := NewRegistry()
	mi, err := Instantiate(store, reg, mod, vm.DefaultMemoryProvider())
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	mem := mi.Memory(0)
	got, tr := mem.ReadInt(4, 1, false)
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if got != 1 {
		t.Errorf("byte at offset 4 = %d, want 1", got)
	}
}

func TestInstantiate_ElementSegmentOutOfBoundsTraps(t *testing.T) {
	mod := &wasm.Module{
		Tables: []wasm.TableType{{Limits: wasm.Limits{Min: 1}, ElemType: wasm.ValFuncRef}},
		Elements: []wasm.Element{
			{TableIdx: 0, Offset: []byte{wasm.OpI32Const, 0x00, wasm.OpEnd}, FuncIdxs: []uint32{0, 0}},
		},
	}
	store := vm.NewStore()
	reg := NewRegistry()
	_, err := Instantiate(store, reg, mod, vm.DefaultMemoryProvider())
	if err == nil {
		t.Fatal("expected out-of-bounds element segment to fail instantiation")
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}

package runtime

import (
	"math"
	"testing"

	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/vm"
)

// S1 - Arithmetic export.
func TestProgram_ArithmeticExport(t *testing.T) {
	p := New()
	src := `(module (func (export "add") (param i32 i32) (result i32)
		local.get 0 local.get 1 i32.add))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	add, err := p.GetFunction("m", "add")
	if err != nil {
		t.Fatalf("GetFunction failed: %v", err)
	}
	if add.ArgCount() != 2 {
		t.Errorf("ArgCount = %d, want 2", add.ArgCount())
	}
	res, err := add.Invoke(vm.I32Value(1337), vm.I32Value(42))
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if res.I32 != 1379 {
		t.Errorf("add(1337,42) = %d, want 1379", res.I32)
	}

	res, err = add.Invoke(vm.I32Value(math.MinInt32), vm.I32Value(-1))
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if res.I32 != math.MaxInt32 {
		t.Errorf("add(MIN,-1) = %d, want MAX", res.I32)
	}
}

// S2 - Memory store/load.
func TestProgram_MemoryStoreLoad(t *testing.T) {
	p := New()
	src := `(module
		(memory (export "mem") 1)
		(func (export "store") (param $i i32) (param $v i32)
			local.get $i local.get $v i32.store)
		(func (export "load") (param $i i32) (result i32)
			local.get $i i32.load))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	store, _ := p.GetFunction("m", "store")
	load, _ := p.GetFunction("m", "load")

	var want uint32 = 0xDEADBEEF
	if _, err := store.Invoke(vm.I32Value(4), vm.I32Value(int32(want))); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	mem, ok := p.GetMemory()
	if !ok {
		t.Fatal("GetMemory found nothing")
	}
	got, tr := mem.ReadInt(4, 4, false)
	if tr != nil {
		t.Fatalf("ReadInt trapped: %v", tr)
	}
	if uint32(got) != 0xDEADBEEF {
		t.Errorf("read_int = %#x, want 0xDEADBEEF", got)
	}

	res, err := load.Invoke(vm.I32Value(4))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if uint32(res.I32) != 0xDEADBEEF {
		t.Errorf("load(4) = %#x, want 0xDEADBEEF", uint32(res.I32))
	}
}

// S3 - Call indirect dispatch.
func TestProgram_CallIndirectDispatch(t *testing.T) {
	p := New()
	src := `(module
		(type $binop (func (param i32 i32) (result i32)))
		(table 2 funcref)
		(elem (i32.const 0) $f_add $f_sub)
		(func $f_add (param i32 i32) (result i32) local.get 0 local.get 1 i32.add)
		(func $f_sub (param i32 i32) (result i32) local.get 0 local.get 1 i32.sub)
		(func (export "run") (param $which i32) (param $a i32) (param $b i32) (result i32)
			local.get $a local.get $b local.get $which call_indirect (type $binop)))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	run, _ := p.GetFunction("m", "run")

	res, err := run.Invoke(vm.I32Value(0), vm.I32Value(10), vm.I32Value(4))
	if err != nil {
		t.Fatalf("run(0,...) failed: %v", err)
	}
	if res.I32 != 14 {
		t.Errorf("run(0,10,4) = %d, want 14", res.I32)
	}

	res, err = run.Invoke(vm.I32Value(1), vm.I32Value(10), vm.I32Value(4))
	if err != nil {
		t.Fatalf("run(1,...) failed: %v", err)
	}
	if res.I32 != 6 {
		t.Errorf("run(1,10,4) = %d, want 6", res.I32)
	}

	_, err = run.Invoke(vm.I32Value(2), vm.I32Value(0), vm.I32Value(0))
	var tr *vm.Trap
	if !asTrap(err, &tr) || tr.Kind != vm.TrapOutOfBoundsTableAccess {
		t.Errorf("run(2,...) err = %v, want OutOfBoundsTableAccess trap", err)
	}
}

// S4 - Trap on divide by zero / overflow.
func TestProgram_DivTraps(t *testing.T) {
	p := New()
	src := `(module (func (export "div") (param i32 i32) (result i32)
		local.get 0 local.get 1 i32.div_s))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	div, _ := p.GetFunction("m", "div")

	_, err := div.Invoke(vm.I32Value(7), vm.I32Value(0))
	var tr *vm.Trap
	if !asTrap(err, &tr) || tr.Kind != vm.TrapIntegerDivideByZero {
		t.Errorf("div(7,0) err = %v, want IntegerDivideByZero", err)
	}

	_, err = div.Invoke(vm.I32Value(math.MinInt32), vm.I32Value(-1))
	if !asTrap(err, &tr) || tr.Kind != vm.TrapIntegerOverflow {
		t.Errorf("div(MIN,-1) err = %v, want IntegerOverflow", err)
	}
}

// S5 - Host import.
func TestProgram_HostImport(t *testing.T) {
	p := New()
	var recorded []int32
	p.DefineHostFunc("env", "print", vm.FuncType{Params: []vm.ValueType{vm.ValueI32}},
		HostFunc1(func(a vm.Value, ctx vm.HostContext) (*vm.Value, error) {
			recorded = append(recorded, a.I32)
			return nil, nil
		}))

	src := `(module
		(import "env" "print" (func $print (param i32)))
		(func (export "doit")
			i32.const 1 call $print
			i32.const 2 call $print))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	doit, _ := p.GetFunction("m", "doit")
	if _, err := doit.Invoke(); err != nil {
		t.Fatalf("doit failed: %v", err)
	}
	if len(recorded) != 2 || recorded[0] != 1 || recorded[1] != 2 {
		t.Errorf("recorded = %v, want [1 2]", recorded)
	}
}

// S6 - Start function side effect.
func TestProgram_StartFunctionRuns(t *testing.T) {
	p := New()
	src := `(module
		(global $g (export "g") (mut i32) (i32.const 0))
		(func $init i32.const 42 global.set $g)
		(start $init))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	v, err := p.GetGlobal("m", "g")
	if err != nil {
		t.Fatalf("GetGlobal failed: %v", err)
	}
	if v.I32 != 42 {
		t.Errorf("g = %d, want 42", v.I32)
	}
}

func TestProgram_SetGlobalImmutableFails(t *testing.T) {
	p := New()
	src := `(module (global (export "g") i32 (i32.const 1)))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	err := p.SetGlobal("m", "g", vm.I32Value(2))
	var wantErr *errors.Error
	if !asError(err, &wantErr) || wantErr.Kind != errors.KindImmutableGlobal {
		t.Errorf("SetGlobal err = %v, want ImmutableGlobal", err)
	}
}

func TestProgram_InvokeArityMismatch(t *testing.T) {
	p := New()
	src := `(module (func (export "f") (param i32) (result i32) local.get 0))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	f, _ := p.GetFunction("m", "f")
	_, err := f.Invoke()
	var wantErr *errors.Error
	if !asError(err, &wantErr) || wantErr.Kind != errors.KindInvalidArgument {
		t.Errorf("Invoke() err = %v, want InvalidArgument", err)
	}
}

func TestProgram_CrossModuleImport(t *testing.T) {
	p := New()
	mathSrc := `(module (func (export "add") (param i32 i32) (result i32)
		local.get 0 local.get 1 i32.add))`
	if err := p.LoadText("math", mathSrc); err != nil {
		t.Fatalf("LoadText(math) failed: %v", err)
	}
	consumerSrc := `(module
		(import "math" "add" (func $add (param i32 i32) (result i32)))
		(func (export "addFour") (param i32) (result i32)
			local.get 0 i32.const 4 call $add))`
	if err := p.LoadText("consumer", consumerSrc); err != nil {
		t.Fatalf("LoadText(consumer) failed: %v", err)
	}
	fn, _ := p.GetFunction("consumer", "addFour")
	res, err := fn.Invoke(vm.I32Value(5))
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if res.I32 != 9 {
		t.Errorf("addFour(5) = %d, want 9", res.I32)
	}
}

// WithMaxStackDepth must actually bound the call stack the Program runs
// code with, not just accept-and-ignore the option.
func TestProgram_WithMaxStackDepthBoundsCallStack(t *testing.T) {
	src := `(module (func $rec (export "rec") (param $n i32) (result i32)
		local.get $n
		i32.const 0
		i32.le_s
		if (result i32)
			i32.const 0
		else
			local.get $n
			i32.const 1
			i32.sub
			call $rec
		end))`

	deep := New()
	if err := deep.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	rec, err := deep.GetFunction("m", "rec")
	if err != nil {
		t.Fatalf("GetFunction failed: %v", err)
	}
	if _, err := rec.Invoke(vm.I32Value(10)); err != nil {
		t.Fatalf("rec(10) with default depth: unexpected error %v", err)
	}

	shallow := New(WithMaxStackDepth(4))
	if err := shallow.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	rec, err = shallow.GetFunction("m", "rec")
	if err != nil {
		t.Fatalf("GetFunction failed: %v", err)
	}
	_, err = rec.Invoke(vm.I32Value(10))
	var tr *vm.Trap
	if !asTrap(err, &tr) || tr.Kind != vm.TrapStackOverflow {
		t.Errorf("rec(10) with max depth 4 = %v, want a StackOverflow trap", err)
	}
}

// WithMemoryProvider must actually back Program-allocated memories, not
// just accept-and-ignore the option.
func TestProgram_WithMemoryProviderIsUsed(t *testing.T) {
	provider := &countingMemoryProvider{MemoryProvider: vm.DefaultMemoryProvider()}
	p := New(WithMemoryProvider(provider))
	src := `(module (memory (export "mem") 1))`
	if err := p.LoadText("m", src); err != nil {
		t.Fatalf("LoadText failed: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider.calls = %d, want 1", provider.calls)
	}

	if err := p.DefineHostMemory("env", "mem", 1, nil); err != nil {
		t.Fatalf("DefineHostMemory failed: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider.calls after DefineHostMemory = %d, want 2", provider.calls)
	}
}

type countingMemoryProvider struct {
	vm.MemoryProvider
	calls int
}

func (c *countingMemoryProvider) Build(minPages uint32, maxPages *uint32) (*vm.MemoryInstance, error) {
	c.calls++
	return c.MemoryProvider.Build(minPages, maxPages)
}

func asTrap(err error, target **vm.Trap) bool {
	t, ok := err.(*vm.Trap)
	if ok {
		*target = t
	}
	return ok
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}

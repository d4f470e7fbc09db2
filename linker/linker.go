// Package linker instantiates a decoded module against a shared Store and
// Registry: it allocates the module's own definitions, binds its imports to
// already-registered host items or sibling module exports, evaluates
// global/element/data initializers, and invokes the start function.
package linker

import (
	"fmt"

	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/vm"
	"github.com/wippyai/wasm-runtime/wasm"
)

func tableLimits(min uint64, max *uint64) wasm.Limits {
	return wasm.Limits{Min: min, Max: max}
}

// Option configures Instantiate's behavior.
type Option func(*config)

type config struct {
	maxStackDepth int
}

// WithMaxStackDepth bounds the operand, label, and call stacks used to run a
// module's start function, matching the embedder's configured Engine depth.
// Zero (the default) uses vm.DefaultMaxStackDepth.
func WithMaxStackDepth(n int) Option {
	return func(c *config) { c.maxStackDepth = n }
}

// Instantiate runs the allocate/bind/initialize/start sequence described for
// the instantiation and linking component: imports first, own definitions
// second, within each of the four address spaces; exports collected in
// source order; imports bound against reg; globals evaluated against an
// auxiliary view exposing only the imports; element and data segments
// placed with bounds trapping; start function invoked last.
func Instantiate(store *vm.Store, reg *Registry, mod *wasm.Module, provider vm.MemoryProvider, opts ...Option) (*vm.ModuleInstance, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	mi := &vm.ModuleInstance{Store: store, Types: convertTypes(mod.Types)}

	if err := allocateImports(mod, mi); err != nil {
		return nil, err
	}
	if err := allocateOwnDefinitions(store, mod, mi, provider); err != nil {
		return nil, err
	}
	if err := bindImports(reg, mod, mi); err != nil {
		return nil, err
	}
	collectExports(mod, mi)

	numImportedGlobals := mod.NumImportedGlobals()
	if err := evaluateGlobals(mod, mi, numImportedGlobals); err != nil {
		return nil, err
	}
	if err := placeElements(mod, mi); err != nil {
		return nil, err
	}
	if err := placeData(mod, mi); err != nil {
		return nil, err
	}

	if mod.Start != nil {
		e := vm.NewEngine(vm.WithMaxStackDepth(cfg.maxStackDepth))
		start := mi.Function(*mod.Start)
		if _, tr := e.Call(start, nil); tr != nil {
			return nil, errors.Instantiation(tr)
		}
	}

	Logger().Sugar().Debugw("instantiated module",
		"funcs", len(mi.FuncAddrs), "tables", len(mi.TableAddrs),
		"memories", len(mi.MemAddrs), "globals", len(mi.GlobalAddrs),
		"exports", len(mi.Exports))
	return mi, nil
}

func convertTypes(types []wasm.FuncType) []vm.FuncType {
	out := make([]vm.FuncType, len(types))
	for i, t := range types {
		out[i] = vm.FuncType{Params: valTypes(t.Params), Results: valTypes(t.Results)}
	}
	return out
}

func valTypes(in []wasm.ValType) []vm.ValueType {
	out := make([]vm.ValueType, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// allocateImports reserves an address-array slot (via import placeholders
// resolved in bindImports) for each import, in declared order, so that
// local indices 0..n-1 of each category address the imports before the
// module's own definitions — the first of the two allocation passes that
// together realize the spec's "imports first, own definitions second"
// ordering rule.
func allocateImports(mod *wasm.Module, mi *vm.ModuleInstance) error {
	for _, imp := range mod.Imports {
		switch imp.Desc.Kind {
		case wasm.KindFunc:
			mi.FuncAddrs = append(mi.FuncAddrs, 0) // placeholder, bound in bindImports
		case wasm.KindTable:
			mi.TableAddrs = append(mi.TableAddrs, 0)
		case wasm.KindMemory:
			mi.MemAddrs = append(mi.MemAddrs, 0)
		case wasm.KindGlobal:
			mi.GlobalAddrs = append(mi.GlobalAddrs, 0)
		default:
			return errors.InvalidInput(errors.PhaseLinking, fmt.Sprintf("unknown import kind %d for %s.%s", imp.Desc.Kind, imp.Module, imp.Name))
		}
	}
	return nil
}

// allocateOwnDefinitions appends this module's own functions, tables,
// memories, and globals to the store, after the import placeholders. It fails
// if the memory provider cannot build one of the module's memories.
func allocateOwnDefinitions(store *vm.Store, mod *wasm.Module, mi *vm.ModuleInstance, provider vm.MemoryProvider) error {
	for _, typeIdx := range mod.Funcs {
		// The body is attached by the decode-and-flatten loop below, once
		// every own function has its address; flattening has no dependency
		// on linking order.
		addr := store.AllocateFunction(&vm.FunctionInstance{Type: mi.Types[typeIdx], Module: mi})
		mi.FuncAddrs = append(mi.FuncAddrs, addr)
	}
	for i, fb := range mod.Code {
		instrs, err := wasm.DecodeInstructions(fb.Code)
		if err != nil {
			continue // malformed code was already rejected by validation upstream
		}
		locals := localsFor(mod, i, instrs)
		body, err := vm.Flatten(locals, instrs)
		if err != nil {
			continue
		}
		ownFuncAddr := mi.FuncAddrs[mod.NumImportedFuncs()+i]
		store.Functions[ownFuncAddr].Body = body
	}
	for _, tt := range mod.Tables {
		addr := store.AllocateTable(tt.Limits)
		mi.TableAddrs = append(mi.TableAddrs, addr)
	}
	for _, mt := range mod.Memories {
		addr, err := store.AllocateMemory(provider, uint32(mt.Limits.Min), limitsMaxU32(mt.Limits.Max))
		if err != nil {
			return errors.Instantiation(err)
		}
		mi.MemAddrs = append(mi.MemAddrs, addr)
	}
	for range mod.Globals {
		// Reserved; real value filled in by evaluateGlobals once imports are bound.
		addr := store.AllocateGlobal(vm.ValueI32, false, vm.Value{})
		mi.GlobalAddrs = append(mi.GlobalAddrs, addr)
	}
	return nil
}

func limitsMaxU32(max *uint64) *uint32 {
	if max == nil {
		return nil
	}
	v := uint32(*max)
	return &v
}

// localsFor expands a function body's run-length local declarations into a
// flat per-index type array covering both its parameters and its locals, the
// shape the engine's call-frame construction expects.
func localsFor(mod *wasm.Module, codeIdx int, _ []wasm.Instruction) []vm.ValueType {
	typeIdx := mod.Funcs[codeIdx]
	sig := mod.Types[typeIdx]
	out := make([]vm.ValueType, 0, len(sig.Params))
	for _, p := range sig.Params {
		out = append(out, p)
	}
	for _, le := range mod.Code[codeIdx].Locals {
		for i := uint32(0); i < le.Count; i++ {
			out = append(out, le.ValType)
		}
	}
	return out
}

func bindImports(reg *Registry, mod *wasm.Module, mi *vm.ModuleInstance) error {
	funcI, tableI, memI, globalI := 0, 0, 0, 0
	for _, imp := range mod.Imports {
		switch imp.Desc.Kind {
		case wasm.KindFunc:
			addr, err := reg.bind(imp.Module, imp.Name, vm.ExternFunc)
			if err != nil {
				return err
			}
			if !mi.Store.Functions[addr].Type.Equal(mi.Types[imp.Desc.TypeIdx]) {
				return errors.ImportTypeMismatch(imp.Module, imp.Name, "function signature does not match the import")
			}
			mi.FuncAddrs[funcI] = addr
			funcI++
		case wasm.KindTable:
			addr, err := reg.bind(imp.Module, imp.Name, vm.ExternTable)
			if err != nil {
				return err
			}
			mi.TableAddrs[tableI] = addr
			tableI++
		case wasm.KindMemory:
			addr, err := reg.bind(imp.Module, imp.Name, vm.ExternMemory)
			if err != nil {
				return err
			}
			mi.MemAddrs[memI] = addr
			memI++
		case wasm.KindGlobal:
			addr, err := reg.bind(imp.Module, imp.Name, vm.ExternGlobal)
			if err != nil {
				return err
			}
			g := mi.Store.Globals[addr]
			if want := imp.Desc.Global; want != nil && (g.Type != want.ValType || g.Mutable != want.Mutable) {
				return errors.ImportTypeMismatch(imp.Module, imp.Name, "global type does not match the import")
			}
			mi.GlobalAddrs[globalI] = addr
			globalI++
		}
	}
	return nil
}

func collectExports(mod *wasm.Module, mi *vm.ModuleInstance) {
	for _, exp := range mod.Exports {
		var kind vm.ExternKind
		var addr vm.Addr
		switch exp.Kind {
		case wasm.KindFunc:
			kind, addr = vm.ExternFunc, mi.FuncAddrs[exp.Idx]
		case wasm.KindTable:
			kind, addr = vm.ExternTable, mi.TableAddrs[exp.Idx]
		case wasm.KindMemory:
			kind, addr = vm.ExternMemory, mi.MemAddrs[exp.Idx]
		case wasm.KindGlobal:
			kind, addr = vm.ExternGlobal, mi.GlobalAddrs[exp.Idx]
		default:
			continue
		}
		mi.Exports = append(mi.Exports, vm.ExportInstance{Name: exp.Name, Kind: kind, Addr: addr})
	}
}

// evaluateGlobals runs each declared global's constant-expression
// initializer and stores its value. The auxiliary view exposes only the
// already-bound imported globals (indices below numImportedGlobals);
// forward references to this module's own globals are rejected by
// evalConstExpr finding an out-of-range index.
func evaluateGlobals(mod *wasm.Module, mi *vm.ModuleInstance, numImportedGlobals int) error {
	aux := &vm.ModuleInstance{Store: mi.Store, GlobalAddrs: mi.GlobalAddrs[:numImportedGlobals]}
	for i, g := range mod.Globals {
		v, err := evalConstExpr(aux, g.Init)
		if err != nil {
			return errors.Instantiation(err)
		}
		addr := mi.GlobalAddrs[numImportedGlobals+i]
		global := mi.Store.Globals[addr]
		global.Type = g.Type.ValType
		global.Mutable = g.Type.Mutable
		global.Value = v
	}
	return nil
}

func placeElements(mod *wasm.Module, mi *vm.ModuleInstance) error {
	for _, el := range mod.Elements {
		offsetVal, err := evalConstExpr(mi, el.Offset)
		if err != nil {
			return errors.Instantiation(err)
		}
		offset := uint32(offsetVal.I32)
		table := mi.Table(el.TableIdx)
		if uint64(offset)+uint64(len(el.FuncIdxs)) > uint64(table.Length()) {
			return errors.Instantiation(vm.NewTrap(vm.TrapElementSegmentOutOfBounds, "element segment does not fit in table"))
		}
		for i, funcIdx := range el.FuncIdxs {
			if tr := table.Set(offset+uint32(i), mi.FuncAddrs[funcIdx]); tr != nil {
				return errors.Instantiation(tr)
			}
		}
	}
	return nil
}

func placeData(mod *wasm.Module, mi *vm.ModuleInstance) error {
	for _, d := range mod.Data {
		offsetVal, err := evalConstExpr(mi, d.Offset)
		if err != nil {
			return errors.Instantiation(err)
		}
		mem := mi.Memory(d.MemIdx)
		ea := uint64(uint32(offsetVal.I32))
		if tr := mem.WriteBytes(ea, d.Init); tr != nil {
			return errors.Instantiation(vm.NewTrap(vm.TrapDataSegmentOutOfBounds, "data segment does not fit in memory"))
		}
	}
	return nil
}

// evalConstExpr evaluates a constant expression: exactly one of
// {i32,i64,f32,f64}.const or global.get (of an already-resolved global),
// followed by end. This is the full grammar constant expressions are
// allowed to use in WebAssembly 1.0.
func evalConstExpr(mi *vm.ModuleInstance, code []byte) (vm.Value, error) {
	instrs, err := wasm.DecodeInstructions(code)
	if err != nil {
		return vm.Value{}, fmt.Errorf("decode constant expression: %w", err)
	}
	if len(instrs) == 0 {
		return vm.Value{}, fmt.Errorf("empty constant expression")
	}
	switch in := instrs[0]; in.Opcode {
	case wasm.OpI32Const:
		return vm.I32Value(in.Imm.(wasm.I32Imm).Value), nil
	case wasm.OpI64Const:
		return vm.I64Value(in.Imm.(wasm.I64Imm).Value), nil
	case wasm.OpF32Const:
		return vm.F32Value(in.Imm.(wasm.F32Imm).Value), nil
	case wasm.OpF64Const:
		return vm.F64Value(in.Imm.(wasm.F64Imm).Value), nil
	case wasm.OpGlobalGet:
		idx := in.Imm.(wasm.GlobalImm).GlobalIdx
		if int(idx) >= len(mi.GlobalAddrs) {
			return vm.Value{}, fmt.Errorf("constant expression references unavailable global %d", idx)
		}
		return mi.Global(idx).Value, nil
	default:
		return vm.Value{}, fmt.Errorf("unsupported constant expression opcode %#x", in.Opcode)
	}
}

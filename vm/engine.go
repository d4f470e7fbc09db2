package vm

import (
	"github.com/wippyai/wasm-runtime/wasm"
)

// Engine executes flattened function bodies. An Engine is single-threaded
// and holds the operand and activation stacks for one in-progress call;
// callers must serialize calls on a given Engine (or use one Engine per
// goroutine, since the Store itself has no internal locking either).
type Engine struct {
	operands      operandStack
	activations   activationStack
	maxStackDepth int
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithMaxStackDepth overrides DefaultMaxStackDepth for the operand, label,
// and activation stacks of the Engine being constructed.
func WithMaxStackDepth(n int) EngineOption {
	return func(e *Engine) { e.maxStackDepth = n }
}

// NewEngine returns a ready-to-use Engine, applying any options in order.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.operands.max = e.maxStackDepth
	e.activations.max = e.maxStackDepth
	return e
}

// Call invokes fn with args already type-checked by the caller (the facade
// performs arity/type validation and returns InvalidArgument before ever
// reaching here). Module functions run the dispatch loop; host functions
// are invoked directly with a HostContext exposing the calling frame's
// memory, if any.
func (e *Engine) Call(fn *FunctionInstance, args []Value) ([]Value, *Trap) {
	if fn.IsHost() {
		return e.callHost(fn, args)
	}
	return e.callModule(fn, args)
}

func (e *Engine) callHost(fn *FunctionInstance, args []Value) ([]Value, *Trap) {
	var ctx HostContext
	if caller := e.activations.top(); caller != nil && len(caller.Module.MemAddrs) > 0 {
		ctx = HostContext{memory: caller.Module.Memory(0)}
	}
	results, err := fn.Host(args, ctx)
	if err != nil {
		if tr, ok := err.(*Trap); ok {
			return nil, tr
		}
		return nil, NewTrap(TrapHostError, err.Error())
	}
	return results, nil
}

func (e *Engine) callModule(fn *FunctionInstance, args []Value) ([]Value, *Trap) {
	locals := make([]Value, len(fn.Body.Locals))
	copy(locals, args)
	for i := len(args); i < len(locals); i++ {
		locals[i] = ZeroValue(fn.Body.Locals[i])
	}

	frame := &Frame{
		Arity:     len(fn.Type.Results),
		Locals:    locals,
		Module:    fn.Module,
		Body:      fn.Body,
		MaxLabels: e.maxStackDepth,
	}
	// Implicit outer label for the whole function body: branching to it
	// (via `return`, or falling off the final End) completes the call.
	if tr := frame.pushLabel(Label{
		Arity:            frame.Arity,
		ContinuationIP:   len(fn.Body.Code),
		SavedOperandsLen: e.operands.len(),
	}); tr != nil {
		return nil, tr
	}

	if tr := e.activations.push(frame); tr != nil {
		return nil, tr
	}
	defer e.activations.pop()

	if tr := e.run(frame); tr != nil {
		return nil, tr
	}

	return e.operands.popN(frame.Arity), nil
}

// run executes frame's flattened body until its implicit outer label is
// popped (normal return) or a trap occurs.
func (e *Engine) run(frame *Frame) *Trap {
	for {
		if frame.IP >= len(frame.Body.Code) {
			return nil
		}
		instr := frame.Body.Code[frame.IP]

		if tr := e.step(frame, instr); tr != nil {
			return tr
		}

		if len(frame.Labels) == 0 {
			return nil
		}
	}
}

// step executes one instruction, advancing frame.IP (or jumping) as a side
// effect. It returns a Trap on any runtime fault.
func (e *Engine) step(frame *Frame, instr FlatInstr) *Trap {
	switch instr.Op {
	case wasm.OpUnreachable:
		return NewTrap(TrapUnreachable, "unreachable instruction executed")

	case wasm.OpNop:
		frame.IP++

	case wasm.OpBlock, wasm.OpLoop:
		cont := instr.EndIP
		if instr.IsLoop {
			cont = frame.IP + 1
		}
		if tr := frame.pushLabel(Label{
			Arity:            instr.Arity,
			ContinuationIP:   cont,
			SavedOperandsLen: e.operands.len(),
			IsLoop:           instr.IsLoop,
		}); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpIf:
		c := e.operands.pop()
		if tr := frame.pushLabel(Label{
			Arity:            instr.Arity,
			ContinuationIP:   instr.EndIP,
			SavedOperandsLen: e.operands.len(),
		}); tr != nil {
			return tr
		}
		if c.IsTrue() {
			frame.IP++
		} else {
			frame.IP = instr.ElseIP
		}

	case wasm.OpElse:
		// Reached by falling through the then-branch: skip the else-body.
		frame.IP = instr.EndIP

	case wasm.OpEnd:
		frame.popLabel()
		frame.IP++

	case wasm.OpBr:
		e.branch(frame, instr.Imm.(wasm.BranchImm).LabelIdx)

	case wasm.OpBrIf:
		c := e.operands.pop()
		if c.IsTrue() {
			e.branch(frame, instr.Imm.(wasm.BranchImm).LabelIdx)
		} else {
			frame.IP++
		}

	case wasm.OpBrTable:
		bt := instr.Imm.(wasm.BrTableImm)
		i := e.operands.pop().I32
		if i >= 0 && int(uint32(i)) < len(bt.Labels) {
			e.branch(frame, bt.Labels[i])
		} else {
			e.branch(frame, bt.Default)
		}

	case wasm.OpReturn:
		e.branch(frame, uint32(len(frame.Labels)-1))

	case wasm.OpCall:
		return e.execCall(frame, instr.Imm.(wasm.CallImm).FuncIdx)

	case wasm.OpCallIndirect:
		return e.execCallIndirect(frame, instr.Imm.(wasm.CallIndirectImm))

	case wasm.OpDrop:
		e.operands.pop()
		frame.IP++

	case wasm.OpSelect:
		c := e.operands.pop()
		v2 := e.operands.pop()
		v1 := e.operands.pop()
		if c.IsTrue() {
			e.operands.push(v1)
		} else {
			e.operands.push(v2)
		}
		frame.IP++

	case wasm.OpLocalGet:
		if tr := e.operands.push(frame.Locals[instr.Imm.(wasm.LocalImm).LocalIdx]); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpLocalSet:
		frame.Locals[instr.Imm.(wasm.LocalImm).LocalIdx] = e.operands.pop()
		frame.IP++

	case wasm.OpLocalTee:
		v := e.operands.pop()
		frame.Locals[instr.Imm.(wasm.LocalImm).LocalIdx] = v
		if tr := e.operands.push(v); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpGlobalGet:
		g := frame.Module.Global(instr.Imm.(wasm.GlobalImm).GlobalIdx)
		if tr := e.operands.push(g.Value); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpGlobalSet:
		g := frame.Module.Global(instr.Imm.(wasm.GlobalImm).GlobalIdx)
		if !g.Mutable {
			return NewTrap(TrapUnreachable, "write to immutable global")
		}
		g.Value = e.operands.pop()
		frame.IP++

	case wasm.OpMemorySize:
		if tr := e.operands.push(I32Value(int32(frame.Module.Memory(0).Size()))); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpMemoryGrow:
		delta := e.operands.pop().I32
		if tr := e.operands.push(I32Value(frame.Module.Memory(0).Grow(uint32(delta)))); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpI32Const:
		if tr := e.operands.push(I32Value(instr.Imm.(wasm.I32Imm).Value)); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpI64Const:
		if tr := e.operands.push(I64Value(instr.Imm.(wasm.I64Imm).Value)); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpF32Const:
		if tr := e.operands.push(F32Value(instr.Imm.(wasm.F32Imm).Value)); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpF64Const:
		if tr := e.operands.push(F64Value(instr.Imm.(wasm.F64Imm).Value)); tr != nil {
			return tr
		}
		frame.IP++

	case wasm.OpPrefixMisc:
		if tr := e.execNumericMisc(instr.Imm.(wasm.MiscImm).SubOpcode); tr != nil {
			return tr
		}
		frame.IP++

	default:
		if isMemoryAccessOp(instr.Op) {
			return e.execMemoryAccess(frame, instr)
		}
		if tr := e.execNumeric(instr.Op); tr != nil {
			return tr
		}
		frame.IP++
	}
	return nil
}

// branch implements the unified control-transfer rule for br, br_if,
// br_table, and return: keep the label's arity-many results, truncate the
// operand stack to the label's snapshot depth, restore the results, pop
// labels, and jump.
//
// A loop label is not destroyed by a branch to it: execution re-enters the
// loop body and the label must still be reachable by a later iteration's
// branch. Only block/if/function-exit labels are popped on branch.
func (e *Engine) branch(frame *Frame, l uint32) {
	lbl := frame.labelAt(l)
	kept := e.operands.popN(lbl.Arity)
	e.operands.truncate(lbl.SavedOperandsLen)
	e.operands.pushN(kept)

	popCount := l + 1
	if lbl.IsLoop {
		popCount = l
	}
	for i := uint32(0); i < popCount; i++ {
		frame.popLabel()
	}
	frame.IP = lbl.ContinuationIP
}

func (e *Engine) execCall(frame *Frame, funcIdx uint32) *Trap {
	callee := frame.Module.Function(funcIdx)
	args := e.operands.popN(len(callee.Type.Params))
	results, tr := e.Call(callee, args)
	if tr != nil {
		return tr
	}
	if t := e.operands.pushN(results); t != nil {
		return t
	}
	frame.IP++
	return nil
}

func (e *Engine) execCallIndirect(frame *Frame, imm wasm.CallIndirectImm) *Trap {
	i := e.operands.pop().I32
	table := frame.Module.Table(imm.TableIdx)
	addr, tr := table.Get(uint32(i))
	if tr != nil {
		return tr
	}
	if addr == nil {
		return NewTrap(TrapUninitializedElement, "call_indirect to uninitialized element")
	}
	callee := frame.Module.Store.Functions[*addr]
	want := frame.Module.Types[imm.TypeIdx]
	if !callee.Type.Equal(want) {
		return NewTrap(TrapIndirectCallTypeMismatch, "call_indirect type mismatch")
	}
	args := e.operands.popN(len(callee.Type.Params))
	results, tr2 := e.Call(callee, args)
	if tr2 != nil {
		return tr2
	}
	if t := e.operands.pushN(results); t != nil {
		return t
	}
	frame.IP++
	return nil
}

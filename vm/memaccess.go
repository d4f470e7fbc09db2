package vm

import "github.com/wippyai/wasm-runtime/wasm"

// isMemoryAccessOp reports whether op is one of the load/store family,
// which step() routes to execMemoryAccess instead of the bare numeric
// dispatch table.
func isMemoryAccessOp(op byte) bool {
	switch op {
	case wasm.OpI32Load, wasm.OpI64Load, wasm.OpF32Load, wasm.OpF64Load,
		wasm.OpI32Load8S, wasm.OpI32Load8U, wasm.OpI32Load16S, wasm.OpI32Load16U,
		wasm.OpI64Load8S, wasm.OpI64Load8U, wasm.OpI64Load16S, wasm.OpI64Load16U,
		wasm.OpI64Load32S, wasm.OpI64Load32U,
		wasm.OpI32Store, wasm.OpI64Store, wasm.OpF32Store, wasm.OpF64Store,
		wasm.OpI32Store8, wasm.OpI32Store16, wasm.OpI64Store8, wasm.OpI64Store16, wasm.OpI64Store32:
		return true
	default:
		return false
	}
}

// execMemoryAccess executes one load or store instruction against the
// current frame's memory 0. The effective address is the memarg's static
// offset plus the dynamic i32 operand, both widened to 64 bits before
// adding so the bounds check can apply the specification's 33-bit
// overflow rule without itself wrapping.
func (e *Engine) execMemoryAccess(frame *Frame, instr FlatInstr) *Trap {
	imm := instr.Imm.(wasm.MemoryImm)
	mem := frame.Module.Memory(imm.MemIdx)

	switch instr.Op {
	case wasm.OpI32Load:
		ea, _ := e.loadEA(imm)
		v, tr := mem.ReadInt(ea, 4, false)
		if tr != nil {
			return tr
		}
		if tr := e.operands.push(I32Value(int32(v))); tr != nil {
			return tr
		}
	case wasm.OpI64Load:
		ea, _ := e.loadEA(imm)
		v, tr := mem.ReadInt(ea, 8, false)
		if tr != nil {
			return tr
		}
		if tr := e.operands.push(I64Value(v)); tr != nil {
			return tr
		}
	case wasm.OpF32Load:
		ea, _ := e.loadEA(imm)
		v, tr := mem.ReadFloat32(ea)
		if tr != nil {
			return tr
		}
		if tr := e.operands.push(F32Value(v)); tr != nil {
			return tr
		}
	case wasm.OpF64Load:
		ea, _ := e.loadEA(imm)
		v, tr := mem.ReadFloat64(ea)
		if tr != nil {
			return tr
		}
		if tr := e.operands.push(F64Value(v)); tr != nil {
			return tr
		}
	case wasm.OpI32Load8S:
		if tr := e.loadIntInto32(mem, imm, 1, true); tr != nil {
			return tr
		}
	case wasm.OpI32Load8U:
		if tr := e.loadIntInto32(mem, imm, 1, false); tr != nil {
			return tr
		}
	case wasm.OpI32Load16S:
		if tr := e.loadIntInto32(mem, imm, 2, true); tr != nil {
			return tr
		}
	case wasm.OpI32Load16U:
		if tr := e.loadIntInto32(mem, imm, 2, false); tr != nil {
			return tr
		}
	case wasm.OpI64Load8S:
		if tr := e.loadIntInto64(mem, imm, 1, true); tr != nil {
			return tr
		}
	case wasm.OpI64Load8U:
		if tr := e.loadIntInto64(mem, imm, 1, false); tr != nil {
			return tr
		}
	case wasm.OpI64Load16S:
		if tr := e.loadIntInto64(mem, imm, 2, true); tr != nil {
			return tr
		}
	case wasm.OpI64Load16U:
		if tr := e.loadIntInto64(mem, imm, 2, false); tr != nil {
			return tr
		}
	case wasm.OpI64Load32S:
		if tr := e.loadIntInto64(mem, imm, 4, true); tr != nil {
			return tr
		}
	case wasm.OpI64Load32U:
		if tr := e.loadIntInto64(mem, imm, 4, false); tr != nil {
			return tr
		}

	case wasm.OpI32Store:
		v := e.operands.pop().I32
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteInt(ea, 4, int64(v)); tr != nil {
			return tr
		}
	case wasm.OpI64Store:
		v := e.operands.pop().I64
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteInt(ea, 8, v); tr != nil {
			return tr
		}
	case wasm.OpF32Store:
		v := e.operands.pop().F32
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteFloat32(ea, v); tr != nil {
			return tr
		}
	case wasm.OpF64Store:
		v := e.operands.pop().F64
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteFloat64(ea, v); tr != nil {
			return tr
		}
	case wasm.OpI32Store8:
		v := e.operands.pop().I32
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteInt(ea, 1, int64(v)); tr != nil {
			return tr
		}
	case wasm.OpI32Store16:
		v := e.operands.pop().I32
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteInt(ea, 2, int64(v)); tr != nil {
			return tr
		}
	case wasm.OpI64Store8:
		v := e.operands.pop().I64
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteInt(ea, 1, v); tr != nil {
			return tr
		}
	case wasm.OpI64Store16:
		v := e.operands.pop().I64
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteInt(ea, 2, v); tr != nil {
			return tr
		}
	case wasm.OpI64Store32:
		v := e.operands.pop().I64
		ea, _ := e.loadEA(imm)
		if tr := mem.WriteInt(ea, 4, v); tr != nil {
			return tr
		}
	}

	frame.IP++
	return nil
}

// loadEA pops the dynamic i32 address operand and combines it with the
// memarg's static offset into a 64-bit effective address.
func (e *Engine) loadEA(imm wasm.MemoryImm) (ea uint64, dyn uint32) {
	dyn = uint32(e.operands.pop().I32)
	return uint64(dyn) + imm.Offset, dyn
}

func (e *Engine) loadIntInto32(mem *MemoryInstance, imm wasm.MemoryImm, width int, signed bool) *Trap {
	ea, _ := e.loadEA(imm)
	v, tr := mem.ReadInt(ea, width, signed)
	if tr != nil {
		return tr
	}
	return e.operands.push(I32Value(int32(v)))
}

func (e *Engine) loadIntInto64(mem *MemoryInstance, imm wasm.MemoryImm, width int, signed bool) *Trap {
	ea, _ := e.loadEA(imm)
	v, tr := mem.ReadInt(ea, width, signed)
	if tr != nil {
		return tr
	}
	return e.operands.push(I64Value(v))
}

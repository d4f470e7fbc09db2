package vm

import "github.com/wippyai/wasm-runtime/wasm"

// execNumeric dispatches every comparison, arithmetic, bitwise, and
// conversion opcode that isn't itself control flow, a memory access, a
// constant, or a variable access — i.e. everything step() falls through to
// its default case for. Each case pops its operands, computes, and pushes
// the result; the step() caller advances the instruction pointer.
func (e *Engine) execNumeric(op byte) *Trap {
	switch op {
	// i32 comparisons
	case wasm.OpI32Eqz:
		e.operands.push(BoolValue(I32Eqz(e.pop32())))
	case wasm.OpI32Eq:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32Eq(a, b)))
	case wasm.OpI32Ne:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32Ne(a, b)))
	case wasm.OpI32LtS:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32LtS(a, b)))
	case wasm.OpI32LtU:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32LtU(a, b)))
	case wasm.OpI32GtS:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32GtS(a, b)))
	case wasm.OpI32GtU:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32GtU(a, b)))
	case wasm.OpI32LeS:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32LeS(a, b)))
	case wasm.OpI32LeU:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32LeU(a, b)))
	case wasm.OpI32GeS:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32GeS(a, b)))
	case wasm.OpI32GeU:
		b, a := e.pop32(), e.pop32()
		e.operands.push(BoolValue(I32GeU(a, b)))

	// i64 comparisons
	case wasm.OpI64Eqz:
		e.operands.push(BoolValue(I64Eqz(e.pop64())))
	case wasm.OpI64Eq:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64Eq(a, b)))
	case wasm.OpI64Ne:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64Ne(a, b)))
	case wasm.OpI64LtS:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64LtS(a, b)))
	case wasm.OpI64LtU:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64LtU(a, b)))
	case wasm.OpI64GtS:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64GtS(a, b)))
	case wasm.OpI64GtU:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64GtU(a, b)))
	case wasm.OpI64LeS:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64LeS(a, b)))
	case wasm.OpI64LeU:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64LeU(a, b)))
	case wasm.OpI64GeS:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64GeS(a, b)))
	case wasm.OpI64GeU:
		b, a := e.pop64(), e.pop64()
		e.operands.push(BoolValue(I64GeU(a, b)))

	// f32 comparisons
	case wasm.OpF32Eq:
		b, a := e.popF32(), e.popF32()
		e.operands.push(BoolValue(F32Eq(a, b)))
	case wasm.OpF32Ne:
		b, a := e.popF32(), e.popF32()
		e.operands.push(BoolValue(F32Ne(a, b)))
	case wasm.OpF32Lt:
		b, a := e.popF32(), e.popF32()
		e.operands.push(BoolValue(F32Lt(a, b)))
	case wasm.OpF32Gt:
		b, a := e.popF32(), e.popF32()
		e.operands.push(BoolValue(F32Gt(a, b)))
	case wasm.OpF32Le:
		b, a := e.popF32(), e.popF32()
		e.operands.push(BoolValue(F32Le(a, b)))
	case wasm.OpF32Ge:
		b, a := e.popF32(), e.popF32()
		e.operands.push(BoolValue(F32Ge(a, b)))

	// f64 comparisons
	case wasm.OpF64Eq:
		b, a := e.popF64(), e.popF64()
		e.operands.push(BoolValue(F64Eq(a, b)))
	case wasm.OpF64Ne:
		b, a := e.popF64(), e.popF64()
		e.operands.push(BoolValue(F64Ne(a, b)))
	case wasm.OpF64Lt:
		b, a := e.popF64(), e.popF64()
		e.operands.push(BoolValue(F64Lt(a, b)))
	case wasm.OpF64Gt:
		b, a := e.popF64(), e.popF64()
		e.operands.push(BoolValue(F64Gt(a, b)))
	case wasm.OpF64Le:
		b, a := e.popF64(), e.popF64()
		e.operands.push(BoolValue(F64Le(a, b)))
	case wasm.OpF64Ge:
		b, a := e.popF64(), e.popF64()
		e.operands.push(BoolValue(F64Ge(a, b)))

	// i32 arithmetic / bitwise
	case wasm.OpI32Clz:
		e.operands.push(I32Value(I32Clz(e.pop32())))
	case wasm.OpI32Ctz:
		e.operands.push(I32Value(I32Ctz(e.pop32())))
	case wasm.OpI32Popcnt:
		e.operands.push(I32Value(I32Popcnt(e.pop32())))
	case wasm.OpI32Add:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32Add(a, b)))
	case wasm.OpI32Sub:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32Sub(a, b)))
	case wasm.OpI32Mul:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32Mul(a, b)))
	case wasm.OpI32DivS:
		b, a := e.pop32(), e.pop32()
		v, tr := I32DivS(a, b)
		if tr != nil {
			return tr
		}
		e.operands.push(I32Value(v))
	case wasm.OpI32DivU:
		b, a := e.pop32(), e.pop32()
		v, tr := I32DivU(a, b)
		if tr != nil {
			return tr
		}
		e.operands.push(I32Value(v))
	case wasm.OpI32RemS:
		b, a := e.pop32(), e.pop32()
		v, tr := I32RemS(a, b)
		if tr != nil {
			return tr
		}
		e.operands.push(I32Value(v))
	case wasm.OpI32RemU:
		b, a := e.pop32(), e.pop32()
		v, tr := I32RemU(a, b)
		if tr != nil {
			return tr
		}
		e.operands.push(I32Value(v))
	case wasm.OpI32And:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32And(a, b)))
	case wasm.OpI32Or:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32Or(a, b)))
	case wasm.OpI32Xor:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32Xor(a, b)))
	case wasm.OpI32Shl:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32Shl(a, b)))
	case wasm.OpI32ShrS:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32ShrS(a, b)))
	case wasm.OpI32ShrU:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32ShrU(a, b)))
	case wasm.OpI32Rotl:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32Rotl(a, b)))
	case wasm.OpI32Rotr:
		b, a := e.pop32(), e.pop32()
		e.operands.push(I32Value(I32Rotr(a, b)))

	// i64 arithmetic / bitwise
	case wasm.OpI64Clz:
		e.operands.push(I64Value(I64Clz(e.pop64())))
	case wasm.OpI64Ctz:
		e.operands.push(I64Value(I64Ctz(e.pop64())))
	case wasm.OpI64Popcnt:
		e.operands.push(I64Value(I64Popcnt(e.pop64())))
	case wasm.OpI64Add:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64Add(a, b)))
	case wasm.OpI64Sub:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64Sub(a, b)))
	case wasm.OpI64Mul:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64Mul(a, b)))
	case wasm.OpI64DivS:
		b, a := e.pop64(), e.pop64()
		v, tr := I64DivS(a, b)
		if tr != nil {
			return tr
		}
		e.operands.push(I64Value(v))
	case wasm.OpI64DivU:
		b, a := e.pop64(), e.pop64()
		v, tr := I64DivU(a, b)
		if tr != nil {
			return tr
		}
		e.operands.push(I64Value(v))
	case wasm.OpI64RemS:
		b, a := e.pop64(), e.pop64()
		v, tr := I64RemS(a, b)
		if tr != nil {
			return tr
		}
		e.operands.push(I64Value(v))
	case wasm.OpI64RemU:
		b, a := e.pop64(), e.pop64()
		v, tr := I64RemU(a, b)
		if tr != nil {
			return tr
		}
		e.operands.push(I64Value(v))
	case wasm.OpI64And:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64And(a, b)))
	case wasm.OpI64Or:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64Or(a, b)))
	case wasm.OpI64Xor:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64Xor(a, b)))
	case wasm.OpI64Shl:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64Shl(a, b)))
	case wasm.OpI64ShrS:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64ShrS(a, b)))
	case wasm.OpI64ShrU:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64ShrU(a, b)))
	case wasm.OpI64Rotl:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64Rotl(a, b)))
	case wasm.OpI64Rotr:
		b, a := e.pop64(), e.pop64()
		e.operands.push(I64Value(I64Rotr(a, b)))

	// f32 arithmetic
	case wasm.OpF32Abs:
		e.operands.push(F32Value(F32Abs(e.popF32())))
	case wasm.OpF32Neg:
		e.operands.push(F32Value(F32Neg(e.popF32())))
	case wasm.OpF32Ceil:
		e.operands.push(F32Value(F32Ceil(e.popF32())))
	case wasm.OpF32Floor:
		e.operands.push(F32Value(F32Floor(e.popF32())))
	case wasm.OpF32Trunc:
		e.operands.push(F32Value(F32Trunc(e.popF32())))
	case wasm.OpF32Nearest:
		e.operands.push(F32Value(F32Nearest(e.popF32())))
	case wasm.OpF32Sqrt:
		e.operands.push(F32Value(F32Sqrt(e.popF32())))
	case wasm.OpF32Add:
		b, a := e.popF32(), e.popF32()
		e.operands.push(F32Value(F32Add(a, b)))
	case wasm.OpF32Sub:
		b, a := e.popF32(), e.popF32()
		e.operands.push(F32Value(F32Sub(a, b)))
	case wasm.OpF32Mul:
		b, a := e.popF32(), e.popF32()
		e.operands.push(F32Value(F32Mul(a, b)))
	case wasm.OpF32Div:
		b, a := e.popF32(), e.popF32()
		e.operands.push(F32Value(F32Div(a, b)))
	case wasm.OpF32Min:
		b, a := e.popF32(), e.popF32()
		e.operands.push(F32Value(F32Min(a, b)))
	case wasm.OpF32Max:
		b, a := e.popF32(), e.popF32()
		e.operands.push(F32Value(F32Max(a, b)))
	case wasm.OpF32Copysign:
		b, a := e.popF32(), e.popF32()
		e.operands.push(F32Value(F32Copysign(a, b)))

	// f64 arithmetic
	case wasm.OpF64Abs:
		e.operands.push(F64Value(F64Abs(e.popF64())))
	case wasm.OpF64Neg:
		e.operands.push(F64Value(F64Neg(e.popF64())))
	case wasm.OpF64Ceil:
		e.operands.push(F64Value(F64Ceil(e.popF64())))
	case wasm.OpF64Floor:
		e.operands.push(F64Value(F64Floor(e.popF64())))
	case wasm.OpF64Trunc:
		e.operands.push(F64Value(F64Trunc(e.popF64())))
	case wasm.OpF64Nearest:
		e.operands.push(F64Value(F64Nearest(e.popF64())))
	case wasm.OpF64Sqrt:
		e.operands.push(F64Value(F64Sqrt(e.popF64())))
	case wasm.OpF64Add:
		b, a := e.popF64(), e.popF64()
		e.operands.push(F64Value(F64Add(a, b)))
	case wasm.OpF64Sub:
		b, a := e.popF64(), e.popF64()
		e.operands.push(F64Value(F64Sub(a, b)))
	case wasm.OpF64Mul:
		b, a := e.popF64(), e.popF64()
		e.operands.push(F64Value(F64Mul(a, b)))
	case wasm.OpF64Div:
		b, a := e.popF64(), e.popF64()
		e.operands.push(F64Value(F64Div(a, b)))
	case wasm.OpF64Min:
		b, a := e.popF64(), e.popF64()
		e.operands.push(F64Value(F64Min(a, b)))
	case wasm.OpF64Max:
		b, a := e.popF64(), e.popF64()
		e.operands.push(F64Value(F64Max(a, b)))
	case wasm.OpF64Copysign:
		b, a := e.popF64(), e.popF64()
		e.operands.push(F64Value(F64Copysign(a, b)))

	// Conversions
	case wasm.OpI32WrapI64:
		e.operands.push(I32Value(I32WrapI64(e.pop64())))
	case wasm.OpI32TruncF32S:
		v, tr := I32TruncF32S(e.popF32())
		if tr != nil {
			return tr
		}
		e.operands.push(I32Value(v))
	case wasm.OpI32TruncF32U:
		v, tr := I32TruncF32U(e.popF32())
		if tr != nil {
			return tr
		}
		e.operands.push(I32Value(v))
	case wasm.OpI32TruncF64S:
		v, tr := I32TruncF64S(e.popF64())
		if tr != nil {
			return tr
		}
		e.operands.push(I32Value(v))
	case wasm.OpI32TruncF64U:
		v, tr := I32TruncF64U(e.popF64())
		if tr != nil {
			return tr
		}
		e.operands.push(I32Value(v))
	case wasm.OpI64ExtendI32S:
		e.operands.push(I64Value(I64ExtendI32S(e.pop32())))
	case wasm.OpI64ExtendI32U:
		e.operands.push(I64Value(I64ExtendI32U(e.pop32())))
	case wasm.OpI64TruncF32S:
		v, tr := I64TruncF32S(e.popF32())
		if tr != nil {
			return tr
		}
		e.operands.push(I64Value(v))
	case wasm.OpI64TruncF32U:
		v, tr := I64TruncF32U(e.popF32())
		if tr != nil {
			return tr
		}
		e.operands.push(I64Value(v))
	case wasm.OpI64TruncF64S:
		v, tr := I64TruncF64S(e.popF64())
		if tr != nil {
			return tr
		}
		e.operands.push(I64Value(v))
	case wasm.OpI64TruncF64U:
		v, tr := I64TruncF64U(e.popF64())
		if tr != nil {
			return tr
		}
		e.operands.push(I64Value(v))
	case wasm.OpF32ConvertI32S:
		e.operands.push(F32Value(F32ConvertI32S(e.pop32())))
	case wasm.OpF32ConvertI32U:
		e.operands.push(F32Value(F32ConvertI32U(e.pop32())))
	case wasm.OpF32ConvertI64S:
		e.operands.push(F32Value(F32ConvertI64S(e.pop64())))
	case wasm.OpF32ConvertI64U:
		e.operands.push(F32Value(F32ConvertI64U(e.pop64())))
	case wasm.OpF32DemoteF64:
		e.operands.push(F32Value(F32DemoteF64(e.popF64())))
	case wasm.OpF64ConvertI32S:
		e.operands.push(F64Value(F64ConvertI32S(e.pop32())))
	case wasm.OpF64ConvertI32U:
		e.operands.push(F64Value(F64ConvertI32U(e.pop32())))
	case wasm.OpF64ConvertI64S:
		e.operands.push(F64Value(F64ConvertI64S(e.pop64())))
	case wasm.OpF64ConvertI64U:
		e.operands.push(F64Value(F64ConvertI64U(e.pop64())))
	case wasm.OpF64PromoteF32:
		e.operands.push(F64Value(F64PromoteF32(e.popF32())))
	case wasm.OpI32ReinterpretF32:
		e.operands.push(I32Value(I32ReinterpretF32(e.popF32())))
	case wasm.OpI64ReinterpretF64:
		e.operands.push(I64Value(I64ReinterpretF64(e.popF64())))
	case wasm.OpF32ReinterpretI32:
		e.operands.push(F32Value(F32ReinterpretI32(e.pop32())))
	case wasm.OpF64ReinterpretI64:
		e.operands.push(F64Value(F64ReinterpretI64(e.pop64())))

	// Sign extension
	case wasm.OpI32Extend8S:
		e.operands.push(I32Value(I32Extend8S(e.pop32())))
	case wasm.OpI32Extend16S:
		e.operands.push(I32Value(I32Extend16S(e.pop32())))
	case wasm.OpI64Extend8S:
		e.operands.push(I64Value(I64Extend8S(e.pop64())))
	case wasm.OpI64Extend16S:
		e.operands.push(I64Value(I64Extend16S(e.pop64())))
	case wasm.OpI64Extend32S:
		e.operands.push(I64Value(I64Extend32S(e.pop64())))

	default:
		return NewTrap(TrapUnreachable, "unsupported opcode in dispatch")
	}
	return nil
}

// execNumericMisc handles the eight 0xFC-prefixed saturating-truncation
// sub-opcodes. step() routes to this directly since the sub-opcode lives
// in the instruction's MiscImm rather than in a distinct byte opcode.
func (e *Engine) execNumericMisc(sub uint32) *Trap {
	switch sub {
	case wasm.MiscI32TruncSatF32S:
		e.operands.push(I32Value(I32TruncSatF32S(e.popF32())))
	case wasm.MiscI32TruncSatF32U:
		e.operands.push(I32Value(I32TruncSatF32U(e.popF32())))
	case wasm.MiscI32TruncSatF64S:
		e.operands.push(I32Value(I32TruncSatF64S(e.popF64())))
	case wasm.MiscI32TruncSatF64U:
		e.operands.push(I32Value(I32TruncSatF64U(e.popF64())))
	case wasm.MiscI64TruncSatF32S:
		e.operands.push(I64Value(I64TruncSatF32S(e.popF32())))
	case wasm.MiscI64TruncSatF32U:
		e.operands.push(I64Value(I64TruncSatF32U(e.popF32())))
	case wasm.MiscI64TruncSatF64S:
		e.operands.push(I64Value(I64TruncSatF64S(e.popF64())))
	case wasm.MiscI64TruncSatF64U:
		e.operands.push(I64Value(I64TruncSatF64U(e.popF64())))
	default:
		return NewTrap(TrapUnreachable, "unsupported 0xFC sub-opcode")
	}
	return nil
}

func (e *Engine) pop32() int32    { return e.operands.pop().I32 }
func (e *Engine) pop64() int64    { return e.operands.pop().I64 }
func (e *Engine) popF32() float32 { return e.operands.pop().F32 }
func (e *Engine) popF64() float64 { return e.operands.pop().F64 }

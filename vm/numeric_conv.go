package vm

import "math"

// Conversion operators between the four value types.

// I32WrapI64 truncates to the low 32 bits.
func I32WrapI64(a int64) int32 { return int32(a) }

// I64ExtendI32S sign-extends.
func I64ExtendI32S(a int32) int64 { return int64(a) }

// I64ExtendI32U zero-extends.
func I64ExtendI32U(a int32) int64 { return int64(uint32(a)) }

// Sign-extension operators (adopted proposal): widen a narrow field within
// the same value width, propagating its sign bit.
func I32Extend8S(a int32) int32  { return int32(int8(a)) }
func I32Extend16S(a int32) int32 { return int32(int16(a)) }
func I64Extend8S(a int64) int64  { return int64(int8(a)) }
func I64Extend16S(a int64) int64 { return int64(int16(a)) }
func I64Extend32S(a int64) int64 { return int64(int32(a)) }

// I32TruncF32S traps on NaN or out-of-range input.
func I32TruncF32S(a float32) (int32, *Trap) {
	return truncToI32(float64(a), math.MinInt32, math.MaxInt32, "i32.trunc_f32_s")
}

func I32TruncF32U(a float32) (int32, *Trap) {
	v, tr := truncToU32(float64(a), "i32.trunc_f32_u")
	return int32(v), tr
}

func I32TruncF64S(a float64) (int32, *Trap) {
	return truncToI32(a, math.MinInt32, math.MaxInt32, "i32.trunc_f64_s")
}

func I32TruncF64U(a float64) (int32, *Trap) {
	v, tr := truncToU32(a, "i32.trunc_f64_u")
	return int32(v), tr
}

func I64TruncF32S(a float32) (int64, *Trap) {
	return truncToI64(float64(a), "i64.trunc_f32_s")
}

func I64TruncF32U(a float32) (int64, *Trap) {
	v, tr := truncToU64(float64(a), "i64.trunc_f32_u")
	return int64(v), tr
}

func I64TruncF64S(a float64) (int64, *Trap) {
	return truncToI64(a, "i64.trunc_f64_s")
}

func I64TruncF64U(a float64) (int64, *Trap) {
	v, tr := truncToU64(a, "i64.trunc_f64_u")
	return int64(v), tr
}

func truncToI32(v float64, lo, hi int64, op string) (int32, *Trap) {
	if math.IsNaN(v) {
		return 0, NewTrap(TrapInvalidConversion, op+": NaN")
	}
	t := math.Trunc(v)
	if t < float64(lo) || t > float64(hi) {
		return 0, NewTrap(TrapInvalidConversion, op+": out of range")
	}
	return int32(t), nil
}

func truncToU32(v float64, op string) (uint32, *Trap) {
	if math.IsNaN(v) {
		return 0, NewTrap(TrapInvalidConversion, op+": NaN")
	}
	t := math.Trunc(v)
	if t < 0 || t > math.MaxUint32 {
		return 0, NewTrap(TrapInvalidConversion, op+": out of range")
	}
	return uint32(t), nil
}

func truncToI64(v float64, op string) (int64, *Trap) {
	if math.IsNaN(v) {
		return 0, NewTrap(TrapInvalidConversion, op+": NaN")
	}
	t := math.Trunc(v)
	if t < math.MinInt64 || t >= 9223372036854775808.0 {
		return 0, NewTrap(TrapInvalidConversion, op+": out of range")
	}
	return int64(t), nil
}

func truncToU64(v float64, op string) (uint64, *Trap) {
	if math.IsNaN(v) {
		return 0, NewTrap(TrapInvalidConversion, op+": NaN")
	}
	t := math.Trunc(v)
	if t < 0 || t >= 18446744073709551616.0 {
		return 0, NewTrap(TrapInvalidConversion, op+": out of range")
	}
	return uint64(t), nil
}

// Saturating truncation (adopted proposal): clamp instead of trapping.

func I32TruncSatF32S(a float32) int32 { return satI32(float64(a)) }
func I32TruncSatF32U(a float32) int32 { return int32(satU32(float64(a))) }
func I32TruncSatF64S(a float64) int32 { return satI32(a) }
func I32TruncSatF64U(a float64) int32 { return int32(satU32(a)) }
func I64TruncSatF32S(a float32) int64 { return satI64(float64(a)) }
func I64TruncSatF32U(a float32) int64 { return int64(satU64(float64(a))) }
func I64TruncSatF64S(a float64) int64 { return satI64(a) }
func I64TruncSatF64U(a float64) int64 { return int64(satU64(a)) }

func satI32(v float64) int32 {
	if math.IsNaN(v) {
		return 0
	}
	t := math.Trunc(v)
	if t < math.MinInt32 {
		return math.MinInt32
	}
	if t > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(t)
}

func satU32(v float64) uint32 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	t := math.Trunc(v)
	if t > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(t)
}

func satI64(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	t := math.Trunc(v)
	if t < math.MinInt64 {
		return math.MinInt64
	}
	if t >= 9223372036854775808.0 {
		return math.MaxInt64
	}
	return int64(t)
}

func satU64(v float64) uint64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	t := math.Trunc(v)
	if t >= 18446744073709551616.0 {
		return math.MaxUint64
	}
	return uint64(t)
}

// Convert: integer to float.
func F32ConvertI32S(a int32) float32 { return float32(a) }
func F32ConvertI32U(a int32) float32 { return float32(uint32(a)) }
func F32ConvertI64S(a int64) float32 { return float32(a) }
func F32ConvertI64U(a int64) float32 { return float32(uint64(a)) }
func F64ConvertI32S(a int32) float64 { return float64(a) }
func F64ConvertI32U(a int32) float64 { return float64(uint32(a)) }
func F64ConvertI64S(a int64) float64 { return float64(a) }
func F64ConvertI64U(a int64) float64 { return float64(uint64(a)) }

// F32DemoteF64 narrows, following IEEE-754 conversion rules (infinity on
// overflow, rounding to nearest).
func F32DemoteF64(a float64) float32 { return float32(a) }

// F64PromoteF32 widens exactly.
func F64PromoteF32(a float32) float64 { return float64(a) }

// Reinterpret: identical bit pattern, different type tag.
func I32ReinterpretF32(a float32) int32   { return int32(math.Float32bits(a)) }
func I64ReinterpretF64(a float64) int64   { return int64(math.Float64bits(a)) }
func F32ReinterpretI32(a int32) float32   { return math.Float32frombits(uint32(a)) }
func F64ReinterpretI64(a int64) float64   { return math.Float64frombits(uint64(a)) }

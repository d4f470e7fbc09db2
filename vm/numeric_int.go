package vm

import "math/bits"

// Integer numeric operators for i32/i64, implemented on the bit patterns
// stored in Value. Signed vs. unsigned interpretation is chosen per
// operator, never carried by the value itself.

// I32Add wraps modulo 2^32.
func I32Add(a, b int32) int32 { return a + b }

// I32Sub wraps modulo 2^32.
func I32Sub(a, b int32) int32 { return a - b }

// I32Mul wraps modulo 2^32.
func I32Mul(a, b int32) int32 { return a * b }

// I32DivS traps on division by zero and on the MIN/-1 overflow case.
func I32DivS(a, b int32) (int32, *Trap) {
	if b == 0 {
		return 0, NewTrap(TrapIntegerDivideByZero, "i32.div_s by zero")
	}
	if a == -2147483648 && b == -1 {
		return 0, NewTrap(TrapIntegerOverflow, "i32.div_s overflow")
	}
	return a / b, nil
}

// I32RemS traps only on division by zero; the MIN/-1 case returns 0.
func I32RemS(a, b int32) (int32, *Trap) {
	if b == 0 {
		return 0, NewTrap(TrapIntegerDivideByZero, "i32.rem_s by zero")
	}
	if a == -2147483648 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

// I32DivU divides treating both operands as unsigned.
func I32DivU(a, b int32) (int32, *Trap) {
	if b == 0 {
		return 0, NewTrap(TrapIntegerDivideByZero, "i32.div_u by zero")
	}
	return int32(uint32(a) / uint32(b)), nil
}

// I32RemU computes the unsigned remainder.
func I32RemU(a, b int32) (int32, *Trap) {
	if b == 0 {
		return 0, NewTrap(TrapIntegerDivideByZero, "i32.rem_u by zero")
	}
	return int32(uint32(a) % uint32(b)), nil
}

func I32And(a, b int32) int32 { return a & b }
func I32Or(a, b int32) int32  { return a | b }
func I32Xor(a, b int32) int32 { return a ^ b }

// I32Shl shifts left; the shift count is reduced modulo 32.
func I32Shl(a, b int32) int32 { return a << (uint32(b) % 32) }

// I32ShrS is an arithmetic (sign-preserving) right shift.
func I32ShrS(a, b int32) int32 { return a >> (uint32(b) % 32) }

// I32ShrU is a logical right shift.
func I32ShrU(a, b int32) int32 { return int32(uint32(a) >> (uint32(b) % 32)) }

func I32Rotl(a, b int32) int32 { return int32(bits.RotateLeft32(uint32(a), int(b))) }
func I32Rotr(a, b int32) int32 { return int32(bits.RotateLeft32(uint32(a), -int(b))) }

func I32Clz(a int32) int32    { return int32(bits.LeadingZeros32(uint32(a))) }
func I32Ctz(a int32) int32    { return int32(bits.TrailingZeros32(uint32(a))) }
func I32Popcnt(a int32) int32 { return int32(bits.OnesCount32(uint32(a))) }

func I32Eqz(a int32) bool   { return a == 0 }
func I32Eq(a, b int32) bool { return a == b }
func I32Ne(a, b int32) bool { return a != b }
func I32LtS(a, b int32) bool { return a < b }
func I32LtU(a, b int32) bool { return uint32(a) < uint32(b) }
func I32GtS(a, b int32) bool { return a > b }
func I32GtU(a, b int32) bool { return uint32(a) > uint32(b) }
func I32LeS(a, b int32) bool { return a <= b }
func I32LeU(a, b int32) bool { return uint32(a) <= uint32(b) }
func I32GeS(a, b int32) bool { return a >= b }
func I32GeU(a, b int32) bool { return uint32(a) >= uint32(b) }

// i64 family, identical contracts modulo 2^64.

func I64Add(a, b int64) int64 { return a + b }
func I64Sub(a, b int64) int64 { return a - b }
func I64Mul(a, b int64) int64 { return a * b }

func I64DivS(a, b int64) (int64, *Trap) {
	if b == 0 {
		return 0, NewTrap(TrapIntegerDivideByZero, "i64.div_s by zero")
	}
	if a == -9223372036854775808 && b == -1 {
		return 0, NewTrap(TrapIntegerOverflow, "i64.div_s overflow")
	}
	return a / b, nil
}

func I64RemS(a, b int64) (int64, *Trap) {
	if b == 0 {
		return 0, NewTrap(TrapIntegerDivideByZero, "i64.rem_s by zero")
	}
	if a == -9223372036854775808 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

func I64DivU(a, b int64) (int64, *Trap) {
	if b == 0 {
		return 0, NewTrap(TrapIntegerDivideByZero, "i64.div_u by zero")
	}
	return int64(uint64(a) / uint64(b)), nil
}

func I64RemU(a, b int64) (int64, *Trap) {
	if b == 0 {
		return 0, NewTrap(TrapIntegerDivideByZero, "i64.rem_u by zero")
	}
	return int64(uint64(a) % uint64(b)), nil
}

func I64And(a, b int64) int64 { return a & b }
func I64Or(a, b int64) int64  { return a | b }
func I64Xor(a, b int64) int64 { return a ^ b }

func I64Shl(a, b int64) int64  { return a << (uint64(b) % 64) }
func I64ShrS(a, b int64) int64 { return a >> (uint64(b) % 64) }
func I64ShrU(a, b int64) int64 { return int64(uint64(a) >> (uint64(b) % 64)) }

func I64Rotl(a, b int64) int64 { return int64(bits.RotateLeft64(uint64(a), int(b))) }
func I64Rotr(a, b int64) int64 { return int64(bits.RotateLeft64(uint64(a), -int(b))) }

func I64Clz(a int64) int64    { return int64(bits.LeadingZeros64(uint64(a))) }
func I64Ctz(a int64) int64    { return int64(bits.TrailingZeros64(uint64(a))) }
func I64Popcnt(a int64) int64 { return int64(bits.OnesCount64(uint64(a))) }

func I64Eqz(a int64) bool    { return a == 0 }
func I64Eq(a, b int64) bool  { return a == b }
func I64Ne(a, b int64) bool  { return a != b }
func I64LtS(a, b int64) bool { return a < b }
func I64LtU(a, b int64) bool { return uint64(a) < uint64(b) }
func I64GtS(a, b int64) bool { return a > b }
func I64GtU(a, b int64) bool { return uint64(a) > uint64(b) }
func I64LeS(a, b int64) bool { return a <= b }
func I64LeU(a, b int64) bool { return uint64(a) <= uint64(b) }
func I64GeS(a, b int64) bool { return a >= b }
func I64GeU(a, b int64) bool { return uint64(a) >= uint64(b) }

package vm

import (
	"math"
	"testing"
)

func TestI32WrapI64(t *testing.T) {
	if got := I32WrapI64(0x1_0000_0001); got != 1 {
		t.Errorf("I32WrapI64(0x100000001) = %d, want 1", got)
	}
}

func TestSignExtension(t *testing.T) {
	if got := I32Extend8S(0xFF); got != -1 {
		t.Errorf("I32Extend8S(0xFF) = %d, want -1", got)
	}
	if got := I32Extend16S(0xFFFF); got != -1 {
		t.Errorf("I32Extend16S(0xFFFF) = %d, want -1", got)
	}
	if got := I64Extend32S(0xFFFFFFFF); got != -1 {
		t.Errorf("I64Extend32S(0xFFFFFFFF) = %d, want -1", got)
	}
}

func TestI32TruncF32S_TrapsOnNaN(t *testing.T) {
	_, tr := I32TruncF32S(float32(math.NaN()))
	if tr == nil || tr.Kind != TrapInvalidConversion {
		t.Fatalf("I32TruncF32S(NaN) trap = %v, want %v", tr, TrapInvalidConversion)
	}
}

func TestI32TruncF32S_TrapsOnOutOfRange(t *testing.T) {
	_, tr := I32TruncF32S(1e20)
	if tr == nil || tr.Kind != TrapInvalidConversion {
		t.Fatalf("I32TruncF32S(1e20) trap = %v, want %v", tr, TrapInvalidConversion)
	}
}

func TestI32TruncF32S_InRange(t *testing.T) {
	got, tr := I32TruncF32S(42.9)
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if got != 42 {
		t.Errorf("I32TruncF32S(42.9) = %d, want 42", got)
	}
}

func TestI32TruncSatF32S_SaturatesInsteadOfTrapping(t *testing.T) {
	if got := I32TruncSatF32S(1e20); got != math.MaxInt32 {
		t.Errorf("I32TruncSatF32S(1e20) = %d, want MaxInt32", got)
	}
	if got := I32TruncSatF32S(-1e20); got != math.MinInt32 {
		t.Errorf("I32TruncSatF32S(-1e20) = %d, want MinInt32", got)
	}
	if got := I32TruncSatF32S(float32(math.NaN())); got != 0 {
		t.Errorf("I32TruncSatF32S(NaN) = %d, want 0", got)
	}
}

func TestI64TruncSatF64U_SaturatesNegativeToZero(t *testing.T) {
	if got := I64TruncSatF64U(-5); got != 0 {
		t.Errorf("I64TruncSatF64U(-5) = %d, want 0", got)
	}
}

func TestReinterpretRoundTrip(t *testing.T) {
	bits := I32ReinterpretF32(1.5)
	if got := F32ReinterpretI32(bits); got != 1.5 {
		t.Errorf("round-trip reinterpret = %v, want 1.5", got)
	}
}

package vm

import "testing"

func TestTableInstance_GetSet(t *testing.T) {
	tbl := &TableInstance{Elements: make([]*Addr, 3)}
	if tr := tbl.Set(1, Addr(5)); tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	got, tr := tbl.Get(1)
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if got == nil || *got != 5 {
		t.Errorf("Get(1) = %v, want 5", got)
	}
}

func TestTableInstance_UninitializedSlotIsNil(t *testing.T) {
	tbl := &TableInstance{Elements: make([]*Addr, 1)}
	got, tr := tbl.Get(0)
	if tr != nil {
		t.Fatalf("unexpected trap: %v", tr)
	}
	if got != nil {
		t.Errorf("Get(0) on empty slot = %v, want nil", got)
	}
}

func TestTableInstance_OutOfBoundsTraps(t *testing.T) {
	tbl := &TableInstance{Elements: make([]*Addr, 1)}
	if _, tr := tbl.Get(5); tr == nil || tr.Kind != TrapOutOfBoundsTableAccess {
		t.Errorf("Get(5) trap = %v, want %v", tr, TrapOutOfBoundsTableAccess)
	}
	if tr := tbl.Set(5, Addr(0)); tr == nil || tr.Kind != TrapOutOfBoundsTableAccess {
		t.Errorf("Set(5,...) trap = %v, want %v", tr, TrapOutOfBoundsTableAccess)
	}
}

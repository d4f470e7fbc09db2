package vm

// TableInstance is a fixed-max vector of optional function addresses. The
// MVP interpreter only ever holds funcref elements.
type TableInstance struct {
	Elements []*Addr
	Max      *uint64
}

// Length returns the table's current element count.
func (t *TableInstance) Length() uint32 { return uint32(len(t.Elements)) }

// Get returns the function address at i, or nil if the slot is
// uninitialized. Out-of-bounds access traps.
func (t *TableInstance) Get(i uint32) (*Addr, *Trap) {
	if i >= uint32(len(t.Elements)) {
		return nil, NewTrap(TrapOutOfBoundsTableAccess, "table index out of bounds")
	}
	return t.Elements[i], nil
}

// Set writes a function address into slot i. Out-of-bounds access traps.
func (t *TableInstance) Set(i uint32, addr Addr) *Trap {
	if i >= uint32(len(t.Elements)) {
		return NewTrap(TrapOutOfBoundsTableAccess, "table index out of bounds")
	}
	v := addr
	t.Elements[i] = &v
	return nil
}

package vm

import (
	"encoding/binary"
	"math"
)

// PageSize is the fixed WebAssembly linear-memory page size in bytes.
const PageSize = 65536

// MemoryInstance is a page-addressed byte vector with little-endian typed
// access. Its length is always a multiple of PageSize.
type MemoryInstance struct {
	Bytes        []byte
	CurrentPages uint32
	MaxPages     *uint32
}

// NewMemoryInstance allocates a memory sized to minPages, honoring an
// optional maxPages ceiling. This is the default, in-process
// implementation of MemoryProvider's contract.
func NewMemoryInstance(minPages uint32, maxPages *uint32) *MemoryInstance {
	return &MemoryInstance{
		Bytes:        make([]byte, uint64(minPages)*PageSize),
		CurrentPages: minPages,
		MaxPages:     maxPages,
	}
}

// Size returns the current size in pages.
func (m *MemoryInstance) Size() uint32 { return m.CurrentPages }

// Grow appends delta pages and returns the previous size in pages, or -1
// if growth would exceed the declared maximum. On failure the memory is
// left unchanged.
func (m *MemoryInstance) Grow(delta uint32) int32 {
	newPages := uint64(m.CurrentPages) + uint64(delta)
	if m.MaxPages != nil && newPages > uint64(*m.MaxPages) {
		return -1
	}
	if newPages > math.MaxUint32 {
		return -1
	}
	prev := m.CurrentPages
	m.Bytes = append(m.Bytes, make([]byte, uint64(delta)*PageSize)...)
	m.CurrentPages = uint32(newPages)
	return int32(prev)
}

// checkBounds applies the specification's 33-bit-overflow trap rule: an
// access traps unless ea+n fits within the byte length. ea is a full
// effective address (static memarg offset plus dynamic i32 operand,
// already widened to 64 bits by the caller), so the addition below cannot
// itself silently wrap the way a 32-bit add could.
func (m *MemoryInstance) checkBounds(ea uint64, n uint64) *Trap {
	if ea+n > uint64(len(m.Bytes)) {
		return NewTrap(TrapOutOfBoundsMemoryAccess, "memory access out of bounds")
	}
	return nil
}

// ReadBytes copies len(dst) bytes starting at effective address ea.
func (m *MemoryInstance) ReadBytes(dst []byte, ea uint64) *Trap {
	if tr := m.checkBounds(ea, uint64(len(dst))); tr != nil {
		return tr
	}
	copy(dst, m.Bytes[ea:])
	return nil
}

// WriteBytes writes src starting at effective address ea.
func (m *MemoryInstance) WriteBytes(ea uint64, src []byte) *Trap {
	if tr := m.checkBounds(ea, uint64(len(src))); tr != nil {
		return tr
	}
	copy(m.Bytes[ea:], src)
	return nil
}

// ReadInt reads an N-byte little-endian integer at ea, zero- or
// sign-extended to 64 bits per signed. N must be 1, 2, 4, or 8.
func (m *MemoryInstance) ReadInt(ea uint64, n int, signed bool) (int64, *Trap) {
	if tr := m.checkBounds(ea, uint64(n)); tr != nil {
		return 0, tr
	}
	buf := m.Bytes[ea : ea+uint64(n)]
	var u uint64
	for i := n - 1; i >= 0; i-- {
		u = u<<8 | uint64(buf[i])
	}
	if !signed {
		return int64(u), nil
	}
	shift := uint(64 - n*8)
	return int64(u<<shift) >> shift, nil
}

// WriteInt writes the low n bytes of value, little-endian, at ea.
func (m *MemoryInstance) WriteInt(ea uint64, n int, value int64) *Trap {
	if tr := m.checkBounds(ea, uint64(n)); tr != nil {
		return tr
	}
	u := uint64(value)
	buf := m.Bytes[ea : ea+uint64(n)]
	for i := 0; i < n; i++ {
		buf[i] = byte(u)
		u >>= 8
	}
	return nil
}

// ReadFloat32 reads a little-endian f32 at ea.
func (m *MemoryInstance) ReadFloat32(ea uint64) (float32, *Trap) {
	if tr := m.checkBounds(ea, 4); tr != nil {
		return 0, tr
	}
	bits := binary.LittleEndian.Uint32(m.Bytes[ea : ea+4])
	return math.Float32frombits(bits), nil
}

// WriteFloat32 writes a little-endian f32 at ea.
func (m *MemoryInstance) WriteFloat32(ea uint64, v float32) *Trap {
	if tr := m.checkBounds(ea, 4); tr != nil {
		return tr
	}
	binary.LittleEndian.PutUint32(m.Bytes[ea:ea+4], math.Float32bits(v))
	return nil
}

// ReadFloat64 reads a little-endian f64 at ea.
func (m *MemoryInstance) ReadFloat64(ea uint64) (float64, *Trap) {
	if tr := m.checkBounds(ea, 8); tr != nil {
		return 0, tr
	}
	bits := binary.LittleEndian.Uint64(m.Bytes[ea : ea+8])
	return math.Float64frombits(bits), nil
}

// WriteFloat64 writes a little-endian f64 at ea.
func (m *MemoryInstance) WriteFloat64(ea uint64, v float64) *Trap {
	if tr := m.checkBounds(ea, 8); tr != nil {
		return tr
	}
	binary.LittleEndian.PutUint64(m.Bytes[ea:ea+8], math.Float64bits(v))
	return nil
}

// defaultMemoryProvider backs memories with plain Go byte slices. It is the
// MemoryProvider used when a host does not supply its own allocator.
type defaultMemoryProvider struct{}

// DefaultMemoryProvider returns the built-in MemoryProvider.
func DefaultMemoryProvider() MemoryProvider { return defaultMemoryProvider{} }

func (defaultMemoryProvider) Build(minPages uint32, maxPages *uint32) (*MemoryInstance, error) {
	return NewMemoryInstance(minPages, maxPages), nil
}

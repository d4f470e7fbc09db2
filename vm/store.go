package vm

import "github.com/wippyai/wasm-runtime/wasm"

// Addr is an opaque index into one of the Store's four arrays. Addresses
// are stable for the Store's lifetime: the Store is append-only and never
// deallocates.
type Addr int

// Store holds every function, table, memory, and global instance live in a
// program, across every module that has been instantiated into it.
// Allocation appends; nothing is ever removed, so addresses handed out
// earlier stay valid for as long as the Store exists.
type Store struct {
	Functions []*FunctionInstance
	Tables    []*TableInstance
	Memories  []*MemoryInstance
	Globals   []*GlobalInstance
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// AllocateFunction appends a function instance and returns its address.
func (s *Store) AllocateFunction(f *FunctionInstance) Addr {
	s.Functions = append(s.Functions, f)
	return Addr(len(s.Functions) - 1)
}

// AllocateTable appends a table instance sized to its declared minimum and
// returns its address.
func (s *Store) AllocateTable(limits wasm.Limits) Addr {
	t := &TableInstance{
		Elements: make([]*Addr, limits.Min),
		Max:      limits.Max,
	}
	s.Tables = append(s.Tables, t)
	return Addr(len(s.Tables) - 1)
}

// AllocateMemory appends a memory instance built by the supplied provider
// and returns its address.
func (s *Store) AllocateMemory(provider MemoryProvider, minPages uint32, maxPages *uint32) (Addr, error) {
	mem, err := provider.Build(minPages, maxPages)
	if err != nil {
		return 0, err
	}
	s.Memories = append(s.Memories, mem)
	return Addr(len(s.Memories) - 1), nil
}

// AllocateGlobal appends a global instance with its initial value and
// returns its address.
func (s *Store) AllocateGlobal(t ValueType, mutable bool, initial Value) Addr {
	s.Globals = append(s.Globals, &GlobalInstance{Type: t, Mutable: mutable, Value: initial})
	return Addr(len(s.Globals) - 1)
}

// FunctionInstance is either a module-defined function (interpreted from its
// flattened body) or a host function (a Go closure).
type FunctionInstance struct {
	Type   FuncType
	Module *ModuleInstance // nil for Host
	Body   *FlattenedBody  // nil for Host
	Host   HostCallable    // nil for Module
}

// IsHost reports whether this instance wraps a host callable.
func (f *FunctionInstance) IsHost() bool { return f.Host != nil }

// FuncType mirrors the decoded module's function type so the engine never
// needs to reach back into package wasm during a call.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// Equal reports whether two function types have identical signatures,
// used by call_indirect's type check.
func (t FuncType) Equal(o FuncType) bool {
	if len(t.Params) != len(o.Params) || len(t.Results) != len(o.Results) {
		return false
	}
	for i := range t.Params {
		if t.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range t.Results {
		if t.Results[i] != o.Results[i] {
			return false
		}
	}
	return true
}

// GlobalInstance holds a mutable-or-not typed value.
type GlobalInstance struct {
	Type    ValueType
	Mutable bool
	Value   Value
}

// HostContext is passed to every host callable, exposing the memory of the
// calling module (if it has one).
type HostContext struct {
	memory *MemoryInstance
}

// Memory returns the calling frame's module memory at index 0, or nil if
// the module declares none.
func (c HostContext) Memory() *MemoryInstance { return c.memory }

// HostCallable is the signature every host-provided import must satisfy.
// A host-raised error becomes a trap at the call boundary.
type HostCallable func(params []Value, ctx HostContext) ([]Value, error)

// MemoryProvider builds a MemoryInstance for a declared memory, letting the
// embedder choose the backing allocator. maxPages is nil when the module
// declares no maximum.
type MemoryProvider interface {
	Build(minPages uint32, maxPages *uint32) (*MemoryInstance, error)
}

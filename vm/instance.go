package vm

// ExternKind identifies which of the four address spaces an export or
// import placeholder refers to.
type ExternKind int

const (
	ExternFunc ExternKind = iota
	ExternTable
	ExternMemory
	ExternGlobal
)

// ExportInstance names a single export of a module, resolved to a store
// address.
type ExportInstance struct {
	Name string
	Kind ExternKind
	Addr Addr
}

// ModuleInstance is the runtime embodiment of one instantiated module: its
// local indices mapped to store addresses, plus its exports. Each address
// slice is indexed in the module's declarative order (imports first, own
// definitions second) and is immutable once linking completes.
type ModuleInstance struct {
	Types       []FuncType
	FuncAddrs   []Addr
	TableAddrs  []Addr
	MemAddrs    []Addr
	GlobalAddrs []Addr
	Exports     []ExportInstance
	Store       *Store
}

// FindExport looks up an export by name, returning (export, true) if found.
func (m *ModuleInstance) FindExport(name string) (ExportInstance, bool) {
	for _, e := range m.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return ExportInstance{}, false
}

// Function dereferences a module-local function index to its instance.
func (m *ModuleInstance) Function(idx uint32) *FunctionInstance {
	return m.Store.Functions[m.FuncAddrs[idx]]
}

// Table dereferences a module-local table index to its instance.
func (m *ModuleInstance) Table(idx uint32) *TableInstance {
	return m.Store.Tables[m.TableAddrs[idx]]
}

// Memory dereferences a module-local memory index to its instance.
func (m *ModuleInstance) Memory(idx uint32) *MemoryInstance {
	return m.Store.Memories[m.MemAddrs[idx]]
}

// Global dereferences a module-local global index to its instance.
func (m *ModuleInstance) Global(idx uint32) *GlobalInstance {
	return m.Store.Globals[m.GlobalAddrs[idx]]
}

package linker

import (
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/vm"
)

// externEntry is a resolved store address tagged with the category it was
// allocated under, so import binding can check kind before type. After the
// kind check, bindImports compares function signatures and global value
// type and mutability; tables and memories are matched on kind alone, and
// their limits are not compared.
type externEntry struct {
	kind vm.ExternKind
	addr vm.Addr
}

// Registry is the flat (module_name, item_name) lookup table used to
// resolve imports: host-registered items and already-instantiated modules'
// exports share the same two-level map. Unlike a component-model namespace
// tree, there is no versioning or hierarchical matching — WebAssembly 1.0
// imports match on exact module and item name only.
type Registry struct {
	modules map[string]map[string]externEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]map[string]externEntry)}
}

func (r *Registry) define(module, name string, e externEntry) {
	bucket, ok := r.modules[module]
	if !ok {
		bucket = make(map[string]externEntry)
		r.modules[module] = bucket
	}
	bucket[name] = e
}

func (r *Registry) lookup(module, name string) (externEntry, bool) {
	bucket, ok := r.modules[module]
	if !ok {
		return externEntry{}, false
	}
	e, ok := bucket[name]
	return e, ok
}

// DefineFunc registers a host function as module.name, allocating it into
// store so it can be addressed like any module-defined function.
func (r *Registry) DefineFunc(store *vm.Store, module, name string, sig vm.FuncType, fn vm.HostCallable) {
	addr := store.AllocateFunction(&vm.FunctionInstance{Type: sig, Host: fn})
	r.define(module, name, externEntry{kind: vm.ExternFunc, addr: addr})
	Logger().Sugar().Debugw("defined host function", "module", module, "name", name)
}

// DefineGlobal registers a host-owned global as module.name.
func (r *Registry) DefineGlobal(store *vm.Store, module, name string, typ vm.ValueType, mutable bool, initial vm.Value) {
	addr := store.AllocateGlobal(typ, mutable, initial)
	r.define(module, name, externEntry{kind: vm.ExternGlobal, addr: addr})
}

// DefineMemory registers a host-owned memory as module.name.
func (r *Registry) DefineMemory(store *vm.Store, module, name string, provider vm.MemoryProvider, minPages uint32, maxPages *uint32) error {
	addr, err := store.AllocateMemory(provider, minPages, maxPages)
	if err != nil {
		return err
	}
	r.define(module, name, externEntry{kind: vm.ExternMemory, addr: addr})
	return nil
}

// DefineTable registers a host-owned table as module.name.
func (r *Registry) DefineTable(store *vm.Store, module, name string, limits uint64, max *uint64) {
	addr := store.AllocateTable(tableLimits(limits, max))
	r.define(module, name, externEntry{kind: vm.ExternTable, addr: addr})
}

// DefineModule registers every export of an already-instantiated module
// under moduleName, making them resolvable as imports for modules linked
// afterward. Callers must instantiate modules in dependency order: a
// module can only import from a module already passed to DefineModule.
func (r *Registry) DefineModule(moduleName string, mi *vm.ModuleInstance) {
	for _, exp := range mi.Exports {
		r.define(moduleName, exp.Name, externEntry{kind: exp.Kind, addr: exp.Addr})
	}
	Logger().Sugar().Debugw("registered module exports", "module", moduleName, "count", len(mi.Exports))
}

func (r *Registry) bind(importModule, importName string, wantKind vm.ExternKind) (vm.Addr, error) {
	e, ok := r.lookup(importModule, importName)
	if !ok {
		return 0, errors.ImportNotFound(importModule, importName)
	}
	if e.kind != wantKind {
		return 0, errors.ImportTypeMismatch(importModule, importName, "import category does not match the exporting item")
	}
	return e.addr, nil
}

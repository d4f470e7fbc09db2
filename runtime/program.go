package runtime

import (
	"github.com/wippyai/wasm-runtime/errors"
	"github.com/wippyai/wasm-runtime/linker"
	"github.com/wippyai/wasm-runtime/vm"
	"github.com/wippyai/wasm-runtime/wasm"
	"github.com/wippyai/wasm-runtime/wat"
)

// Program links zero or more named modules into one shared Store, plus
// host items registered ahead of loading. Modules must be loaded in
// dependency order: a module can only import items already defined via
// DefineHost* or exported by an earlier Load call on the same Program.
type Program struct {
	store         *vm.Store
	reg           *linker.Registry
	modules       map[string]*vm.ModuleInstance
	order         []string
	provider      vm.MemoryProvider
	maxStackDepth int
}

// Option configures a Program at construction time.
type Option func(*Program)

// WithMemoryProvider overrides the MemoryProvider used to back every memory
// the Program allocates, both module-owned (LoadText/LoadBinary) and
// host-owned (DefineHostMemory). The default is vm.DefaultMemoryProvider.
func WithMemoryProvider(provider vm.MemoryProvider) Option {
	return func(p *Program) { p.provider = provider }
}

// WithMaxStackDepth overrides vm.DefaultMaxStackDepth for the operand,
// label, and activation stacks of every Engine the Program runs code with:
// exported-function calls and module start functions alike.
func WithMaxStackDepth(n int) Option {
	return func(p *Program) { p.maxStackDepth = n }
}

// New returns an empty Program backed by its own Store and Registry,
// applying any options in order.
func New(opts ...Option) *Program {
	p := &Program{
		store:    vm.NewStore(),
		reg:      linker.NewRegistry(),
		modules:  make(map[string]*vm.ModuleInstance),
		provider: vm.DefaultMemoryProvider(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// newEngine builds an Engine honoring the Program's configured stack depth.
func (p *Program) newEngine() *vm.Engine {
	return vm.NewEngine(vm.WithMaxStackDepth(p.maxStackDepth))
}

// Store exposes the Program's shared store, for embedders building host
// items (tables, memories) outside of the DefineHost* helpers.
func (p *Program) Store() *vm.Store { return p.store }

// DefineHostFunc registers a host function importable as module.name.
func (p *Program) DefineHostFunc(module, name string, sig vm.FuncType, fn vm.HostCallable) {
	p.reg.DefineFunc(p.store, module, name, sig, fn)
}

// DefineHostGlobal registers a host-owned global importable as module.name.
func (p *Program) DefineHostGlobal(module, name string, typ vm.ValueType, mutable bool, initial vm.Value) {
	p.reg.DefineGlobal(p.store, module, name, typ, mutable, initial)
}

// DefineHostMemory registers a host-owned memory importable as module.name,
// backed by the Program's configured MemoryProvider (see WithMemoryProvider).
func (p *Program) DefineHostMemory(module, name string, minPages uint32, maxPages *uint32) error {
	return p.reg.DefineMemory(p.store, module, name, p.provider, minPages, maxPages)
}

// DefineHostTable registers a host-owned table importable as module.name.
func (p *Program) DefineHostTable(module, name string, min uint64, max *uint64) {
	p.reg.DefineTable(p.store, module, name, min, max)
}

// LoadText compiles WAT source to binary and loads it as moduleName.
func (p *Program) LoadText(moduleName, source string) error {
	bin, err := wat.Compile(source)
	if err != nil {
		return errors.ParseFailed(moduleName, err)
	}
	return p.LoadBinary(moduleName, bin)
}

// LoadBinary parses, validates, and instantiates a WASM binary module as
// moduleName, then registers its exports so later Load calls may import
// from it.
func (p *Program) LoadBinary(moduleName string, data []byte) error {
	mod, err := wasm.ParseModuleValidate(data)
	if err != nil {
		return errors.ParseFailed(moduleName, err)
	}
	mi, err := linker.Instantiate(p.store, p.reg, mod, p.provider, linker.WithMaxStackDepth(p.maxStackDepth))
	if err != nil {
		return err
	}
	p.modules[moduleName] = mi
	p.reg.DefineModule(moduleName, mi)
	p.order = append(p.order, moduleName)
	return nil
}

func (p *Program) module(name string) (*vm.ModuleInstance, error) {
	mi, ok := p.modules[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, "module", name)
	}
	return mi, nil
}

// Functions returns every function module exports, in declared order —
// used by callers that want to list or pick an export interactively.
func (p *Program) Functions(module string) ([]*ExportedFunction, error) {
	mi, err := p.module(module)
	if err != nil {
		return nil, err
	}
	var out []*ExportedFunction
	for _, exp := range mi.Exports {
		if exp.Kind != vm.ExternFunc {
			continue
		}
		out = append(out, &ExportedFunction{
			module: module,
			name:   exp.Name,
			fn:     mi.Store.Functions[exp.Addr],
			engine: p.newEngine(),
		})
	}
	return out, nil
}

// Modules returns the names of every loaded module, in load order.
func (p *Program) Modules() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// GetMemory returns the first exported memory across loaded modules, in
// load order.
func (p *Program) GetMemory() (*vm.MemoryInstance, bool) {
	for _, name := range p.order {
		mi := p.modules[name]
		for _, exp := range mi.Exports {
			if exp.Kind == vm.ExternMemory {
				return mi.Store.Memories[exp.Addr], true
			}
		}
	}
	return nil, false
}

// Memory returns the memory exported by module as name.
func (p *Program) Memory(module, name string) (*vm.MemoryInstance, error) {
	mi, err := p.module(module)
	if err != nil {
		return nil, err
	}
	exp, ok := mi.FindExport(name)
	if !ok || exp.Kind != vm.ExternMemory {
		return nil, errors.ExportNotFound(module, name)
	}
	return mi.Store.Memories[exp.Addr], nil
}

// GetGlobal reads the current value of an exported global.
func (p *Program) GetGlobal(module, name string) (vm.Value, error) {
	mi, err := p.module(module)
	if err != nil {
		return vm.Value{}, err
	}
	exp, ok := mi.FindExport(name)
	if !ok || exp.Kind != vm.ExternGlobal {
		return vm.Value{}, errors.ExportNotFound(module, name)
	}
	return mi.Store.Globals[exp.Addr].Value, nil
}

// SetGlobal writes to an exported global. Fails with ImmutableGlobal if the
// global was declared immutable.
func (p *Program) SetGlobal(module, name string, v vm.Value) error {
	mi, err := p.module(module)
	if err != nil {
		return err
	}
	exp, ok := mi.FindExport(name)
	if !ok || exp.Kind != vm.ExternGlobal {
		return errors.ExportNotFound(module, name)
	}
	g := mi.Store.Globals[exp.Addr]
	if !g.Mutable {
		return errors.ImmutableGlobal(module, name)
	}
	g.Value = v
	return nil
}

// GetFunction resolves an exported function for invocation.
func (p *Program) GetFunction(module, name string) (*ExportedFunction, error) {
	mi, err := p.module(module)
	if err != nil {
		return nil, err
	}
	exp, ok := mi.FindExport(name)
	if !ok || exp.Kind != vm.ExternFunc {
		return nil, errors.ExportNotFound(module, name)
	}
	return &ExportedFunction{
		module: module,
		name:   name,
		fn:     mi.Store.Functions[exp.Addr],
		engine: p.newEngine(),
	}, nil
}

// Package runtime is the embedding facade: it builds a Program out of one
// or more named modules (WAT text or WASM binary) plus host-provided items,
// then exposes memory, globals, and exported functions for the host to
// drive.
//
// A typical embedding:
//
//	prog := runtime.New()
//	prog.DefineHostFunc("env", "print", vm.FuncType{Params: []vm.ValueType{vm.ValueI32}},
//		runtime.HostFunc1(func(a vm.Value, ctx vm.HostContext) (*vm.Value, error) {
//			fmt.Println(a.I32)
//			return nil, nil
//		}))
//	if err := prog.LoadText("main", watSource); err != nil {
//		log.Fatal(err)
//	}
//	fn, err := prog.GetFunction("main", "add")
//	result, err := fn.Invoke(vm.I32Value(1), vm.I32Value(2))
//
// Modules must be loaded in dependency order: a module can only import
// items defined by DefineHost* calls or exported by a module already
// loaded into the same Program. Loading failures and facade lookup
// failures surface as *errors.Error; calling an exported function
// surfaces engine traps verbatim as *vm.Trap.
//
// New accepts Options to override the defaults: WithMaxStackDepth bounds
// every Engine the Program runs code with (exported calls and module start
// functions alike), and WithMemoryProvider swaps the allocator backing
// every memory the Program creates, module-owned or host-owned:
//
//	prog := runtime.New(
//		runtime.WithMaxStackDepth(8192),
//		runtime.WithMemoryProvider(myProvider),
//	)
package runtime

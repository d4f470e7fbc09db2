// Package wasmruntime provides a Go implementation of a WebAssembly 1.0
// (MVP) interpreter, with the sign-extension and saturating-truncation
// operator extensions.
//
// This library executes WebAssembly core modules — text or binary — inside
// a pure-Go stack machine, with no JIT/AOT compilation and no dependency on
// any external WASM engine.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmruntime/         Root package doc; no exported API of its own
//	├── runtime/         Public facade: Program, ExportedFunction, host-function ABI
//	├── linker/          Instantiation & linking: allocation, import resolution
//	├── vm/              The core: values, Store, Memory, Table, execution engine
//	├── wasm/            Binary module decoder and structural validator
//	├── wat/             WAT text format to WASM binary compiler
//	└── errors/          Structured error types
//
// # Quick Start
//
// Load and run a module:
//
//	prog := runtime.New()
//	if err := prog.LoadText("main", watSource); err != nil {
//	    log.Fatal(err)
//	}
//
//	add, err := prog.GetFunction("main", "add")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := add.Invoke(vm.I32Value(1), vm.I32Value(2))
//	fmt.Println(result.I32) // 3
//
// # Host Functions
//
// Register Go functions as host imports before loading a module that
// imports them, using the arity-specific typed constructors:
//
//	prog.DefineHostFunc("env", "print",
//	    vm.FuncType{Params: []vm.ValueType{vm.ValueI32}},
//	    runtime.HostFunc1(func(a vm.Value, ctx vm.HostContext) (*vm.Value, error) {
//	        fmt.Println(a.I32)
//	        return nil, nil
//	    }))
//
// # Thread Safety
//
// A Program's Store is not safe for concurrent instantiation and calls from
// multiple goroutines; serialize access to a single Program the way a
// single-threaded WASM embedding would.
//
// # Memory Model
//
// WASM linear memory can only grow, never shrink — a WebAssembly
// specification property, not an implementation limitation. vm.MemoryInstance
// backs each memory with a plain Go byte slice and exposes bounds-checked
// ReadInt/WriteInt/ReadFloat32/etc. accessors that return a *vm.Trap on an
// out-of-range access.
package wasmruntime

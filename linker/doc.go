// Package linker instantiates decoded modules into a shared vm.Store,
// resolving imports against a Registry of host-defined items and
// previously-instantiated modules' exports.
//
// A typical program links several modules in dependency order:
//
//	store := vm.NewStore()
//	reg := linker.NewRegistry()
//	reg.DefineFunc(store, "env", "log", sig, hostLog)
//
//	envMI, err := linker.Instantiate(store, reg, envModule, vm.DefaultMemoryProvider())
//	reg.DefineModule("env_lib", envMI)
//
//	mainMI, err := linker.Instantiate(store, reg, mainModule, vm.DefaultMemoryProvider())
//
// Instantiate performs, in order: allocation of import placeholders,
// allocation of the module's own functions/tables/memories/globals,
// import binding, export collection, global-initializer evaluation,
// element- and data-segment placement, and (if declared) invocation of the
// start function. Any step failing returns an *errors.Error tagged
// errors.PhaseLinking; a trap raised by the start function is wrapped the
// same way so callers see a single error type from this package.
//
// WithMaxStackDepth bounds the Engine used to run a declared start
// function; pass it to keep that bound consistent with the embedder's own
// configured call depth.
package linker

package runtime

import "github.com/wippyai/wasm-runtime/vm"

// HostFunc0..HostFunc4 adapt a Go function of fixed arity into a
// vm.HostCallable. Each wrapper dispatches by a direct, arity-specific call
// rather than inspecting the function's shape at call time, per the
// re-architecting guidance to avoid runtime type introspection in the host
// ABI. A nil *vm.Value result means the host function declares no result.

func HostFunc0(fn func(ctx vm.HostContext) (*vm.Value, error)) vm.HostCallable {
	return func(params []vm.Value, ctx vm.HostContext) ([]vm.Value, error) {
		v, err := fn(ctx)
		return wrapResult(v), err
	}
}

func HostFunc1(fn func(a vm.Value, ctx vm.HostContext) (*vm.Value, error)) vm.HostCallable {
	return func(params []vm.Value, ctx vm.HostContext) ([]vm.Value, error) {
		v, err := fn(params[0], ctx)
		return wrapResult(v), err
	}
}

func HostFunc2(fn func(a, b vm.Value, ctx vm.HostContext) (*vm.Value, error)) vm.HostCallable {
	return func(params []vm.Value, ctx vm.HostContext) ([]vm.Value, error) {
		v, err := fn(params[0], params[1], ctx)
		return wrapResult(v), err
	}
}

func HostFunc3(fn func(a, b, c vm.Value, ctx vm.HostContext) (*vm.Value, error)) vm.HostCallable {
	return func(params []vm.Value, ctx vm.HostContext) ([]vm.Value, error) {
		v, err := fn(params[0], params[1], params[2], ctx)
		return wrapResult(v), err
	}
}

func HostFunc4(fn func(a, b, c, d vm.Value, ctx vm.HostContext) (*vm.Value, error)) vm.HostCallable {
	return func(params []vm.Value, ctx vm.HostContext) ([]vm.Value, error) {
		v, err := fn(params[0], params[1], params[2], params[3], ctx)
		return wrapResult(v), err
	}
}

func wrapResult(v *vm.Value) []vm.Value {
	if v == nil {
		return nil
	}
	return []vm.Value{*v}
}

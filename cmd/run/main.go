package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wippyai/wasm-runtime/runtime"
	"github.com/wippyai/wasm-runtime/vm"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to a .wasm (binary) or .wat (text) module file")
		funcName    = flag.String("func", "", "Exported function to call (optional)")
		argsStr     = flag.String("args", "", "Comma-separated argument values, e.g. 1,2,3")
		list        = flag.Bool("list", false, "List exported functions and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <file.wasm|file.wat> [-func name] [-args v1,v2,...]")
		fmt.Fprintln(os.Stderr, "       run -wasm <file> -list")
		fmt.Fprintln(os.Stderr, "       run -wasm <file> -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*wasmFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *funcName, *argsStr, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

const moduleName = "main"

func loadProgram(wasmFile string) (*runtime.Program, error) {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	prog := runtime.New()
	var loadErr error
	if strings.EqualFold(filepath.Ext(wasmFile), ".wat") {
		loadErr = prog.LoadText(moduleName, string(data))
	} else {
		loadErr = prog.LoadBinary(moduleName, data)
	}
	if loadErr != nil {
		return nil, fmt.Errorf("load module: %w", loadErr)
	}
	return prog, nil
}

func run(wasmFile, funcName, argsStr string, listOnly bool) error {
	prog, err := loadProgram(wasmFile)
	if err != nil {
		return err
	}

	fns, err := prog.Functions(moduleName)
	if err != nil {
		return fmt.Errorf("list exports: %w", err)
	}

	fmt.Printf("Module: %s\n", wasmFile)
	fmt.Printf("Exported functions:\n")
	for _, fn := range fns {
		fmt.Printf("  %s%s\n", fn.Name(), fn.Signature())
	}

	if listOnly {
		return nil
	}

	if funcName == "" {
		if len(fns) == 1 {
			funcName = fns[0].Name()
		} else {
			fmt.Printf("\nNo function specified and more than one export exists.\n")
			fmt.Printf("Use -func to specify a function to call.\n")
			return nil
		}
	}

	fn, err := prog.GetFunction(moduleName, funcName)
	if err != nil {
		return fmt.Errorf("get function %s: %w", funcName, err)
	}

	args, err := parseArgs(argsStr, fn.ParamTypes())
	if err != nil {
		return fmt.Errorf("parse args: %w", err)
	}

	fmt.Printf("\nCalling %s(%s)...\n", funcName, argsStr)
	result, err := fn.Invoke(args...)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}
	if result == nil {
		fmt.Println("Result: (no value)")
	} else {
		fmt.Printf("Result: %s\n", formatValue(*result))
	}
	return nil
}

// parseArgs splits a comma-separated argument string and converts each
// piece to the corresponding declared parameter type.
func parseArgs(argsStr string, types []vm.ValueType) ([]vm.Value, error) {
	var parts []string
	if argsStr != "" {
		parts = strings.Split(argsStr, ",")
	}
	if len(parts) != len(types) {
		return nil, fmt.Errorf("expected %d argument(s), got %d", len(types), len(parts))
	}
	args := make([]vm.Value, len(parts))
	for i, p := range parts {
		v, err := parseValue(types[i], strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}

func parseValue(t vm.ValueType, s string) (vm.Value, error) {
	switch t {
	case vm.ValueI32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.I32Value(int32(n)), nil
	case vm.ValueI64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.I64Value(n), nil
	case vm.ValueF32:
		n, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.F32Value(float32(n)), nil
	case vm.ValueF64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.F64Value(n), nil
	default:
		return vm.Value{}, fmt.Errorf("unsupported value type %s", t)
	}
}

func formatValue(v vm.Value) string {
	switch v.Type {
	case vm.ValueI32:
		return fmt.Sprintf("%d (i32)", v.I32)
	case vm.ValueI64:
		return fmt.Sprintf("%d (i64)", v.I64)
	case vm.ValueF32:
		return fmt.Sprintf("%g (f32)", v.F32)
	case vm.ValueF64:
		return fmt.Sprintf("%g (f64)", v.F64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

package vm

import (
	"fmt"

	"github.com/wippyai/wasm-runtime/wasm"
)

// FlattenedBody is a function body lowered once, at allocation time, into a
// linear instruction array. Every block/loop/if is split into paired
// start/end markers carrying precomputed jump targets, so the dispatch loop
// never has to re-scan the stream to find a branch target.
type FlattenedBody struct {
	Locals []ValueType
	Code   []FlatInstr
}

// FlatInstr is one step of a FlattenedBody. Op is the original wasm opcode
// byte; Imm is the original decoded immediate (nil for bare opcodes). The
// jump-target fields are only meaningful for the control-flow opcodes noted
// on each.
type FlatInstr struct {
	Op     byte
	Imm    interface{}
	Arity  int  // result arity of the entered block: 0 or 1 (Block/Loop/If only)
	IsLoop bool // true if this Block marker originated from a loop (Block only)
	EndIP  int  // Block/If: ip of the instruction after the matching End. Else: ip of the matching End itself (the then-arm falls through onto Else and jumps there, skipping the else-arm; OpEnd then pops the if-label).
	ElseIP int  // If only: ip to jump to when the condition is false: the first instruction after Else, or the matching End itself (EndIP-1) when there is no else arm
}

// blockArity resolves a BlockImm's result count. Only the MVP single-value
// result types are supported; a function-type index (the multi-value
// proposal) is rejected since multi-value is out of scope.
func blockArity(blockType int32) (int, error) {
	switch blockType {
	case wasm.BlockTypeVoid:
		return 0, nil
	case wasm.BlockTypeI32, wasm.BlockTypeI64, wasm.BlockTypeF32, wasm.BlockTypeF64:
		return 1, nil
	default:
		return 0, fmt.Errorf("multi-value block types are not supported")
	}
}

// Flatten lowers a decoded instruction stream into a FlattenedBody. instrs
// must come from a single function body terminated by its trailing OpEnd
// (wasm.DecodeInstructions's normal output).
func Flatten(locals []ValueType, instrs []wasm.Instruction) (*FlattenedBody, error) {
	code := make([]FlatInstr, len(instrs))
	for i, in := range instrs {
		code[i] = FlatInstr{Op: in.Opcode, Imm: in.Imm}
	}

	// Stack of open block start indices, used to match Block/Loop/If
	// against their Else/End.
	type openBlock struct {
		startIP int
		elseIP  int // ip of the Else marker itself, 0 if none seen yet
		isIf    bool
	}
	var stack []openBlock

	for ip := range code {
		switch code[ip].Op {
		case wasm.OpBlock, wasm.OpLoop, wasm.OpIf:
			arity, err := blockArity(code[ip].Imm.(wasm.BlockImm).Type)
			if err != nil {
				return nil, err
			}
			code[ip].Arity = arity
			code[ip].IsLoop = code[ip].Op == wasm.OpLoop
			stack = append(stack, openBlock{startIP: ip, isIf: code[ip].Op == wasm.OpIf})

		case wasm.OpElse:
			if len(stack) == 0 || !stack[len(stack)-1].isIf {
				return nil, fmt.Errorf("else without matching if")
			}
			stack[len(stack)-1].elseIP = ip
			code[stack[len(stack)-1].startIP].ElseIP = ip + 1

		case wasm.OpEnd:
			if len(stack) == 0 {
				// Function-level terminating End; nothing to patch.
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			code[top.startIP].EndIP = ip + 1
			if top.isIf {
				if top.elseIP != 0 {
					// Fallthrough from the then-branch lands on Else;
					// jump to End itself so OpEnd pops the if-label.
					code[top.elseIP].EndIP = ip
				} else {
					// No else arm: false branch jumps to End itself so
					// OpEnd pops the if-label.
					code[top.startIP].ElseIP = ip
				}
			}
		}
	}

	return &FlattenedBody{Locals: locals, Code: code}, nil
}

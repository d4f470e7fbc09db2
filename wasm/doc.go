// Package wasm provides WebAssembly binary format parsing for the MVP core
// instruction set, the sign-extension operators, and the saturating
// truncation operators.
//
// # Supported Features
//
//	Core (MVP):
//	  - Value types i32, i64, f32, f64
//	  - Functions, tables (funcref only), memories (single, 32-bit), globals
//	  - Control flow, calls, call_indirect, local/global access
//	  - Memory load/store/size/grow, active data segments
//	  - Active element segments of bare function indices
//	  - Import/export of all definitions
//
//	Adopted proposals:
//	  - Sign extension (i32.extend8_s .. i64.extend32_s)
//	  - Saturating truncation (i32.trunc_sat_f32_s .. i64.trunc_sat_f64_u)
//
// Everything else — GC, exception handling, tail calls, SIMD, threads,
// bulk memory, reference types beyond funcref, multi-memory, memory64 — is
// rejected by the decoder with an explicit error.
//
// # Parsing
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.ParseModule(data)
//
//	module, err := wasm.ParseModuleValidate(data) // parse + structural validation
//
// # Instructions
//
//	instructions, err := wasm.DecodeInstructions(code)
package wasm

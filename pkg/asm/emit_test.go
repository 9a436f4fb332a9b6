package asm_test

import (
	"testing"

	"its-hmny.dev/nand2tetris/pkg/asm"
	"its-hmny.dev/nand2tetris/pkg/vm"
)

func TestEmitter_Bootstrap(t *testing.T) {
	emitter := asm.NewEmitter()
	block := emitter.Bootstrap()

	if len(block.Statements) != 6 {
		t.Fatalf("Bootstrap() produced %d statements, want 6", len(block.Statements))
	}

	first, ok := block.Statements[0].(asm.AInstruction)
	if !ok || first.Location != "256" {
		t.Fatalf("Bootstrap() first statement = %+v, want @256", block.Statements[0])
	}

	target, ok := block.Statements[len(block.Statements)-2].(asm.AInstruction)
	if !ok || target.Location != "Sys.init" {
		t.Fatalf("Bootstrap() should jump to Sys.init, got %+v", block.Statements[len(block.Statements)-2])
	}
}

func TestEmitter_PushConstant(t *testing.T) {
	emitter := asm.NewEmitter()
	module := vm.SemanticModule{
		Name: "Foo",
		Functions: []vm.SemanticFunction{{
			Name:   "Foo.main",
			NLocal: 0,
			Commands: []vm.SemanticCommand{
				vm.PushCommand{Source: vm.PushConstant{Value: 7}},
			},
		}},
	}

	blocks, err := emitter.EmitModule(module)
	if err != nil {
		t.Fatalf("EmitModule() returned error: %v", err)
	}
	// One block for the function prologue, one for the push.
	if len(blocks) != 2 {
		t.Fatalf("EmitModule() produced %d blocks, want 2", len(blocks))
	}

	pushBlock := blocks[1]
	first, ok := pushBlock.Statements[0].(asm.AInstruction)
	if !ok || first.Location != "7" {
		t.Fatalf("push constant 7 should load @7 first, got %+v", pushBlock.Statements[0])
	}
}

func TestEmitter_CallUsesUniqueReturnLabelsPerCaller(t *testing.T) {
	emitter := asm.NewEmitter()
	module := vm.SemanticModule{
		Name: "Foo",
		Functions: []vm.SemanticFunction{{
			Name: "Foo.main",
			Commands: []vm.SemanticCommand{
				vm.CallCommand{Name: "Foo.helper", NArgs: 0},
				vm.CallCommand{Name: "Foo.helper", NArgs: 0},
			},
		}},
	}

	blocks, err := emitter.EmitModule(module)
	if err != nil {
		t.Fatalf("EmitModule() returned error: %v", err)
	}

	labelOf := func(block asm.CodeBlock) string {
		for _, stmt := range block.Statements {
			if decl, ok := stmt.(asm.LabelDecl); ok {
				return decl.Name
			}
		}
		return ""
	}

	first, second := labelOf(blocks[1]), labelOf(blocks[2])
	if first == "" || second == "" || first == second {
		t.Fatalf("expected distinct return labels for each call, got %q and %q", first, second)
	}
}

func TestEmitter_IndirectPop(t *testing.T) {
	emitter := asm.NewEmitter()
	module := vm.SemanticModule{
		Name: "Foo",
		Functions: []vm.SemanticFunction{{
			Name: "Foo.main",
			Commands: []vm.SemanticCommand{
				vm.PopCommand{Target: vm.IndirectAddress{Base: vm.LocalBase, Offset: 2}},
			},
		}},
	}

	blocks, err := emitter.EmitModule(module)
	if err != nil {
		t.Fatalf("EmitModule() returned error: %v", err)
	}

	popBlock := blocks[1]
	first, ok := popBlock.Statements[0].(asm.AInstruction)
	if !ok || first.Location != "LCL" {
		t.Fatalf("pop local 2 should dereference @LCL first, got %+v", popBlock.Statements[0])
	}
}

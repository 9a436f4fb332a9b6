package jack_test

import (
	"testing"

	"its-hmny.dev/nand2tetris/pkg/jack"
	"its-hmny.dev/nand2tetris/pkg/utils"
	"its-hmny.dev/nand2tetris/pkg/vm"
)

// A method's first declared parameter must resolve to VM 'argument 1', since
// 'argument 0' is reserved for the object instance the caller pushes.
func TestLowerer_MethodArgumentOffsetSkipsInstanceSlot(t *testing.T) {
	class := jack.Class{
		Name:   "Point",
		Fields: utils.NewOrderedMap[string, jack.Variable](),
		Subroutines: utils.NewOrderedMapFromList([]utils.MapEntry[string, jack.Subroutine]{
			{Key: "distanceFrom", Value: jack.Subroutine{
				Name: "distanceFrom",
				Type: jack.Method,
				Return: jack.DataType{Main: jack.Int},
				Arguments: utils.NewOrderedMapFromList([]utils.MapEntry[string, jack.Variable]{
					{Key: "other", Value: jack.Variable{Name: "other", Kind: jack.Parameter, DataType: jack.ClassType("Point")}},
				}),
				Locals: utils.NewOrderedMap[string, jack.Variable](),
				Statements: []jack.Statement{
					jack.ReturnStmt{Expr: jack.VarExpr{Name: "other"}},
				},
			}},
		}),
	}

	program := jack.Program{"Point": class}
	lowerer := jack.NewLowerer(program)

	compiled, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("Lower() returned error: %v", err)
	}

	// Skip the declaration and the 'push argument 0; pop pointer 0' prelude that installs 'this'.
	ops := compiled["Point"][3:]
	found := false
	for _, op := range ops {
		if mem, ok := op.(vm.MemoryOp); ok && mem.Operation == vm.Push && mem.Segment == vm.Argument {
			if mem.Offset != 1 {
				t.Fatalf("reading 'other' pushed argument %d, want argument 1", mem.Offset)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("expected a 'push argument' operation reading the method's own parameter")
	}
}

func TestLowerer_FunctionArgumentsStartAtZero(t *testing.T) {
	class := jack.Class{
		Name:   "Math",
		Fields: utils.NewOrderedMap[string, jack.Variable](),
		Subroutines: utils.NewOrderedMapFromList([]utils.MapEntry[string, jack.Subroutine]{
			{Key: "double", Value: jack.Subroutine{
				Name: "double",
				Type: jack.Function,
				Return: jack.DataType{Main: jack.Int},
				Arguments: utils.NewOrderedMapFromList([]utils.MapEntry[string, jack.Variable]{
					{Key: "n", Value: jack.Variable{Name: "n", Kind: jack.Parameter, DataType: jack.DataType{Main: jack.Int}}},
				}),
				Locals: utils.NewOrderedMap[string, jack.Variable](),
				Statements: []jack.Statement{
					jack.ReturnStmt{Expr: jack.VarExpr{Name: "n"}},
				},
			}},
		}),
	}

	program := jack.Program{"Math": class}
	lowerer := jack.NewLowerer(program)

	compiled, err := lowerer.Lower()
	if err != nil {
		t.Fatalf("Lower() returned error: %v", err)
	}

	ops := compiled["Math"]
	found := false
	for _, op := range ops {
		if mem, ok := op.(vm.MemoryOp); ok && mem.Operation == vm.Push && mem.Segment == vm.Argument {
			if mem.Offset != 0 {
				t.Fatalf("reading 'n' pushed argument %d, want argument 0 (functions get no instance slot)", mem.Offset)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("expected a 'push argument' operation reading the function's own parameter")
	}
}

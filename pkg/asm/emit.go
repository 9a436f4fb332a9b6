package asm

import (
	"fmt"

	"its-hmny.dev/nand2tetris/pkg/vm"
)

// ----------------------------------------------------------------------------
// Emitter

// An Emitter lowers the semantic VM form (see pkg/vm's Lifter) to Hack assembly
// code blocks, implementing the full calling convention: frame setup, argument
// and local transfer, and the saved-registers chain.
//
// The only mutable state threaded through emission is the per-caller counter
// used to mint unique return-address labels for 'call'.
type Emitter struct {
	retCounter map[string]int
}

func NewEmitter() *Emitter { return &Emitter{retCounter: map[string]int{}} }

func a(location string) AInstruction { return AInstruction{Location: location} }
func c(dest, comp, jump string) CInstruction {
	return CInstruction{Dest: dest, Comp: comp, Jump: jump}
}

// Bootstrap sets SP to 256 and jumps into Sys.init. Emitted once, before every other block.
func (e *Emitter) Bootstrap() CodeBlock {
	return CodeBlock{
		Comment: "bootstrap: SP = 256, jump to Sys.init",
		Statements: []Statement{
			a("256"), c("D", "A", ""),
			a("SP"), c("M", "D", ""),
			a("Sys.init"), c("", "0", "JMP"),
		},
	}
}

// EmitModule lowers every function of 'module' to its code blocks, in order.
func (e *Emitter) EmitModule(module vm.SemanticModule) ([]CodeBlock, error) {
	var blocks []CodeBlock
	for _, fn := range module.Functions {
		fnBlocks, err := e.EmitFunction(fn)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", module.Name, fn.Name, err)
		}
		blocks = append(blocks, fnBlocks...)
	}
	return blocks, nil
}

// EmitFunction lowers one semantic function: its prologue, then one block per command.
func (e *Emitter) EmitFunction(fn vm.SemanticFunction) ([]CodeBlock, error) {
	blocks := []CodeBlock{e.functionPrologue(fn.Name, fn.NLocal)}

	for _, cmd := range fn.Commands {
		block, err := e.emitCommand(fn.Name, cmd)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func (e *Emitter) emitCommand(caller string, cmd vm.SemanticCommand) (CodeBlock, error) {
	switch typed := cmd.(type) {
	case vm.PushCommand:
		stmts, err := e.push(typed.Source)
		return CodeBlock{Comment: "push", Statements: stmts}, err
	case vm.PopCommand:
		stmts, err := e.pop(typed.Target)
		return CodeBlock{Comment: "pop", Statements: stmts}, err
	case vm.ArithCommand:
		return CodeBlock{Comment: fmt.Sprintf("arithmetic: %s", typed.Op), Statements: e.arithmetic(typed)}, nil
	case vm.LabelCommand:
		return CodeBlock{Comment: "label", Statements: []Statement{LabelDecl{Name: typed.Name}}}, nil
	case vm.GotoCommand:
		return CodeBlock{Comment: "goto", Statements: []Statement{a(typed.Name), c("", "0", "JMP")}}, nil
	case vm.IfGotoCommand:
		stmts := append(e.popStackTopToD(), a(typed.Name), c("", "D", "JNE"))
		return CodeBlock{Comment: "if-goto", Statements: stmts}, nil
	case vm.CallCommand:
		return CodeBlock{Comment: fmt.Sprintf("call %s %d", typed.Name, typed.NArgs), Statements: e.call(caller, typed)}, nil
	case vm.ReturnCommand:
		return CodeBlock{Comment: "return", Statements: e.ret()}, nil
	default:
		return CodeBlock{}, fmt.Errorf("unsupported semantic command %T", cmd)
	}
}

// ----------------------------------------------------------------------------
// Stack primitives

// pushD pushes whatever value is currently held in the D register.
func (e *Emitter) pushD() []Statement {
	return []Statement{a("SP"), c("A", "M", ""), c("M", "D", ""), a("SP"), c("M", "M+1", "")}
}

// popStackTopToD decrements SP and loads the popped value into D.
func (e *Emitter) popStackTopToD() []Statement {
	return []Statement{a("SP"), c("M", "M-1", ""), c("A", "M", ""), c("D", "M", "")}
}

// ----------------------------------------------------------------------------
// Arithmetic

func (e *Emitter) arithmetic(cmd vm.ArithCommand) []Statement {
	switch cmd.Op {
	case vm.Neg:
		return e.unary("-D")
	case vm.Not:
		return e.unary("!D")
	case vm.Add:
		return e.binary("D+A")
	case vm.Sub:
		return e.binary("D-A")
	case vm.And:
		return e.binary("D&A")
	case vm.Or:
		return e.binary("D|A")
	case vm.Eq:
		return e.comparison("JEQ", cmd.Key)
	case vm.Gt:
		return e.comparison("JGT", cmd.Key)
	case vm.Lt:
		return e.comparison("JLT", cmd.Key)
	default:
		return nil
	}
}

// unary loads x = *(SP-1) into D, applies 'op' (referencing D), and stores back.
func (e *Emitter) unary(op string) []Statement {
	return []Statement{
		a("SP"), c("A", "M-1", ""), c("D", "M", ""),
		c("D", op, ""),
		a("SP"), c("A", "M-1", ""), c("M", "D", ""),
	}
}

// binary loads x = *(SP-2) into D and y = *(SP-1) into A (dereferenced via M),
// applies 'op' (referencing D and A), writes the result to *(SP-2) and decrements SP.
func (e *Emitter) binary(op string) []Statement {
	return []Statement{
		a("SP"), c("A", "M-1", ""), c("A", "A-1", ""), c("D", "M", ""),
		a("SP"), c("A", "M-1", ""), c("A", "M", ""),
		c("D", op, ""),
		a("SP"), c("A", "M-1", ""), c("A", "A-1", ""), c("M", "D", ""),
		a("SP"), c("M", "M-1", ""),
	}
}

// comparison shares binary's load prologue, then branches on D-A to produce
// all-ones (true) or zero (false), written to *(SP-2) before decrementing SP.
func (e *Emitter) comparison(jump string, key int) []Statement {
	trueLabel := fmt.Sprintf("TRUE_%d", key)
	endLabel := fmt.Sprintf("END_%d", key)

	return []Statement{
		a("SP"), c("A", "M-1", ""), c("A", "A-1", ""), c("D", "M", ""),
		a("SP"), c("A", "M-1", ""), c("A", "M", ""),
		c("D", "D-A", ""),
		a(trueLabel), c("", "D", jump),
		c("D", "0", ""),
		a(endLabel), c("", "0", "JMP"),
		LabelDecl{Name: trueLabel}, c("D", "-1", ""),
		LabelDecl{Name: endLabel},
		a("SP"), c("A", "M-1", ""), c("A", "A-1", ""), c("M", "D", ""),
		a("SP"), c("M", "M-1", ""),
	}
}

// ----------------------------------------------------------------------------
// Memory access

func (e *Emitter) push(src vm.PushShape) ([]Statement, error) {
	switch s := src.(type) {
	case vm.PushConstant:
		stmts := append([]Statement{a(fmt.Sprint(s.Value)), c("D", "A", "")}, e.pushD()...)
		return stmts, nil
	case vm.StaticSymbol:
		stmts := append([]Statement{a(s.Symbol), c("D", "M", "")}, e.pushD()...)
		return stmts, nil
	case vm.DirectAddress:
		stmts := append([]Statement{a(directLiteral(s.Base, s.Offset)), c("D", "M", "")}, e.pushD()...)
		return stmts, nil
	case vm.IndirectAddress:
		load := []Statement{
			a(indirectBase(s.Base)), c("D", "M", ""),
			a(fmt.Sprint(s.Offset)), c("A", "D+A", ""), c("D", "M", ""),
		}
		return append(load, e.pushD()...), nil
	default:
		return nil, fmt.Errorf("unsupported push shape %T", src)
	}
}

func (e *Emitter) pop(dst vm.PopShape) ([]Statement, error) {
	switch d := dst.(type) {
	case vm.StaticSymbol:
		stmts := e.popStackTopToD()
		return append(stmts, a(d.Symbol), c("M", "D", "")), nil
	case vm.DirectAddress:
		stmts := e.popStackTopToD()
		return append(stmts, a(directLiteral(d.Base, d.Offset)), c("M", "D", "")), nil
	case vm.IndirectAddress:
		stmts := []Statement{
			a(indirectBase(d.Base)), c("D", "M", ""),
			a(fmt.Sprint(d.Offset)), c("D", "D+A", ""),
			a("R13"), c("M", "D", ""),
		}
		stmts = append(stmts, e.popStackTopToD()...)
		stmts = append(stmts, a("R13"), c("A", "M", ""), c("M", "D", ""))
		return stmts, nil
	default:
		return nil, fmt.Errorf("unsupported pop shape %T", dst)
	}
}

// directLiteral resolves a direct segment's literal base address: R3 holds the
// 'pointer' (this/that) registers, R5 opens the 8-word 'temp' bank.
func directLiteral(base vm.DirectBase, offset uint16) string {
	switch base {
	case vm.PointerBase:
		return fmt.Sprint(3 + offset)
	case vm.TempBase:
		return fmt.Sprint(5 + offset)
	default:
		return ""
	}
}

func indirectBase(base vm.IndirectBase) string {
	switch base {
	case vm.ArgumentBase:
		return "ARG"
	case vm.LocalBase:
		return "LCL"
	case vm.ThisBase:
		return "THIS"
	case vm.ThatBase:
		return "THAT"
	default:
		return ""
	}
}

// ----------------------------------------------------------------------------
// Functions

// functionPrologue declares the function's entry label and zero-initializes its locals.
func (e *Emitter) functionPrologue(name string, nLocal uint16) CodeBlock {
	stmts := []Statement{LabelDecl{Name: name}}
	for i := uint16(0); i < nLocal; i++ {
		stmts = append(stmts, a("0"), c("D", "A", ""))
		stmts = append(stmts, e.pushD()...)
	}
	return CodeBlock{Comment: fmt.Sprintf("function %s %d", name, nLocal), Statements: stmts}
}

// call implements the saved-registers calling convention: push the
// return-address label and the caller's LCL/ARG/THIS/THAT, rebase ARG and LCL
// for the callee, jump, then declare the return-address label so the callee's
// 'return' lands here.
func (e *Emitter) call(caller string, cmd vm.CallCommand) []Statement {
	e.retCounter[caller]++
	retLabel := fmt.Sprintf("%s$ret.%d", caller, e.retCounter[caller])

	var stmts []Statement
	stmts = append(stmts, a(retLabel), c("D", "A", ""))
	stmts = append(stmts, e.pushD()...)
	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		stmts = append(stmts, a(reg), c("D", "M", ""))
		stmts = append(stmts, e.pushD()...)
	}

	// ARG = SP - n_args - 5
	stmts = append(stmts,
		a("SP"), c("D", "M", ""),
		a(fmt.Sprint(int(cmd.NArgs)+5)), c("D", "D-A", ""),
		a("ARG"), c("M", "D", ""),
	)
	// LCL = SP
	stmts = append(stmts, a("SP"), c("D", "M", ""), a("LCL"), c("M", "D", ""))
	// goto callee
	stmts = append(stmts, a(cmd.Name), c("", "0", "JMP"))
	// return-address label
	stmts = append(stmts, LabelDecl{Name: retLabel})

	return stmts
}

// ret restores the caller's frame and jumps back, leaving exactly the return
// value (placed at the caller's first argument slot) on the stack.
func (e *Emitter) ret() []Statement {
	var stmts []Statement

	// R14 = LCL (frame base); R15 = *(R14-5) (return address)
	stmts = append(stmts, a("LCL"), c("D", "M", ""), a("R14"), c("M", "D", ""))
	stmts = append(stmts, a("5"), c("A", "D-A", ""), c("D", "M", ""), a("R15"), c("M", "D", ""))

	// *ARG = pop() ; SP = ARG + 1
	stmts = append(stmts, e.popStackTopToD()...)
	stmts = append(stmts, a("ARG"), c("A", "M", ""), c("M", "D", ""))
	stmts = append(stmts, a("ARG"), c("D", "M+1", ""), a("SP"), c("M", "D", ""))

	// restore THAT, THIS, ARG, LCL from R14-1..4
	for i, reg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		offset := i + 1
		stmts = append(stmts,
			a("R14"), c("D", "M", ""),
			a(fmt.Sprint(offset)), c("A", "D-A", ""), c("D", "M", ""),
			a(reg), c("M", "D", ""),
		)
	}

	// goto *R15
	stmts = append(stmts, a("R15"), c("A", "M", ""), c("", "0", "JMP"))
	return stmts
}

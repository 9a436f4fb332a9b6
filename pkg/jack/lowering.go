package jack

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"its-hmny.dev/nand2tetris/pkg/utils"
	"its-hmny.dev/nand2tetris/pkg/vm"
)

// ----------------------------------------------------------------------------
// Jack Lowerer

// The Lowerer takes a 'jack.Program' and produces its 'vm.Program' counterpart.
//
// Since we get a tree-like struct we are able to traverse it using a Depth First Search (DFS) algorithm
// on it. For each operation node visited we produce a list of 'vm.Operation' as counterpart as well as
// validating the input before proceeding with the processing.
type Lowerer struct {
	program     utils.OrderedMap[string, Class] // The program to lower, it must be not nil nor empty
	scopes      *ScopeTable                     // Keeps track of the scopes and declared variables inside each one
	nRandomizer uint                            // Counter to randomize 'vm.LabelDecl(s)' with same name
}

// Initializes and returns to the caller a brand new 'Lowerer' struct.
// Requires the argument Program to be not nil nor empty.
func NewLowerer(p Program) Lowerer {
	// ? Why do we convert from a jack.Program (wrapper type of a map[string]Class) to an OrderedMap[string, Class]?
	// Without doing this is impossible to have reproducible builds (and also meaningful test cases) because
	// the Go built-in map is not ordered and non-deterministic, so the order of iteration of the classes can
	// change on different runs, then what happens is that the label declarations will be different too since
	// they are randomized with just a counter (the counter will have different values because it will be
	// incremented a different number of times based on the order of the classes).
	//
	// The solution is simple: we order the map by its class name and store it in that order in the OrderedMap
	// so that the order we decided we'll be maintained throughout the entire lowering process. The end result
	// is that for the same input code we obtain always the same output code.

	//* 1. From unsorted map to unsorted slice of MapEntry[string, Class] (used later by OrderedMap)
	classes := []utils.MapEntry[string, Class]{}
	for _, class := range p {
		classes = append(classes, utils.MapEntry[string, Class]{Key: class.Name, Value: class})
	}

	//* 2. We sort the slice by classname so that we have a reproducible order to use
	sort.Slice(classes, func(i, j int) bool { return classes[i].Key < classes[j].Key })

	//* 3. From sorted slice we create an order map where the insertion order and the alphabetic order coincide
	return Lowerer{program: utils.NewOrderedMapFromList(classes), scopes: NewScopeTable()}
}

// Triggers the lowering process. It iterates class by class and then statement by statement,
// recursively calling the necessary helper function based on the construct type (much like
// a recursive descent parser but for lowering), this means the AST is visited in DFS order.
func (l *Lowerer) Lower() (vm.Program, error) {
	if l.program.Size() == 0 {
		return nil, fmt.Errorf("the given 'program' is empty or nil")
	}

	program := vm.Program{}
	for _, pair := range l.program.Pairs() {
		operations, err := l.HandleClass(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("error handling lowering of class '%s': %w", pair.Key, err)
		}
		program[pair.Key] = vm.Module(operations)
	}

	return program, nil
}

// Specialized function to convert a 'jack.Class' node to a list of 'vm.Operation'.
func (l *Lowerer) HandleClass(class Class) ([]vm.Operation, error) {
	l.scopes.PushClassScope(class.Name) // Keep track of the current scope being processed
	defer l.scopes.PopClassScope()      // Reset the class scope after processing

	for _, field := range class.Fields.Entries() {
		if err := l.scopes.RegisterVariable(field); err != nil {
			return nil, fmt.Errorf("error declaring field in class '%s': %w", class.Name, err)
		}
	}

	operations := []vm.Operation{}
	for _, subroutine := range class.Subroutines.Entries() {
		ops, err := l.HandleSubroutine(class, subroutine)
		if err != nil {
			return nil, fmt.Errorf("error handling subroutine '%s' in class '%s': %w", subroutine.Name, class.Name, err)
		}
		operations = append(operations, ops...)
	}

	return operations, nil
}

// Specialized function to convert a 'jack.Subroutine' node to a list of 'vm.Operation'.
func (l *Lowerer) HandleSubroutine(class Class, subroutine Subroutine) ([]vm.Operation, error) {
	l.scopes.PushSubRoutineScope(subroutine.Name) // Keep track of the current subroutine being processed
	defer l.scopes.PopSubroutineScope()           // Reset the subroutine scope after processing

	// We add to the current scope all of the arguments and local variables declared by the subroutine.
	// Like this we're actually supporting shadowing of variables, so if a variable with the same name
	// is already present in an outer scope, we just temporarily override it with the most update one
	// instead of returning an error (like Go does).
	//
	// Methods receive the object instance as the real argument 0 on the VM stack (see the prologue
	// below), so we reserve that slot with a placeholder before registering the user's own parameters;
	// otherwise the first declared parameter would incorrectly resolve to 'argument 0'.
	if subroutine.Type == Method {
		// '$this' is a synthetic name no source-level parameter can ever collide with, so
		// this registration can never itself fail and its error is safe to discard.
		l.scopes.RegisterVariable(Variable{Name: "$this", Kind: Parameter, DataType: ClassType(class.Name)})
	}
	for _, arg := range subroutine.Arguments.Entries() {
		if err := l.scopes.RegisterVariable(arg); err != nil {
			return nil, fmt.Errorf("error declaring parameter in subroutine '%s.%s': %w", class.Name, subroutine.Name, err)
		}
	}
	for _, local := range subroutine.Locals.Entries() {
		if err := l.scopes.RegisterVariable(local); err != nil {
			return nil, fmt.Errorf("error declaring local variable in subroutine '%s.%s': %w", class.Name, subroutine.Name, err)
		}
	}

	fName, fBody := fmt.Sprintf("%s.%s", class.Name, subroutine.Name), []vm.Operation{}
	for _, stmt := range subroutine.Statements {
		ops, err := l.HandleStatement(stmt)
		if err != nil {
			return nil, fmt.Errorf("error handling nested statement %T: %w", stmt, err)
		}
		fBody = append(fBody, ops...)
	}

	fDecl := vm.FuncDecl{Name: fName, NLocal: uint16(subroutine.Locals.Size())}

	// By convention, constructors allocate the required memory for the object instance themselves and
	// then set the desired values for each field. Every field is exactly one word long, so we can just
	// allocate enough memory for as many words as fields declared in the class.
	if subroutine.Type == Constructor {
		nFields := uint16(0)
		for _, field := range class.Fields.Entries() {
			if field.Kind == Field {
				nFields++
			}
		}

		preludeOps := []vm.Operation{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: nFields},
			vm.FuncCallOp{Name: "Memory.alloc", NArgs: 1},
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.Pointer, Offset: 0},
		}

		return append(append([]vm.Operation{fDecl}, preludeOps...), fBody...), nil
	}

	// By convention the object instance pointer is passed as the first argument on the stack for methods.
	// In order to access the object instance fields correctly, we need to set the 'this' pointer based
	// on the address received.
	if subroutine.Type == Method {
		preludeOps := []vm.Operation{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Argument, Offset: 0},
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.Pointer, Offset: 0},
		}

		return append(append([]vm.Operation{fDecl}, preludeOps...), fBody...), nil
	}

	return append([]vm.Operation{fDecl}, fBody...), nil
}

// Generalized function to lower multiple statements types returning a 'vm.Operation' list.
func (l *Lowerer) HandleStatement(stmt Statement) ([]vm.Operation, error) {
	switch tStmt := stmt.(type) {
	case DoStmt:
		return l.HandleDoStmt(tStmt)
	case LetStmt:
		return l.HandleLetStmt(tStmt)
	case IfStmt:
		return l.HandleIfStmt(tStmt)
	case WhileStmt:
		return l.HandleWhileStmt(tStmt)
	case ReturnStmt:
		return l.HandleReturnStmt(tStmt)
	default:
		return nil, fmt.Errorf("unrecognized statement: %T", stmt)
	}
}

// Specialized function to convert a 'jack.DoStmt' to a list of 'vm.Operation'.
func (l *Lowerer) HandleDoStmt(statement DoStmt) ([]vm.Operation, error) {
	ops, err := l.HandleFuncCallExpr(statement.FuncCall)
	if err != nil {
		return nil, fmt.Errorf("error handling nested function call expression: %w", err)
	}

	// Do statements do not use the return value, so we can just drop whatever comes back.
	return append(ops, vm.MemoryOp{Operation: vm.Pop, Segment: vm.Temp, Offset: 0}), nil
}

// Specialized function to convert a 'jack.LetStmt' to a list of 'vm.Operation'.
//
// For an array target the RHS is evaluated before the array's cell address is installed in the
// 'that' pointer: the RHS expression may itself reference other array cells, so the address we're
// about to write through must be computed and parked last, right before the actual write.
func (l *Lowerer) HandleLetStmt(statement LetStmt) ([]vm.Operation, error) {
	rhsOps, err := l.HandleExpression(statement.Rhs)
	if err != nil {
		return nil, fmt.Errorf("error handling RHS expression: %w", err)
	}

	if expr, isVarExpr := statement.Lhs.(VarExpr); isVarExpr {
		offset, variable, err := l.scopes.ResolveVariable(expr.Name)
		if err != nil {
			return nil, fmt.Errorf("error resolving variable '%s': %w", expr.Name, err)
		}

		switch variable.Kind {
		case Local:
			return append(rhsOps, vm.MemoryOp{Operation: vm.Pop, Segment: vm.Local, Offset: offset}), nil
		case Parameter:
			return append(rhsOps, vm.MemoryOp{Operation: vm.Pop, Segment: vm.Argument, Offset: offset}), nil
		case Field:
			return append(rhsOps, vm.MemoryOp{Operation: vm.Pop, Segment: vm.This, Offset: offset}), nil
		case Static:
			return append(rhsOps, vm.MemoryOp{Operation: vm.Pop, Segment: vm.Static, Offset: offset}), nil
		default:
			return nil, fmt.Errorf("variable kind '%s' is not supported", variable.Kind)
		}
	}

	if expr, isArrayExpr := statement.Lhs.(ArrayExpr); isArrayExpr {
		baseOps, err := l.HandleVarExpr(VarExpr{Name: expr.Name})
		if err != nil {
			return nil, fmt.Errorf("error handling base variable expression: %w", err)
		}

		indexOps, err := l.HandleExpression(expr.Index)
		if err != nil {
			return nil, fmt.Errorf("error handling index expression: %w", err)
		}

		// Evaluate the RHS first (load-forced): only once it's safely on the stack do we
		// compute the target cell's address and install it in 'that', so that an RHS which
		// itself reads another array cell can't clobber the pointer we're about to write through.
		ops := append(rhsOps, baseOps...)
		ops = append(ops, indexOps...)
		ops = append(ops,
			vm.ArithmeticOp{Operation: vm.Add},
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.Pointer, Offset: 1},
			vm.MemoryOp{Operation: vm.Pop, Segment: vm.That, Offset: 0},
		)

		return ops, nil
	}

	return nil, fmt.Errorf("LHS expression must be either a 'VarExpr' or an 'ArrayExpr', got: %T", statement.Lhs)
}

// Specialized function to convert a 'jack.WhileStmt' to a list of 'vm.Operation'.
func (l *Lowerer) HandleWhileStmt(statement WhileStmt) ([]vm.Operation, error) {
	condOps, err := l.HandleExpression(statement.Condition)
	if err != nil {
		return nil, fmt.Errorf("error handling while condition expression: %w", err)
	}

	blockOps := []vm.Operation{}
	for _, stmt := range statement.Block {
		ops, err := l.HandleStatement(stmt)
		if err != nil {
			return nil, fmt.Errorf("error handling statement in while block: %w", err)
		}
		blockOps = append(blockOps, ops...)
	}

	start, end := l.nRandomizer, l.nRandomizer+1
	defer func() { l.nRandomizer += 2 }()

	ops := append([]vm.Operation{vm.LabelDecl{Name: fmt.Sprintf("WHILE_START_%d", start)}}, condOps...)
	ops = append(ops,
		vm.ArithmeticOp{Operation: vm.Not},
		vm.GotoOp{Label: fmt.Sprintf("WHILE_END_%d", end), Jump: vm.Conditional})
	ops = append(ops, blockOps...)
	ops = append(ops,
		vm.GotoOp{Label: fmt.Sprintf("WHILE_START_%d", start), Jump: vm.Unconditional},
		vm.LabelDecl{Name: fmt.Sprintf("WHILE_END_%d", end)})

	return ops, nil
}

// Specialized function to convert a 'jack.IfStmt' to a list of 'vm.Operation'.
func (l *Lowerer) HandleIfStmt(statement IfStmt) ([]vm.Operation, error) {
	condOps, err := l.HandleExpression(statement.Condition)
	if err != nil {
		return nil, fmt.Errorf("error handling if condition expression: %w", err)
	}

	thenOps, elseOps := []vm.Operation{}, []vm.Operation{}
	for _, stmt := range statement.ThenBlock {
		ops, err := l.HandleStatement(stmt)
		if err != nil {
			return nil, fmt.Errorf("error handling statement in 'then' block: %w", err)
		}
		thenOps = append(thenOps, ops...)
	}
	for _, stmt := range statement.ElseBlock {
		ops, err := l.HandleStatement(stmt)
		if err != nil {
			return nil, fmt.Errorf("error handling statement in 'else' block: %w", err)
		}
		elseOps = append(elseOps, ops...)
	}

	if len(statement.ElseBlock) == 0 {
		label := l.nRandomizer
		defer func() { l.nRandomizer += 1 }()

		ops := append(condOps,
			vm.ArithmeticOp{Operation: vm.Not},
			vm.GotoOp{Label: fmt.Sprintf("ELSE_%d", label), Jump: vm.Conditional})
		ops = append(ops, thenOps...)
		ops = append(ops, vm.LabelDecl{Name: fmt.Sprintf("ELSE_%d", label)})
		return ops, nil
	}

	thenLabel, elseLabel, endLabel := l.nRandomizer, l.nRandomizer+1, l.nRandomizer+2
	defer func() { l.nRandomizer += 3 }()

	ops := append(condOps,
		vm.GotoOp{Label: fmt.Sprintf("THEN_%d", thenLabel), Jump: vm.Conditional},
		vm.GotoOp{Label: fmt.Sprintf("ELSE_%d", elseLabel), Jump: vm.Unconditional},
		vm.LabelDecl{Name: fmt.Sprintf("THEN_%d", thenLabel)})
	ops = append(ops, thenOps...)
	ops = append(ops,
		vm.GotoOp{Label: fmt.Sprintf("END_%d", endLabel), Jump: vm.Unconditional},
		vm.LabelDecl{Name: fmt.Sprintf("ELSE_%d", elseLabel)})
	ops = append(ops, elseOps...)
	ops = append(ops, vm.LabelDecl{Name: fmt.Sprintf("END_%d", endLabel)})

	return ops, nil
}

// Specialized function to convert a 'jack.ReturnStmt' to a list of 'vm.Operation'.
func (l *Lowerer) HandleReturnStmt(statement ReturnStmt) ([]vm.Operation, error) {
	if statement.Expr == nil { // No expression means just a zero-value return
		return []vm.Operation{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 0},
			vm.ReturnOp{},
		}, nil
	}

	ops, err := l.HandleExpression(statement.Expr)
	if err != nil {
		return nil, fmt.Errorf("error handling return expression: %w", err)
	}

	return append(ops, vm.ReturnOp{}), nil
}

// Generalized function to lower multiple expression types returning a 'vm.Operation' list.
func (l *Lowerer) HandleExpression(expr Expression) ([]vm.Operation, error) {
	switch tExpr := expr.(type) {
	case VarExpr:
		return l.HandleVarExpr(tExpr)
	case LiteralExpr:
		return l.HandleLiteralExpr(tExpr)
	case ArrayExpr:
		return l.HandleArrayExpr(tExpr)
	case UnaryExpr:
		return l.HandleUnaryExpr(tExpr)
	case BinaryExpr:
		return l.HandleBinaryExpr(tExpr)
	case FuncCallExpr:
		return l.HandleFuncCallExpr(tExpr)
	default:
		return nil, fmt.Errorf("unrecognized expression: %T", expr)
	}
}

// Specialized function to convert a 'jack.VarExpr' to a list of 'vm.Operation'.
func (l *Lowerer) HandleVarExpr(expression VarExpr) ([]vm.Operation, error) {
	if expression.Name == "this" {
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 0}}, nil
	}

	offset, variable, err := l.scopes.ResolveVariable(expression.Name)
	if err != nil {
		return nil, fmt.Errorf("error resolving variable '%s': %w", expression.Name, err)
	}

	switch variable.Kind {
	case Local:
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Local, Offset: offset}}, nil
	case Parameter:
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Argument, Offset: offset}}, nil
	case Field:
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.This, Offset: offset}}, nil
	case Static:
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Static, Offset: offset}}, nil
	default:
		return nil, fmt.Errorf("variable kind '%s' is not supported", variable.Kind)
	}
}

// Specialized function to convert a 'jack.LiteralExpr' to a list of 'vm.Operation'.
func (l *Lowerer) HandleLiteralExpr(expression LiteralExpr) ([]vm.Operation, error) {
	switch expression.Type.Main {
	case Int:
		value, err := strconv.ParseUint(expression.Value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("error parsing integer literal '%s': %w", expression.Value, err)
		}
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: uint16(value)}}, nil

	case Bool:
		value, err := strconv.ParseBool(expression.Value)
		if err != nil {
			return nil, fmt.Errorf("error parsing boolean literal '%s': %w", expression.Value, err)
		}
		// 'true' is represented as all-ones, so push 1 and negate it; 'false' is just 0.
		if value {
			return []vm.Operation{
				vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 1},
				vm.ArithmeticOp{Operation: vm.Neg},
			}, nil
		}
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 0}}, nil

	case Char:
		if len(expression.Value) != 1 {
			return nil, fmt.Errorf("error parsing char literal '%s'", expression.Value)
		}
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: uint16(expression.Value[0])}}, nil

	case Null:
		return []vm.Operation{vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: 0}}, nil

	case String:
		ops := []vm.Operation{
			vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: uint16(len(expression.Value))},
			vm.FuncCallOp{Name: "String.new", NArgs: 1},
		}
		for _, char := range expression.Value {
			ops = append(ops, vm.MemoryOp{Operation: vm.Push, Segment: vm.Constant, Offset: uint16(char)})
			ops = append(ops, vm.FuncCallOp{Name: "String.appendChar", NArgs: 2})
		}
		return ops, nil

	default:
		return nil, fmt.Errorf("unrecognized literal expression type: %s", expression.Type.Main)
	}
}

// Specialized function to convert a 'jack.ArrayExpr' to a list of 'vm.Operation'.
func (l *Lowerer) HandleArrayExpr(expression ArrayExpr) ([]vm.Operation, error) {
	baseOps, err := l.HandleVarExpr(VarExpr{Name: expression.Name})
	if err != nil {
		return nil, fmt.Errorf("error handling base variable expression: %w", err)
	}

	indexOps, err := l.HandleExpression(expression.Index)
	if err != nil {
		return nil, fmt.Errorf("error handling index expression: %w", err)
	}

	return append(append(baseOps, indexOps...),
		vm.ArithmeticOp{Operation: vm.Add},
		vm.MemoryOp{Operation: vm.Pop, Segment: vm.Pointer, Offset: 1},
		vm.MemoryOp{Operation: vm.Push, Segment: vm.That, Offset: 0},
	), nil
}

// Specialized function to convert a 'jack.UnaryExpr' to a list of 'vm.Operation'.
func (l *Lowerer) HandleUnaryExpr(expression UnaryExpr) ([]vm.Operation, error) {
	ops, err := l.HandleExpression(expression.Rhs)
	if err != nil {
		return nil, fmt.Errorf("error handling nested expression: %w", err)
	}

	switch expression.Op {
	case Negation:
		return append(ops, vm.ArithmeticOp{Operation: vm.Neg}), nil
	case Not:
		return append(ops, vm.ArithmeticOp{Operation: vm.Not}), nil
	default:
		return nil, fmt.Errorf("unrecognized unary operator: %s", expression.Op)
	}
}

// Specialized function to convert a 'jack.BinaryExpr' to a list of 'vm.Operation'.
func (l *Lowerer) HandleBinaryExpr(expression BinaryExpr) ([]vm.Operation, error) {
	lhsOps, err := l.HandleExpression(expression.Lhs)
	if err != nil {
		return nil, fmt.Errorf("error handling nested LHS expression: %w", err)
	}
	rhsOps, err := l.HandleExpression(expression.Rhs)
	if err != nil {
		return nil, fmt.Errorf("error handling nested RHS expression: %w", err)
	}

	switch expression.Op {
	case Plus:
		return append(append(lhsOps, rhsOps...), vm.ArithmeticOp{Operation: vm.Add}), nil
	case Minus:
		return append(append(lhsOps, rhsOps...), vm.ArithmeticOp{Operation: vm.Sub}), nil
	case Divide:
		return append(append(lhsOps, rhsOps...), vm.FuncCallOp{Name: "Math.divide", NArgs: 2}), nil
	case Multiply:
		return append(append(lhsOps, rhsOps...), vm.FuncCallOp{Name: "Math.multiply", NArgs: 2}), nil
	case Or:
		return append(append(lhsOps, rhsOps...), vm.ArithmeticOp{Operation: vm.Or}), nil
	case And:
		return append(append(lhsOps, rhsOps...), vm.ArithmeticOp{Operation: vm.And}), nil
	case Equal:
		return append(append(lhsOps, rhsOps...), vm.ArithmeticOp{Operation: vm.Eq}), nil
	case LessThan:
		return append(append(lhsOps, rhsOps...), vm.ArithmeticOp{Operation: vm.Lt}), nil
	case GreaterThan:
		return append(append(lhsOps, rhsOps...), vm.ArithmeticOp{Operation: vm.Gt}), nil
	default:
		return nil, fmt.Errorf("unrecognized binary operator: %s", expression.Op)
	}
}

// Specialized function to convert a 'jack.FuncCallExpr' to a list of 'vm.Operation'.
func (l *Lowerer) HandleFuncCallExpr(expression FuncCallExpr) ([]vm.Operation, error) {
	argsInit, argsLen := []vm.Operation{}, len(expression.Arguments)
	for _, expr := range expression.Arguments {
		ops, err := l.HandleExpression(expr)
		if err != nil {
			return nil, fmt.Errorf("error handling argument expression: %w", err)
		}
		argsInit = append(argsInit, ops...)
	}

	if !expression.HasHolder { // Bare call: always a method invoked on the current 'this'
		className := strings.Split(l.scopes.GetScope(), ".")[0]
		fName := fmt.Sprintf("%s.%s", className, expression.Name)

		thisOp := vm.MemoryOp{Operation: vm.Push, Segment: vm.Pointer, Offset: 0}
		return append([]vm.Operation{thisOp}, append(argsInit, vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen + 1)})...), nil
	}

	// Qualified call: check whether the holder names a live variable (an object instance) first.
	if _, variable, err := l.scopes.ResolveVariable(expression.Holder); err == nil {
		if variable.DataType.Main != Object {
			return nil, fmt.Errorf("variable '%s' is not an object", expression.Holder)
		}

		thisArg, err := l.HandleVarExpr(VarExpr{Name: expression.Holder})
		if err != nil {
			return nil, fmt.Errorf("error handling variable expression for 'this' pointer: %w", err)
		}

		fName := fmt.Sprintf("%s.%s", variable.DataType.Subtype, expression.Name)
		return append(append(thisArg, argsInit...), vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen + 1)}), nil
	}

	// Otherwise the holder names a class: either a free function or a constructor.
	class, isClass := l.program.Get(expression.Holder)
	if !isClass {
		return nil, fmt.Errorf("unrecognized call holder '%s'", expression.Holder)
	}

	routine, exists := class.Subroutines.Get(expression.Name)
	if !exists {
		return nil, fmt.Errorf("subroutine '%s' not found in class '%s'", expression.Name, class.Name)
	}

	switch routine.Type {
	case Function:
		fName := fmt.Sprintf("%s.%s", class.Name, expression.Name)
		return append(argsInit, vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen)}), nil
	case Constructor:
		fName := fmt.Sprintf("%s.%s", class.Name, expression.Name) // Jack constructors are conventionally named 'new'
		return append(argsInit, vm.FuncCallOp{Name: fName, NArgs: uint8(argsLen)}), nil
	default:
		return nil, fmt.Errorf("subroutine '%s' in class '%s' is not a function or constructor, got %s", expression.Name, class.Name, routine.Type)
	}
}

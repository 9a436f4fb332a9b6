package jack

import "its-hmny.dev/nand2tetris/pkg/utils"

// ----------------------------------------------------------------------------
// General information

// This section contains some general information about the Jack programming language.
//
// A program is basically a container of classes (the only top-level object allowed)
// and the program is started by locating the Main class and executing its 'main' method.
// Other than classes the other 4 main constructs are:
// - Variables: to declare containers of value (also used for class' fields)
// - Subroutines: to declare containers of instruction (also used for class' methods)
// - Statements: to perform a side effect, conditional jump or other program flow changes
// - Expressions: to perform a calculation that produces a result (arithmetic ops and so on...)

// A Jack Program is just a set of multiple classes, in the Jack spec each class is translated
// to its own .vm file (just like a Java .class file) so the class is to be considered the
// top-level entity of the program and is mapped to a role equal to module or namespace elsewhere.
type Program map[string]Class

// ----------------------------------------------------------------------------
// Classes

// A Class is a list of Fields that hold the state and Subroutines that change said state.
//
// Both Fields and Subroutines come in a static variant (resp. static 'Variable' or function
// 'Subroutine') where the instance is not scoped to the single object but to the class as a whole.
type Class struct {
	Name        string                               // The class name or id, also the instantiated object's type
	Fields      utils.OrderedMap[string, Variable]   // Fields (static or not), in source declaration order
	Subroutines utils.OrderedMap[string, Subroutine] // Subroutines (static or not), in source declaration order
}

// ----------------------------------------------------------------------------
// Subroutines

// A Subroutine is somewhat like a math function: it takes a series of inputs and returns an
// output.
//
// As part of its computation (statement evaluation) it may change the state of some variables
// in the program either by direct manipulation of the class' fields (static or not) or by just
// returning values that will influence the program flow once returned to the caller.
type Subroutine struct {
	Name string         // Name/id, w/ the class id will identify the subroutine universally
	Type SubroutineType // Determines the codegen strategy used during the compilation phase

	Return    DataType                            // The type of value returned ('void' for no value)
	Arguments utils.OrderedMap[string, Variable] // Parameters, in declaration order
	Locals    utils.OrderedMap[string, Variable] // Local variables declared in the body, in declaration order

	Statements []Statement // The statements making up the subroutine's body
}

type SubroutineType string // Enum to manage the different types allowed for a Subroutine

const (
	Method      SubroutineType = "method"
	Function    SubroutineType = "function"
	Constructor SubroutineType = "constructor"
)

// ----------------------------------------------------------------------------
// Statements

// A statement produces a side effect in the program flow, whether by changing a var or
// jumping to another instruction.
//
// We declare a shared 'Statement' interface for every macro operation available for the Jack
// language, then define one after the other all the specific statements w/ their internal
// logic and required data to perform it (or compile it).
type Statement interface{ isStatement() }

type DoStmt struct { // Calls a subroutine and discards its return value
	FuncCall FuncCallExpr // The function to be called
}

type LetStmt struct { // Assignment, the Lhs may only be a VarExpr or an ArrayExpr
	Lhs Expression // The expression assigned the value
	Rhs Expression // The expression evaluated and assigned to the Lhs
}

type ReturnStmt struct { // Unconditional jump back to the caller, optionally carrying a value
	Expr Expression // The expression to be evaluated and cast to the subroutine's return type, nil for 'return;'
}

type IfStmt struct { // Forks the execution flow based on a condition
	Condition Expression  // The expression to be evaluated, cast to a bool value
	ThenBlock []Statement // Executed if the condition holds
	ElseBlock []Statement // Executed otherwise, nil/empty without an 'else' clause
}

type WhileStmt struct { // Repeats a block for as long as a condition holds
	Condition Expression  // The expression to be evaluated, cast to a bool value
	Block     []Statement // Executed while the condition holds
}

func (DoStmt) isStatement()     {}
func (LetStmt) isStatement()    {}
func (ReturnStmt) isStatement() {}
func (IfStmt) isStatement()     {}
func (WhileStmt) isStatement()  {}

// ----------------------------------------------------------------------------
// Expressions

// Expressions combine one or two sub-expressions to produce a new value.
//
// We declare a shared 'Expression' interface for every macro operation available for the
// Jack language, then define one after the other all the specific expressions w/ their
// internal logic and required data to perform it (or compile it).
type Expression interface{ isExpression() }

type VarExpr struct { // Reads the value held by a variable (or 'this')
	Name string // The name/id of the variable we want the value of
}

type LiteralExpr struct { // A constant value fully known at parse time
	Type  DataType // The literal's type (int, char, string, ...)
	Value string   // Raw lexeme: decimal digits, string content, or "true"/"false"/"null"
}

type ArrayExpr struct { // Reads a single element of an array-like variable
	Name  string     // The name/id of the array we want a value from
	Index Expression // The index of the value to extract
}

type UnaryExpr struct { // Applies a transformation to a single expression
	Op  UnaryOp    // Only 'Negation' and 'Not' are allowed
	Rhs Expression // UnaryExpr only ever applies to its right hand side
}

type BinaryExpr struct { // Combines the value of two expressions to produce a new value
	Op  BinaryOp   // Any of the nine binary operators
	Lhs Expression // Left hand side, evaluated first
	Rhs Expression // Right hand side, evaluated second
}

type FuncCallExpr struct { // Calls another subroutine, bare or qualified
	HasHolder bool   // Distinguishes a bare call (implicit 'this') from 'holder.name(...)'
	Holder    string // The variable or class name holding the subroutine ("" if !HasHolder)
	Name      string // The name/id of the subroutine to execute

	Arguments []Expression // Arguments, yet to be evaluated
}

func (VarExpr) isExpression()      {}
func (LiteralExpr) isExpression()  {}
func (ArrayExpr) isExpression()    {}
func (UnaryExpr) isExpression()    {}
func (BinaryExpr) isExpression()   {}
func (FuncCallExpr) isExpression() {}

type UnaryOp string // Enum to manage the operators allowed for a UnaryExpr

const (
	Negation UnaryOp = "negation" // '-x'
	Not      UnaryOp = "not"      // '~x'
)

type BinaryOp string // Enum to manage the operators allowed for a BinaryExpr

const (
	Plus        BinaryOp = "plus"
	Minus       BinaryOp = "minus"
	Divide      BinaryOp = "divide"
	Multiply    BinaryOp = "multiply"
	And         BinaryOp = "and"
	Or          BinaryOp = "or"
	Equal       BinaryOp = "equal"
	LessThan    BinaryOp = "less_than"
	GreaterThan BinaryOp = "greater_than"
)

// ----------------------------------------------------------------------------
// Variables

// Variables are containers of value that can be read/written through expressions/statements.
//
// The declared 'Variable' struct accommodates multiple configurations at the same time:
// - Static & instanced fields for classes
// - Local variables and parameters for subroutines
type Variable struct {
	Name     string   // The var name, acts as identifier in the scope it is declared
	Kind     VarKind  // Helps determine the scope (and VM segment) of the variable
	DataType DataType // Defines how to read or cast the value contained by the variable
}

type VarKind string // Enum to manage the storage kinds allowed for a Variable

const (
	Local     VarKind = "local"
	Field     VarKind = "field"
	Static    VarKind = "static"
	Parameter VarKind = "parameter"
)

// DataType names the Jack type of a variable, literal or return value. Subtype only
// carries meaning when Main is Object, and names the referenced class.
type DataType struct {
	Main    DataKind
	Subtype string
}

type DataKind string // Enum to manage the primitive/aggregate categories a DataType can be

const (
	Int    DataKind = "int"
	Char   DataKind = "char"
	Bool   DataKind = "boolean"
	String DataKind = "String" // the built-in String class, kept distinct from a generic Object
	Void   DataKind = "void"
	Null   DataKind = "null"
	Object DataKind = "object"
)

// ClassType builds the DataType of a variable/return value typed as the named class.
func ClassType(name string) DataType { return DataType{Main: Object, Subtype: name} }

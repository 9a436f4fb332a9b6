package jack

import (
	"fmt"
	"io"
	"os"

	pc "github.com/prataprc/goparsec"
	"its-hmny.dev/nand2tetris/pkg/utils"
)

// ----------------------------------------------------------------------------
// Parser Combinator(s)

// This section defines the Parser Combinator for every token & construct of the Jack language.
//
// Unlike the VM and Assembler grammars, Jack's expression grammar is genuinely recursive: a
// parenthesized expression contains an expression, a unary term contains a term, an array
// index and a call argument both contain an expression. 'pExpr' and 'pTerm' are therefore
// forward-declared and wired together in the 'init' below, each referenced everywhere else
// only through its '*Ref' indirection function so the declaration itself doesn't cycle.

var ast = pc.NewAST("jack_program", 0)

var (
	pExpr pc.Parser
	pTerm pc.Parser
)

func pExprRef(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return pExpr(s) }
func pTermRef(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return pTerm(s) }

func init() {
	// expr := term (op term)*, left-associative, no precedence climbing: every operator binds
	// exactly as tightly as the last, matching the Jack language spec to the letter.
	pExpr = ast.And("expression", nil, pTermRef, ast.Kleene("tail", nil, ast.And("op_term", nil, pBinOp, pTermRef)))

	// term disambiguation relies on ordered choice: more specific shapes (parenthesized, unary,
	// call, array access) are tried before the bare identifier/literal fallbacks.
	pTerm = ast.OrdChoice("term", nil,
		ast.And("paren_term", nil, pLParen, pExprRef, pRParen),
		ast.And("unary_term", nil, pUnaryOp, pTermRef),
		pSubroutineCall,
		ast.And("array_term", nil, pIdent, pLBracket, pExprRef, pRBracket),
		pLiteral, pKeywordConst, pIdent,
	)
}

var (
	// Parser combinator for a whole Jack class, the only top-level construct of the language.
	pClass = ast.And("class", nil,
		pc.Atom("class", "CLASS"), pIdent, pLBrace,
		ast.Kleene("members", nil, ast.OrdChoice("member", nil, pClassVarDec, pSubroutineDec)),
		pRBrace,
	)

	// Class-level variable declaration, compliant with "{static|field} type name (, name)* ;".
	pClassVarDec = ast.And("class_var_dec", nil,
		pVarKind, pDataType, pIdent,
		ast.Kleene("more_names", nil, ast.And("name_item", nil, pComma, pIdent)),
		pSemi,
	)

	// Subroutine declaration, compliant with "{constructor|function|method} type name ( params ) { body }".
	pSubroutineDec = ast.And("subroutine_dec", nil,
		pSubKind, pReturnType, pIdent,
		pLParen, pParamList, pRParen,
		pLBrace, ast.Kleene("locals", nil, pVarDec), ast.Kleene("statements", nil, pStatement), pRBrace,
	)

	// Local variable declaration, compliant with "var type name (, name)* ;".
	pVarDec = ast.And("var_dec", nil,
		pc.Atom("var", "VAR"), pDataType, pIdent,
		ast.Kleene("more_names", nil, ast.And("name_item", nil, pComma, pIdent)),
		pSemi,
	)

	pParam     = ast.And("param", nil, pDataType, pIdent)
	pParamList = ast.Kleene("params", nil, pParam, pComma)

	pVarKind = ast.OrdChoice("var_kind", nil, pc.Atom("static", "STATIC"), pc.Atom("field", "FIELD"))
	pSubKind = ast.OrdChoice("sub_kind", nil,
		pc.Atom("constructor", "CONSTRUCTOR"), pc.Atom("function", "FUNCTION"), pc.Atom("method", "METHOD"),
	)
)

var (
	pStatement = ast.OrdChoice("statement", nil, pLetStmt, pIfStmt, pWhileStmt, pDoStmt, pReturnStmt)

	// let name ([ index ])? = expr ;
	pLetStmt = ast.And("let_stmt", nil,
		pc.Atom("let", "LET"), pIdent,
		ast.Kleene("index_opt", nil, ast.And("index_expr", nil, pLBracket, pExprRef, pRBracket)),
		pEquals, pExprRef, pSemi,
	)

	// if ( expr ) { ... } (else { ... })?
	pIfStmt = ast.And("if_stmt", nil,
		pc.Atom("if", "IF"), pLParen, pExprRef, pRParen,
		pLBrace, ast.Kleene("then_block", nil, pStatement), pRBrace,
		ast.Kleene("else_opt", nil, ast.And("else_clause", nil,
			pc.Atom("else", "ELSE"), pLBrace, ast.Kleene("stmts", nil, pStatement), pRBrace)),
	)

	// while ( expr ) { ... }
	pWhileStmt = ast.And("while_stmt", nil,
		pc.Atom("while", "WHILE"), pLParen, pExprRef, pRParen,
		pLBrace, ast.Kleene("block", nil, pStatement), pRBrace,
	)

	// do qualifiers(.qualifiers)* ( args ) ;
	pDoStmt = ast.And("do_stmt", nil, pc.Atom("do", "DO"), pSubroutineCall, pSemi)

	// return expr? ;
	pReturnStmt = ast.And("return_stmt", nil, pc.Atom("return", "RETURN"), ast.Kleene("expr_opt", nil, pExprRef), pSemi)

	// A subroutine call is either bare ("name(args)") or qualified ("holder.name(args)"); shared
	// between 'do' statements and call terms in an expression.
	pSubroutineCall = ast.And("subroutine_call", nil,
		ast.Many("qualifiers", nil, pIdent, pDot),
		pLParen, ast.Kleene("args", nil, pExprRef, pComma), pRParen,
	)
)

var (
	pBinOp = ast.OrdChoice("bin_op", nil,
		pc.Atom("+", "PLUS"), pc.Atom("-", "MINUS"), pc.Atom("*", "STAR"), pc.Atom("/", "SLASH"),
		pc.Atom("&", "AMP"), pc.Atom("|", "PIPE"), pc.Atom("<", "LT"), pc.Atom(">", "GT"), pc.Atom("=", "EQ"),
	)
	pUnaryOp = ast.OrdChoice("unary_op", nil, pc.Atom("-", "MINUS"), pc.Atom("~", "TILDE"))

	pKeywordConst = ast.OrdChoice("keyword_const", nil,
		pc.Atom("true", "TRUE"), pc.Atom("false", "FALSE"), pc.Atom("null", "NULL"), pc.Atom("this", "THIS"),
	)

	// Integer and string literals; Jack has no dedicated character-literal syntax.
	pLiteral = ast.OrdChoice("literal", nil, pc.Int(), pc.Token(`"(?:\\.|[^"\\])*"`, "STRING"))
)

var (
	// Generic Identifier parser (class, variable and subroutine names).
	// NOTE: An ident cannot begin with a leading digit, unlike the VM/Assembler languages
	// Jack identifiers never carry '.', '$' or ':' so the charset is the plain Java-like one.
	pIdent = pc.Token(`[A-Za-z_][0-9a-zA-Z_]*`, "IDENT")

	pDot      = pc.Atom(".", "DOT")
	pSemi     = pc.Atom(";", "SEMI")
	pComma    = pc.Atom(",", "COMMA")
	pEquals   = pc.Atom("=", "ASSIGN")
	pLBrace   = pc.Atom("{", "LBRACE")
	pRBrace   = pc.Atom("}", "RBRACE")
	pLParen   = pc.Atom("(", "LPAREN")
	pRParen   = pc.Atom(")", "RPAREN")
	pLBracket = pc.Atom("[", "LBRACKET")
	pRBracket = pc.Atom("]", "RBRACKET")

	// Available primitive and class-reference types (the latter falls through to a bare ident).
	pDataType   = ast.OrdChoice("data_type", nil, pc.Atom("int", "INT"), pc.Atom("char", "CHAR"), pc.Atom("boolean", "BOOLEAN"), pIdent)
	pReturnType = ast.OrdChoice("return_type", nil, pc.Atom("void", "VOID"), pDataType)
)

// ----------------------------------------------------------------------------
// Jack Parser

// This section defines the Parser for the nand2tetris Jack language.
//
// It uses parser combinators to obtain the AST from the source code (the latter can be provided)
// in multiple ways using a generic io.Reader, the library reads up the feature flags (as env vars):
// - PARSEC_DEBUG: Verbose logging to inspect which of the PCs gets triggered and match
// - EXPORT_AST:   Exports in the DEBUG_FOLDER a Graphviz representation of the AST
// - PRINT_AST:    Print on the stdout a textual representation of the AST
type Parser struct{ reader io.Reader }

// Initializes and returns to the caller a brand new 'Parser' struct.
// Requires the argument io.Reader 'r' to be valid and usable.
func NewParser(r io.Reader) Parser {
	return Parser{reader: r}
}

// Parser entrypoint divides the 2 phases of the parsing pipeline
// Text --> AST: This step is done using PCs and returns a generic traversable AST
// AST --> IR: This step is done by traversing the AST and extracting the 'jack.Class'
func (p *Parser) Parse() (Class, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return Class{}, fmt.Errorf("cannot read from 'io.Reader': %s", err)
	}

	root, success := p.FromSource(content)
	if !success {
		return Class{}, fmt.Errorf("failed to parse AST from input content")
	}

	return p.FromAST(root)
}

// Scans the textual input stream coming from the 'reader' method and returns a traversable AST
// (Abstract Syntax Tree) that can be eventually visited to extract/transform the info available.
func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {

	// Feature flag: Enable 'goparsec' library's debug logs
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	// We generate the traversable Abstract Syntax Tree from the source content
	root, _ := ast.Parsewith(pClass, pc.NewScanner(source))

	// Feature flag: Enables export of the AST as Dot file (debug.ast.dot)
	if os.Getenv("EXPORT_AST") != "" {
		file, _ := os.Create(fmt.Sprintf("%s/debug.ast.dot", os.Getenv("DEBUG_FOLDER")))
		defer file.Close()

		file.Write([]byte(ast.Dotstring("\"Jack AST\"")))
	}

	// Feature flag: Enables pretty printing of the AST on the console
	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}

	return root, true // Always reports success, whether the scanner reached 'EOF' is not checked
}

// This function takes the root node of the raw parsed AST and does a DFS on it, building the
// typed 'jack.Class' (fields, subroutines, statements, expressions) independent of the parsing
// library used.
func (p *Parser) FromAST(root pc.Queryable) (Class, error) {
	if root.GetName() != "class" {
		return Class{}, fmt.Errorf("expected node 'class', found %s", root.GetName())
	}
	children := root.GetChildren()
	if len(children) != 5 {
		return Class{}, fmt.Errorf("expected node 'class' with 5 children, got %d", len(children))
	}

	class := Class{
		Name:        children[1].GetValue(),
		Fields:      utils.NewOrderedMap[string, Variable](),
		Subroutines: utils.NewOrderedMap[string, Subroutine](),
	}

	for _, member := range children[3].GetChildren() {
		switch member.GetName() {
		case "class_var_dec":
			vars, err := p.HandleVarGroup(member)
			if err != nil {
				return Class{}, fmt.Errorf("error handling class var declaration: %w", err)
			}
			for _, v := range vars {
				if _, found := class.Fields.Get(v.Name); found {
					return Class{}, fmt.Errorf("field '%s' already declared in class '%s'", v.Name, class.Name)
				}
				class.Fields.Set(v.Name, v)
			}

		case "subroutine_dec":
			sub, err := p.HandleSubroutineDec(member)
			if err != nil {
				return Class{}, fmt.Errorf("error handling subroutine declaration: %w", err)
			}
			if _, found := class.Subroutines.Get(sub.Name); found {
				return Class{}, fmt.Errorf("subroutine '%s' already declared in class '%s'", sub.Name, class.Name)
			}
			class.Subroutines.Set(sub.Name, sub)

		default:
			return Class{}, fmt.Errorf("unrecognized class member node '%s'", member.GetName())
		}
	}

	return class, nil
}

// Specialized function shared by 'class_var_dec' and 'var_dec' nodes: both share the exact same
// tail shape (type, first name, comma separated extra names, semicolon), only the leading
// keyword token differs ("static"/"field" vs "var"). The caller decides the resulting VarKind.
func (p *Parser) HandleVarGroup(node pc.Queryable) ([]Variable, error) {
	children := node.GetChildren()
	if len(children) != 5 {
		return nil, fmt.Errorf("expected declaration node with 5 children, got %d", len(children))
	}

	var kind VarKind
	switch node.GetName() {
	case "class_var_dec":
		kind = VarKind(children[0].GetValue()) // "static" or "field", matches VarKind's own lexeme
	case "var_dec":
		kind = Local
	default:
		return nil, fmt.Errorf("expected 'class_var_dec' or 'var_dec', got '%s'", node.GetName())
	}

	dataType, err := p.HandleDataType(children[1])
	if err != nil {
		return nil, fmt.Errorf("error handling declared type: %w", err)
	}

	names := []string{children[2].GetValue()}
	for _, item := range children[3].GetChildren() { // "more_names" -> "name_item"(COMMA, IDENT)
		itemChildren := item.GetChildren()
		names = append(names, itemChildren[1].GetValue())
	}

	vars := make([]Variable, len(names))
	for i, name := range names {
		vars[i] = Variable{Name: name, Kind: kind, DataType: dataType}
	}
	return vars, nil
}

// Specialized function to convert a 'data_type'/'return_type' node to a 'jack.DataType'.
// Both grammar rules are transparent OrdChoice wrappers, so the node we receive is whichever
// terminal actually matched: a primitive keyword token, or a bare identifier (a class name).
func (p *Parser) HandleDataType(node pc.Queryable) (DataType, error) {
	switch node.GetName() {
	case "INT":
		return DataType{Main: Int}, nil
	case "CHAR":
		return DataType{Main: Char}, nil
	case "BOOLEAN":
		return DataType{Main: Bool}, nil
	case "VOID":
		return DataType{Main: Void}, nil
	case "IDENT":
		return ClassType(node.GetValue()), nil
	default:
		return DataType{}, fmt.Errorf("unrecognized type node '%s'", node.GetName())
	}
}

// Specialized function to convert a 'subroutine_dec' node to a 'jack.Subroutine'.
func (p *Parser) HandleSubroutineDec(node pc.Queryable) (Subroutine, error) {
	children := node.GetChildren()
	if len(children) != 10 {
		return Subroutine{}, fmt.Errorf("expected node 'subroutine_dec' with 10 children, got %d", len(children))
	}

	returnType, err := p.HandleDataType(children[1])
	if err != nil {
		return Subroutine{}, fmt.Errorf("error handling return type: %w", err)
	}

	arguments := utils.NewOrderedMap[string, Variable]()
	for _, param := range children[4].GetChildren() { // "params" -> "param"(type, ident)
		paramChildren := param.GetChildren()
		dataType, err := p.HandleDataType(paramChildren[0])
		if err != nil {
			return Subroutine{}, fmt.Errorf("error handling parameter type: %w", err)
		}
		name := paramChildren[1].GetValue()
		if _, found := arguments.Get(name); found {
			return Subroutine{}, fmt.Errorf("parameter '%s' already declared", name)
		}
		arguments.Set(name, Variable{Name: name, Kind: Parameter, DataType: dataType})
	}

	locals := utils.NewOrderedMap[string, Variable]()
	for _, varDec := range children[7].GetChildren() { // "locals" -> "var_dec"
		vars, err := p.HandleVarGroup(varDec)
		if err != nil {
			return Subroutine{}, fmt.Errorf("error handling local variable declaration: %w", err)
		}
		for _, v := range vars {
			if _, found := locals.Get(v.Name); found {
				return Subroutine{}, fmt.Errorf("local variable '%s' already declared", v.Name)
			}
			locals.Set(v.Name, v)
		}
	}

	statements := []Statement{}
	for _, stmt := range children[8].GetChildren() { // "statements" -> one of the 5 statement nodes
		s, err := p.HandleStatement(stmt)
		if err != nil {
			return Subroutine{}, fmt.Errorf("error handling statement: %w", err)
		}
		statements = append(statements, s)
	}

	return Subroutine{
		Name: children[2].GetValue(), Type: SubroutineType(children[0].GetValue()),
		Return: returnType, Arguments: arguments, Locals: locals, Statements: statements,
	}, nil
}

// Generalized function to build a 'jack.Statement' from any of the 5 statement node shapes.
// 'pStatement' is a transparent OrdChoice, so the node is whichever alternative matched.
func (p *Parser) HandleStatement(node pc.Queryable) (Statement, error) {
	switch node.GetName() {
	case "let_stmt":
		return p.HandleLetStmt(node)
	case "if_stmt":
		return p.HandleIfStmt(node)
	case "while_stmt":
		return p.HandleWhileStmt(node)
	case "do_stmt":
		return p.HandleDoStmt(node)
	case "return_stmt":
		return p.HandleReturnStmt(node)
	default:
		return nil, fmt.Errorf("unrecognized statement node '%s'", node.GetName())
	}
}

// Specialized function to convert a 'let_stmt' node to a 'jack.LetStmt'.
func (p *Parser) HandleLetStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 6 {
		return nil, fmt.Errorf("expected node 'let_stmt' with 6 children, got %d", len(children))
	}

	rhs, err := p.HandleExpression(children[4])
	if err != nil {
		return nil, fmt.Errorf("error handling RHS expression: %w", err)
	}

	name := children[1].GetValue()
	indexOpt := children[2].GetChildren() // "index_opt" -> 0 or 1 "index_expr"
	if len(indexOpt) == 0 {
		return LetStmt{Lhs: VarExpr{Name: name}, Rhs: rhs}, nil
	}

	indexExprChildren := indexOpt[0].GetChildren() // "index_expr" -> (LBRACKET, expression, RBRACKET)
	index, err := p.HandleExpression(indexExprChildren[1])
	if err != nil {
		return nil, fmt.Errorf("error handling array index expression: %w", err)
	}
	return LetStmt{Lhs: ArrayExpr{Name: name, Index: index}, Rhs: rhs}, nil
}

// Specialized function to convert an 'if_stmt' node to a 'jack.IfStmt'.
func (p *Parser) HandleIfStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 8 {
		return nil, fmt.Errorf("expected node 'if_stmt' with 8 children, got %d", len(children))
	}

	condition, err := p.HandleExpression(children[2])
	if err != nil {
		return nil, fmt.Errorf("error handling if condition: %w", err)
	}

	thenBlock, err := p.HandleStatementList(children[5])
	if err != nil {
		return nil, fmt.Errorf("error handling 'then' block: %w", err)
	}

	elseOpt := children[7].GetChildren() // "else_opt" -> 0 or 1 "else_clause"
	if len(elseOpt) == 0 {
		return IfStmt{Condition: condition, ThenBlock: thenBlock}, nil
	}

	elseClauseChildren := elseOpt[0].GetChildren() // "else_clause" -> (ELSE, LBRACE, "stmts", RBRACE)
	elseBlock, err := p.HandleStatementList(elseClauseChildren[2])
	if err != nil {
		return nil, fmt.Errorf("error handling 'else' block: %w", err)
	}
	return IfStmt{Condition: condition, ThenBlock: thenBlock, ElseBlock: elseBlock}, nil
}

// Specialized function to convert a 'while_stmt' node to a 'jack.WhileStmt'.
func (p *Parser) HandleWhileStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 7 {
		return nil, fmt.Errorf("expected node 'while_stmt' with 7 children, got %d", len(children))
	}

	condition, err := p.HandleExpression(children[2])
	if err != nil {
		return nil, fmt.Errorf("error handling while condition: %w", err)
	}
	block, err := p.HandleStatementList(children[5])
	if err != nil {
		return nil, fmt.Errorf("error handling while block: %w", err)
	}
	return WhileStmt{Condition: condition, Block: block}, nil
}

// Specialized function to convert a 'do_stmt' node to a 'jack.DoStmt'.
func (p *Parser) HandleDoStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, fmt.Errorf("expected node 'do_stmt' with 3 children, got %d", len(children))
	}
	call, err := p.HandleSubroutineCall(children[1])
	if err != nil {
		return nil, fmt.Errorf("error handling subroutine call: %w", err)
	}
	return DoStmt{FuncCall: call}, nil
}

// Specialized function to convert a 'return_stmt' node to a 'jack.ReturnStmt'.
func (p *Parser) HandleReturnStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, fmt.Errorf("expected node 'return_stmt' with 3 children, got %d", len(children))
	}

	exprOpt := children[1].GetChildren() // "expr_opt" -> 0 or 1 "expression"
	if len(exprOpt) == 0 {
		return ReturnStmt{}, nil
	}

	expr, err := p.HandleExpression(exprOpt[0])
	if err != nil {
		return nil, fmt.Errorf("error handling return expression: %w", err)
	}
	return ReturnStmt{Expr: expr}, nil
}

// Converts a "block" wrapper node (its children being a sequence of statement nodes) to a
// '[]jack.Statement', in source order.
func (p *Parser) HandleStatementList(node pc.Queryable) ([]Statement, error) {
	statements := []Statement{}
	for _, child := range node.GetChildren() {
		stmt, err := p.HandleStatement(child)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// Specialized function to convert an 'expression' node to a 'jack.Expression'.
//
// The grammar is deliberately flat (term (op term)*): Jack has no operator precedence, every
// binary operator binds left-to-right exactly as written, so the fold below is a simple chain.
func (p *Parser) HandleExpression(node pc.Queryable) (Expression, error) {
	if node.GetName() != "expression" {
		return nil, fmt.Errorf("expected node 'expression', got '%s'", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 2 {
		return nil, fmt.Errorf("expected node 'expression' with 2 children, got %d", len(children))
	}

	head, err := p.HandleTerm(children[0])
	if err != nil {
		return nil, fmt.Errorf("error handling head term: %w", err)
	}

	for _, opTerm := range children[1].GetChildren() { // "tail" -> "op_term"(bin_op, term)
		opTermChildren := opTerm.GetChildren()
		op, err := mapBinaryOp(opTermChildren[0].GetValue())
		if err != nil {
			return nil, err
		}
		rhs, err := p.HandleTerm(opTermChildren[1])
		if err != nil {
			return nil, fmt.Errorf("error handling operand term: %w", err)
		}
		head = BinaryExpr{Op: op, Lhs: head, Rhs: rhs}
	}

	return head, nil
}

// Specialized function to convert any 'term' alternative node to a 'jack.Expression'.
// 'pTerm' is a transparent OrdChoice, so the node is whichever alternative actually matched.
func (p *Parser) HandleTerm(node pc.Queryable) (Expression, error) {
	switch node.GetName() {
	case "paren_term":
		return p.HandleExpression(node.GetChildren()[1])

	case "unary_term":
		children := node.GetChildren()
		op, err := mapUnaryOp(children[0].GetValue())
		if err != nil {
			return nil, err
		}
		rhs, err := p.HandleTerm(children[1])
		if err != nil {
			return nil, fmt.Errorf("error handling unary operand: %w", err)
		}
		return UnaryExpr{Op: op, Rhs: rhs}, nil

	case "subroutine_call":
		return p.HandleSubroutineCall(node)

	case "array_term":
		children := node.GetChildren()
		index, err := p.HandleExpression(children[2])
		if err != nil {
			return nil, fmt.Errorf("error handling array index: %w", err)
		}
		return ArrayExpr{Name: children[0].GetValue(), Index: index}, nil

	case "INT":
		return LiteralExpr{Type: DataType{Main: Int}, Value: node.GetValue()}, nil

	case "STRING":
		raw := node.GetValue()
		return LiteralExpr{Type: DataType{Main: String}, Value: raw[1 : len(raw)-1]}, nil

	case "TRUE":
		return LiteralExpr{Type: DataType{Main: Bool}, Value: "true"}, nil
	case "FALSE":
		return LiteralExpr{Type: DataType{Main: Bool}, Value: "false"}, nil
	case "NULL":
		return LiteralExpr{Type: DataType{Main: Null}, Value: "null"}, nil
	case "THIS":
		return VarExpr{Name: "this"}, nil

	case "IDENT":
		return VarExpr{Name: node.GetValue()}, nil

	default:
		return nil, fmt.Errorf("unrecognized term node '%s'", node.GetName())
	}
}

// Specialized function to convert a 'subroutine_call' node to a 'jack.FuncCallExpr'. Shared by
// 'do' statements and call terms inside a larger expression.
func (p *Parser) HandleSubroutineCall(node pc.Queryable) (FuncCallExpr, error) {
	if node.GetName() != "subroutine_call" {
		return FuncCallExpr{}, fmt.Errorf("expected node 'subroutine_call', got '%s'", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 4 {
		return FuncCallExpr{}, fmt.Errorf("expected node 'subroutine_call' with 4 children, got %d", len(children))
	}

	qualifiers := children[0].GetChildren() // "qualifiers" -> 1 or 2 IDENT tokens
	var holder, hasHolder, name = "", false, ""
	switch len(qualifiers) {
	case 1:
		name = qualifiers[0].GetValue()
	case 2:
		hasHolder, holder, name = true, qualifiers[0].GetValue(), qualifiers[1].GetValue()
	default:
		return FuncCallExpr{}, fmt.Errorf("expected 1 or 2 call qualifiers, got %d", len(qualifiers))
	}

	arguments := []Expression{}
	for _, arg := range children[2].GetChildren() { // "args" -> "expression"
		expr, err := p.HandleExpression(arg)
		if err != nil {
			return FuncCallExpr{}, fmt.Errorf("error handling call argument: %w", err)
		}
		arguments = append(arguments, expr)
	}

	return FuncCallExpr{HasHolder: hasHolder, Holder: holder, Name: name, Arguments: arguments}, nil
}

// Maps a binary operator's literal lexeme (e.g. "+", "<") to its 'jack.BinaryOp' enum value,
// since unlike 'VarKind' or 'SubroutineType' the enum's string values don't mirror the lexeme.
func mapBinaryOp(symbol string) (BinaryOp, error) {
	switch symbol {
	case "+":
		return Plus, nil
	case "-":
		return Minus, nil
	case "*":
		return Multiply, nil
	case "/":
		return Divide, nil
	case "&":
		return And, nil
	case "|":
		return Or, nil
	case "<":
		return LessThan, nil
	case ">":
		return GreaterThan, nil
	case "=":
		return Equal, nil
	default:
		return "", fmt.Errorf("unrecognized binary operator symbol '%s'", symbol)
	}
}

// Maps a unary operator's literal lexeme ("-" or "~") to its 'jack.UnaryOp' enum value.
func mapUnaryOp(symbol string) (UnaryOp, error) {
	switch symbol {
	case "-":
		return Negation, nil
	case "~":
		return Not, nil
	default:
		return "", fmt.Errorf("unrecognized unary operator symbol '%s'", symbol)
	}
}

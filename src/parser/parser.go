package parser

import (
	"fmt"
	"strconv"

	"github.com/javanhut/Lox/src/ast"
	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/token"
)

const maxArguments = 255

// Parser is a recursive descent parser with one token of lookahead.
//
//	program     → declaration* EOF
//	declaration → classDecl | funDecl | letDecl | statement
//	expression  → assignment
//	assignment  → ( call "." IDENT | call "[" expression "]" | IDENT ) assignOp assignment | logic_or
//	logic_or    → logic_and ( "or" logic_and )*
//	logic_and   → equality ( "and" equality )*
//	equality    → comparison ( ( "!=" | "==" ) comparison )*
//	comparison  → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term        → factor ( ( "-" | "+" ) factor )*
//	factor      → unary ( ( "/" | "*" ) unary )*
//	unary       → ( "!" | "-" ) unary | call
//	call        → primary ( "(" arguments? ")" | "[" expression "]" | "." IDENT )*
//	primary     → NUMBER | STRING | "true" | "false" | "nil" | "this" | "super" "." IDENT
//	            | IDENT | "(" expression ")" | "[" arguments? "]"
type Parser struct {
	tokens  []token.Token
	current int
	errors  []*object.ParseError
}

// New expects tokens terminated by an EOF token; one is appended if missing.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		var span token.Span
		if len(tokens) > 0 {
			end := tokens[len(tokens)-1].Span.End
			span = token.Span{Start: end, End: end}
		}
		tokens = append(tokens, token.Token{Type: token.EOF, Span: span})
	}
	return &Parser{tokens: tokens}
}

// Parse returns the program and every syntax error found. A program with
// errors must not be executed.
func (p *Parser) Parse() ([]ast.Stmt, []*object.ParseError) {
	var statements []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.errors
}

func (p *Parser) Errors() []*object.ParseError {
	return p.errors
}

// declaration records an error and resynchronizes instead of propagating it,
// so one bad statement does not hide errors in the rest of the program.
func (p *Parser) declaration() ast.Stmt {
	var (
		stmt ast.Stmt
		err  *object.ParseError
	)
	switch {
	case p.match(token.CLASS):
		stmt, err = p.classDeclaration()
	case p.match(token.FN):
		stmt, err = p.function("function")
	case p.match(token.LET):
		stmt, err = p.letDeclaration()
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.errors = append(p.errors, err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) classDeclaration() (ast.Stmt, *object.ParseError) {
	name, err := p.consume(token.IDENT, "expected class name")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.EXTENDS) {
		superName, err := p.consume(token.IDENT, "expected superclass name after 'extends'")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Variable{Name: superName}
	}

	if _, err := p.consume(token.LBRACE, "expected '{' before class body"); err != nil {
		return nil, err
	}

	var methods []*ast.Function
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		p.match(token.FN)
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if _, err := p.consume(token.RBRACE, "expected '}' after class body"); err != nil {
		return nil, err
	}
	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}, nil
}

func (p *Parser) function(kind string) (*ast.Function, *object.ParseError) {
	name, err := p.consume(token.IDENT, fmt.Sprintf("expected %s name", kind))
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN, fmt.Sprintf("expected '(' after %s name", kind)); err != nil {
		return nil, err
	}

	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArguments {
				p.errors = append(p.errors, object.NewParseError(
					fmt.Sprintf("can't have more than %d parameters", maxArguments), p.peek().Span))
			}
			param, err := p.consume(token.IDENT, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LBRACE, fmt.Sprintf("expected '{' before %s body", kind)); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) letDeclaration() (ast.Stmt, *object.ParseError) {
	name, err := p.consume(token.IDENT, "expected variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expr
	if p.match(token.ASSIGN) {
		if initializer, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.SEMICOLON, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.Let{Name: name, Initializer: initializer}, nil
}

func (p *Parser) statement() (ast.Stmt, *object.ParseError) {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LBRACE):
		return p.block()
	}
	return p.expressionStatement()
}

// forStatement desugars into a while loop wrapped in a block:
//
//	{ init; while (cond) { body; incr; } }
func (p *Parser) forStatement() (ast.Stmt, *object.ParseError) {
	keyword := p.previous()
	if _, err := p.consume(token.LPAREN, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var (
		initializer ast.Stmt
		err         *object.ParseError
	)
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.LET):
		initializer, err = p.letDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var increment ast.Expr
	if !p.check(token.RPAREN) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	closing, err := p.consume(token.RPAREN, "expected ')' after for clauses")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = ast.NewBlock([]ast.Stmt{body, &ast.Expression{Expression: increment}}, body.Span())
	}
	if condition == nil {
		condition = &ast.Literal{Token: keyword, Value: true}
	}
	var loop ast.Stmt = &ast.While{Keyword: keyword, Condition: condition, Body: body}
	if initializer != nil {
		loop = ast.NewBlock([]ast.Stmt{initializer, loop}, keyword.Span.Join(closing.Span))
	}
	return loop, nil
}

func (p *Parser) ifStatement() (ast.Stmt, *object.ParseError) {
	keyword := p.previous()
	if _, err := p.consume(token.LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after if condition"); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &ast.If{Keyword: keyword, Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

func (p *Parser) printStatement() (ast.Stmt, *object.ParseError) {
	keyword := p.previous()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after value"); err != nil {
		return nil, err
	}
	return &ast.Print{Keyword: keyword, Expression: value}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, *object.ParseError) {
	keyword := p.previous()
	var (
		value ast.Expr
		err   *object.ParseError
	)
	if !p.check(token.SEMICOLON) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.Return{Keyword: keyword, Value: value}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, *object.ParseError) {
	keyword := p.previous()
	if _, err := p.consume(token.LPAREN, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Keyword: keyword, Condition: condition, Body: body}, nil
}

// block parses the statements after an opening brace has been consumed.
func (p *Parser) block() (*ast.Block, *object.ParseError) {
	open := p.previous()
	var statements []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	closing, err := p.consume(token.RBRACE, "expected '}' after block")
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(statements, open.Span.Join(closing.Span)), nil
}

func (p *Parser) expressionStatement() (ast.Stmt, *object.ParseError) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.Expression{Expression: expr}, nil
}

func (p *Parser) expression() (ast.Expr, *object.ParseError) {
	return p.assignment()
}

var compoundOperators = map[token.TokenType]token.TokenType{
	token.PLUS_ASSIGN:  token.PLUS,
	token.MINUS_ASSIGN: token.MINUS,
	token.MUL_ASSIGN:   token.ASTERISK,
	token.DIV_ASSIGN:   token.SLASH,
}

// assignment parses the target as an ordinary expression first and then
// checks that it is assignable. `a op= b` becomes `a = a op b`.
func (p *Parser) assignment() (ast.Expr, *object.ParseError) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if !p.match(token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.MUL_ASSIGN, token.DIV_ASSIGN) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if op, ok := compoundOperators[equals.Type]; ok {
		lexeme := string(op)
		operator := token.Token{Type: op, Lexeme: lexeme, Literal: lexeme, Span: equals.Span}
		value = &ast.Binary{Left: expr, Operator: operator, Right: value}
	}

	switch target := expr.(type) {
	case *ast.Variable:
		return &ast.Assign{Name: target.Name, Value: value}, nil
	case *ast.Get:
		return &ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
	case *ast.Index:
		return &ast.SetIndex{Object: target.Object, Bracket: target.Bracket, Index: target.Index, Value: value}, nil
	}

	// Reported without synchronizing: the parser is not confused.
	p.errors = append(p.errors, object.NewParseError("invalid assignment target", equals.Span))
	return expr, nil
}

func (p *Parser) or() (ast.Expr, *object.ParseError) {
	return p.parseLogical(p.and, token.OR)
}

func (p *Parser) and() (ast.Expr, *object.ParseError) {
	return p.parseLogical(p.equality, token.AND)
}

func (p *Parser) equality() (ast.Expr, *object.ParseError) {
	return p.parseLeft(p.comparison, token.EQ, token.NOT_EQ)
}

func (p *Parser) comparison() (ast.Expr, *object.ParseError) {
	return p.parseLeft(p.term, token.GT, token.GT_EQ, token.LT, token.LT_EQ)
}

func (p *Parser) term() (ast.Expr, *object.ParseError) {
	return p.parseLeft(p.factor, token.PLUS, token.MINUS)
}

func (p *Parser) factor() (ast.Expr, *object.ParseError) {
	return p.parseLeft(p.unary, token.ASTERISK, token.SLASH)
}

// parseLeft parses a left-associative binary level.
func (p *Parser) parseLeft(operand func() (ast.Expr, *object.ParseError), types ...token.TokenType) (ast.Expr, *object.ParseError) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(types...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseLogical(operand func() (ast.Expr, *object.ParseError), t token.TokenType) (ast.Expr, *object.ParseError) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(t) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, *object.ParseError) {
	if p.match(token.BANG, token.MINUS) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: operator, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, *object.ParseError) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LPAREN):
			args, closing, err := p.arguments(token.RPAREN, "expected ')' after arguments")
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Callee: expr, Paren: closing, Arguments: args}
		case p.match(token.LBRACKET):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			closing, err := p.consume(token.RBRACKET, "expected ']' after index")
			if err != nil {
				return nil, err
			}
			expr = &ast.Index{Object: expr, Bracket: closing, Index: index}
		case p.match(token.DOT):
			name, err := p.consume(token.IDENT, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

// arguments parses a comma separated list up to and including the closing token.
func (p *Parser) arguments(closing token.TokenType, msg string) ([]ast.Expr, token.Token, *object.ParseError) {
	var args []ast.Expr
	if !p.check(closing) {
		for {
			if len(args) >= maxArguments {
				p.errors = append(p.errors, object.NewParseError(
					fmt.Sprintf("can't have more than %d arguments", maxArguments), p.peek().Span))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, token.Token{}, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	end, err := p.consume(closing, msg)
	if err != nil {
		return nil, token.Token{}, err
	}
	return args, end, nil
}

func (p *Parser) primary() (ast.Expr, *object.ParseError) {
	tok := p.peek()
	switch tok.Type {
	case token.FALSE:
		p.advance()
		return &ast.Literal{Token: tok, Value: false}, nil
	case token.TRUE:
		p.advance()
		return &ast.Literal{Token: tok, Value: true}, nil
	case token.NIL:
		p.advance()
		return &ast.Literal{Token: tok, Value: nil}, nil
	case token.STRING:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Literal}, nil
	case token.INT:
		p.advance()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, object.NewParseError("integer literal out of range", tok.Span)
		}
		return &ast.Literal{Token: tok, Value: value}, nil
	case token.FLOAT:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, object.NewParseError("invalid decimal literal", tok.Span)
		}
		return &ast.Literal{Token: tok, Value: value}, nil
	case token.THIS:
		p.advance()
		return &ast.This{Keyword: tok}, nil
	case token.SUPER:
		p.advance()
		if _, err := p.consume(token.DOT, "expected '.' after 'super'"); err != nil {
			return nil, err
		}
		method, err := p.consume(token.IDENT, "expected superclass method name")
		if err != nil {
			return nil, err
		}
		return &ast.Super{Keyword: tok, Method: method}, nil
	case token.IDENT:
		p.advance()
		return &ast.Variable{Name: tok}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		closing, err := p.consume(token.RPAREN, "expected ')' after expression")
		if err != nil {
			return nil, err
		}
		return ast.NewGrouping(expr, tok.Span.Join(closing.Span)), nil
	case token.LBRACKET:
		p.advance()
		elements, closing, err := p.arguments(token.RBRACKET, "expected ']' after array elements")
		if err != nil {
			return nil, err
		}
		return ast.NewArrayLiteral(tok, elements, closing), nil
	}
	return nil, object.NewParseError("expected expression", tok.Span).
		WithExpectation("expression", token.Describe(tok.Type))
}

// synchronize discards tokens until a statement boundary: just past a ';'
// or just before a keyword that starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.CLASS, token.FN, token.LET, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// consume advances past a token of type t or reports msg at the previous token.
func (p *Parser) consume(t token.TokenType, msg string) (token.Token, *object.ParseError) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, object.NewParseError(msg, p.previous().Span).
		WithExpectation(token.Describe(t), token.Describe(p.peek().Type))
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

// previous returns the last consumed token, or the first token when nothing
// has been consumed yet.
func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/javanhut/Lox/src/token"
)

// Node is implemented by every expression and statement. String renders the
// node as a parenthesized prefix form, which is what the parser tests compare.
type Node interface {
	Span() token.Span
	String() string
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Expressions

type Literal struct {
	Token token.Token
	Value interface{} // nil, bool, int64, float64 or string
}

func (l *Literal) exprNode()        {}
func (l *Literal) Span() token.Span { return l.Token.Span }
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	}
	return l.Token.Lexeme
}

type Grouping struct {
	Expression Expr
	span       token.Span
}

func NewGrouping(expr Expr, span token.Span) *Grouping {
	return &Grouping{Expression: expr, span: span}
}

func (g *Grouping) exprNode()        {}
func (g *Grouping) Span() token.Span { return g.span }
func (g *Grouping) String() string   { return parenthesize("group", g.Expression) }

type Unary struct {
	Operator token.Token
	Right    Expr
}

func (u *Unary) exprNode()        {}
func (u *Unary) Span() token.Span { return u.Operator.Span.Join(u.Right.Span()) }
func (u *Unary) String() string   { return parenthesize(u.Operator.Lexeme, u.Right) }

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (b *Binary) exprNode()        {}
func (b *Binary) Span() token.Span { return b.Left.Span().Join(b.Right.Span()) }
func (b *Binary) String() string   { return parenthesize(b.Operator.Lexeme, b.Left, b.Right) }

// Logical is a short-circuiting `and` / `or`.
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (l *Logical) exprNode()        {}
func (l *Logical) Span() token.Span { return l.Left.Span().Join(l.Right.Span()) }
func (l *Logical) String() string   { return parenthesize(l.Operator.Lexeme, l.Left, l.Right) }

type Variable struct {
	Name token.Token
}

func (v *Variable) exprNode()        {}
func (v *Variable) Span() token.Span { return v.Name.Span }
func (v *Variable) String() string   { return v.Name.Lexeme }

type Assign struct {
	Name  token.Token
	Value Expr
}

func (a *Assign) exprNode()        {}
func (a *Assign) Span() token.Span { return a.Name.Span.Join(a.Value.Span()) }
func (a *Assign) String() string   { return parenthesize("= "+a.Name.Lexeme, a.Value) }

type Call struct {
	Callee    Expr
	Paren     token.Token // closing paren, used for error spans
	Arguments []Expr
}

func (c *Call) exprNode()        {}
func (c *Call) Span() token.Span { return c.Callee.Span().Join(c.Paren.Span) }
func (c *Call) String() string {
	return parenthesize("call", append([]Expr{c.Callee}, c.Arguments...)...)
}

type ArrayLiteral struct {
	Bracket  token.Token // opening bracket
	Elements []Expr
	span     token.Span
}

func NewArrayLiteral(bracket token.Token, elements []Expr, closing token.Token) *ArrayLiteral {
	return &ArrayLiteral{Bracket: bracket, Elements: elements, span: bracket.Span.Join(closing.Span)}
}

func (a *ArrayLiteral) exprNode()        {}
func (a *ArrayLiteral) Span() token.Span { return a.span }
func (a *ArrayLiteral) String() string   { return parenthesize("array", a.Elements...) }

type Index struct {
	Object  Expr
	Bracket token.Token // closing bracket
	Index   Expr
}

func (i *Index) exprNode()        {}
func (i *Index) Span() token.Span { return i.Object.Span().Join(i.Bracket.Span) }
func (i *Index) String() string   { return parenthesize("index", i.Object, i.Index) }

type SetIndex struct {
	Object  Expr
	Bracket token.Token
	Index   Expr
	Value   Expr
}

func (s *SetIndex) exprNode()        {}
func (s *SetIndex) Span() token.Span { return s.Object.Span().Join(s.Value.Span()) }
func (s *SetIndex) String() string {
	return parenthesize("set-index", s.Object, s.Index, s.Value)
}

type Get struct {
	Object Expr
	Name   token.Token
}

func (g *Get) exprNode()        {}
func (g *Get) Span() token.Span { return g.Object.Span().Join(g.Name.Span) }
func (g *Get) String() string   { return parenthesize("."+g.Name.Lexeme, g.Object) }

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (s *Set) exprNode()        {}
func (s *Set) Span() token.Span { return s.Object.Span().Join(s.Value.Span()) }
func (s *Set) String() string {
	return parenthesize("set ."+s.Name.Lexeme, s.Object, s.Value)
}

type This struct {
	Keyword token.Token
}

func (t *This) exprNode()        {}
func (t *This) Span() token.Span { return t.Keyword.Span }
func (t *This) String() string   { return "this" }

type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (s *Super) exprNode()        {}
func (s *Super) Span() token.Span { return s.Keyword.Span.Join(s.Method.Span) }
func (s *Super) String() string   { return "super." + s.Method.Lexeme }

// Statements

type Expression struct {
	Expression Expr
}

func (e *Expression) stmtNode()        {}
func (e *Expression) Span() token.Span { return e.Expression.Span() }
func (e *Expression) String() string   { return parenthesize(";", e.Expression) }

type Print struct {
	Keyword    token.Token
	Expression Expr
}

func (p *Print) stmtNode()        {}
func (p *Print) Span() token.Span { return p.Keyword.Span.Join(p.Expression.Span()) }
func (p *Print) String() string   { return parenthesize("print", p.Expression) }

type Let struct {
	Name        token.Token
	Initializer Expr // nil when omitted
}

func (l *Let) stmtNode()        {}
func (l *Let) Span() token.Span { return l.Name.Span }
func (l *Let) String() string {
	if l.Initializer == nil {
		return "(let " + l.Name.Lexeme + ")"
	}
	return parenthesize("let "+l.Name.Lexeme, l.Initializer)
}

type Block struct {
	Statements []Stmt
	span       token.Span
}

func NewBlock(statements []Stmt, span token.Span) *Block {
	return &Block{Statements: statements, span: span}
}

func (b *Block) stmtNode()        {}
func (b *Block) Span() token.Span { return b.span }
func (b *Block) String() string   { return parenthesizeStmts("block", b.Statements) }

type If struct {
	Keyword    token.Token
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // nil when absent
}

func (i *If) stmtNode()        {}
func (i *If) Span() token.Span { return i.Keyword.Span.Join(i.Condition.Span()) }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("(if ")
	out.WriteString(i.Condition.String())
	out.WriteString(" ")
	out.WriteString(i.ThenBranch.String())
	if i.ElseBranch != nil {
		out.WriteString(" ")
		out.WriteString(i.ElseBranch.String())
	}
	out.WriteString(")")
	return out.String()
}

type While struct {
	Keyword   token.Token
	Condition Expr
	Body      Stmt
}

func (w *While) stmtNode()        {}
func (w *While) Span() token.Span { return w.Keyword.Span.Join(w.Condition.Span()) }
func (w *While) String() string {
	return "(while " + w.Condition.String() + " " + w.Body.String() + ")"
}

type Function struct {
	Name   token.Token
	Params []token.Token
	Body   *Block
}

func (f *Function) stmtNode()        {}
func (f *Function) Span() token.Span { return f.Name.Span }
func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}
	return "(fn " + f.Name.Lexeme + " (" + strings.Join(params, " ") + ") " + f.Body.String() + ")"
}

type Return struct {
	Keyword token.Token
	Value   Expr // nil for a bare `return;`
}

func (r *Return) stmtNode() {}
func (r *Return) Span() token.Span {
	if r.Value == nil {
		return r.Keyword.Span
	}
	return r.Keyword.Span.Join(r.Value.Span())
}
func (r *Return) String() string {
	if r.Value == nil {
		return "(return)"
	}
	return parenthesize("return", r.Value)
}

type Class struct {
	Name       token.Token
	Superclass *Variable // nil without `extends`
	Methods    []*Function
}

func (c *Class) stmtNode()        {}
func (c *Class) Span() token.Span { return c.Name.Span }
func (c *Class) String() string {
	var out bytes.Buffer
	out.WriteString("(class ")
	out.WriteString(c.Name.Lexeme)
	if c.Superclass != nil {
		out.WriteString(" < ")
		out.WriteString(c.Superclass.Name.Lexeme)
	}
	for _, m := range c.Methods {
		out.WriteString(" ")
		out.WriteString(m.String())
	}
	out.WriteString(")")
	return out.String()
}

func parenthesize(name string, exprs ...Expr) string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(name)
	for _, e := range exprs {
		out.WriteString(" ")
		out.WriteString(e.String())
	}
	out.WriteString(")")
	return out.String()
}

func parenthesizeStmts(name string, stmts []Stmt) string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(name)
	for _, s := range stmts {
		out.WriteString(" ")
		out.WriteString(s.String())
	}
	out.WriteString(")")
	return out.String()
}

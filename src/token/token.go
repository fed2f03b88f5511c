package token

import "fmt"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers and literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	// Operators
	ASSIGN       = "="
	PLUS_ASSIGN  = "+="
	MINUS_ASSIGN = "-="
	MUL_ASSIGN   = "*="
	DIV_ASSIGN   = "/="
	PLUS         = "+"
	MINUS        = "-"
	ASTERISK     = "*"
	SLASH        = "/"
	BANG         = "!"
	EQ           = "=="
	NOT_EQ       = "!="
	LT           = "<"
	LT_EQ        = "<="
	GT           = ">"
	GT_EQ        = ">="

	// Delimiters
	COMMA     = ","
	DOT       = "."
	SEMICOLON = ";"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"

	// Keywords
	AND     = "AND"
	CLASS   = "CLASS"
	ELSE    = "ELSE"
	EXTENDS = "EXTENDS"
	FALSE   = "FALSE"
	FN      = "FN"
	FOR     = "FOR"
	IF      = "IF"
	LET     = "LET"
	NIL     = "NIL"
	OR      = "OR"
	PRINT   = "PRINT"
	RETURN  = "RETURN"
	SUPER   = "SUPER"
	THIS    = "THIS"
	TRUE    = "TRUE"
	WHILE   = "WHILE"
)

// Position is a 1-based location in a source file.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers the source text of a token or node. End is exclusive.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return s.Start.String()
}

// Join returns the span running from the start of s to the end of other.
func (s Span) Join(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

type Token struct {
	Type    TokenType
	Lexeme  string // source text as written
	Literal string // decoded value for literals, otherwise the lexeme
	Span    Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %s", t.Type, t.Lexeme, t.Literal)
}

var keywords = map[string]TokenType{
	"and":     AND,
	"class":   CLASS,
	"else":    ELSE,
	"extends": EXTENDS,
	"false":   FALSE,
	"fn":      FN,
	"for":     FOR,
	"if":      IF,
	"let":     LET,
	"nil":     NIL,
	"or":      OR,
	"print":   PRINT,
	"return":  RETURN,
	"super":   SUPER,
	"this":    THIS,
	"true":    TRUE,
	"while":   WHILE,
}

// LookupIdent reports the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Describe renders a token type the way it appears in diagnostics.
func Describe(t TokenType) string {
	switch t {
	case EOF:
		return "end of file"
	case IDENT:
		return "identifier"
	case INT, FLOAT:
		return "number"
	case STRING:
		return "string"
	}
	for word, kw := range keywords {
		if kw == t {
			return "'" + word + "'"
		}
	}
	return "'" + string(t) + "'"
}

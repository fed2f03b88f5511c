package lexer

import (
	"strings"

	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/token"
)

type Lexer struct {
	input    string
	pos      int // offset of ch
	line     int
	column   int
	fileName string
}

func New(input string, fileName ...string) *Lexer {
	filename := ""
	if len(fileName) > 0 {
		filename = fileName[0]
	}
	return &Lexer{
		input:    input,
		line:     1,
		column:   1,
		fileName: filename,
	}
}

// Tokenize scans the whole input. The returned slice always ends with an EOF
// token, even when lexical errors were found.
func (l *Lexer) Tokenize() ([]token.Token, []*object.ParseError) {
	var (
		tokens []token.Token
		errs   []*object.ParseError
	)
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			errs = append(errs, object.NewParseError(tok.Literal, tok.Span))
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, errs
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	start := l.position()
	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, Span: token.Span{Start: start, End: start}}
	}

	ch := l.input[l.pos]
	switch {
	case isLetter(ch):
		return l.readIdentifier()
	case isDigit(ch):
		return l.readNumber()
	case ch == '"':
		return l.readString()
	}

	switch ch {
	case '(':
		return l.single(token.LPAREN)
	case ')':
		return l.single(token.RPAREN)
	case '{':
		return l.single(token.LBRACE)
	case '}':
		return l.single(token.RBRACE)
	case '[':
		return l.single(token.LBRACKET)
	case ']':
		return l.single(token.RBRACKET)
	case ',':
		return l.single(token.COMMA)
	case '.':
		return l.single(token.DOT)
	case ';':
		return l.single(token.SEMICOLON)
	case '+':
		return l.withAssign(token.PLUS, token.PLUS_ASSIGN)
	case '-':
		return l.withAssign(token.MINUS, token.MINUS_ASSIGN)
	case '*':
		return l.withAssign(token.ASTERISK, token.MUL_ASSIGN)
	case '/':
		return l.withAssign(token.SLASH, token.DIV_ASSIGN)
	case '!':
		return l.withAssign(token.BANG, token.NOT_EQ)
	case '=':
		return l.withAssign(token.ASSIGN, token.EQ)
	case '<':
		return l.withAssign(token.LT, token.LT_EQ)
	case '>':
		return l.withAssign(token.GT, token.GT_EQ)
	}

	l.advance()
	return token.Token{
		Type:    token.ILLEGAL,
		Lexeme:  string(ch),
		Literal: "unexpected character '" + string(ch) + "'",
		Span:    token.Span{Start: start, End: l.position()},
	}
}

func (l *Lexer) position() token.Position {
	return token.Position{File: l.fileName, Line: l.line, Column: l.column}
}

func (l *Lexer) advance() byte {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekChar() == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) single(t token.TokenType) token.Token {
	start := l.position()
	lexeme := string(l.advance())
	return token.Token{
		Type:    t,
		Lexeme:  lexeme,
		Literal: lexeme,
		Span:    token.Span{Start: start, End: l.position()},
	}
}

// withAssign scans a one-character operator that becomes long when followed by '='.
func (l *Lexer) withAssign(short, long token.TokenType) token.Token {
	if l.peekChar() != '=' {
		return l.single(short)
	}
	start := l.position()
	l.advance()
	l.advance()
	lexeme := l.input[l.pos-2 : l.pos]
	return token.Token{
		Type:    long,
		Lexeme:  lexeme,
		Literal: lexeme,
		Span:    token.Span{Start: start, End: l.position()},
	}
}

func (l *Lexer) readString() token.Token {
	start := l.position()
	begin := l.pos
	l.advance() // opening quote

	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return token.Token{
				Type:    token.ILLEGAL,
				Lexeme:  l.input[begin:l.pos],
				Literal: "unterminated string",
				Span:    token.Span{Start: start, End: l.position()},
			}
		}
		ch := l.advance()
		if ch == '"' {
			break
		}
		if ch == '\\' && l.pos < len(l.input) {
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
			continue
		}
		sb.WriteByte(ch)
	}

	return token.Token{
		Type:    token.STRING,
		Lexeme:  l.input[begin:l.pos],
		Literal: sb.String(),
		Span:    token.Span{Start: start, End: l.position()},
	}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.position()
	begin := l.pos
	for l.pos < len(l.input) && isLetterOrDigit(l.input[l.pos]) {
		l.advance()
	}
	literal := l.input[begin:l.pos]
	return token.Token{
		Type:    token.LookupIdent(literal),
		Lexeme:  literal,
		Literal: literal,
		Span:    token.Span{Start: start, End: l.position()},
	}
}

// readNumber scans an integer or a decimal. A '.' only belongs to the number
// when a digit follows it, so `1.foo` still lexes as a property access.
func (l *Lexer) readNumber() token.Token {
	start := l.position()
	begin := l.pos
	isFloat := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '.' {
			if isFloat || !isDigit(l.peekChar()) {
				break
			}
			isFloat = true
		} else if !isDigit(ch) {
			break
		}
		l.advance()
	}
	literal := l.input[begin:l.pos]
	tokType := token.TokenType(token.INT)
	if isFloat {
		tokType = token.FLOAT
	}
	return token.Token{
		Type:    tokType,
		Lexeme:  literal,
		Literal: literal,
		Span:    token.Span{Start: start, End: l.position()},
	}
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

// isLetter accepts any byte of a multi-byte UTF-8 sequence so non-ASCII
// identifiers scan as a single token.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= 0x80
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

package sexpr

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TokenType classifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenAtom
)

// Token is one lexical unit. Quoted records whether an atom was written
// as a double-quoted string in the source; the parser carries the flag
// into the Atom so uninterpreted nodes re-emit in their original form.
type Token struct {
	Type   TokenType
	Value  string
	Quoted bool
	Line   int
}

// Lexer tokenizes KiCad S-expression input. String escapes and doubled
// quotes resolve at the token level, and line numbers ride along for
// error reporting.
type Lexer struct {
	r          *bufio.Reader
	line       int
	pending    rune
	hasPending bool
}

// NewLexer creates a lexer over r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r), line: 1}
}

// NextToken returns the next token, skipping whitespace and # comments.
func (l *Lexer) NextToken() (Token, error) {
	ch, err := l.skipBlank()
	if err == io.EOF {
		return Token{Type: TokenEOF, Line: l.line}, nil
	}
	if err != nil {
		return Token{}, err
	}

	switch ch {
	case '(':
		return Token{Type: TokenLeftParen, Value: "(", Line: l.line}, nil
	case ')':
		return Token{Type: TokenRightParen, Value: ")", Line: l.line}, nil
	case '"':
		return l.lexString()
	default:
		return l.lexSymbol(ch)
	}
}

// skipBlank consumes whitespace and comments and returns the first
// significant rune.
func (l *Lexer) skipBlank() (rune, error) {
	for {
		ch, err := l.next()
		if err != nil {
			return 0, err
		}
		if unicode.IsSpace(ch) {
			continue
		}
		if ch == '#' {
			for {
				c, err := l.next()
				if err != nil {
					return 0, err
				}
				if c == '\n' {
					break
				}
			}
			continue
		}
		return ch, nil
	}
}

// lexString lexes a double-quoted string whose opening quote has been
// consumed. KiCad writes both doubled quotes and backslash escapes.
func (l *Lexer) lexString() (Token, error) {
	start := l.line
	var sb strings.Builder
	for {
		ch, err := l.next()
		if err != nil {
			return Token{}, fmt.Errorf("line %d: unterminated string", start)
		}
		switch ch {
		case '"':
			// A doubled quote is a literal quote, not a terminator.
			nxt, err := l.next()
			if err == nil && nxt == '"' {
				sb.WriteByte('"')
				continue
			}
			if err == nil {
				l.push(nxt)
			}
			return Token{Type: TokenAtom, Value: sb.String(), Quoted: true, Line: start}, nil
		case '\\':
			esc, err := l.next()
			if err != nil {
				return Token{}, fmt.Errorf("line %d: unterminated escape in string", start)
			}
			sb.WriteRune(unescape(esc))
		default:
			sb.WriteRune(ch)
		}
	}
}

// lexSymbol lexes a bare symbol starting with first: identifiers,
// numbers, layer names.
func (l *Lexer) lexSymbol(first rune) (Token, error) {
	start := l.line
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		ch, err := l.next()
		if err != nil {
			break
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			l.push(ch)
			break
		}
		sb.WriteRune(ch)
	}
	return Token{Type: TokenAtom, Value: sb.String(), Line: start}, nil
}

func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return ch
	}
}

func (l *Lexer) next() (rune, error) {
	if l.hasPending {
		l.hasPending = false
		return l.pending, nil
	}
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

func (l *Lexer) push(ch rune) {
	l.pending = ch
	l.hasPending = true
}

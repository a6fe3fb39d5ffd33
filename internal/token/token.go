// Package token defines the lexical token kinds produced by the scanner.
package token

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// Single-character tokens.
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	StarStar
	Percent
	Caret
	Ampersand
	Pipe
	Tilde

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	LessLess
	GreaterGreater

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	Error
	EOF
)

// Keywords maps reserved identifiers to their token kind, per spec.md §4.1.
var Keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"fun":    Fun,
	"for":    For,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Token is a single lexical unit: its kind, the source slice it spans, and
// the 1-indexed source line the scanner was on when the token ended (which
// differs from its first line only for a string spanning several lines).
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

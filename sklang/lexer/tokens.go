package lexer

import "fmt"

type TokenType int

const (
	// Special tokens
	Illegal TokenType = iota
	EOF

	App         // "(" or "@", applies the next term to the one after it
	Number      // 117
	Char        // 'a
	Church      // #3
	Macro       // $plus
	Combinator  // one of the single-character keys: I K S B C Y P F J G + - * / = <
	Placeholder // a free variable a..z
)

type Token struct {
	ty   TokenType
	text string
	span Span
}

func (tok Token) Type() TokenType { return tok.ty }

func (tok Token) Text() string {
	return tok.text
}

func (tok Token) String() string {
	switch tok.ty {
	case EOF:
		return "EOF"
	}
	return fmt.Sprintf("%q", tok.text)
}

func (tok Token) Span() Span {
	return tok.span
}

func (tok Token) IsEOF() bool {
	return tok.Type() == EOF
}

// Pos is a position within the input
type Pos uint32

// Span is a region of the input
type Span struct {
	Begin Pos
	End   Pos
}

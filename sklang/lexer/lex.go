// Package lexer splits combinator source text into tokens. Whitespace and
// close parens carry no meaning in this notation and are dropped; a term's
// shape comes entirely from the prefix applications.
package lexer

import (
	"fmt"
	"io"

	"github.com/imneme/mini-sk/skmem"
)

type stateFunc func() stateFunc

type Lexer struct {
	r io.RuneReader

	peeking   []rune
	err       error
	state     stateFunc
	bufOffset Pos
	buf       []rune
	output    chan Token
}

func NewLexer(r io.RuneReader) *Lexer {
	l := &Lexer{
		r: r,

		output: make(chan Token, 2),
	}
	l.state = l.lexInit
	return l
}

func (l *Lexer) Next() (Token, error) {
	for len(l.output) == 0 && l.err == nil {
		nextState := l.state()
		l.state = nextState
	}
	if l.err != nil {
		return Token{}, l.err
	}
	tok := <-l.output
	return tok, nil
}

// emit creates a token from the current buffer with type ty and emits it.
// emit clears the buffer
func (l *Lexer) emit(ty TokenType) {
	if ty == EOF {
		l.buf = append(l.buf[:0], eofRune)
	}
	tokSize := Pos(len(l.buf))
	l.output <- Token{
		ty: ty,
		span: Span{
			Begin: l.bufOffset,
			End:   l.bufOffset + tokSize,
		},
		text: string(l.buf),
	}
	l.bufOffset += tokSize
	l.buf = l.buf[:0]
}

// read consumes input
// if an error is encountered it sets l.err and returns eofRune
func (l *Lexer) read() rune {
	if len(l.peeking) > 0 {
		var r rune
		l.peeking, r = pop(l.peeking)
		l.buf = append(l.buf, r)
		return r
	}
	r, _, err := l.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			l.err = err
			return eofRune
		} else {
			r = eofRune
		}
	}
	l.buf = append(l.buf, r)
	return r
}

// back puts r back into the input, ahead of everything.
// it can only be called once per call of read.
func (l *Lexer) back() {
	var r rune
	l.buf, r = pop(l.buf)
	l.peeking = append(l.peeking, r)
}

func (l *Lexer) lexInit() stateFunc {
	r := l.read()
	switch {
	case r == eofRune:
		return l.lexEnd
	case isNoise(r):
		l.ignore()
	case r == '(' || r == '@':
		l.emit(App)
	case r == '\'':
		return l.lexChar
	case r == '#':
		return l.lexChurch
	case r == '$':
		return l.lexMacro
	case isDecimal(r):
		l.back()
		return l.lexNumber
	case 'a' <= r && r <= 'z':
		l.emit(Placeholder)
	case isKey(r):
		l.emit(Combinator)
	default:
		l.emit(Illegal)
		return l.lexEnd
	}
	return l.lexInit
}

// lexChar reads the character following a quote. Anything goes, including
// the quote character itself.
func (l *Lexer) lexChar() stateFunc {
	if r := l.read(); r == eofRune {
		return l.errorf("unterminated character literal")
	}
	l.emit(Char)
	return l.lexInit
}

// lexChurch reads the digits following '#'. A bare '#' means zero.
func (l *Lexer) lexChurch() stateFunc {
	l.acceptRun("0123456789")
	l.emit(Church)
	return l.lexInit
}

func (l *Lexer) lexMacro() stateFunc {
	l.accum(isMacroChar)
	if len(l.buf) == 1 {
		return l.errorf("empty macro name")
	}
	l.emit(Macro)
	return l.lexInit
}

func (l *Lexer) lexNumber() stateFunc {
	l.acceptRun("0123456789")
	l.emit(Number)
	return l.lexInit
}

// lexEnd is the terminal state of the lexer, indicating that it will only return EOF tokens.
func (l *Lexer) lexEnd() stateFunc {
	l.emit(EOF)
	return l.lexEnd
}

func (l *Lexer) accept(valid string) bool {
	r := l.read()
	for _, v := range valid {
		if r == v {
			return true
		}
	}
	l.back()
	return false
}

func (l *Lexer) acceptRun(valid string) {
	for l.accept(valid) {
	}
}

func (l *Lexer) ignore() {
	l.buf, _ = pop(l.buf)
	l.bufOffset++
}

func (l *Lexer) accum(fn func(rune) bool) {
	for {
		r := l.read()
		if !fn(r) {
			l.back()
			return
		}
	}
}

func (l *Lexer) errorf(fstr string, args ...any) stateFunc {
	l.err = fmt.Errorf(fstr, args...)
	return l.lexEnd
}

// isNoise reports runes the reader skips over without comment. Close parens
// are noise too: applications are fully determined by their opens.
func isNoise(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', ')':
		return true
	}
	return false
}

func isKey(ch rune) bool {
	if ch < 0 || ch > 127 {
		return false
	}
	_, ok := skmem.FromKey(byte(ch))
	return ok
}

func isMacroChar(ch rune) bool {
	return isDecimal(ch) || 'a' <= lower(ch) && lower(ch) <= 'z' || ch == '_'
}

func lower(ch rune) rune     { return ('a' - 'A') | ch } // returns lower-case ch iff ch is ASCII letter
func isDecimal(ch rune) bool { return '0' <= ch && ch <= '9' }

func pop[E any, S ~[]E](s S) (S, E) {
	l := len(s)
	return s[:l-1], s[l-1]
}

const eofRune = -1

// Package parser reads combinator notation into heap graphs. The notation is
// prefix: "(" or "@" applies the next term to the one after it, so "((K S) I)"
// and "@@KSI" read the same graph. Everything a parse allocates lives in the
// arena handed to NewParser; on error any partial graph is released first.
package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/imneme/mini-sk/skmem"
	"github.com/imneme/mini-sk/sklang/lexer"
)

type (
	Token = lexer.Token
	Pos   = lexer.Pos
)

// Resolver maps a macro name to its source text.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// maxMacroDepth bounds nested macro expansion, which would otherwise loop
// forever on a self-referential definition.
const maxMacroDepth = 64

type Parser struct {
	lex    *lexer.Lexer
	unread []Token

	mem    *skmem.Arena
	macros Resolver
	depth  int
}

// NewParser reads terms from r, allocating them in mem. macros may be nil,
// in which case every $name is an error.
func NewParser(mem *skmem.Arena, r io.RuneReader, macros Resolver) *Parser {
	return &Parser{
		lex:    lexer.NewLexer(r),
		mem:    mem,
		macros: macros,
	}
}

// ParseExpr reads one complete term. End of input parses as the identity
// combinator, so a truncated application still yields a graph.
func (p *Parser) ParseExpr(ctx context.Context) (skmem.Atom, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	switch tok.Type() {
	case lexer.EOF:
		return skmem.LitI.Atom(), nil
	case lexer.App:
		lhs, err := p.ParseExpr(ctx)
		if err != nil {
			return 0, err
		}
		rhs, err := p.ParseExpr(ctx)
		if err != nil {
			p.mem.Release(lhs)
			return 0, err
		}
		return p.mem.Alloc(lhs, rhs), nil
	case lexer.Number:
		return p.parseNumber(tok)
	case lexer.Char:
		r := []rune(tok.Text())[1]
		return skmem.Lit(uint16(r) & skmem.LitMask).Atom(), nil
	case lexer.Church:
		return p.parseChurch(tok)
	case lexer.Macro:
		return p.parseMacro(ctx, tok)
	case lexer.Combinator:
		l, ok := skmem.FromKey(tok.Text()[0])
		if !ok {
			return 0, fmt.Errorf("unknown combinator %v", tok)
		}
		return l.Atom(), nil
	case lexer.Placeholder:
		return skmem.Lit(uint16(tok.Text()[0])).Atom(), nil
	default:
		return 0, fmt.Errorf("unexpected token %v", tok)
	}
}

// AtEOF reports whether only end of input remains.
func (p *Parser) AtEOF() (bool, error) {
	tok, err := p.next()
	if err != nil {
		return false, err
	}
	if tok.IsEOF() {
		return true, nil
	}
	p.back(tok)
	return false, nil
}

// parseNumber accumulates digits with the heap's native wraparound, then
// masks to the 15 bits a literal can hold.
func (p *Parser) parseNumber(tok Token) (skmem.Atom, error) {
	var n uint16
	for _, c := range tok.Text() {
		n = n*10 + uint16(c-'0')
	}
	return skmem.Lit(n & skmem.LitMask).Atom(), nil
}

// parseChurch builds the Church numeral for #n as n applications of the
// successor (S B) to (K I). The successor node is shared across all n copies.
func (p *Parser) parseChurch(tok Token) (skmem.Atom, error) {
	var n int
	for _, c := range tok.Text()[1:] {
		n = n*10 + int(c-'0')
	}
	succ := p.mem.Alloc(skmem.LitS.Atom(), skmem.LitB.Atom())
	val := p.mem.Alloc(skmem.LitK.Atom(), skmem.LitI.Atom())
	for i := 0; i < n; i++ {
		val = p.mem.Alloc(p.mem.Retain(succ), val)
	}
	p.mem.Release(succ)
	return val, nil
}

func (p *Parser) parseMacro(ctx context.Context, tok Token) (skmem.Atom, error) {
	name := tok.Text()[1:]
	if p.macros == nil {
		return 0, fmt.Errorf("unknown macro: %s", name)
	}
	if p.depth >= maxMacroDepth {
		return 0, fmt.Errorf("macro $%s expands too deeply", name)
	}
	src, err := p.macros.Resolve(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("macro $%s: %w", name, err)
	}
	sub := &Parser{
		lex:    lexer.NewLexer(strings.NewReader(src)),
		mem:    p.mem,
		macros: p.macros,
		depth:  p.depth + 1,
	}
	return sub.ParseExpr(ctx)
}

func (p *Parser) next() (Token, error) {
	if n := len(p.unread); n > 0 {
		tok := p.unread[n-1]
		p.unread = p.unread[:n-1]
		return tok, nil
	}
	return p.lex.Next()
}

func (p *Parser) back(tok Token) {
	p.unread = append(p.unread, tok)
}

// ParseString is a convenience for sources already in memory.
func ParseString(ctx context.Context, mem *skmem.Arena, src string, macros Resolver) (skmem.Atom, error) {
	return NewParser(mem, strings.NewReader(src), macros).ParseExpr(ctx)
}

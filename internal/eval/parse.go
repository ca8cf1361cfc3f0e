// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"
	"strings"

	"nickandperla.net/scicalc/internal/expr"
	"nickandperla.net/scicalc/internal/scanner"
	"nickandperla.net/scicalc/internal/token"
)

// parser is a precedence climber over scanned items.
type parser struct {
	items []scanner.Item
	pos   int
}

// Parse builds an expression tree from items. An empty sequence parses to 0.
func Parse(items []scanner.Item) (expr.Expr, error) {
	if len(items) == 0 {
		return expr.Number{Value: 0}, nil
	}
	// Signed literals are rewritten in place while parsing.
	p := &parser{items: append([]scanner.Item(nil), items...)}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if it := p.peek(); it != nil {
		return nil, &SyntaxError{Pos: it.Pos, Msg: fmt.Sprintf("unexpected %q", it.Value)}
	}
	return e, nil
}

// ParseString scans and parses s.
func ParseString(s string) (expr.Expr, error) {
	items, err := scanner.Scan(s)
	if err != nil {
		return nil, err
	}
	return Parse(items)
}

func (p *parser) peek() *scanner.Item {
	if p.pos >= len(p.items) {
		return nil
	}
	return &p.items[p.pos]
}

func (p *parser) next() *scanner.Item {
	it := p.peek()
	if it != nil {
		p.pos++
	}
	return it
}

func missingOperand() error {
	return &SyntaxError{Pos: -1, Msg: "missing operand"}
}

// parseExpr parses binary operators binding at least as tightly as minPrec.
func (p *parser) parseExpr(minPrec int) (expr.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		it := p.peek()
		if it == nil || it.Kind != token.OPERATOR {
			return lhs, nil
		}
		prec := it.Op.Precedence()
		if prec < minPrec {
			return lhs, nil
		}
		op := it.Op
		p.pos++
		nextMin := prec + 1
		if op.RightAssoc() {
			nextMin = prec
		}
		rhs, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		lhs = expr.Binary{Op: op, Left: lhs, Right: rhs}
	}
}

// parseUnary handles prefix signs. Unary minus binds below ^, so its
// operand is parsed at power precedence: -2^2 is -(2^2).
func (p *parser) parseUnary() (expr.Expr, error) {
	it := p.peek()
	if it == nil {
		return nil, missingOperand()
	}

	if it.Kind == token.OPERATOR && (it.Op == token.SUB || it.Op == token.ADD) {
		p.pos++
		operand, err := p.parseExpr(token.PrecPower)
		if err != nil {
			return nil, err
		}
		return expr.Unary{Negate: it.Op == token.SUB, Operand: operand}, nil
	}

	if it.Kind == token.NUMBER && strings.HasPrefix(it.Value, string(token.RuneSign)) {
		// Treat "-2" as the sign applied to "2" so precedence stays uniform.
		it.Value = strings.TrimPrefix(it.Value, string(token.RuneSign))
		it.Num = -it.Num
		it.Pos++
		operand, err := p.parseExpr(token.PrecPower)
		if err != nil {
			return nil, err
		}
		return expr.Unary{Negate: true, Operand: operand}, nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() (expr.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		it := p.peek()
		if it == nil || !it.Kind.IsPostfix() {
			return e, nil
		}
		p.pos++
		e = expr.Postfix{Func: it.Func, Operand: e}
	}
}

func (p *parser) parsePrimary() (expr.Expr, error) {
	it := p.next()
	if it == nil {
		return nil, missingOperand()
	}

	switch it.Kind {
	case token.NUMBER:
		return expr.Number{Value: it.Num}, nil

	case token.CONSTANT:
		return expr.Constant{Which: it.Const}, nil

	case token.FUNCTION:
		if it.Func == token.RANDOM {
			return expr.Random{}, nil
		}
		open := p.next()
		if open == nil || open.Kind != token.GROUP_OPEN || open.Group != token.PAREN {
			return nil, &SyntaxError{Pos: it.Pos, Msg: fmt.Sprintf("%s requires a bracketed argument", it.Value)}
		}
		arg, err := p.parseGroupBody(open)
		if err != nil {
			return nil, err
		}
		return expr.Call{Func: it.Func, Arg: arg}, nil

	case token.GROUP_OPEN:
		inner, err := p.parseGroupBody(it)
		if err != nil {
			return nil, err
		}
		if fn := it.Group.Func(); fn != token.NONE {
			return expr.Call{Func: fn, Arg: inner}, nil
		}
		return inner, nil
	}

	return nil, &SyntaxError{Pos: it.Pos, Msg: fmt.Sprintf("unexpected %q", it.Value)}
}

// parseGroupBody parses the contents of a group whose opener was consumed
// and requires the matching closer.
func (p *parser) parseGroupBody(open *scanner.Item) (expr.Expr, error) {
	if it := p.peek(); it != nil && it.Kind == token.GROUP_CLOSE {
		return nil, &SyntaxError{Pos: it.Pos, Msg: "empty group"}
	}
	inner, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	closer := p.next()
	switch {
	case closer == nil:
		return nil, &SyntaxError{Pos: -1, Msg: fmt.Sprintf("unclosed %q", string(open.Group.Open()))}
	case closer.Kind != token.GROUP_CLOSE:
		return nil, &SyntaxError{Pos: closer.Pos, Msg: fmt.Sprintf("unexpected %q", closer.Value)}
	case closer.Group != open.Group:
		return nil, &SyntaxError{
			Pos: closer.Pos,
			Msg: fmt.Sprintf("%q closes %q", closer.Value, string(open.Group.Open())),
		}
	}
	return inner, nil
}

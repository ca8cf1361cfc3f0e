// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the parsed calculator expression tree.
package expr

import (
	"strconv"
	"strings"

	"nickandperla.net/scicalc/internal/token"
)

// Expr is the interface all expression nodes implement.
type Expr interface {
	// String returns a fully parenthesized rendering of the node.
	String() string
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

func (n Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Constant is π or e.
type Constant struct {
	Which token.Constant
}

func (c Constant) String() string { return string(c.Which.Glyph()) }

// Random is the zero-argument random value marker.
type Random struct{}

func (Random) String() string { return token.GlyphRandom }

// Unary is prefix negation (or a no-op prefix plus).
type Unary struct {
	Negate  bool
	Operand Expr
}

func (u Unary) String() string {
	sign := "+"
	if u.Negate {
		sign = "-"
	}
	return "(" + sign + u.Operand.String() + ")"
}

// Binary applies an infix operator.
type Binary struct {
	Op          token.Op
	Left, Right Expr
}

func (b Binary) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(b.Left.String())
	sb.WriteString(" ")
	sb.WriteString(b.Op.Glyph())
	sb.WriteString(" ")
	sb.WriteString(b.Right.String())
	sb.WriteString(")")
	return sb.String()
}

// Postfix applies factorial or square to its operand.
type Postfix struct {
	Func    token.Func // FACTORIAL or SQR
	Operand Expr
}

func (p Postfix) String() string {
	glyph := string(token.RuneBang)
	if p.Func == token.SQR {
		glyph = string(token.RuneSquare)
	}
	return "(" + p.Operand.String() + glyph + ")"
}

// Call applies a unary function to its bracketed argument.
type Call struct {
	Func token.Func
	Arg  Expr
}

func (c Call) String() string {
	return c.Func.String() + "(" + c.Arg.String() + ")"
}

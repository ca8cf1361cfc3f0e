// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package buffer implements the incremental expression builder: the text a
// user assembles one key at a time, and the rules that keep it well formed.
//
// Buffer is a value type. Every edit returns the updated Buffer and leaves
// the receiver untouched.
package buffer

import (
	"strings"

	"nickandperla.net/scicalc/internal/scanner"
	"nickandperla.net/scicalc/internal/token"
)

// Buffer is the in-progress expression and its edit flags.
type Buffer struct {
	text            string
	awaitingOperand bool // Next edit starts a new operand
	openGroups      int  // Unmatched "(" in text
	settled         bool // text is a finalized result
	errored         bool // text is the error marker

	expression string  // Evaluated text, kept while settled
	result     float64 // Evaluated value, kept while settled
}

// Display is the two-line view of a buffer.
type Display struct {
	Primary   string
	Secondary string
}

// New returns the initial buffer: the zero literal.
func New() Buffer {
	return Buffer{text: token.ZeroLiteral}
}

// Text returns the buffer text. It is never empty.
func (b Buffer) Text() string { return b.text }

// OpenGroups returns the number of unmatched opening parentheses.
func (b Buffer) OpenGroups() int { return b.openGroups }

// AwaitingOperand reports whether the next edit starts a new operand.
func (b Buffer) AwaitingOperand() bool { return b.awaitingOperand }

// Settled reports whether the buffer holds a finalized result.
func (b Buffer) Settled() bool { return b.settled }

// Errored reports whether the buffer shows the error marker.
func (b Buffer) Errored() bool { return b.errored }

// Expression returns the text that produced the settled result.
func (b Buffer) Expression() string { return b.expression }

// Result returns the settled result value.
func (b Buffer) Result() float64 { return b.result }

// IsZero reports whether the buffer is exactly the zero literal.
func (b Buffer) IsZero() bool { return b.text == token.ZeroLiteral }

// Clear resets every field to its initial value.
func (b Buffer) Clear() Buffer { return New() }

// items scans the buffer text. ok is false when the text does not lex,
// which only happens for the error marker.
func (b Buffer) items() ([]scanner.Item, bool) {
	items, err := scanner.Scan(b.text)
	if err != nil {
		return nil, false
	}
	return items, true
}

func (b Buffer) last() (scanner.Item, bool) {
	items, ok := b.items()
	if !ok || len(items) == 0 {
		return scanner.Item{}, false
	}
	return items[len(items)-1], true
}

// afterOperator reports whether the text ends in an operator or an
// opening group, where a new operand is expected.
func (b Buffer) afterOperator() bool {
	if it, ok := b.last(); ok {
		return it.Kind == token.OPERATOR || it.Kind == token.GROUP_OPEN
	}
	if strings.HasSuffix(b.text, token.GlyphMod) {
		return true
	}
	r := []rune(b.text)
	if len(r) == 0 {
		return false
	}
	return token.IsOperatorRune(r[len(r)-1]) || r[len(r)-1] == token.RuneParenL
}

// afterOperand reports whether the text ends in a completed operand, where
// a new operand needs an implicit multiplication.
func (b Buffer) afterOperand() bool {
	it, ok := b.last()
	return ok && it.IsOperand()
}

// endsInAtom reports whether the text ends in a constant or random marker,
// which digits never extend.
func (b Buffer) endsInAtom() bool {
	it, ok := b.last()
	if !ok {
		return false
	}
	return it.Kind == token.CONSTANT || (it.Kind == token.FUNCTION && it.Func == token.RANDOM)
}

// fresh starts over when the buffer holds a result or the error marker.
func (b Buffer) fresh() Buffer {
	if b.settled || b.errored {
		return New()
	}
	return b
}

// unsettled keeps the settled result text as the start of a new expression.
func (b Buffer) unsettled() Buffer {
	if b.errored {
		return New()
	}
	b.settled = false
	b.expression = ""
	return b
}

// replace sets the whole text, dropping any open groups with it.
func (b Buffer) replace(text string) Buffer {
	b.text = text
	b.openGroups = 0
	return b
}

// place inserts an operand glyph: it replaces the zero literal, follows a
// completed operand with an implicit "×", and is appended otherwise.
func (b Buffer) place(glyph string) Buffer {
	switch {
	case b.IsZero():
		return b.replace(glyph)
	case b.afterOperand():
		b.text += string(token.RuneMul) + glyph
	default:
		b.text += glyph
	}
	return b
}

// AppendDigit enters one decimal digit.
func (b Buffer) AppendDigit(d rune) Buffer {
	if !token.IsDigit(d) {
		return b
	}
	b = b.fresh()
	switch {
	case b.endsInAtom():
		b.text += string(token.RuneMul) + string(d)
	case b.IsZero() || (b.awaitingOperand && !b.afterOperator()):
		b = b.replace(string(d))
	default:
		b.text += string(d)
	}
	b.awaitingOperand = false
	return b
}

// AppendDecimalPoint starts or extends the fractional part of the trailing
// operand. It is a no-op when that operand already has a point.
func (b Buffer) AppendDecimalPoint() Buffer {
	if b.settled || b.errored {
		b = New().replace("0.")
		return b
	}
	if it, ok := b.last(); ok && it.Kind == token.NUMBER &&
		strings.ContainsAny(it.Value, ".eE") {
		return b
	}

	switch {
	case b.awaitingOperand && !b.afterOperator():
		b = b.replace("0.")
	case b.IsZero():
		b = b.replace("0.")
	case b.afterOperator():
		b.text += "0."
	case b.afterOperand() && !b.endsInNumber():
		b.text += string(token.RuneMul) + "0."
	default:
		b.text += "."
	}
	b.awaitingOperand = false
	return b
}

func (b Buffer) endsInNumber() bool {
	it, ok := b.last()
	return ok && it.Kind == token.NUMBER
}

// AppendOperator enters a binary operator. A trailing operator is replaced
// rather than stacked. A settled buffer continues from its result,
// formatted with n.
func (b Buffer) AppendOperator(op token.Op, n Notation) Buffer {
	if b.settled {
		result := b.result
		b = b.unsettled().replace(Format(result, n))
	} else if b.errored {
		b = New()
	}

	glyph := op.Glyph()
	if it, ok := b.last(); ok && it.Kind == token.OPERATOR {
		runes := []rune(b.text)
		b.text = string(runes[:it.Pos]) + glyph
	} else {
		b.text += glyph
	}
	b.awaitingOperand = true
	return b
}

// AppendFunction enters a bracketed function such as √( or sin(.
func (b Buffer) AppendFunction(fn token.Func) Buffer {
	b = b.fresh()
	b = b.place(fn.Glyph() + string(token.RuneParenL))
	b.openGroups++
	b.awaitingOperand = false
	return b
}

// WrapWhole surrounds the entire text with a self-closing bracket pair, as
// used for absolute value, floor and ceiling. Open groups are unchanged.
func (b Buffer) WrapWhole(g token.Group) Buffer {
	b = b.unsettled()
	b.text = string(g.Open()) + b.text + string(g.Close())
	b.awaitingOperand = false
	return b
}

// AppendPostfix appends ! or ² directly to the text.
func (b Buffer) AppendPostfix(k token.Kind) Buffer {
	var glyph rune
	switch k {
	case token.BANG:
		glyph = token.RuneBang
	case token.SQUARE:
		glyph = token.RuneSquare
	default:
		return b
	}
	b = b.unsettled()
	b.text += string(glyph)
	return b
}

// ToggleSign negates the expression by adding or removing a leading minus.
func (b Buffer) ToggleSign() Buffer {
	b = b.unsettled()
	sign := string(token.RuneSign)
	switch {
	case b.IsZero():
		b.text = sign
	case strings.HasPrefix(b.text, sign):
		b.text = strings.TrimPrefix(b.text, sign)
		if b.text == "" {
			b.text = token.ZeroLiteral
		}
	default:
		b.text = sign + b.text
	}
	return b
}

// OpenGroup enters "(".
func (b Buffer) OpenGroup() Buffer {
	b = b.fresh()
	b = b.place(string(token.RuneParenL))
	b.openGroups++
	return b
}

// CloseGroup enters ")" when a group is open.
func (b Buffer) CloseGroup() Buffer {
	if b.openGroups == 0 || b.settled || b.errored {
		return b
	}
	b.text += string(token.RuneParenR)
	b.openGroups--
	b.awaitingOperand = false
	return b
}

// InsertConstant enters π or e.
func (b Buffer) InsertConstant(c token.Constant) Buffer {
	b = b.fresh()
	b = b.place(string(c.Glyph()))
	b.awaitingOperand = false
	return b
}

// InsertRandomCall enters the random value marker.
func (b Buffer) InsertRandomCall() Buffer {
	b = b.fresh()
	b = b.place(token.GlyphRandom)
	b.awaitingOperand = false
	return b
}

// InsertValue enters a recalled value. After an operator or opening group
// it is appended as the next operand; anywhere else it replaces the text
// and the next digit starts over.
func (b Buffer) InsertValue(text string) Buffer {
	b = b.fresh()
	if !b.IsZero() && b.afterOperator() {
		b.text += text
		b.awaitingOperand = false
		return b
	}
	b = b.replace(text)
	b.awaitingOperand = true
	return b
}

// Closed returns the buffer with every open group closed.
func (b Buffer) Closed() Buffer {
	if b.openGroups > 0 {
		b.text += strings.Repeat(string(token.RuneParenR), b.openGroups)
		b.openGroups = 0
	}
	return b
}

// Settle records a successful evaluation of the current text.
func (b Buffer) Settle(result float64, n Notation) Buffer {
	return Buffer{
		text:            Format(result, n),
		awaitingOperand: true,
		settled:         true,
		expression:      b.text,
		result:          result,
	}
}

// Fail records a failed evaluation.
func (b Buffer) Fail() Buffer {
	return Buffer{text: token.ErrorMarker, errored: true}
}

// Display splits the buffer into its two views. While settled the
// secondary view is the evaluated expression and the primary the result;
// otherwise the secondary view is the whole text and the primary the
// trailing operand.
func (b Buffer) Display(n Notation) Display {
	switch {
	case b.settled:
		return Display{Primary: Format(b.result, n), Secondary: b.expression + "="}
	case b.errored:
		return Display{Primary: token.ErrorMarker}
	}
	return Display{Primary: b.TrailingOperand(), Secondary: b.text}
}

// TrailingOperand returns the lexemes after the last operator, group or
// function, or the zero literal if there are none.
func (b Buffer) TrailingOperand() string {
	items, ok := b.items()
	if !ok {
		return b.text
	}
	start := 0
	for i, it := range items {
		switch it.Kind {
		case token.OPERATOR, token.GROUP_OPEN, token.GROUP_CLOSE:
			start = i + 1
		case token.FUNCTION:
			if it.Func != token.RANDOM {
				start = i + 1
			}
		}
	}
	var sb strings.Builder
	for _, it := range items[start:] {
		sb.WriteString(it.Value)
	}
	if sb.Len() == 0 {
		return token.ZeroLiteral
	}
	return sb.String()
}

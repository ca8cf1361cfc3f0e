// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a longest-match Unicode lexer for calculator
// buffer text.
package scanner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"nickandperla.net/scicalc/internal/token"
)

// LexError reports a rune sequence that matches no token shape.
type LexError struct {
	Pos  int // Rune offset of the offending text
	Text string
	Msg  string
}

func (e *LexError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("lex error at %d: %s %q", e.Pos, e.Msg, e.Text)
	}
	return fmt.Sprintf("lex error at %d: unrecognized %q", e.Pos, e.Text)
}

// Item represents a scanned token with its lexeme.
type Item struct {
	Kind  token.Kind
	Value string // Lexeme exactly as it appears in the input
	Pos   int    // Rune offset where the lexeme starts
	Num   float64
	Op    token.Op
	Func  token.Func
	Const token.Constant
	Group token.Group
}

// IsOperand reports whether the item completes an operand: a number,
// constant, random marker, closing group or postfix operator.
func (it Item) IsOperand() bool {
	switch it.Kind {
	case token.NUMBER, token.CONSTANT, token.GROUP_CLOSE, token.BANG, token.SQUARE:
		return true
	case token.FUNCTION:
		return it.Func == token.RANDOM
	}
	return false
}

func (it Item) String() string {
	return fmt.Sprintf("%s(%q)", it.Kind, it.Value)
}

// word is a named lexeme matched literally.
type word struct {
	text     string
	kind     token.Kind
	fn       token.Func
	op       token.Op
	needOpen bool // only a function when "(" follows
}

// words are ordered so that longer lexemes sharing a prefix come first.
var words = []word{
	{text: token.GlyphRandom, kind: token.FUNCTION, fn: token.RANDOM},
	{text: "asin", kind: token.FUNCTION, fn: token.ASIN},
	{text: "acos", kind: token.FUNCTION, fn: token.ACOS},
	{text: "atan", kind: token.FUNCTION, fn: token.ATAN},
	{text: "sin", kind: token.FUNCTION, fn: token.SIN},
	{text: "cos", kind: token.FUNCTION, fn: token.COS},
	{text: "tan", kind: token.FUNCTION, fn: token.TAN},
	{text: token.GlyphLog, kind: token.FUNCTION, fn: token.LOG},
	{text: token.GlyphLn, kind: token.FUNCTION, fn: token.LN},
	{text: token.GlyphMod, kind: token.OPERATOR, op: token.MOD},
	{text: token.GlyphRecip, kind: token.FUNCTION, fn: token.RECIPROCAL, needOpen: true},
	{text: string(token.RuneSqrt), kind: token.FUNCTION, fn: token.SQRT},
}

// Scanner tokenizes calculator text rune-by-rune.
type Scanner struct {
	input []rune
	pos   int
	prev  *Item
	open  []token.Group // Groups opened and not yet closed
}

// NewFromString creates a new Scanner over s.
func NewFromString(s string) *Scanner {
	return &Scanner{input: []rune(s)}
}

// Scan tokenizes s completely. Empty input yields an empty slice.
func Scan(s string) ([]Item, error) {
	scan := NewFromString(s)
	var items []Item
	for {
		item, err := scan.Next()
		if err != nil {
			return nil, err
		}
		if item.Kind == token.EOF {
			return items, nil
		}
		items = append(items, *item)
	}
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	for s.pos < len(s.input) && unicode.IsSpace(s.input[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.input) {
		return &Item{Kind: token.EOF, Pos: s.pos}, nil
	}

	item, err := s.scanItem()
	if err != nil {
		return nil, err
	}
	s.prev = item
	return item, nil
}

// operandPosition reports whether the next lexeme starts an operand.
func (s *Scanner) operandPosition() bool {
	if s.prev == nil {
		return true
	}
	switch s.prev.Kind {
	case token.OPERATOR, token.GROUP_OPEN:
		return true
	case token.FUNCTION:
		return s.prev.Func != token.RANDOM
	}
	return false
}

func (s *Scanner) scanItem() (*Item, error) {
	start := s.pos
	r := s.input[s.pos]

	if w, ok := s.matchWord(start); ok {
		s.pos += len([]rune(w.text))
		return &Item{Kind: w.kind, Value: w.text, Pos: start, Func: w.fn, Op: w.op}, nil
	}

	switch {
	case r == token.RuneSign && s.operandPosition() && s.signedNumberAhead():
		return s.scanNumber()
	case token.IsDigit(r) || r == token.RuneDecimal:
		return s.scanNumber()
	}

	s.pos++
	lexeme := string(r)
	switch r {
	case token.RuneAdd, token.RuneSub, token.RuneSign, token.RuneMul, token.RuneDiv, token.RunePow, '*', '/', '%':
		op, _ := token.OpFromGlyph(lexeme)
		return &Item{Kind: token.OPERATOR, Value: lexeme, Pos: start, Op: op}, nil
	case token.RunePi:
		return &Item{Kind: token.CONSTANT, Value: lexeme, Pos: start, Const: token.PI}, nil
	case token.RuneE:
		return &Item{Kind: token.CONSTANT, Value: lexeme, Pos: start, Const: token.E}, nil
	case token.RuneBang:
		return &Item{Kind: token.BANG, Value: lexeme, Pos: start, Func: token.FACTORIAL}, nil
	case token.RuneSquare:
		return &Item{Kind: token.SQUARE, Value: lexeme, Pos: start, Func: token.SQR}, nil
	case token.RuneAbs:
		// A bar at an operand position opens; anywhere else it closes.
		if s.operandPosition() {
			s.open = append(s.open, token.ABS_BARS)
			return &Item{Kind: token.GROUP_OPEN, Value: lexeme, Pos: start, Group: token.ABS_BARS}, nil
		}
		return s.closeGroup(start, r, token.ABS_BARS)
	}

	if g, ok := token.GroupFromOpen(r); ok {
		s.open = append(s.open, g)
		return &Item{Kind: token.GROUP_OPEN, Value: lexeme, Pos: start, Group: g}, nil
	}
	if g, ok := token.GroupFromClose(r); ok {
		return s.closeGroup(start, r, g)
	}

	return nil, &LexError{Pos: start, Text: lexeme}
}

// closeGroup pops the innermost open group. Kind mismatches are left for
// the parser to report; a closer with nothing open is a lexical error.
func (s *Scanner) closeGroup(start int, r rune, g token.Group) (*Item, error) {
	if len(s.open) == 0 {
		return nil, &LexError{Pos: start, Text: string(r), Msg: "unmatched closing"}
	}
	s.open = s.open[:len(s.open)-1]
	return &Item{Kind: token.GROUP_CLOSE, Value: string(r), Pos: start, Group: g}, nil
}

func (s *Scanner) hasPrefix(at int, text string) bool {
	for _, r := range text {
		if at >= len(s.input) || s.input[at] != r {
			return false
		}
		at++
	}
	return true
}

func (s *Scanner) matchWord(at int) (word, bool) {
	for _, w := range words {
		if !s.hasPrefix(at, w.text) {
			continue
		}
		if w.needOpen {
			next := at + len([]rune(w.text))
			if next >= len(s.input) || s.input[next] != token.RuneParenL {
				continue
			}
		}
		return w, true
	}
	return word{}, false
}

// signedNumberAhead reports whether the sign at s.pos introduces a numeric
// literal rather than negating a function such as "-1/(".
func (s *Scanner) signedNumberAhead() bool {
	next := s.pos + 1
	if next >= len(s.input) {
		return false
	}
	r := s.input[next]
	if !token.IsDigit(r) && r != token.RuneDecimal {
		return false
	}
	_, isWord := s.matchWord(next)
	return !isWord
}

// scanNumber reads [-]digits[.digits][e[+-]digits].
func (s *Scanner) scanNumber() (*Item, error) {
	start := s.pos
	var sb strings.Builder
	if s.input[s.pos] == token.RuneSign {
		sb.WriteRune(token.RuneSign)
		s.pos++
	}

	digits := 0
	seenPoint := false
	for s.pos < len(s.input) {
		r := s.input[s.pos]
		if token.IsDigit(r) {
			digits++
		} else if r == token.RuneDecimal && !seenPoint {
			seenPoint = true
		} else {
			break
		}
		sb.WriteRune(r)
		s.pos++
	}
	if digits == 0 {
		return nil, &LexError{Pos: start, Text: sb.String(), Msg: "number without digits"}
	}

	if exp := s.exponentLen(); exp > 0 {
		sb.WriteString(string(s.input[s.pos : s.pos+exp]))
		s.pos += exp
	}

	lexeme := sb.String()
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, &LexError{Pos: start, Text: lexeme, Msg: "malformed number"}
	}
	return &Item{Kind: token.NUMBER, Value: lexeme, Pos: start, Num: v}, nil
}

// exponentLen returns the length of an exponent suffix at s.pos, or 0.
func (s *Scanner) exponentLen() int {
	i := s.pos
	if i >= len(s.input) || (s.input[i] != 'e' && s.input[i] != 'E') {
		return 0
	}
	i++
	if i < len(s.input) && (s.input[i] == '+' || s.input[i] == '-') {
		i++
	}
	n := 0
	for i < len(s.input) && token.IsDigit(s.input[i]) {
		i++
		n++
	}
	if n == 0 {
		return 0
	}
	return i - s.pos
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines calculator token kinds and the display glyphs the
// expression buffer is built from.
package token

// Kind represents a calculator token type.
type Kind int

const (
	EOF Kind = iota
	NUMBER
	OPERATOR
	FUNCTION
	CONSTANT
	GROUP_OPEN
	GROUP_CLOSE
	BANG   // ! postfix factorial
	SQUARE // ² postfix square
)

// Display glyphs.
const (
	RuneAdd     = '+'
	RuneSub     = '−' // U+2212, binary minus as typed by the operator key
	RuneSign    = '-' // ASCII, produced by negate and by negative results
	RuneMul     = '×'
	RuneDiv     = '÷'
	RunePow     = '^'
	RuneBang    = '!'
	RuneSquare  = '²'
	RunePi      = 'π'
	RuneE       = 'e'
	RuneDecimal = '.'
	RuneParenL  = '('
	RuneParenR  = ')'
	RuneAbs     = '|'
	RuneFloorL  = '⌊'
	RuneFloorR  = '⌋'
	RuneCeilL   = '⌈'
	RuneCeilR   = '⌉'
	RuneSqrt    = '√'
	GlyphMod    = "mod"
	GlyphRandom = "rand()"
	GlyphExp    = "e^"
	GlyphPow10  = "10^"
	GlyphRecip  = "1/"
	GlyphLog    = "log"
	GlyphLn     = "ln"
	ErrorMarker = "Error"
	ZeroLiteral = "0"
)

// String returns the string representation of a token kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case NUMBER:
		return "NUMBER"
	case OPERATOR:
		return "OPERATOR"
	case FUNCTION:
		return "FUNCTION"
	case CONSTANT:
		return "CONSTANT"
	case GROUP_OPEN:
		return "GROUP_OPEN"
	case GROUP_CLOSE:
		return "GROUP_CLOSE"
	case BANG:
		return "BANG"
	case SQUARE:
		return "SQUARE"
	}
	return "UNKNOWN"
}

// IsPostfix returns true for the postfix operator kinds.
func (k Kind) IsPostfix() bool {
	return k == BANG || k == SQUARE
}

// Op is a binary operator.
type Op int

const (
	ADD Op = iota
	SUB
	MUL
	DIV
	POW
	MOD
)

// Binding strengths, low to high.
const (
	PrecAdditive       = 1
	PrecMultiplicative = 2
	PrecUnary          = 3
	PrecPower          = 4
	PrecPostfix        = 5
)

// Precedence returns the binding strength of a binary operator.
func (o Op) Precedence() int {
	switch o {
	case ADD, SUB:
		return PrecAdditive
	case MUL, DIV, MOD:
		return PrecMultiplicative
	case POW:
		return PrecPower
	}
	return 0
}

// RightAssoc reports whether the operator groups right to left.
func (o Op) RightAssoc() bool {
	return o == POW
}

// Glyph returns the display form of the operator.
func (o Op) Glyph() string {
	switch o {
	case ADD:
		return string(RuneAdd)
	case SUB:
		return string(RuneSub)
	case MUL:
		return string(RuneMul)
	case DIV:
		return string(RuneDiv)
	case POW:
		return string(RunePow)
	case MOD:
		return GlyphMod
	}
	return "?"
}

func (o Op) String() string { return o.Glyph() }

// OpFromGlyph maps a display or ASCII operator spelling to an Op.
func OpFromGlyph(s string) (Op, bool) {
	switch s {
	case "+":
		return ADD, true
	case "−", "-":
		return SUB, true
	case "×", "*":
		return MUL, true
	case "÷", "/":
		return DIV, true
	case "^":
		return POW, true
	case GlyphMod, "%":
		return MOD, true
	}
	return 0, false
}

// Func identifies a unary function.
type Func int

const (
	NONE Func = iota
	SQRT
	LOG
	LN
	EXP
	RECIPROCAL
	NEGATE
	FACTORIAL
	POWER10
	ABS
	FLOOR
	CEIL
	RANDOM
	SQR
	SIN
	COS
	TAN
	ASIN
	ACOS
	ATAN
)

var funcNames = map[Func]string{
	NONE:       "none",
	SQRT:       "sqrt",
	LOG:        "log",
	LN:         "ln",
	EXP:        "exp",
	RECIPROCAL: "reciprocal",
	NEGATE:     "negate",
	FACTORIAL:  "factorial",
	POWER10:    "power10",
	ABS:        "abs",
	FLOOR:      "floor",
	CEIL:       "ceil",
	RANDOM:     "rand",
	SQR:        "square",
	SIN:        "sin",
	COS:        "cos",
	TAN:        "tan",
	ASIN:       "asin",
	ACOS:       "acos",
	ATAN:       "atan",
}

func (f Func) String() string {
	if s, ok := funcNames[f]; ok {
		return s
	}
	return "unknown"
}

// Glyph returns the text a function key inserts ahead of its "(".
func (f Func) Glyph() string {
	switch f {
	case SQRT:
		return string(RuneSqrt)
	case EXP:
		return GlyphExp
	case POWER10:
		return GlyphPow10
	case RECIPROCAL:
		return GlyphRecip
	case LOG:
		return GlyphLog
	case LN:
		return GlyphLn
	case RANDOM:
		return GlyphRandom
	}
	return f.String()
}

// IsTrig reports whether f is a forward trigonometric function.
func (f Func) IsTrig() bool {
	return f == SIN || f == COS || f == TAN
}

// IsInverseTrig reports whether f is an inverse trigonometric function.
func (f Func) IsInverseTrig() bool {
	return f == ASIN || f == ACOS || f == ATAN
}

// Inverse returns the "a"-prefixed inverse of a forward trig function.
func (f Func) Inverse() Func {
	switch f {
	case SIN:
		return ASIN
	case COS:
		return ACOS
	case TAN:
		return ATAN
	}
	return f
}

// Constant identifies a named constant.
type Constant int

const (
	PI Constant = iota
	E
)

// Glyph returns the display form of the constant.
func (c Constant) Glyph() rune {
	if c == E {
		return RuneE
	}
	return RunePi
}

// Group identifies a delimiter pair.
type Group int

const (
	PAREN Group = iota
	ABS_BARS
	FLOOR_BRACKETS
	CEIL_BRACKETS
)

// Open returns the opening glyph.
func (g Group) Open() rune {
	switch g {
	case ABS_BARS:
		return RuneAbs
	case FLOOR_BRACKETS:
		return RuneFloorL
	case CEIL_BRACKETS:
		return RuneCeilL
	}
	return RuneParenL
}

// Close returns the closing glyph.
func (g Group) Close() rune {
	switch g {
	case ABS_BARS:
		return RuneAbs
	case FLOOR_BRACKETS:
		return RuneFloorR
	case CEIL_BRACKETS:
		return RuneCeilR
	}
	return RuneParenR
}

// Func returns the function applied to the group's contents, or NONE.
func (g Group) Func() Func {
	switch g {
	case ABS_BARS:
		return ABS
	case FLOOR_BRACKETS:
		return FLOOR
	case CEIL_BRACKETS:
		return CEIL
	}
	return NONE
}

// GroupForFunc returns the wrapping group for abs, floor and ceil.
func GroupForFunc(f Func) (Group, bool) {
	switch f {
	case ABS:
		return ABS_BARS, true
	case FLOOR:
		return FLOOR_BRACKETS, true
	case CEIL:
		return CEIL_BRACKETS, true
	}
	return PAREN, false
}

// GroupFromOpen returns the group opened by r. The abs bar is ambiguous and
// is reported as an opener here; the scanner decides by position.
func GroupFromOpen(r rune) (Group, bool) {
	switch r {
	case RuneParenL:
		return PAREN, true
	case RuneAbs:
		return ABS_BARS, true
	case RuneFloorL:
		return FLOOR_BRACKETS, true
	case RuneCeilL:
		return CEIL_BRACKETS, true
	}
	return PAREN, false
}

// GroupFromClose returns the group closed by r.
func GroupFromClose(r rune) (Group, bool) {
	switch r {
	case RuneParenR:
		return PAREN, true
	case RuneAbs:
		return ABS_BARS, true
	case RuneFloorR:
		return FLOOR_BRACKETS, true
	case RuneCeilR:
		return CEIL_BRACKETS, true
	}
	return PAREN, false
}

// IsOperatorRune returns true if r is a single-rune binary operator glyph.
func IsOperatorRune(r rune) bool {
	switch r {
	case RuneAdd, RuneSub, RuneSign, RuneMul, RuneDiv, RunePow, '*', '/', '%':
		return true
	}
	return false
}

// IsDigit returns true for ASCII decimal digits.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

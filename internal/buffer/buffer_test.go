package buffer

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"nickandperla.net/scicalc/internal/scanner"
	"nickandperla.net/scicalc/internal/token"
)

// edit is one key press applied to a buffer.
type edit func(Buffer) Buffer

func digit(r rune) edit              { return func(b Buffer) Buffer { return b.AppendDigit(r) } }
func operator(op token.Op) edit      { return func(b Buffer) Buffer { return b.AppendOperator(op, Plain) } }
func function(fn token.Func) edit    { return func(b Buffer) Buffer { return b.AppendFunction(fn) } }
func constant(c token.Constant) edit { return func(b Buffer) Buffer { return b.InsertConstant(c) } }
func wrap(g token.Group) edit        { return func(b Buffer) Buffer { return b.WrapWhole(g) } }
func postfix(k token.Kind) edit      { return func(b Buffer) Buffer { return b.AppendPostfix(k) } }
func value(s string) edit            { return func(b Buffer) Buffer { return b.InsertValue(s) } }

var (
	point      edit = Buffer.AppendDecimalPoint
	sign       edit = Buffer.ToggleSign
	openParen  edit = Buffer.OpenGroup
	closeParen edit = Buffer.CloseGroup
	random     edit = Buffer.InsertRandomCall
	clearAll   edit = Buffer.Clear
)

func apply(b Buffer, edits ...edit) Buffer {
	for _, e := range edits {
		b = e(b)
	}
	return b
}

// typed enters each rune of s as a digit or decimal point.
func typed(s string) []edit {
	var out []edit
	for _, r := range s {
		if r == '.' {
			out = append(out, point)
		} else {
			out = append(out, digit(r))
		}
	}
	return out
}

func seq(groups ...[]edit) []edit {
	var out []edit
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func one(e ...edit) []edit { return e }

func TestEdits(t *testing.T) {
	tests := []struct {
		name  string
		edits []edit
		want  string
		open  int
	}{
		{"initial", nil, "0", 0},
		{"digits", typed("12"), "12", 0},
		{"leading zero replaced", typed("07"), "7", 0},
		{"operator", seq(typed("5"), one(operator(token.ADD))), "5+", 0},
		{"operator replaced", seq(typed("5"), one(operator(token.ADD), operator(token.MUL))), "5×", 0},
		{"mod replaced", seq(typed("5"), one(operator(token.MOD), operator(token.ADD))), "5+", 0},
		{"operator on zero", one(operator(token.SUB)), "0−", 0},
		{"operand after operator", seq(typed("5"), one(operator(token.ADD)), typed("3")), "5+3", 0},

		{"decimal on zero", one(point), "0.", 0},
		{"decimal extends", seq(typed("5"), one(point)), "5.", 0},
		{"second decimal ignored", seq(typed("5"), one(point, point)), "5.", 0},
		{"decimal after operator", seq(typed("5"), one(operator(token.ADD), point)), "5+0.", 0},
		{"decimal per operand", seq(typed("1.5"), one(operator(token.ADD)), typed("2"), one(point)), "1.5+2.", 0},
		{"decimal after constant", one(constant(token.PI), point), "π×0.", 0},
		{"decimal after postfix", seq(typed("2.5"), one(postfix(token.BANG), point)), "2.5!×0.", 0},

		{"function on zero", one(function(token.SQRT)), "√(", 1},
		{"function implicit multiply", seq(typed("5"), one(function(token.SQRT))), "5×√(", 1},
		{"function after operator", seq(typed("5"), one(operator(token.ADD), function(token.SQRT))), "5+√(", 1},
		{"trig", one(function(token.SIN)), "sin(", 1},
		{"exp", one(function(token.EXP)), "e^(", 1},
		{"power of ten", one(function(token.POWER10)), "10^(", 1},
		{"reciprocal", one(function(token.RECIPROCAL)), "1/(", 1},

		{"open on zero", one(openParen), "(", 1},
		{"open implicit multiply", seq(typed("5"), one(openParen)), "5×(", 1},
		{"close with nothing open", seq(typed("5"), one(closeParen)), "5", 0},
		{"close", seq(one(openParen), typed("2"), one(closeParen)), "(2)", 0},
		{"nested", seq(one(openParen, function(token.SQRT)), typed("4"), one(closeParen)), "(√(4)", 1},
		{"operand after close", seq(one(openParen), typed("2"), one(closeParen, constant(token.PI))), "(2)×π", 0},

		{"constant on zero", one(constant(token.PI)), "π", 0},
		{"constant implicit multiply", seq(typed("5"), one(constant(token.PI))), "5×π", 0},
		{"constant after operator", seq(typed("5"), one(operator(token.ADD), constant(token.E))), "5+e", 0},
		{"digit after constant", seq(one(constant(token.PI)), typed("2")), "π×2", 0},

		{"random on zero", one(random), "rand()", 0},
		{"random implicit multiply", seq(typed("2"), one(random)), "2×rand()", 0},
		{"digit after random", seq(typed("2"), one(random), typed("3")), "2×rand()×3", 0},

		{"sign on zero", one(sign), "-", 0},
		{"sign then digit", seq(one(sign), typed("5")), "-5", 0},
		{"sign on number", seq(typed("5"), one(sign)), "-5", 0},
		{"sign removed", seq(typed("5"), one(sign, sign)), "5", 0},
		{"bare sign removed", one(sign, sign), "0", 0},
		{"sign on expression", seq(typed("2"), one(operator(token.ADD)), typed("3"), one(sign)), "-2+3", 0},

		{"wrap abs", seq(typed("2"), one(operator(token.SUB)), typed("3"), one(wrap(token.ABS_BARS))), "|2−3|", 0},
		{"wrap floor", seq(typed("2.5"), one(wrap(token.FLOOR_BRACKETS))), "⌊2.5⌋", 0},
		{"wrap keeps open groups", seq(one(openParen), typed("2"), one(wrap(token.CEIL_BRACKETS))), "⌈(2⌉", 1},
		{"wrap around open function", seq(one(function(token.SQRT)), typed("16"), one(wrap(token.ABS_BARS))), "|√(16|", 1},

		{"factorial", seq(typed("5"), one(postfix(token.BANG))), "5!", 0},
		{"square", seq(typed("5"), one(postfix(token.SQUARE))), "5²", 0},
		{"not a postfix", seq(typed("5"), one(postfix(token.NUMBER))), "5", 0},

		{"value on zero", one(value("7")), "7", 0},
		{"value after operator", seq(typed("5"), one(operator(token.ADD), value("7"))), "5+7", 0},
		{"value replaces operand", seq(typed("5"), one(value("7"))), "7", 0},
		{"digit after value starts over", seq(typed("5"), one(value("7")), typed("3")), "3", 0},
		{"value after open", seq(one(openParen, value("7"))), "(7", 1},

		{"clear", seq(one(openParen), typed("12"), one(clearAll)), "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := apply(New(), tt.edits...)
			if b.Text() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, b.Text())
			}
			if b.OpenGroups() != tt.open {
				t.Errorf("expected %d open groups, got %d", tt.open, b.OpenGroups())
			}
		})
	}
}

func TestEditsDoNotMutateReceiver(t *testing.T) {
	b := apply(New(), typed("12")...)
	_ = b.AppendOperator(token.ADD, Plain)
	_ = b.OpenGroup()
	if b.Text() != "12" || b.OpenGroups() != 0 {
		t.Errorf("receiver changed: %q with %d open", b.Text(), b.OpenGroups())
	}
}

func TestAwaitingOperand(t *testing.T) {
	b := apply(New(), typed("5")...)
	if b.AwaitingOperand() {
		t.Errorf("expected not awaiting after a digit")
	}
	b = b.AppendOperator(token.ADD, Plain)
	if !b.AwaitingOperand() {
		t.Errorf("expected awaiting after an operator")
	}
	b = b.AppendDigit('3')
	if b.AwaitingOperand() {
		t.Errorf("expected not awaiting after an operand digit")
	}

	b = apply(New(), one(openParen)...)
	b = apply(b, typed("2")...)
	b = b.CloseGroup()
	if b.AwaitingOperand() {
		t.Errorf("expected not awaiting after a closed group")
	}
}

func TestClosed(t *testing.T) {
	b := apply(New(), seq(one(function(token.SQRT), openParen), typed("4"))...)
	closed := b.Closed()
	if closed.Text() != "√((4))" {
		t.Errorf("expected √((4)), got %q", closed.Text())
	}
	if closed.OpenGroups() != 0 {
		t.Errorf("expected no open groups, got %d", closed.OpenGroups())
	}
	if b.Closed().Closed().Text() != closed.Text() {
		t.Errorf("Closed is not idempotent")
	}
}

func TestSettle(t *testing.T) {
	b := apply(New(), seq(typed("2"), one(operator(token.ADD)), typed("3"))...)
	b = b.Settle(5, Plain)

	if !b.Settled() || b.Text() != "5" || b.Expression() != "2+3" || b.Result() != 5 {
		t.Fatalf("unexpected settled state: %+v", b)
	}
	if !b.AwaitingOperand() {
		t.Errorf("expected awaiting operand after settle")
	}
	d := b.Display(Plain)
	if d.Primary != "5" || d.Secondary != "2+3=" {
		t.Errorf("expected 5 / 2+3=, got %q / %q", d.Primary, d.Secondary)
	}

	// A digit starts over; an operator continues from the result.
	if got := b.AppendDigit('7'); got.Text() != "7" || got.Settled() {
		t.Errorf("expected fresh 7, got %q (settled=%v)", got.Text(), got.Settled())
	}
	if got := b.AppendOperator(token.MUL, Plain); got.Text() != "5×" || got.Settled() {
		t.Errorf("expected 5×, got %q", got.Text())
	}
	if got := b.AppendDecimalPoint(); got.Text() != "0." {
		t.Errorf("expected 0., got %q", got.Text())
	}
	if got := b.AppendFunction(token.SQRT); got.Text() != "√(" {
		t.Errorf("expected √(, got %q", got.Text())
	}
	if got := b.AppendPostfix(token.BANG); got.Text() != "5!" || got.Settled() {
		t.Errorf("expected 5!, got %q", got.Text())
	}
	if got := b.ToggleSign(); got.Text() != "-5" {
		t.Errorf("expected -5, got %q", got.Text())
	}
	if got := b.CloseGroup(); got.Text() != "5" {
		t.Errorf("expected close to be ignored, got %q", got.Text())
	}

	sci := New().AppendDigit('1').Settle(1234.5, Plain)
	if got := sci.AppendOperator(token.ADD, Scientific); got.Text() != "1.234500000e+3+" {
		t.Errorf("expected scientific continuation, got %q", got.Text())
	}
	if d := sci.Display(Scientific); d.Primary != "1.234500000e+3" {
		t.Errorf("expected scientific primary, got %q", d.Primary)
	}
}

func TestSettledResultRescans(t *testing.T) {
	b := New().Settle(1.5e-8, Plain).AppendOperator(token.MUL, Plain).AppendDigit('2')
	items, err := scanner.Scan(b.Text())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 || items[0].Num != 1.5e-8 {
		t.Errorf("expected exponent literal to scan as one number, got %v", items)
	}
}

func TestFail(t *testing.T) {
	b := apply(New(), typed("12")...).Fail()
	if !b.Errored() || b.Text() != token.ErrorMarker {
		t.Fatalf("expected error marker, got %q", b.Text())
	}
	d := b.Display(Plain)
	if d.Primary != "Error" || d.Secondary != "" {
		t.Errorf("expected Error / empty, got %q / %q", d.Primary, d.Secondary)
	}

	for name, e := range map[string]edit{
		"digit":    digit('3'),
		"decimal":  point,
		"operator": operator(token.ADD),
		"function": function(token.SQRT),
		"open":     openParen,
		"constant": constant(token.PI),
		"random":   random,
		"value":    value("4"),
		"sign":     sign,
		"postfix":  postfix(token.BANG),
	} {
		got := e(b)
		if got.Errored() || strings.Contains(got.Text(), token.ErrorMarker) {
			t.Errorf("%s: expected a fresh buffer, got %q", name, got.Text())
		}
	}
	if got := b.CloseGroup(); !got.Errored() {
		t.Errorf("expected close to be ignored while errored")
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		edits   []edit
		primary string
	}{
		{nil, "0"},
		{seq(typed("12"), one(operator(token.ADD)), typed("3.5")), "3.5"},
		{seq(typed("12"), one(operator(token.ADD))), "0"},
		{seq(one(function(token.SIN)), typed("30")), "30"},
		{seq(typed("2"), one(operator(token.MUL), constant(token.PI))), "π"},
		{seq(typed("5"), one(postfix(token.BANG))), "5!"},
		{seq(one(openParen), typed("2"), one(closeParen)), "0"},
		{one(sign), "0"},
	}

	for _, tt := range tests {
		b := apply(New(), tt.edits...)
		d := b.Display(Plain)
		if d.Primary != tt.primary {
			t.Errorf("%q: expected primary %q, got %q", b.Text(), tt.primary, d.Primary)
		}
		if d.Secondary != b.Text() {
			t.Errorf("%q: expected secondary to be the text, got %q", b.Text(), d.Secondary)
		}
		if b.Display(Plain) != d {
			t.Errorf("%q: Display is not repeatable", b.Text())
		}
	}
}

// unmatched counts "(" in s without a following ")".
func unmatched(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case '(':
			n++
		case ')':
			if n > 0 {
				n--
			}
		}
	}
	return n
}

func TestOpenGroupsTracksText(t *testing.T) {
	edits := []edit{
		digit('1'), digit('2'), digit('0'), point, sign, openParen, closeParen, random,
		operator(token.ADD), operator(token.SUB), operator(token.MUL),
		operator(token.DIV), operator(token.POW), operator(token.MOD),
		function(token.SQRT), function(token.SIN), function(token.LOG),
		function(token.RECIPROCAL), constant(token.PI), constant(token.E),
		wrap(token.ABS_BARS), wrap(token.FLOOR_BRACKETS),
		postfix(token.BANG), postfix(token.SQUARE), value("3.5"), value("-2"),
		func(b Buffer) Buffer { return b.Closed().Settle(42, Plain) },
		Buffer.Fail,
		clearAll,
	}

	r := rand.New(rand.NewPCG(1, 2))
	for run := 0; run < 200; run++ {
		b := New()
		for step := 0; step < 30; step++ {
			b = edits[r.IntN(len(edits))](b)
			if b.Text() == "" {
				t.Fatalf("run %d step %d: empty text", run, step)
			}
			if got := unmatched(b.Text()); got != b.OpenGroups() {
				t.Fatalf("run %d step %d: %q has %d unmatched but OpenGroups is %d",
					run, step, b.Text(), got, b.OpenGroups())
			}
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    float64
		n    Notation
		want string
	}{
		{5, Plain, "5"},
		{-2.5, Plain, "-2.5"},
		{0.1 + 0.2, Plain, "0.30000000000000004"},
		{123456789, Plain, "123456789"},
		{1e20, Plain, "100000000000000000000"},
		{1e21, Plain, "1e+21"},
		{1e-7, Plain, "0.0000001"},
		{1.5e-8, Plain, "1.5e-8"},
		{math.Copysign(0, -1), Plain, "0"},
		{0, Scientific, "0.000000000e+0"},
		{1234.5, Scientific, "1.234500000e+3"},
		{0.00012, Scientific, "1.200000000e-4"},
		{-5, Scientific, "-5.000000000e+0"},
	}

	for _, tt := range tests {
		if got := Format(tt.v, tt.n); got != tt.want {
			t.Errorf("Format(%v, %s): expected %q, got %q", tt.v, tt.n, tt.want, got)
		}
	}
}

func TestParseNotation(t *testing.T) {
	if n, ok := ParseNotation("sci"); !ok || n != Scientific {
		t.Errorf("expected sci to parse as Scientific")
	}
	if n, ok := ParseNotation("Plain"); !ok || n != Plain {
		t.Errorf("expected Plain to parse")
	}
	if _, ok := ParseNotation("hex"); ok {
		t.Errorf("expected hex to be rejected")
	}
}

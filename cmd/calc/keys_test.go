package main

import (
	"bytes"
	"strings"
	"testing"

	"nickandperla.net/scicalc/internal/config"
	"nickandperla.net/scicalc/pkg/calc"
)

func newEngine(t *testing.T, opts ...calc.Option) *calc.Engine {
	t.Helper()
	e := calc.New(opts...)
	t.Cleanup(func() { e.Close() })
	return e
}

func last(t *testing.T, e *calc.Engine, script string) result {
	t.Helper()
	results, err := run(e, script)
	if err != nil {
		t.Fatalf("run %q: %v", script, err)
	}
	if len(results) == 0 {
		t.Fatalf("run %q: no results", script)
	}
	return results[len(results)-1]
}

func TestScripts(t *testing.T) {
	tests := []struct {
		script  string
		primary string
	}{
		{"2 + 3 =", "5"},
		{"12.5 * 2 =", "25"},
		{"2 ^ 10 =", "1024"},
		{"7 mod 4 =", "3"},
		{"sqrt 16 =", "4"},
		{"5 sqrt 4 =", "10"},
		{"( 1 + 2 ) * 3 =", "9"},
		{"5 ! =", "120"},
		{"3 sq =", "9"},
		{"sin 90 =", "1"},
		{"rad 2nd cos 1 =", "0"},
		{"2 - 7 abs =", "5"},
		{"2.7 floor =", "2"},
		{"8 neg ^ 2 =", "-64"},
		{"pow10 3 =", "1000"},
		{"inv 4 =", "0.25"},
		{"ln e =", "1"},
		{"1 ÷ 0 =", "Error"},
		{"2 + 3 = * 2 =", "10"},
		{"sci 1234.5 =", "1.234500000e+3"},
		{"12 +", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			e := newEngine(t)
			r := last(t, e, tt.script)
			if r.display.Primary != tt.primary {
				t.Errorf("expected %q, got %q", tt.primary, r.display.Primary)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	e := newEngine(t)

	if r := last(t, e, "1 ÷ 0 ="); !strings.HasPrefix(r.message, "ArithmeticError") {
		t.Errorf("expected ArithmeticError message, got %q", r.message)
	}
	if r := last(t, e, "C 4 MS"); r.message != "M = 4" {
		t.Errorf("expected M = 4, got %q", r.message)
	}
	if r := last(t, e, "2nd"); r.message != "2nd on" {
		t.Errorf("expected 2nd on, got %q", r.message)
	}
	if r := last(t, e, "deg"); r.message != "DEG" {
		t.Errorf("expected DEG, got %q", r.message)
	}
}

func TestHistoryCommands(t *testing.T) {
	e := newEngine(t)
	if r := last(t, e, "hist"); r.message != "(no history)" {
		t.Errorf("expected empty history, got %q", r.message)
	}
	last(t, e, "1 + 1 = C 2 * 3 =")
	r := last(t, e, "hist")
	if r.message != " 1  1+1 = 2\n 2  2×3 = 6" {
		t.Errorf("unexpected history listing %q", r.message)
	}
	if r := last(t, e, "clearhist"); r.message != "history cleared" {
		t.Errorf("expected history cleared, got %q", r.message)
	}
}

func TestUnknownCommand(t *testing.T) {
	e := newEngine(t)
	results, err := run(e, "1 + foo 2")
	if err == nil {
		t.Fatal("expected an error for an unknown word")
	}
	if len(results) != 2 {
		t.Errorf("expected the words before the error to run, got %d results", len(results))
	}
}

func TestLookup(t *testing.T) {
	for _, w := range []string{"0", "12.5", "MR", "mr", "M+", "C", "=", "√"} {
		if _, ok := lookup(w); !ok {
			t.Errorf("expected %q to resolve", w)
		}
	}
	for _, w := range []string{"", "sinh", "1e5"} {
		if _, ok := lookup(w); ok {
			t.Errorf("expected %q to be rejected", w)
		}
	}
	for _, w := range rawKeys {
		if _, ok := lookup(w); !ok {
			t.Errorf("raw key word %q does not resolve", w)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.AngleMode = "rad"
	cfg.HistoryBackend = config.BackendSQLite
	cfg.HistoryCapacity = 2

	opts, err := options(cfg)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	e := newEngine(t, opts...)
	if e.AngleMode() != calc.Radians {
		t.Errorf("expected radians")
	}
	last(t, e, "1 = 2 = 3 =")
	entries, err := e.History()
	if err != nil || len(entries) != 2 {
		t.Errorf("expected 2 entries from the sqlite history, got %v %v", entries, err)
	}

	cfg.Notation = "hex"
	if _, err := options(cfg); err == nil {
		t.Errorf("expected invalid notation to be rejected")
	}
}

func TestBasicREPL(t *testing.T) {
	var out bytes.Buffer
	sc := &screen{w: &out}
	sc.engine = newEngine(t)

	runBasicREPL(sc, strings.NewReader("2 + 3\n=\nbogus\n"))

	got := out.String()
	for _, want := range []string{"2+3\n3  [DEG plain]", "2+3=\n5  [DEG plain]", `Error: unknown command "bogus"`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

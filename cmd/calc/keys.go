package main

import (
	"fmt"
	"strings"

	"nickandperla.net/scicalc/pkg/calc"
)

// result is what one command leaves on screen.
type result struct {
	display calc.Display
	message string // Extra output such as an error or the memory value
}

// command applies one key press (or named action) to the engine.
type command func(e *calc.Engine) result

func show(d calc.Display) result { return result{display: d} }

func key(f func(e *calc.Engine) calc.Display) command {
	return func(e *calc.Engine) result { return show(f(e)) }
}

func op(o calc.Op) command {
	return key(func(e *calc.Engine) calc.Display { return e.AppendOperator(o) })
}

func fn(f calc.Func) command {
	return key(func(e *calc.Engine) calc.Display { return e.AppendFunction(f) })
}

func trig(f calc.Func) command {
	return key(func(e *calc.Engine) calc.Display { return e.AppendTrig(f) })
}

func postfix(p calc.Postfix) command {
	return key(func(e *calc.Engine) calc.Display { return e.AppendPostfix(p) })
}

func constant(c calc.Constant) command {
	return key(func(e *calc.Engine) calc.Display { return e.InsertConstant(c) })
}

func memory(m calc.MemoryOp) command {
	return func(e *calc.Engine) result {
		v, d := e.MemoryApply(m)
		return result{display: d, message: fmt.Sprintf("M = %s", calc.Format(v, e.Notation()))}
	}
}

func angle(m calc.AngleMode) command {
	return func(e *calc.Engine) result {
		e.SetAngleMode(m)
		return result{display: e.Display(), message: m.String()}
	}
}

func notation(n calc.Notation) command {
	return func(e *calc.Engine) result {
		return result{display: e.SetNotation(n), message: n.String()}
	}
}

func evaluate(e *calc.Engine) result {
	out := e.Evaluate()
	if out.OK() {
		return show(out.Display)
	}
	return result{display: out.Display, message: fmt.Sprintf("%s: %v", out.Kind(), out.Err)}
}

func second(e *calc.Engine) result {
	state := "off"
	if e.ToggleSecondFunction() {
		state = "on"
	}
	return result{display: e.Display(), message: "2nd " + state}
}

func history(e *calc.Engine) result {
	entries, err := e.History()
	if err != nil {
		return result{display: e.Display(), message: fmt.Sprintf("history: %v", err)}
	}
	if len(entries) == 0 {
		return result{display: e.Display(), message: "(no history)"}
	}
	var sb strings.Builder
	for i, h := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%2d  %s = %s", i+1, h.Expression, calc.Format(h.Result, e.Notation()))
	}
	return result{display: e.Display(), message: sb.String()}
}

func clearHistory(e *calc.Engine) result {
	if err := e.ClearHistory(); err != nil {
		return result{display: e.Display(), message: fmt.Sprintf("history: %v", err)}
	}
	return result{display: e.Display(), message: "history cleared"}
}

// commands maps command words to actions. Memory keys are matched
// case-insensitively; everything else is lower case.
var commands = map[string]command{
	".":   key((*calc.Engine).AppendDecimalPoint),
	"+":   op(calc.Add),
	"-":   op(calc.Sub),
	"−":   op(calc.Sub),
	"*":   op(calc.Mul),
	"×":   op(calc.Mul),
	"/":   op(calc.Div),
	"÷":   op(calc.Div),
	"^":   op(calc.Pow),
	"mod": op(calc.Mod),
	"%":   op(calc.Mod),
	"(":   key((*calc.Engine).OpenGroup),
	")":   key((*calc.Engine).CloseGroup),
	"!":   postfix(calc.Factorial),
	"sq":  postfix(calc.Square),
	"²":   postfix(calc.Square),

	"sqrt":  fn(calc.Sqrt),
	"√":     fn(calc.Sqrt),
	"log":   fn(calc.Log),
	"ln":    fn(calc.Ln),
	"exp":   fn(calc.Exp),
	"inv":   fn(calc.Reciprocal),
	"pow10": fn(calc.Power10),
	"sin":   trig(calc.Sin),
	"cos":   trig(calc.Cos),
	"tan":   trig(calc.Tan),
	"abs":   fn(calc.Abs),
	"floor": fn(calc.Floor),
	"ceil":  fn(calc.Ceil),
	"neg":   key((*calc.Engine).ToggleSign),
	"pi":    constant(calc.Pi),
	"π":     constant(calc.Pi),
	"e":     constant(calc.E),
	"rand":  key((*calc.Engine).InsertRandomCall),

	"mc": memory(calc.MemoryClear),
	"mr": memory(calc.MemoryRecall),
	"m+": memory(calc.MemoryAdd),
	"m-": memory(calc.MemorySubtract),
	"ms": memory(calc.MemoryStore),

	"deg":   angle(calc.Degrees),
	"rad":   angle(calc.Radians),
	"2nd":   second,
	"sci":   notation(calc.Scientific),
	"plain": notation(calc.Plain),

	"=":         evaluate,
	"c":         key((*calc.Engine).Clear),
	"hist":      history,
	"clearhist": clearHistory,
}

// isNumber reports whether word is a run of digits and decimal points.
func isNumber(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// lookup resolves a command word. Digit runs such as 12.5 expand to one
// key press per rune.
func lookup(word string) (command, bool) {
	if isNumber(word) {
		return func(e *calc.Engine) result {
			var d calc.Display
			for _, r := range word {
				if r == '.' {
					d = e.AppendDecimalPoint()
				} else {
					d = e.AppendDigit(r)
				}
			}
			return show(d)
		}, true
	}
	c, ok := commands[strings.ToLower(word)]
	return c, ok
}

// run applies every whitespace-separated word in line and returns the
// results in order. It stops at the first unknown word.
func run(e *calc.Engine, line string) ([]result, error) {
	var results []result
	for _, word := range strings.Fields(line) {
		c, ok := lookup(word)
		if !ok {
			return results, fmt.Errorf("unknown command %q", word)
		}
		results = append(results, c(e))
	}
	return results, nil
}

// Package eval parses and evaluates calculator expressions without any
// dynamic code execution: text is scanned, parsed by precedence climbing,
// and the resulting tree is walked with 64-bit floating point.
package eval

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"nickandperla.net/scicalc/internal/expr"
	"nickandperla.net/scicalc/internal/token"
)

// AngleMode controls how trigonometric functions scale their operands.
type AngleMode int

const (
	// Degrees is the default: forward trig takes degrees, inverse trig returns them.
	Degrees AngleMode = iota
	// Radians applies the native functions unscaled.
	Radians
)

// String returns the string representation of an AngleMode.
func (m AngleMode) String() string {
	switch m {
	case Degrees:
		return "DEG"
	case Radians:
		return "RAD"
	default:
		return "UNKNOWN"
	}
}

// ParseAngleMode parses a string into an AngleMode.
func ParseAngleMode(s string) (AngleMode, bool) {
	switch strings.ToUpper(s) {
	case "DEG", "DEGREE", "DEGREES":
		return Degrees, true
	case "RAD", "RADIAN", "RADIANS":
		return Radians, true
	default:
		return Degrees, false
	}
}

// RandomSource returns a uniformly distributed value in [0,1).
type RandomSource func() float64

// Evaluator evaluates calculator text.
type Evaluator struct {
	angle  AngleMode
	random RandomSource
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithAngleMode sets the angle mode.
func WithAngleMode(m AngleMode) Option {
	return func(e *Evaluator) { e.angle = m }
}

// WithRandom sets the source for the random value marker.
func WithRandom(r RandomSource) Option {
	return func(e *Evaluator) { e.random = r }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		angle:  Degrees,
		random: rand.Float64,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AngleMode returns the current angle mode.
func (e *Evaluator) AngleMode() AngleMode {
	return e.angle
}

// SetAngleMode changes the angle mode used by subsequent evaluations.
func (e *Evaluator) SetAngleMode(m AngleMode) {
	e.angle = m
}

// Eval scans, parses and evaluates text. The result is always finite;
// anything else is reported as an *ArithmeticError.
func (e *Evaluator) Eval(text string) (float64, error) {
	tree, err := ParseString(text)
	if err != nil {
		return 0, err
	}
	return e.EvalExpr(tree)
}

// EvalExpr evaluates a parsed tree.
func (e *Evaluator) EvalExpr(tree expr.Expr) (float64, error) {
	v, err := e.eval(tree)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ArithmeticError{Value: v}
	}
	return v, nil
}

func (e *Evaluator) eval(node expr.Expr) (float64, error) {
	switch n := node.(type) {
	case expr.Number:
		return n.Value, nil

	case expr.Constant:
		if n.Which == token.E {
			return math.E, nil
		}
		return math.Pi, nil

	case expr.Random:
		return e.random(), nil

	case expr.Unary:
		v, err := e.eval(n.Operand)
		if err != nil {
			return 0, err
		}
		if n.Negate {
			return -v, nil
		}
		return v, nil

	case expr.Binary:
		l, err := e.eval(n.Left)
		if err != nil {
			return 0, err
		}
		r, err := e.eval(n.Right)
		if err != nil {
			return 0, err
		}
		return binary(n.Op, l, r), nil

	case expr.Postfix:
		v, err := e.eval(n.Operand)
		if err != nil {
			return 0, err
		}
		return e.apply(n.Func, v)

	case expr.Call:
		v, err := e.eval(n.Arg)
		if err != nil {
			return 0, err
		}
		return e.apply(n.Func, v)
	}
	return 0, fmt.Errorf("eval: unknown node %T", node)
}

func binary(op token.Op, l, r float64) float64 {
	switch op {
	case token.ADD:
		return l + r
	case token.SUB:
		return l - r
	case token.MUL:
		return l * r
	case token.DIV:
		return l / r
	case token.POW:
		return math.Pow(l, r)
	case token.MOD:
		// Truncated remainder with the sign of l; x mod 0 is NaN.
		return math.Mod(l, r)
	}
	return math.NaN()
}

func (e *Evaluator) apply(fn token.Func, v float64) (float64, error) {
	switch fn {
	case token.SQRT:
		return math.Sqrt(v), nil
	case token.LOG:
		return math.Log10(v), nil
	case token.LN:
		return math.Log(v), nil
	case token.RECIPROCAL:
		return 1 / v, nil
	case token.ABS:
		return math.Abs(v), nil
	case token.FLOOR:
		return math.Floor(v), nil
	case token.CEIL:
		return math.Ceil(v), nil
	case token.NEGATE:
		return -v, nil
	case token.SQR:
		return v * v, nil
	case token.FACTORIAL:
		return Factorial(v)
	case token.SIN:
		return math.Sin(e.toRadians(v)), nil
	case token.COS:
		return math.Cos(e.toRadians(v)), nil
	case token.TAN:
		return math.Tan(e.toRadians(v)), nil
	case token.ASIN:
		return e.fromRadians(math.Asin(v)), nil
	case token.ACOS:
		return e.fromRadians(math.Acos(v)), nil
	case token.ATAN:
		return e.fromRadians(math.Atan(v)), nil
	}
	return 0, fmt.Errorf("eval: unknown function %s", fn)
}

func (e *Evaluator) toRadians(v float64) float64 {
	if e.angle == Degrees {
		return v * math.Pi / 180
	}
	return v
}

func (e *Evaluator) fromRadians(v float64) float64 {
	if e.angle == Degrees {
		return v * 180 / math.Pi
	}
	return v
}

// Factorial returns n! for non-negative integral n.
func Factorial(n float64) (float64, error) {
	if math.IsNaN(n) || n < 0 || n != math.Trunc(n) {
		return 0, &DomainError{Func: token.FACTORIAL, Arg: n}
	}
	if n == 0 || n == 1 {
		return 1, nil
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
		// Past 170! the product is +Inf; stop instead of looping on.
		if math.IsInf(result, 1) {
			break
		}
	}
	return result, nil
}

package calc

import (
	"time"

	"nickandperla.net/scicalc/internal/buffer"
	"nickandperla.net/scicalc/internal/eval"
	"nickandperla.net/scicalc/internal/store"
	"nickandperla.net/scicalc/internal/token"
)

// Option configures an Engine.
type Option func(*Engine)

// Scheduler runs f once after d and returns a function that cancels it,
// reporting whether the call was stopped before it ran. f must run on
// another goroutine, never from inside the Scheduler call.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// AfterFunc schedules with the runtime timer.
func AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// WithAngleMode sets the initial angle mode.
func WithAngleMode(m AngleMode) Option {
	return func(e *Engine) {
		e.angle = m
	}
}

// WithNotation sets the initial result notation.
func WithNotation(n Notation) Option {
	return func(e *Engine) {
		e.notation = n
	}
}

// WithHistory uses h as the history log.
func WithHistory(h History) Option {
	return func(e *Engine) {
		e.history = h
	}
}

// WithHistoryCapacity sets the capacity of the default in-memory history.
func WithHistoryCapacity(n int) Option {
	return func(e *Engine) {
		e.historyCapacity = n
	}
}

// WithSQLiteHistory keeps the history in a SQLite database at path.
// Use store.MemoryDSN for a database that lives only as long as the
// engine. If the database cannot be opened the engine falls back to the
// in-memory history and reports the error to the error handler.
func WithSQLiteHistory(path string) Option {
	return func(e *Engine) {
		e.sqlitePath = path
	}
}

// WithResetDelay sets how long the error marker stays before the buffer
// resets.
func WithResetDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.resetDelay = d
	}
}

// WithScheduler replaces the timer used for the post-error reset.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.schedule = s
	}
}

// WithRandom sets the source for the random value marker.
func WithRandom(r func() float64) Option {
	return func(e *Engine) {
		e.random = r
	}
}

// WithErrorHandler receives errors the engine cannot return to a caller,
// such as history write failures.
func WithErrorHandler(h func(error)) Option {
	return func(e *Engine) {
		e.onError = h
	}
}

// WithResetHandler is called with the new display after the post-error
// reset fires.
func WithResetHandler(h func(Display)) Option {
	return func(e *Engine) {
		e.onReset = h
	}
}

// AngleMode selects degrees or radians for trigonometry.
type AngleMode = eval.AngleMode

// Angle mode constants.
const (
	Degrees = eval.Degrees
	Radians = eval.Radians
)

// ParseAngleMode parses a string into an AngleMode.
func ParseAngleMode(s string) (AngleMode, bool) {
	return eval.ParseAngleMode(s)
}

// Notation selects plain or scientific result formatting.
type Notation = buffer.Notation

// Notation constants.
const (
	Plain      = buffer.Plain
	Scientific = buffer.Scientific
)

// ParseNotation parses a string into a Notation.
func ParseNotation(s string) (Notation, bool) {
	return buffer.ParseNotation(s)
}

// Format renders v the way the display does.
func Format(v float64, n Notation) string {
	return buffer.Format(v, n)
}

// Display is the two-line view: Primary is the large line, Secondary the
// expression line above it.
type Display = buffer.Display

// Buffer is a snapshot of the expression being edited.
type Buffer = buffer.Buffer

// History is the calculation log interface.
type History = store.History

// HistoryEntry is one completed calculation.
type HistoryEntry = store.Entry

// Op is a binary operator key.
type Op = token.Op

// Operator constants.
const (
	Add = token.ADD
	Sub = token.SUB
	Mul = token.MUL
	Div = token.DIV
	Pow = token.POW
	Mod = token.MOD
)

// Func is a function key.
type Func = token.Func

// Function constants.
const (
	Sqrt       = token.SQRT
	Log        = token.LOG
	Ln         = token.LN
	Exp        = token.EXP
	Reciprocal = token.RECIPROCAL
	Power10    = token.POWER10
	Sin        = token.SIN
	Cos        = token.COS
	Tan        = token.TAN
	Asin       = token.ASIN
	Acos       = token.ACOS
	Atan       = token.ATAN
	Abs        = token.ABS
	Floor      = token.FLOOR
	Ceil       = token.CEIL
)

// Constant is π or e.
type Constant = token.Constant

// Constant keys.
const (
	Pi = token.PI
	E  = token.E
)

// Postfix is the factorial or square key.
type Postfix = token.Kind

// Postfix keys.
const (
	Factorial = token.BANG
	Square    = token.SQUARE
)

// ErrorKind classifies evaluation failures.
type ErrorKind = eval.ErrorKind

// Error kinds.
const (
	ErrNone       = eval.ErrNone
	ErrLex        = eval.ErrLex
	ErrSyntax     = eval.ErrSyntax
	ErrDomain     = eval.ErrDomain
	ErrArithmetic = eval.ErrArithmetic
)

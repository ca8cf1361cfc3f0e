// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package calc provides the public API for the calculator engine: one call
// per user action, each returning the display to render.
package calc

import (
	"strings"
	"sync"
	"time"

	"nickandperla.net/scicalc/internal/buffer"
	"nickandperla.net/scicalc/internal/config"
	"nickandperla.net/scicalc/internal/eval"
	"nickandperla.net/scicalc/internal/store"
	"nickandperla.net/scicalc/internal/token"
)

// MemoryOp is a memory key.
type MemoryOp string

// Memory keys.
const (
	MemoryClear    MemoryOp = "MC"
	MemoryRecall   MemoryOp = "MR"
	MemoryAdd      MemoryOp = "M+"
	MemorySubtract MemoryOp = "M-"
	MemoryStore    MemoryOp = "MS"
)

// ParseMemoryOp parses a memory key name.
func ParseMemoryOp(s string) (MemoryOp, bool) {
	switch op := MemoryOp(strings.ToUpper(s)); op {
	case MemoryClear, MemoryRecall, MemoryAdd, MemorySubtract, MemoryStore:
		return op, true
	}
	return "", false
}

// Outcome is the result of Evaluate. Err is nil on success.
type Outcome struct {
	Value   float64
	Err     error
	Display Display
}

// OK reports whether the evaluation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Kind classifies the failure, or ErrNone on success.
func (o Outcome) Kind() ErrorKind { return eval.Kind(o.Err) }

// Engine is one calculator instance. Every method is safe to call from the
// host while the post-error reset timer is pending.
type Engine struct {
	mu        sync.Mutex
	buf       buffer.Buffer
	evaluator *eval.Evaluator
	memory    float64
	second    bool

	angle           AngleMode
	notation        Notation
	history         History
	historyCapacity int
	sqlitePath      string
	resetDelay      time.Duration
	schedule        Scheduler
	random          func() float64
	onError         func(error)
	onReset         func(Display)

	cancelReset func() bool
	generation  uint64 // Bumped whenever a pending reset is superseded
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		buf:             buffer.New(),
		angle:           Degrees,
		notation:        Plain,
		historyCapacity: store.DefaultCapacity,
		resetDelay:      config.DefaultResetDelay,
		schedule:        AfterFunc,
	}
	for _, opt := range opts {
		opt(e)
	}

	evalOpts := []eval.Option{eval.WithAngleMode(e.angle)}
	if e.random != nil {
		evalOpts = append(evalOpts, eval.WithRandom(e.random))
	}
	e.evaluator = eval.New(evalOpts...)

	if e.history == nil && e.sqlitePath != "" {
		h, err := store.NewSQLite(e.sqlitePath, e.historyCapacity)
		if err != nil {
			e.reportError(err)
		} else {
			e.history = h
		}
	}
	if e.history == nil {
		e.history = store.NewMemory(e.historyCapacity)
	}
	return e
}

func (e *Engine) reportError(err error) {
	if e.onError != nil && err != nil {
		e.onError(err)
	}
}

// stopReset cancels any pending reset (caller must hold lock).
func (e *Engine) stopReset() {
	if e.cancelReset != nil {
		e.cancelReset()
		e.cancelReset = nil
	}
	e.generation++
}

// scheduleReset arms the post-error reset (caller must hold lock).
func (e *Engine) scheduleReset() {
	e.stopReset()
	gen := e.generation
	e.cancelReset = e.schedule(e.resetDelay, func() {
		e.mu.Lock()
		// A stopped timer may still fire once; only the latest arming counts.
		if gen != e.generation {
			e.mu.Unlock()
			return
		}
		e.cancelReset = nil
		e.buf = buffer.New()
		d := e.buf.Display(e.notation)
		onReset := e.onReset
		e.mu.Unlock()
		if onReset != nil {
			onReset(d)
		}
	})
}

// edit applies fn to the buffer after cancelling any pending reset.
func (e *Engine) edit(fn func(buffer.Buffer) buffer.Buffer) Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopReset()
	e.buf = fn(e.buf)
	return e.buf.Display(e.notation)
}

// AppendDigit enters a digit '0'-'9'.
func (e *Engine) AppendDigit(d rune) Display {
	return e.edit(func(b buffer.Buffer) buffer.Buffer { return b.AppendDigit(d) })
}

// AppendDecimalPoint enters a decimal point.
func (e *Engine) AppendDecimalPoint() Display {
	return e.edit(buffer.Buffer.AppendDecimalPoint)
}

// AppendOperator enters a binary operator.
func (e *Engine) AppendOperator(op Op) Display {
	return e.edit(func(b buffer.Buffer) buffer.Buffer { return b.AppendOperator(op, e.notation) })
}

// AppendFunction enters a bracketed function. Functions with their own key
// shape are routed to it: abs, floor and ceil wrap the whole expression,
// factorial and square are postfix, and rand inserts the random marker.
func (e *Engine) AppendFunction(fn Func) Display {
	return e.edit(func(b buffer.Buffer) buffer.Buffer {
		if g, ok := token.GroupForFunc(fn); ok {
			return b.WrapWhole(g)
		}
		switch fn {
		case token.NONE:
			return b
		case token.FACTORIAL:
			return b.AppendPostfix(token.BANG)
		case token.SQR:
			return b.AppendPostfix(token.SQUARE)
		case token.NEGATE:
			return b.ToggleSign()
		case token.RANDOM:
			return b.InsertRandomCall()
		}
		return b.AppendFunction(fn)
	})
}

// AppendTrig enters sin, cos or tan, or its inverse while the second
// function key is active. Inverse functions are entered as given.
func (e *Engine) AppendTrig(fn Func) Display {
	return e.edit(func(b buffer.Buffer) buffer.Buffer {
		switch {
		case fn.IsInverseTrig():
		case fn.IsTrig():
			if e.second {
				fn = fn.Inverse()
			}
		default:
			return b
		}
		return b.AppendFunction(fn)
	})
}

// WrapWhole wraps the entire expression in absolute value, floor or
// ceiling brackets.
func (e *Engine) WrapWhole(fn Func) Display {
	return e.edit(func(b buffer.Buffer) buffer.Buffer {
		g, ok := token.GroupForFunc(fn)
		if !ok {
			return b
		}
		return b.WrapWhole(g)
	})
}

// AppendPostfix enters factorial or square.
func (e *Engine) AppendPostfix(p Postfix) Display {
	return e.edit(func(b buffer.Buffer) buffer.Buffer { return b.AppendPostfix(p) })
}

// ToggleSign adds or removes the leading minus.
func (e *Engine) ToggleSign() Display {
	return e.edit(buffer.Buffer.ToggleSign)
}

// OpenGroup enters "(".
func (e *Engine) OpenGroup() Display {
	return e.edit(buffer.Buffer.OpenGroup)
}

// CloseGroup enters ")" if a group is open.
func (e *Engine) CloseGroup() Display {
	return e.edit(buffer.Buffer.CloseGroup)
}

// InsertConstant enters π or e.
func (e *Engine) InsertConstant(c Constant) Display {
	return e.edit(func(b buffer.Buffer) buffer.Buffer { return b.InsertConstant(c) })
}

// InsertRandomCall enters the random value marker.
func (e *Engine) InsertRandomCall() Display {
	return e.edit(buffer.Buffer.InsertRandomCall)
}

// Clear resets the buffer. Memory, history and modes are kept.
func (e *Engine) Clear() Display {
	return e.edit(buffer.Buffer.Clear)
}

// MemoryApply runs a memory key and returns the accumulator afterwards.
// M+, M- and MS evaluate the current text as typed, without closing open
// groups; if that fails they do nothing. MR inserts the accumulator into
// the buffer.
func (e *Engine) MemoryApply(op MemoryOp) (float64, Display) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch op {
	case MemoryClear:
		e.memory = 0
	case MemoryRecall:
		// Only recall edits the buffer, so only recall supersedes a reset.
		e.stopReset()
		e.buf = e.buf.InsertValue(buffer.Format(e.memory, e.notation))
	case MemoryAdd, MemorySubtract, MemoryStore:
		v, err := e.evaluator.Eval(e.buf.Text())
		if err != nil {
			break
		}
		switch op {
		case MemoryAdd:
			e.memory += v
		case MemorySubtract:
			e.memory -= v
		case MemoryStore:
			e.memory = v
		}
	}
	return e.memory, e.buf.Display(e.notation)
}

// Memory returns the accumulator.
func (e *Engine) Memory() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory
}

// SetAngleMode selects degrees or radians.
func (e *Engine) SetAngleMode(m AngleMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.angle = m
	e.evaluator.SetAngleMode(m)
}

// AngleMode returns the current angle mode.
func (e *Engine) AngleMode() AngleMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.angle
}

// ToggleSecondFunction flips the inverse-trig key state and returns it.
func (e *Engine) ToggleSecondFunction() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.second = !e.second
	return e.second
}

// SecondFunction reports whether the inverse-trig key state is active.
func (e *Engine) SecondFunction() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.second
}

// SetNotation selects plain or scientific result formatting.
func (e *Engine) SetNotation(n Notation) Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notation = n
	return e.buf.Display(e.notation)
}

// Notation returns the current result notation.
func (e *Engine) Notation() Notation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notation
}

// Evaluate closes any open groups and evaluates the buffer. On success the
// buffer settles on the result and the calculation is logged. On failure
// the buffer shows the error marker and resets itself after the reset
// delay unless another edit arrives first. Evaluate never panics.
func (e *Engine) Evaluate() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopReset()

	closed := e.buf.Closed()
	v, err := e.evaluator.Eval(closed.Text())
	if err != nil {
		e.buf = closed.Fail()
		e.scheduleReset()
		return Outcome{Err: err, Display: e.buf.Display(e.notation)}
	}

	e.buf = closed.Settle(v, e.notation)
	if herr := e.history.Append(store.Entry{Expression: closed.Text(), Result: v}); herr != nil {
		e.reportError(herr)
	}
	return Outcome{Value: v, Display: e.buf.Display(e.notation)}
}

// Display returns the current two-line view.
func (e *Engine) Display() Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Display(e.notation)
}

// Buffer returns a snapshot of the expression buffer.
func (e *Engine) Buffer() Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf
}

// History returns the calculation log, oldest first.
func (e *Engine) History() ([]HistoryEntry, error) {
	return e.history.Entries()
}

// ClearHistory empties the calculation log.
func (e *Engine) ClearHistory() error {
	return e.history.Clear()
}

// Close cancels any pending reset and releases the history.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.stopReset()
	e.mu.Unlock()
	return e.history.Close()
}

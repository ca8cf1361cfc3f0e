package eval

import (
	"errors"
	"fmt"
	"strconv"

	"nickandperla.net/scicalc/internal/scanner"
	"nickandperla.net/scicalc/internal/token"
)

// LexError is re-exported so callers need only this package to classify
// evaluation failures.
type LexError = scanner.LexError

// SyntaxError reports unbalanced or malformed grouping, or a missing operand.
type SyntaxError struct {
	Pos int // Rune offset in the evaluated text, -1 at end of input
	Msg string
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return "syntax error at end of input: " + e.Msg
	}
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// DomainError reports a function applied outside its domain.
type DomainError struct {
	Func token.Func
	Arg  float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error: %s(%s)", e.Func, strconv.FormatFloat(e.Arg, 'g', -1, 64))
}

// ArithmeticError reports a non-finite result.
type ArithmeticError struct {
	Value float64
}

func (e *ArithmeticError) Error() string {
	return "arithmetic error: result is " + strconv.FormatFloat(e.Value, 'g', -1, 64)
}

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrLex
	ErrSyntax
	ErrDomain
	ErrArithmetic
	ErrOther
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrLex:
		return "LexError"
	case ErrSyntax:
		return "SyntaxError"
	case ErrDomain:
		return "DomainError"
	case ErrArithmetic:
		return "ArithmeticError"
	default:
		return "error"
	}
}

// Kind classifies err into one of the evaluation error kinds.
func Kind(err error) ErrorKind {
	if err == nil {
		return ErrNone
	}
	var (
		lexErr    *LexError
		syntaxErr *SyntaxError
		domainErr *DomainError
		arithErr  *ArithmeticError
	)
	switch {
	case errors.As(err, &lexErr):
		return ErrLex
	case errors.As(err, &syntaxErr):
		return ErrSyntax
	case errors.As(err, &domainErr):
		return ErrDomain
	case errors.As(err, &arithErr):
		return ErrArithmetic
	}
	return ErrOther
}

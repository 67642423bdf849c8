package lx

import (
	"io"

	"github.com/l3x61/lx/internal/contract"
)

////////////////////////////////////////////////////////////////////////////////
//                              PUBLIC TYPES & CTORS
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
// The tag determines which Go type Value.Data holds.
type ValueTag int

const (
	VTNull    ValueTag = iota // nil
	VTBool                    // bool
	VTNum                     // float64
	VTStr                     // string
	VTClosure                 // *Closure
	VTNative                  // *Native
)

// Value is the universal runtime carrier used by the evaluator.
type Value struct {
	Tag  ValueTag
	Data any
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

func Bool(b bool) Value             { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value           { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value            { return Value{Tag: VTStr, Data: s} }
func ClosureVal(c *Closure) Value   { return Value{Tag: VTClosure, Data: c} }
func NativeVal(n *Native) Value     { return Value{Tag: VTNative, Data: n} }
func (v Value) String() string      { return FormatValue(v) }
func (v Value) IsNull() bool        { return v.Tag == VTNull }
func (v Value) AsNum() float64      { return v.Data.(float64) }
func (v Value) AsBool() bool        { return v.Data.(bool) }
func (v Value) AsStr() string       { return v.Data.(string) }
func (v Value) AsClosure() *Closure { return v.Data.(*Closure) }
func (v Value) AsNative() *Native   { return v.Data.(*Native) }

// Kind names the value's tag the way error messages spell it.
func (v Value) Kind() string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTClosure:
		return "closure"
	case VTNative:
		return "native"
	default:
		return "unknown"
	}
}

// Equal compares structurally for null, booleans, numbers and strings, and by
// identity for closures and natives. Values of different tags are unequal.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.AsBool() == b.AsBool()
	case VTNum:
		return a.AsNum() == b.AsNum()
	case VTStr:
		return a.AsStr() == b.AsStr()
	case VTClosure:
		return a.AsClosure() == b.AsClosure()
	case VTNative:
		return a.AsNative() == b.AsNative()
	}
	return false
}

// Closure pairs a parameter and a body with the environment live where the
// function was written. Body is a private clone of the source tree.
type Closure struct {
	Param string
	Body  Node
	Env   *Env
}

func (c *Closure) release() {
	c.Body = nil
	c.Env = nil
}

// CallCtx is passed to native functions.
type CallCtx struct {
	// Caller is the environment of the application that invoked the native.
	Caller  *Env
	Out     io.Writer
	Tracker *Tracker
}

// NativeFunc implements a native. It runs once all Arity arguments have been
// supplied; args has exactly Arity elements.
type NativeFunc func(ctx *CallCtx, args []Value) (Value, error)

// Native is a host function value. Multi-argument natives are curried: each
// application appends one argument to Args and, until Arity is reached,
// yields a fresh Native carrying the arguments so far.
type Native struct {
	Name  string
	Arity int
	Fn    NativeFunc
	Args  []Value
}

// NewNative builds an unapplied native.
func NewNative(name string, arity int, fn NativeFunc) *Native {
	contract.Require(arity >= 1, "arity")
	contract.Require(fn != nil, "fn")
	return &Native{Name: name, Arity: arity, Fn: fn}
}

// apply supplies one more argument.
func (n *Native) apply(ctx *CallCtx, arg Value) (Value, error) {
	args := make([]Value, 0, len(n.Args)+1)
	args = append(args, n.Args...)
	args = append(args, arg)
	if len(args) < n.Arity {
		next := &Native{Name: n.Name, Arity: n.Arity, Fn: n.Fn, Args: args}
		ctx.Tracker.Track(next)
		return NativeVal(next), nil
	}
	return n.Fn(ctx, args)
}

func (n *Native) release() {
	n.Args = nil
	n.Fn = nil
}

// ---- arithmetic shared by operators and natives ----

func opSymbol(op TokenType) string {
	switch op {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MULT:
		return "*"
	case DIV:
		return "/"
	}
	return op.String()
}

// arithmetic applies + - * / to two numbers. Errors carry no position.
func arithmetic(op TokenType, l, r Value) (Value, error) {
	for _, v := range [...]Value{l, r} {
		if v.Tag != VTNum {
			return Null, &Error{Kind: TypeError, Msg: "'" + opSymbol(op) + "' expects numbers, got " + v.Kind()}
		}
	}
	a, b := l.AsNum(), r.AsNum()
	switch op {
	case PLUS:
		return Num(a + b), nil
	case MINUS:
		return Num(a - b), nil
	case MULT:
		return Num(a * b), nil
	case DIV:
		if b == 0 {
			return Null, &Error{Kind: DivisionByZero, Msg: "division by zero"}
		}
		return Num(a / b), nil
	}
	contract.Assertf(false, "unknown arithmetic operator %v", op)
	return Null, nil
}

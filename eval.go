// eval.go: tree-walking evaluator.
//
// Evaluate is plain structural recursion over the AST: the Go call stack is
// the interpreter's call stack, so lx recursion depth costs host stack depth
// one-for-one and there is no tail-call elimination. MaxDepth turns the
// otherwise fatal Go stack overflow into a DepthExceeded error.
//
// Substitution is done only by binding: applying a closure opens a child of
// the closure's captured scope, binds the parameter there and evaluates the
// closure's own copy of the body. The AST is never rewritten.
//
// Every scope, closure, cloned body, string and partially applied native made
// here is registered with the Tracker, which alone may destroy them.
package lx

import (
	"io"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/l3x61/lx/internal/contract"
)

// Evaluator evaluates ASTs. It is not safe for concurrent use.
type Evaluator struct {
	Tracker *Tracker
	// MaxDepth bounds nested evaluation; zero means unbounded.
	MaxDepth int
	// Out is handed to natives through CallCtx.
	Out io.Writer

	depth int
}

// NewEvaluator returns an evaluator registering its objects with t.
func NewEvaluator(t *Tracker) *Evaluator {
	contract.Require(t != nil, "t")
	return &Evaluator{Tracker: t, Out: os.Stdout}
}

// Evaluate computes the value of n in env.
func (ev *Evaluator) Evaluate(n Node, env *Env) (Value, error) {
	if ev.MaxDepth > 0 && ev.depth >= ev.MaxDepth {
		return Null, at(n.Pos(), DepthExceeded, "evaluation nested deeper than %d", ev.MaxDepth)
	}
	ev.depth++
	defer func() { ev.depth-- }()

	switch n := n.(type) {
	case *Program:
		if n.Expr == nil {
			return Null, nil
		}
		return ev.Evaluate(n.Expr, env)
	case *Primary:
		return ev.primary(n, env)
	case *Binary:
		return ev.binary(n, env)
	case *Function:
		return ev.function(n, env), nil
	case *Application:
		return ev.application(n, env)
	case *Binding:
		return ev.binding(n, env)
	case *RecBinding:
		return ev.recBinding(n, env)
	case *Selection:
		return ev.selection(n, env)
	}
	contract.Assertf(false, "unknown node type %T", n)
	return Null, nil
}

// child opens a tracked scope below parent.
func (ev *Evaluator) child(parent *Env) *Env {
	e := NewEnv(parent)
	ev.Tracker.Track(e)
	return e
}

func (ev *Evaluator) primary(n *Primary, env *Env) (Value, error) {
	t := n.Token
	switch t.Type {
	case NULL:
		return Null, nil
	case TRUE:
		return Bool(true), nil
	case FALSE:
		return Bool(false), nil
	case NUMBER:
		f, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return Null, at(t, SyntaxError, "invalid number %q", t.Lexeme)
		}
		return Num(f), nil
	case STRING:
		s := Str(t.Lexeme[1 : len(t.Lexeme)-1])
		ev.Tracker.Track(s)
		return s, nil
	case ID:
		v, err := env.Lookup(t.Lexeme)
		if err != nil {
			return Null, positioned(err, t)
		}
		return v, nil
	}
	contract.Assertf(false, "primary with token %v", t.Type)
	return Null, nil
}

func (ev *Evaluator) binary(n *Binary, env *Env) (Value, error) {
	l, err := ev.Evaluate(n.Left, env)
	if err != nil {
		return Null, err
	}
	r, err := ev.Evaluate(n.Right, env)
	if err != nil {
		return Null, err
	}
	switch n.Op.Type {
	case EQUAL:
		return Bool(Equal(l, r)), nil
	case NOT_EQUAL:
		return Bool(!Equal(l, r)), nil
	}
	v, err := arithmetic(n.Op.Type, l, r)
	if err != nil {
		return Null, positioned(err, n.Op)
	}
	return v, nil
}

// function builds a closure over the current scope with its own copy of the body.
func (ev *Evaluator) function(n *Function, env *Env) Value {
	body := n.Body.Clone()
	c := &Closure{Param: n.Param.Lexeme, Body: body, Env: env}
	ev.Tracker.Track(body)
	ev.Tracker.Track(c)
	return ClosureVal(c)
}

func (ev *Evaluator) application(n *Application, env *Env) (Value, error) {
	fn, err := ev.Evaluate(n.Fn, env)
	if err != nil {
		return Null, err
	}
	arg, err := ev.Evaluate(n.Arg, env)
	if err != nil {
		return Null, err
	}
	if glog.V(9) {
		glog.Infof("apply %s to %s at %d:%d", FormatValue(fn), FormatValue(arg), n.Pos().Line, n.Pos().Col+1)
	}

	switch fn.Tag {
	case VTClosure:
		c := fn.AsClosure()
		scope := ev.child(c.Env)
		if err := scope.DeclareBind(c.Param, arg); err != nil {
			return Null, positioned(err, n.Pos())
		}
		return ev.Evaluate(c.Body, scope)
	case VTNative:
		ctx := &CallCtx{Caller: env, Out: ev.Out, Tracker: ev.Tracker}
		v, err := fn.AsNative().apply(ctx, arg)
		if err != nil {
			return Null, positioned(err, n.Pos())
		}
		return v, nil
	}
	return Null, at(n.Pos(), NotCallable, "%s is not callable", fn.Kind())
}

// binding evaluates a plain let. The value is computed in the outer scope, so
// the placeholder in the child is never visible to it.
func (ev *Evaluator) binding(n *Binding, env *Env) (Value, error) {
	name := n.Name.Lexeme
	scope := ev.child(env)
	if err := scope.DeclarePlaceholder(name); err != nil {
		return Null, positioned(err, n.Name)
	}
	v, err := ev.Evaluate(n.Value, env)
	if err != nil {
		return Null, err
	}
	if err := scope.Finalize(name, v); err != nil {
		return Null, positioned(err, n.Name)
	}
	return ev.Evaluate(n.Body, scope)
}

// recBinding evaluates a let rec. The value is computed in the child scope
// where the name is already a placeholder; only a function can refer to it
// without reading it, so any other value is rejected.
func (ev *Evaluator) recBinding(n *RecBinding, env *Env) (Value, error) {
	name := n.Name.Lexeme
	scope := ev.child(env)
	if err := scope.DeclarePlaceholder(name); err != nil {
		return Null, positioned(err, n.Name)
	}
	v, err := ev.Evaluate(n.Value, scope)
	if err != nil {
		return Null, err
	}
	if v.Tag != VTClosure {
		return Null, at(n.Name, RecursiveBinding, "'let rec %s' must bind a function, got %s", name, v.Kind())
	}
	if err := scope.Finalize(name, v); err != nil {
		return Null, positioned(err, n.Name)
	}
	return ev.Evaluate(n.Body, scope)
}

func (ev *Evaluator) selection(n *Selection, env *Env) (Value, error) {
	c, err := ev.Evaluate(n.Cond, env)
	if err != nil {
		return Null, err
	}
	if c.Tag != VTBool {
		return Null, at(n.Cond.Pos(), NotABoolean, "condition must be a boolean, got %s", c.Kind())
	}
	if c.AsBool() {
		return ev.Evaluate(n.Then, env)
	}
	return ev.Evaluate(n.Else, env)
}

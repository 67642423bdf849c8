// interpreter.go: driver-facing surface of the lx engine.
//
// OVERVIEW
// ========
// An Interpreter bundles what a driver needs for one session:
//   - Root: the root scope, holding the core natives and the result slot "_".
//   - Tracker: owner of every heap object the session creates.
//   - an Evaluator wired to both.
//
// Entry points:
//   - EvalSource: script mode. Parse and evaluate in Root.
//   - EvalLine:   REPL mode. Like EvalSource, then store the result in "_".
//   - EvalAST:    evaluate an already parsed tree in Root.
//
// lx has no statements, so a program cannot add names to Root; the only
// state that carries from one EvalLine to the next is "_". A failed line
// leaves Root as it was: the scopes it opened are unreachable and wait for
// the tracker like everything else.
//
// Close releases the tracker. Values returned earlier must not be used after
// Close.
package lx

import (
	"io"
	"os"

	"github.com/golang/glog"
)

// ResultName is the root slot EvalLine assigns after each successful line.
const ResultName = "_"

// Interpreter is the entry point for evaluating lx programs.
type Interpreter struct {
	Root    *Env
	Tracker *Tracker
	// Stdout receives output from natives such as env.
	Stdout io.Writer

	eval *Evaluator
}

// NewInterpreter constructs a session with the core natives installed.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		Root:    NewEnv(nil),
		Tracker: NewTracker(),
		Stdout:  os.Stdout,
	}
	ip.Tracker.Track(ip.Root)
	ip.eval = NewEvaluator(ip.Tracker)
	_ = ip.Root.DeclareBind(ResultName, Null)
	registerCoreNatives(ip)
	return ip
}

// SetMaxDepth bounds evaluation nesting; zero means unbounded.
func (ip *Interpreter) SetMaxDepth(n int) { ip.eval.MaxDepth = n }

// EvalSource parses and evaluates src in Root.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.EvalAST(prog)
}

// EvalLine evaluates one REPL entry and stores a successful result in "_".
func (ip *Interpreter) EvalLine(src string) (Value, error) {
	v, err := ip.EvalSource(src)
	if err != nil {
		return Null, err
	}
	if err := ip.Root.Assign(ResultName, v); err != nil {
		return Null, err
	}
	return v, nil
}

// EvalAST evaluates n in Root.
func (ip *Interpreter) EvalAST(n Node) (Value, error) {
	ip.eval.Out = ip.Stdout
	return ip.eval.Evaluate(n, ip.Root)
}

// RegisterNative declares a host function in Root. Natives with arity > 1
// are curried. Registering a name twice fails with AlreadyDeclared.
func (ip *Interpreter) RegisterNative(name string, arity int, fn NativeFunc) error {
	n := NewNative(name, arity, fn)
	if err := ip.Root.DeclareBind(name, NativeVal(n)); err != nil {
		return err
	}
	ip.Tracker.Track(n)
	glog.V(7).Infof("registered native %s/%d", name, arity)
	return nil
}

// Close releases every object of the session. It is safe to call twice.
func (ip *Interpreter) Close() { ip.Tracker.Release() }

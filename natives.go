package lx

import (
	"fmt"
)

// ---- core natives ------------------------------------------------------

func registerCoreNatives(ip *Interpreter) {
	// add/sub/mul/div: curried arithmetic, same checks as the operators.
	for _, op := range []struct {
		name string
		tt   TokenType
	}{
		{"add", PLUS},
		{"sub", MINUS},
		{"mul", MULT},
		{"div", DIV},
	} {
		tt := op.tt
		mustRegister(ip, op.name, 2, func(_ *CallCtx, args []Value) (Value, error) {
			return arithmetic(tt, args[0], args[1])
		})
	}

	// eq a b -> a == b
	mustRegister(ip, "eq", 2, func(_ *CallCtx, args []Value) (Value, error) {
		return Bool(Equal(args[0], args[1])), nil
	})

	// exit code: ends the session. null exits with 0.
	mustRegister(ip, "exit", 1, func(_ *CallCtx, args []Value) (Value, error) {
		switch v := args[0]; v.Tag {
		case VTNull:
			return Null, &ExitError{Code: 0}
		case VTNum:
			return Null, &ExitError{Code: int(v.AsNum())}
		default:
			return Null, &Error{Kind: TypeError, Msg: "exit expects a number or null, got " + v.Kind()}
		}
	})

	// env _: dumps the caller's scope chain, innermost first.
	mustRegister(ip, "env", 1, func(ctx *CallCtx, _ []Value) (Value, error) {
		if _, err := fmt.Fprint(ctx.Out, FormatEnv(ctx.Caller)); err != nil {
			return Null, err
		}
		return Null, nil
	})
}

func mustRegister(ip *Interpreter, name string, arity int, fn NativeFunc) {
	if err := ip.RegisterNative(name, arity, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", name, err))
	}
}

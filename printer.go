package lx

import (
	"fmt"
	"strconv"
	"strings"
)

/* ---------- globals & tiny helpers ---------- */

// EnableColor wraps printed values in ANSI colors. The REPL turns it on for
// terminals.
var EnableColor = false

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
)

func colorize(s, c string) string {
	if !EnableColor {
		return s
	}
	return c + s + colorReset
}
func blue(s string) string  { return colorize(s, colorBlue) }
func green(s string) string { return colorize(s, colorGreen) }

/* ---------- values ---------- */

// FormatValue renders a runtime Value the way the REPL echoes it.
//
//	null  true  120  0.5  "text"  <closure \x>  <native add/2>  <native add/2 (1 applied)>
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNull:
		return blue("null")
	case VTBool:
		return blue(strconv.FormatBool(v.AsBool()))
	case VTNum:
		return blue(strconv.FormatFloat(v.AsNum(), 'g', -1, 64))
	case VTStr:
		// lx strings have no escapes, so the literal form is exact.
		return blue(`"` + v.AsStr() + `"`)
	case VTClosure:
		c := v.AsClosure()
		return green(`<closure \` + c.Param + `>`)
	case VTNative:
		n := v.AsNative()
		s := fmt.Sprintf("<native %s/%d", n.Name, n.Arity)
		if len(n.Args) > 0 {
			s += fmt.Sprintf(" (%d applied)", len(n.Args))
		}
		return green(s + ">")
	}
	return "<unknown>"
}

/* ---------- environments ---------- */

// FormatEnv renders the scope chain starting at env, innermost scope first,
// one binding per line. Placeholders print as <unbound>.
//
//	--- scope 0 ---
//	x = 1
//	--- scope 1 ---
//	_ = null
//	add = <native add/2>
func FormatEnv(env *Env) string {
	var b strings.Builder
	depth := 0
	for cur := env; cur != nil; cur = cur.Parent() {
		fmt.Fprintf(&b, "--- scope %d ---\n", depth)
		for _, name := range cur.Names() {
			v, bound, _ := cur.local(name)
			if bound {
				fmt.Fprintf(&b, "%s = %s\n", name, FormatValue(v))
			} else {
				fmt.Fprintf(&b, "%s = <unbound>\n", name)
			}
		}
		depth++
	}
	return b.String()
}

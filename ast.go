// ast.go: the lx abstract syntax tree.
//
// Nodes form a strict tree: every node exclusively owns its children and no
// subtree is shared. The one sanctioned copy is the deep Clone a closure takes
// of its function body, which detaches the closure from the lifetime of the
// program that produced it (a REPL discards each line's tree).
//
// String renders a node as a compact S-expression, the shape tests compare:
//
//	(prog e)                   Program ("(prog)" when empty)
//	null true false 1.5 "s" x  Primary
//	(+ l r)                    Binary, tagged with the operator lexeme
//	(fun x body)               Function
//	(app f a)                  Application
//	(let x v body)             Binding
//	(letrec f v body)          RecBinding
//	(if c t e)                 Selection
package lx

import "strings"

// Node is implemented by every AST variant.
type Node interface {
	// Pos is the token used to report errors raised while evaluating the node.
	Pos() Token
	// Clone returns a deep copy that shares nothing with the receiver.
	Clone() Node
	String() string
}

type Program struct {
	Expr Node // nil for an empty program
}

type Primary struct {
	Token Token // NULL, TRUE, FALSE, NUMBER, STRING or ID
}

type Binary struct {
	Left  Node
	Op    Token
	Right Node
}

type Function struct {
	Lambda Token
	Param  Token
	Body   Node
}

type Application struct {
	Fn  Node
	Arg Node
}

// Binding is a plain "let": the bound expression cannot see Name.
type Binding struct {
	Let   Token
	Name  Token
	Value Node
	Body  Node
}

// RecBinding is "let rec": the bound expression sees Name, and must be a function.
type RecBinding struct {
	Let   Token
	Name  Token
	Value Node
	Body  Node
}

type Selection struct {
	If   Token
	Cond Node
	Then Node
	Else Node
}

// ---- positions ----

func (n *Program) Pos() Token {
	if n.Expr == nil {
		return Token{Type: EOF, Line: 1}
	}
	return n.Expr.Pos()
}
func (n *Primary) Pos() Token     { return n.Token }
func (n *Binary) Pos() Token      { return n.Op }
func (n *Function) Pos() Token    { return n.Lambda }
func (n *Application) Pos() Token { return n.Fn.Pos() }
func (n *Binding) Pos() Token     { return n.Let }
func (n *RecBinding) Pos() Token  { return n.Let }
func (n *Selection) Pos() Token   { return n.If }

// ---- cloning ----

func (n *Program) Clone() Node {
	if n.Expr == nil {
		return &Program{}
	}
	return &Program{Expr: n.Expr.Clone()}
}

func (n *Primary) Clone() Node { return &Primary{Token: n.Token} }

func (n *Binary) Clone() Node {
	return &Binary{Left: n.Left.Clone(), Op: n.Op, Right: n.Right.Clone()}
}

func (n *Function) Clone() Node {
	return &Function{Lambda: n.Lambda, Param: n.Param, Body: n.Body.Clone()}
}

func (n *Application) Clone() Node {
	return &Application{Fn: n.Fn.Clone(), Arg: n.Arg.Clone()}
}

func (n *Binding) Clone() Node {
	return &Binding{Let: n.Let, Name: n.Name, Value: n.Value.Clone(), Body: n.Body.Clone()}
}

func (n *RecBinding) Clone() Node {
	return &RecBinding{Let: n.Let, Name: n.Name, Value: n.Value.Clone(), Body: n.Body.Clone()}
}

func (n *Selection) Clone() Node {
	return &Selection{If: n.If, Cond: n.Cond.Clone(), Then: n.Then.Clone(), Else: n.Else.Clone()}
}

// ---- S-expression rendering ----

func sexpr(tag string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(tag)
	for _, p := range parts {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	b.WriteByte(')')
	return b.String()
}

func (n *Program) String() string {
	if n.Expr == nil {
		return sexpr("prog")
	}
	return sexpr("prog", n.Expr.String())
}

func (n *Primary) String() string { return n.Token.Lexeme }

func (n *Binary) String() string {
	return sexpr(n.Op.Lexeme, n.Left.String(), n.Right.String())
}

func (n *Function) String() string {
	return sexpr("fun", n.Param.Lexeme, n.Body.String())
}

func (n *Application) String() string {
	return sexpr("app", n.Fn.String(), n.Arg.String())
}

func (n *Binding) String() string {
	return sexpr("let", n.Name.Lexeme, n.Value.String(), n.Body.String())
}

func (n *RecBinding) String() string {
	return sexpr("letrec", n.Name.Lexeme, n.Value.String(), n.Body.String())
}

func (n *Selection) String() string {
	return sexpr("if", n.Cond.String(), n.Then.String(), n.Else.String())
}

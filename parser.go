// parser.go: recursive-descent parser for lx.
//
// The parser pulls tokens from the lexer one at a time with a single token of
// lookahead; COMMENT tokens are dropped at every fetch. Precedence, loosest to
// tightest:
//
//	expression     := binding | selection | equality
//	equality       := additive (("==" | "!=") additive)*
//	additive       := multiplicative (("+" | "-") multiplicative)*
//	multiplicative := application (("*" | "/") application)*
//	application    := primary primary*
//	primary        := literal | identifier | function | "(" expression ")"
//
// A function body is a whole expression, so "\x. f x + 1" abstracts over the
// sum. "rec" is not a keyword: "let rec" introduces a recursive binding only
// when another identifier follows it.
//
// Parsing stops at the first error. In interactive mode an error caused by
// reaching end of input is flagged Incomplete so a REPL can keep reading.
package lx

import (
	"strconv"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Parse parses a complete lx program.
func Parse(src string) (*Program, error) {
	return parse(src, false)
}

// ParseInteractive parses like Parse, but syntax errors at end of input and
// unterminated strings are marked Incomplete (see IsIncomplete).
func ParseInteractive(src string) (*Program, error) {
	return parse(src, true)
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
///////////////////////////// PRIVATE IMPLEMENTATION ///////////////////////////
////////////////////////////////////////////////////////////////////////////////

type parser struct {
	lex         *Lexer
	tok         Token // lookahead
	prev        Token // last consumed
	interactive bool
}

func parse(src string, interactive bool) (*Program, error) {
	lex, err := NewLexer(src)
	if err != nil {
		return nil, err
	}
	p := &parser{lex: lex, interactive: interactive}
	p.advance()
	return p.program()
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) advance() {
	p.prev = p.tok
	for {
		p.tok = p.lex.Next()
		if p.tok.Type != COMMENT {
			return
		}
	}
}

func (p *parser) check(tt TokenType) bool { return p.tok.Type == tt }

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.tok.Type == t {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, what string) (Token, error) {
	if p.match(t) {
		return p.prev, nil
	}
	return Token{}, p.unexpected(what)
}

// unexpected reports the lookahead token as the cause of a syntax error.
func (p *parser) unexpected(what string) error {
	t := p.tok
	if t.Type == UNTERMINATED {
		e := at(t, SyntaxError, "unterminated string")
		e.Incomplete = p.interactive
		return e
	}
	e := at(t, SyntaxError, "expected %s, got %s", what, t)
	if t.Type == EOF {
		e.Incomplete = p.interactive
	}
	return e
}

func startsPrimary(tt TokenType) bool {
	switch tt {
	case NULL, TRUE, FALSE, NUMBER, STRING, ID, LAMBDA, LROUND:
		return true
	}
	return false
}

// ─────────────────────────────────── grammar ────────────────────────────────

func (p *parser) program() (*Program, error) {
	if p.check(EOF) {
		return &Program{}, nil
	}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.check(EOF) {
		return nil, p.unexpected("end of input")
	}
	return &Program{Expr: e}, nil
}

func (p *parser) expression() (Node, error) {
	switch p.tok.Type {
	case LET:
		return p.binding()
	case IF:
		return p.selection()
	}
	return p.equality()
}

// binding := "let" ["rec"] IDENT "=" expression "in" expression
func (p *parser) binding() (Node, error) {
	let := p.tok
	p.advance()
	name, err := p.need(ID, "identifier after 'let'")
	if err != nil {
		return nil, err
	}
	rec := false
	if name.Lexeme == "rec" && p.check(ID) {
		rec = true
		name = p.tok
		p.advance()
	}
	if _, err := p.need(ASSIGN, "'='"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IN, "'in'"); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	if rec {
		return &RecBinding{Let: let, Name: name, Value: value, Body: body}, nil
	}
	return &Binding{Let: let, Name: name, Value: value, Body: body}, nil
}

// selection := "if" expression "then" expression "else" expression
func (p *parser) selection() (Node, error) {
	ifTok := p.tok
	p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(THEN, "'then'"); err != nil {
		return nil, err
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(ELSE, "'else'"); err != nil {
		return nil, err
	}
	els, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Selection{If: ifTok, Cond: cond, Then: then, Else: els}, nil
}

// binaryLevel parses next (op next)* for the given operator set, left-associative.
func (p *parser) binaryLevel(next func() (Node, error), ops ...TokenType) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.prev
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Binary{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) equality() (Node, error) {
	return p.binaryLevel(p.additive, EQUAL, NOT_EQUAL)
}

func (p *parser) additive() (Node, error) {
	return p.binaryLevel(p.multiplicative, PLUS, MINUS)
}

func (p *parser) multiplicative() (Node, error) {
	return p.binaryLevel(p.application, MULT, DIV)
}

// application := primary primary*
func (p *parser) application() (Node, error) {
	fn, err := p.primary()
	if err != nil {
		return nil, err
	}
	for startsPrimary(p.tok.Type) {
		arg, err := p.primary()
		if err != nil {
			return nil, err
		}
		fn = &Application{Fn: fn, Arg: arg}
	}
	return fn, nil
}

func (p *parser) primary() (Node, error) {
	t := p.tok
	switch t.Type {
	case NULL, TRUE, FALSE, ID:
		p.advance()
		return &Primary{Token: t}, nil
	case NUMBER:
		if _, err := strconv.ParseFloat(t.Lexeme, 64); err != nil {
			return nil, at(t, SyntaxError, "invalid number %q", t.Lexeme)
		}
		p.advance()
		return &Primary{Token: t}, nil
	case STRING:
		p.advance()
		return &Primary{Token: t}, nil
	case LAMBDA:
		return p.function()
	case LROUND:
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.unexpected("expression")
}

// function := ("\" | "λ") IDENT "." expression
func (p *parser) function() (Node, error) {
	lambda := p.tok
	p.advance()
	param, err := p.need(ID, "parameter name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(DOT, "'.'"); err != nil {
		return nil, err
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Function{Lambda: lambda, Param: param, Body: body}, nil
}

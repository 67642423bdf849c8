// lexer_test.go
package lx

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func lexemes(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type != EOF {
			out = append(out, tok.Lexeme)
		}
	}
	return out
}

func Test_Lexer_Factorial(t *testing.T) {
	src := `let rec fact = \n. if n == 0 then 1 else n * fact (n - 1) in fact 5`
	got := wantTypes(t, src, []TokenType{
		LET, ID, ID, ASSIGN, LAMBDA, ID, DOT,
		IF, ID, EQUAL, NUMBER, THEN, NUMBER,
		ELSE, ID, MULT, ID, LROUND, ID, MINUS, NUMBER, RROUND,
		IN, ID, NUMBER,
	})
	if got[1].Lexeme != "rec" {
		t.Fatalf("rec should lex as an identifier, got %#v", got[1])
	}
}

func Test_Lexer_All_Operators(t *testing.T) {
	wantTypes(t, `\ λ . = == != ( ) + - * /`, []TokenType{
		LAMBDA, LAMBDA, DOT, ASSIGN, EQUAL, NOT_EQUAL, LROUND, RROUND, PLUS, MINUS, MULT, DIV,
	})
}

func Test_Lexer_Keywords(t *testing.T) {
	wantTypes(t, "let in if then else null true false", []TokenType{
		LET, IN, IF, THEN, ELSE, NULL, TRUE, FALSE,
	})
	// Keywords are whole words only.
	wantTypes(t, "letter iffy nullable", []TokenType{ID, ID, ID})
}

func Test_Lexer_Operators_Split_Words(t *testing.T) {
	got := wantTypes(t, "a+b*(c-d)/e", []TokenType{
		ID, PLUS, ID, MULT, LROUND, ID, MINUS, ID, RROUND, DIV, ID,
	})
	if want := []string{"a", "+", "b", "*", "(", "c", "-", "d", ")", "/", "e"}; !reflect.DeepEqual(lexemes(got), want) {
		t.Fatalf("lexemes: want %v, got %v", want, lexemes(got))
	}
}

func Test_Lexer_Lambda_Without_Spaces(t *testing.T) {
	wantTypes(t, `λx.x`, []TokenType{LAMBDA, ID, DOT, ID})
	wantTypes(t, `(\f.\x.f x)`, []TokenType{LROUND, LAMBDA, ID, DOT, LAMBDA, ID, DOT, ID, ID, RROUND})
}

func Test_Lexer_Numbers(t *testing.T) {
	cases := map[string][]TokenType{
		"0":        {NUMBER},
		"123":      {NUMBER},
		"1.5":      {NUMBER},
		"2e10":     {NUMBER},
		"2e-3":     {NUMBER},
		"6.02E+23": {NUMBER},
		"1.":       {NUMBER, DOT},
		"1.x":      {NUMBER, DOT, ID},
		"1-2":      {NUMBER, MINUS, NUMBER},
		"x.5":      {ID, DOT, NUMBER},
		"12abc":    {ID},
		"a1":       {ID},
	}
	for src, want := range cases {
		wantTypes(t, src, want)
	}
}

func Test_Lexer_Strings(t *testing.T) {
	got := wantTypes(t, `"hello, world" "" "a # b"`, []TokenType{STRING, STRING, STRING})
	if got[0].Lexeme != `"hello, world"` || got[1].Lexeme != `""` || got[2].Lexeme != `"a # b"` {
		t.Fatalf("string lexemes keep their quotes: %v", lexemes(got))
	}

	// No escapes: a backslash is an ordinary character and the next quote
	// closes the string.
	got = wantTypes(t, `"a\" b`, []TokenType{STRING, ID})
	if got[0].Lexeme != `"a\"` {
		t.Fatalf("got %q", got[0].Lexeme)
	}

	// Strings may span lines.
	got = wantTypes(t, "\"one\ntwo\" x", []TokenType{STRING, ID})
	if got[1].Line != 2 || got[1].Col != 5 {
		t.Fatalf("position after multi-line string: %#v", got[1])
	}
}

func Test_Lexer_Unterminated_String(t *testing.T) {
	got := wantTypes(t, `x "abc`, []TokenType{ID, UNTERMINATED})
	if got[1].Lexeme != `"abc` {
		t.Fatalf("unterminated lexeme: %q", got[1].Lexeme)
	}
}

func Test_Lexer_Comments(t *testing.T) {
	got := wantTypes(t, "1 # one\n# whole line\n2 #", []TokenType{NUMBER, COMMENT, COMMENT, NUMBER, COMMENT})
	if got[1].Lexeme != "# one" || got[2].Lexeme != "# whole line" || got[4].Lexeme != "#" {
		t.Fatalf("comment lexemes: %v", lexemes(got))
	}
}

func Test_Lexer_Whitespace_Kinds(t *testing.T) {
	wantTypes(t, "a\tb\r\nc\fd\u0085e\u00a0f", []TokenType{ID, ID, ID, ID, ID, ID})
}

func Test_Lexer_Bang(t *testing.T) {
	wantTypes(t, "a!=b", []TokenType{ID, NOT_EQUAL, ID})
	got := wantTypes(t, "wow! x", []TokenType{ID, ID})
	if got[0].Lexeme != "wow!" {
		t.Fatalf("a lone ! is part of a word, got %q", got[0].Lexeme)
	}
}

func Test_Lexer_Positions(t *testing.T) {
	src := "let x =\n  λy. y"
	got := toks(t, src)
	want := []struct{ line, col, start, end int }{
		{1, 0, 0, 3},   // let
		{1, 4, 4, 5},   // x
		{1, 6, 6, 7},   // =
		{2, 2, 10, 12}, // λ (two bytes)
		{2, 3, 12, 13}, // y
		{2, 4, 13, 14}, // .
		{2, 6, 15, 16}, // y
		{2, 7, 16, 16}, // EOF
	}
	if len(got) != len(want) {
		t.Fatalf("want %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Line != w.line || g.Col != w.col || g.Start != w.start || g.End != w.end {
			t.Fatalf("token %d: want %d:%d [%d,%d), got %#v [%d,%d)", i, w.line, w.col, w.start, w.end, g, g.Start, g.End)
		}
		if g.Lexeme != src[g.Start:g.End] {
			t.Fatalf("token %d lexeme %q is not src[%d:%d]", i, g.Lexeme, g.Start, g.End)
		}
	}
}

func Test_Lexer_EOF_Is_Sticky(t *testing.T) {
	l, err := NewLexer("x")
	if err != nil {
		t.Fatal(err)
	}
	if tok := l.Next(); tok.Type != ID {
		t.Fatalf("want ID, got %v", tok)
	}
	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.Type != EOF {
			t.Fatalf("call %d past the end: want EOF, got %v", i, tok)
		}
	}
}

func Test_Lexer_Empty_And_Blank(t *testing.T) {
	for _, src := range []string{"", "   \n\t "} {
		got := toks(t, src)
		if len(got) != 1 || got[0].Type != EOF {
			t.Fatalf("%q: want a single EOF, got %v", src, got)
		}
	}
}

func Test_Lexer_Invalid_UTF8(t *testing.T) {
	_, err := Tokenize("ok\nab\xffc")
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("want InvalidEncoding, got %v", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Line != 2 || e.Col != 2 {
		t.Fatalf("want position 2:2, got %#v", e)
	}
}

func Test_Token_String(t *testing.T) {
	got := toks(t, "foo")
	if s := got[0].String(); s != `ID "foo"` {
		t.Fatalf("got %s", s)
	}
	if s := got[1].String(); s != "end of input" {
		t.Fatalf("got %s", s)
	}
	if s := (TokenType(99)).String(); s != "TokenType(99)" {
		t.Fatalf("got %s", s)
	}
}

// Concatenating the gaps between tokens and the lexemes reproduces the input,
// and the gaps are whitespace only.
func Test_Lexer_Lossless(t *testing.T) {
	alphabet := []string{
		"let", "rec", "in", "if", "then", "else", "null", "true", "false",
		"x", "fact", "_", "1", "2.5", "3e-2", "\"s\"", "\"a b\"", "#c\n", "\"open",
		"\\", "λ", ".", "=", "==", "!=", "!", "(", ")", "+", "-", "*", "/",
		" ", "\t", "\n", " ", "é", "日本",
	}
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOf(rapid.SampledFrom(alphabet)).Draw(t, "parts")
		src := strings.Join(parts, "")

		ts, err := Tokenize(src)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", src, err)
		}
		var b strings.Builder
		prev := 0
		for _, tok := range ts {
			gap := src[prev:tok.Start]
			if strings.TrimFunc(gap, isSpace) != "" {
				t.Fatalf("non-space gap %q before %#v in %q", gap, tok, src)
			}
			b.WriteString(gap)
			b.WriteString(tok.Lexeme)
			prev = tok.End
		}
		if b.String() != src {
			t.Fatalf("lossless: got %q, want %q", b.String(), src)
		}
		if last := ts[len(ts)-1]; last.Type != EOF || last.Start != len(src) {
			t.Fatalf("want EOF at %d, got %#v", len(src), last)
		}
	})
}

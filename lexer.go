// lexer.go: tokenizer for lx source text.
//
// The lexer walks the source rune by rune and hands out one Token per call to
// Next. It never fails after construction: malformed input either becomes an
// identifier-like word or, for a string cut off by end of input, an
// UNTERMINATED token the parser turns into a syntax error.
//
// Recognition order for each token:
//  1. whitespace is skipped (space, \t, \r, \n, \f, U+0085, U+00A0);
//  2. '"' starts a string literal running to the next '"' (no escapes);
//  3. '#' starts a comment running to end of line (emitted, not dropped);
//  4. operators: \ λ . = == != ( ) + - * /
//  5. anything else is a word: a keyword, a number, or an identifier.
//
// Lexemes are substrings of the source, so concatenating the skipped gaps
// and the lexemes in order reproduces the input exactly.
package lx

import (
	"strconv"
	"unicode/utf8"
)

// Lexer scans an lx source string into tokens.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based, in runes

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a lexer for src. It fails with InvalidEncoding when src is
// not valid UTF-8.
func NewLexer(src string) (*Lexer, error) {
	if !utf8.ValidString(src) {
		line, col := invalidUTF8Position(src)
		return nil, &Error{Kind: InvalidEncoding, Msg: "source is not valid UTF-8", Line: line, Col: col}
	}
	return &Lexer{src: src, line: 1}, nil
}

// Tokenize lexes the whole of src, EOF included.
func Tokenize(src string) ([]Token, error) {
	l, err := NewLexer(src)
	if err != nil {
		return nil, err
	}
	return l.Scan(), nil
}

// Scan returns every remaining token, ending with exactly one EOF.
func (l *Lexer) Scan() []Token {
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

// Next returns the next token. Past the end of input it keeps returning EOF.
func (l *Lexer) Next() Token {
	l.skipWhitespace()
	l.start = l.cur
	l.tokStartLine = l.line
	l.tokStartCol = l.col

	if l.isAtEnd() {
		return l.token(EOF)
	}

	ch := l.advance()
	switch ch {
	case '"':
		return l.scanString()
	case '#':
		l.ignoreUntilNewline()
		return l.token(COMMENT)
	case '\\', 'λ':
		return l.token(LAMBDA)
	case '.':
		return l.token(DOT)
	case '(':
		return l.token(LROUND)
	case ')':
		return l.token(RROUND)
	case '+':
		return l.token(PLUS)
	case '-':
		return l.token(MINUS)
	case '*':
		return l.token(MULT)
	case '/':
		return l.token(DIV)
	case '=':
		if l.peek() == '=' {
			l.advance()
			return l.token(EQUAL)
		}
		return l.token(ASSIGN)
	case '!':
		if l.peek() == '=' {
			l.advance()
			return l.token(NOT_EQUAL)
		}
	}
	return l.scanWord(ch)
}

// ----- cursor -----

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

// peek returns the rune at the cursor, or utf8.RuneError at the end.
func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
	return r
}

// peekNext returns the rune after the one at the cursor.
func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return utf8.RuneError
	}
	_, size := utf8.DecodeRuneInString(l.src[l.cur:])
	if l.cur+size >= len(l.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur+size:])
	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) token(tt TokenType) Token {
	return Token{
		Type:   tt,
		Lexeme: l.src[l.start:l.cur],
		Start:  l.start,
		End:    l.cur,
		Line:   l.tokStartLine,
		Col:    l.tokStartCol,
	}
}

// ----- character classes -----

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\f', '\u0085', '\u00a0':
		return true
	}
	return false
}

// isSpecial reports whether r starts a token of its own.
func isSpecial(r rune) bool {
	switch r {
	case '"', '#', '\\', 'λ', '.', '=', '(', ')', '+', '-', '*', '/':
		return true
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// ----- scanners -----

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() && isSpace(l.peek()) {
		l.advance()
	}
}

// ignoreUntilNewline eats until '\n' or EOF, leaving the newline in place.
func (l *Lexer) ignoreUntilNewline() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// scanString consumes up to and including the closing quote. The opening
// quote has already been consumed.
func (l *Lexer) scanString() Token {
	for !l.isAtEnd() {
		if l.advance() == '"' {
			return l.token(STRING)
		}
	}
	return l.token(UNTERMINATED)
}

// scanWord consumes a maximal run of non-special, non-whitespace runes and
// classifies it. A word that starts with a digit may also run through a
// decimal point or an exponent sign, so "1.5" and "2e-3" stay one word.
func (l *Lexer) scanWord(first rune) Token {
	numeric := isDigit(first)
	sawDot, sawExp := false, false
	prev := first
	for !l.isAtEnd() {
		r := l.peek()
		if isSpace(r) {
			break
		}
		if r == '!' && l.peekNext() == '=' {
			break
		}
		if isSpecial(r) {
			switch {
			case numeric && r == '.' && !sawDot && !sawExp && isDigit(l.peekNext()):
				sawDot = true
			case numeric && (r == '-' || r == '+') && (prev == 'e' || prev == 'E') && isDigit(l.peekNext()):
			default:
				return l.classifyWord(numeric)
			}
		}
		if numeric && (r == 'e' || r == 'E') {
			sawExp = true
		}
		prev = l.advance()
	}
	return l.classifyWord(numeric)
}

func (l *Lexer) classifyWord(numeric bool) Token {
	lex := l.src[l.start:l.cur]
	if tt, ok := keywords[lex]; ok {
		return l.token(tt)
	}
	if numeric {
		if _, err := strconv.ParseFloat(lex, 64); err == nil {
			return l.token(NUMBER)
		}
	}
	return l.token(ID)
}

// invalidUTF8Position locates the first byte that does not decode.
func invalidUTF8Position(src string) (line, col int) {
	line = 1
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == utf8.RuneError && size == 1 {
			return line, col
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		i += size
	}
	return line, col
}

package lx

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	COMMENT      // "# ..." up to end of line
	UNTERMINATED // string literal cut off by end of input

	// Punctuation & operators
	LAMBDA    // "\" or "λ"
	DOT       // "."
	ASSIGN    // "="
	EQUAL     // "=="
	NOT_EQUAL // "!="
	LROUND    // "("
	RROUND    // ")"
	PLUS
	MINUS
	MULT
	DIV

	// Keywords
	LET
	IN
	IF
	THEN
	ELSE
	NULL
	TRUE
	FALSE

	// Literals & identifiers
	NUMBER
	STRING
	ID
)

var tokenNames = [...]string{
	EOF:          "EOF",
	COMMENT:      "COMMENT",
	UNTERMINATED: "UNTERMINATED",
	LAMBDA:       "LAMBDA",
	DOT:          "DOT",
	ASSIGN:       "ASSIGN",
	EQUAL:        "EQUAL",
	NOT_EQUAL:    "NOT_EQUAL",
	LROUND:       "LROUND",
	RROUND:       "RROUND",
	PLUS:         "PLUS",
	MINUS:        "MINUS",
	MULT:         "MULT",
	DIV:          "DIV",
	LET:          "LET",
	IN:           "IN",
	IF:           "IF",
	THEN:         "THEN",
	ELSE:         "ELSE",
	NULL:         "NULL",
	TRUE:         "TRUE",
	FALSE:        "FALSE",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	ID:           "ID",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords map
var keywords = map[string]TokenType{
	"let":   LET,
	"in":    IN,
	"if":    IF,
	"then":  THEN,
	"else":  ELSE,
	"null":  NULL,
	"true":  TRUE,
	"false": FALSE,
}

// Token is an immutable lexical unit. Lexeme is always src[Start:End], a view
// into the source the lexer was created with.
type Token struct {
	Type   TokenType
	Lexeme string
	Start  int // byte offset
	End    int // byte offset, exclusive
	Line   int // 1-based
	Col    int // 0-based, counted in runes
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
}

// GoString renders the token with its position, as printed by `lx tokens`.
func (t Token) GoString() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Col, t.Type, t.Lexeme)
}

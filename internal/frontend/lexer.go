// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package frontend is the reference host for the unit-checking engine: a
// lexer and parser for a small surface language with `unit` declarations,
// `let` bindings, arithmetic, casts, and postfix unit annotations. The
// engine itself is syntax-agnostic; this package exists so the engine has a
// concrete front end to plug into.
package frontend

// TokenType classifies surface tokens.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	IDENT
	NUMBER_LIT
	STRING_LIT

	// Keywords
	UNIT
	LET
	AS
	TRUE
	FALSE

	// Type keywords
	NUMBER_TYPE
	STRING_TYPE
	BOOLEAN_TYPE
	DATE_TYPE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	CARET
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN

	// Delimiters
	LT
	GT
	LPAREN
	RPAREN
	COLON
	SEMICOLON
	COMMA
)

var keywords = map[string]TokenType{
	"unit":    UNIT,
	"let":     LET,
	"as":      AS,
	"true":    TRUE,
	"false":   FALSE,
	"number":  NUMBER_TYPE,
	"string":  STRING_TYPE,
	"boolean": BOOLEAN_TYPE,
	"date":    DATE_TYPE,
}

// Token is a single surface token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Lexer scans surface source and produces tokens.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

// NewLexer creates a lexer over the given source.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == '\n':
			l.line++
			l.column = 0
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = EOF
		return tok
	case '+':
		return l.maybeAssign(tok, PLUS, PLUS_ASSIGN)
	case '-':
		return l.maybeAssign(tok, MINUS, MINUS_ASSIGN)
	case '*':
		return l.maybeAssign(tok, STAR, STAR_ASSIGN)
	case '/':
		return l.maybeAssign(tok, SLASH, SLASH_ASSIGN)
	case '^':
		return l.single(tok, CARET)
	case '=':
		return l.single(tok, ASSIGN)
	case '<':
		return l.single(tok, LT)
	case '>':
		return l.single(tok, GT)
	case '(':
		return l.single(tok, LPAREN)
	case ')':
		return l.single(tok, RPAREN)
	case ':':
		return l.single(tok, COLON)
	case ';':
		return l.single(tok, SEMICOLON)
	case ',':
		return l.single(tok, COMMA)
	case '"':
		tok.Type = STRING_LIT
		tok.Literal = l.readString()
		return tok
	}

	switch {
	case isLetter(l.ch):
		tok.Literal = l.readIdentifier()
		if kw, ok := keywords[tok.Literal]; ok {
			tok.Type = kw
		} else {
			tok.Type = IDENT
		}
		return tok
	case isDigit(l.ch):
		tok.Type = NUMBER_LIT
		tok.Literal = l.readNumber()
		return tok
	}

	tok.Type = ILLEGAL
	tok.Literal = string(l.ch)
	l.readChar()
	return tok
}

func (l *Lexer) single(tok Token, t TokenType) Token {
	tok.Type = t
	tok.Literal = string(l.ch)
	l.readChar()
	return tok
}

func (l *Lexer) maybeAssign(tok Token, plain, assign TokenType) Token {
	ch := l.ch
	if l.peekChar() == '=' {
		tok.Type = assign
		tok.Literal = string(ch) + "="
		l.readChar()
		l.readChar()
		return tok
	}
	return l.single(tok, plain)
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

func (l *Lexer) readString() string {
	// Opening quote is the current char.
	start := l.position
	l.readChar()
	for l.ch != '"' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

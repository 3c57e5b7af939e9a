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

package units

// TokenKind classifies the tokens of the unit-expression mini-grammar.
// Token streams are produced by the host's lexer; the engine never reads
// source text directly.
type TokenKind int

const (
	TokenIdent TokenKind = iota
	TokenNumber
	TokenStar
	TokenSlash
	TokenCaret
	TokenLParen
	TokenRParen
)

// String returns the string representation of a token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenStar:
		return "'*'"
	case TokenSlash:
		return "'/'"
	case TokenCaret:
		return "'^'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "unknown"
	}
}

// Token is a single token of a unit-expression stream, carrying the source
// position assigned by the host's lexer. Number tokens keep their raw text;
// exponent texts may carry a leading sign.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

// Ident is shorthand for an identifier token without position information,
// used by hosts which synthesize declarations.
func Ident(name string) Token {
	return Token{Kind: TokenIdent, Text: name}
}

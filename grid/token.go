package grid

import (
	"regexp"
	"strings"
)

var (
	// Signed values are digit-like; a lone dash marking a missing score is not.
	digitLikeRegex = regexp.MustCompile(`^[-., \n]*\d[-\d., \n]*$`)
	textLikeRegex  = regexp.MustCompile(`^[A-Za-z\- &/\n:]+$`)
	smallIntRegex  = regexp.MustCompile(`^-?\d{1,2}(\.0|\.00)?$`)
)

// Kind tags a token. A token can be neither or, for digits inside call
// markers, both.
type Kind uint8

const (
	Digit Kind = 1 << iota
	Text
)

func (k Kind) Has(other Kind) bool {
	return k&other != 0
}

type Token struct {
	Value string
	Kind  Kind
}

// Tokenize splits every cell of the row on whitespace and newlines.
func Tokenize(r RawRow) []Token {
	tokens := []Token{}
	for _, v := range r.Values {
		for _, field := range strings.Fields(v) {
			tokens = append(tokens, Token{Value: field, Kind: Classify(field)})
		}
	}
	return tokens
}

func Classify(s string) Kind {
	var k Kind
	if IsDigitLike(s) {
		k |= Digit
	}
	if IsTextLike(s) {
		k |= Text
	}
	return k
}

func Values(tokens []Token) []string {
	values := make([]string, len(tokens))
	for i, t := range tokens {
		values[i] = t.Value
	}
	return values
}

func IsDigitLike(s string) bool {
	return digitLikeRegex.MatchString(s)
}

func IsTextLike(s string) bool {
	return textLikeRegex.MatchString(s)
}

// IsSmallInt matches the point values deduction blocks use: "-1", "2.00".
func IsSmallInt(s string) bool {
	return smallIntRegex.MatchString(s)
}

// Delocalize turns comma decimals into dots on digit-like tokens only.
func Delocalize(s string) string {
	if !IsDigitLike(s) {
		return s
	}
	return strings.ReplaceAll(s, ",", ".")
}

// Package tokenize implements the text -> token pipeline shared by index
// construction and query scoring: lowercased alphanumeric-plus-underscore
// tokens, with an ASCII fast path and a Unicode general-category fallback.
package tokenize

import (
	"regexp"
	"strings"
)

// StopSet is the set of tokens to drop during tokenization. A nil StopSet
// filters nothing.
type StopSet map[string]struct{}

// NewStopSet builds a StopSet from a list of words, lowercasing each.
func NewStopSet(words []string) StopSet {
	if len(words) == 0 {
		return nil
	}
	set := make(StopSet, len(words))
	for _, w := range words {
		set[ToLowerASCII(w)] = struct{}{}
	}
	return set
}

// unicodeToken matches a maximal run of Letter, followed by Letter, Number,
// or underscore: the Unicode-property path from the spec's tokenizer rules.
var unicodeToken = regexp.MustCompile(`\p{L}[\p{L}\p{N}_]*`)

// Tokenize splits text into lowercased tokens, keeping only those with at
// least two characters that are not present in stop. Order of emission
// matches source order; tokens never overlap.
func Tokenize(text string, stop StopSet) []string {
	if isASCII(text) {
		return tokenizeASCII(text, stop)
	}
	return tokenizeUnicode(text, stop)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func isASCIITokenByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

func tokenizeASCII(text string, stop StopSet) []string {
	tokens := make([]string, 0, 8)
	start := -1
	emit := func(end int) {
		if start < 0 {
			return
		}
		if end-start >= 2 {
			tok := asciiLower(text[start:end])
			if _, blocked := stop[tok]; !blocked {
				tokens = append(tokens, tok)
			}
		}
		start = -1
	}
	for i := 0; i < len(text); i++ {
		if isASCIITokenByte(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		emit(i)
	}
	emit(len(text))
	return tokens
}

func asciiLower(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}

// ToLowerASCII lowercases stop-word entries the same way the ASCII fast path
// lowercases tokens, so membership checks agree regardless of which path
// tokenized the surrounding text.
func ToLowerASCII(s string) string {
	if isASCII(s) {
		return asciiLower(s)
	}
	return toLowerUnicode(s)
}

func tokenizeUnicode(text string, stop StopSet) []string {
	matches := unicodeToken.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if runeCount(m) < 2 {
			continue
		}
		tok := toLowerUnicode(m)
		if _, blocked := stop[tok]; blocked {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func toLowerUnicode(s string) string {
	return strings.ToLower(s)
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

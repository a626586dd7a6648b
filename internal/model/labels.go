package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a property key such as "subject_pronoun" or
// "directObject" into "Subject Pronoun" / "Direct Object". It is used when a
// property declares no title.
func DefaultLabeler(key string) string {
	var words []string
	for _, chunk := range strings.FieldsFunc(key, isSeparator) {
		words = append(words, splitCamel(chunk)...)
	}
	for idx, word := range words {
		words[idx] = capitalise(word)
	}
	return strings.Join(words, " ")
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}

func splitCamel(chunk string) []string {
	runes := []rune(chunk)
	var (
		out   []string
		start int
	)
	for idx := 1; idx < len(runes); idx++ {
		prev, cur := runes[idx-1], runes[idx]
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(cur),
			unicode.IsLetter(prev) && unicode.IsDigit(cur),
			unicode.IsDigit(prev) && unicode.IsLetter(cur):
			out = append(out, string(runes[start:idx]))
			start = idx
		}
	}
	return append(out, string(runes[start:]))
}

func capitalise(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

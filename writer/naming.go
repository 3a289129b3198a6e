package writer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// commonInitialisms keeps familiar identifier casing in generated names.
var commonInitialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"api":  "API",
	"http": "HTTP",
	"json": "JSON",
	"xml":  "XML",
	"uuid": "UUID",
	"ip":   "IP",
	"sql":  "SQL",
}

// ExportedName converts a component or property name to an exported Go
// identifier: word boundaries at dashes, underscores, dots, spaces, and
// lower-to-upper transitions; recognized initialisms keep their usual casing.
// A name that would start with a digit gets a "Schema" prefix.
func ExportedName(name string) string {
	words := splitWords(name)
	var sb strings.Builder
	for _, word := range words {
		if upper, ok := commonInitialisms[strings.ToLower(word)]; ok {
			sb.WriteString(upper)
			continue
		}
		sb.WriteString(titleCaser.String(strings.ToLower(word)))
	}
	out := sb.String()
	if out == "" {
		return "Schema"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "Schema" + out
	}
	return out
}

// splitWords breaks a rough identifier into words, treating punctuation and
// case transitions as boundaries.
func splitWords(name string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

package strutil

import (
	"regexp"
	"strings"
	"unicode"
)

var bracketsRe = regexp.MustCompile(`(\[(.*?)\]|\((.*?)\))`)

// RemoveContentIntoBrackets removes content inside brackets, including brackets
func RemoveContentIntoBrackets(s string) string {
	return bracketsRe.ReplaceAllString(s, "")
}

// RemoveExtraSpaces collapses every run of whitespace into one space and trims the string
// For example RemoveExtraSpaces("\n hello \t world  ") return "hello world"
func RemoveExtraSpaces(s string) string {
	idx := 0

	return strings.Trim(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			idx++
			if idx > 1 {
				return -1
			}

			return ' '
		}

		idx = 0

		return r
	}, s), " ")
}

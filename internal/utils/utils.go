package utils

import (
	"strconv"
	"strings"
)

// SafeUnescape removes quotes from a string if it is quoted.
// Including the escape character.
func SafeUnescape(s string) string {
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return s
	}
	return unquoted
}

// SplitList splits a comma separated list, trimming blanks and dropping empty
// entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(SafeUnescape(s), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

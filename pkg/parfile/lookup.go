package parfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// assignment matches a live "<key> = <value>" line and captures the text up
// to the value in group 1 and the value token in group 2.
func assignment(key, valuePattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*` + regexp.QuoteMeta(key) + `[ \t]*=[ \t]*)(` + valuePattern + `)`)
}

// Lookup returns the value token of the first live assignment of key in
// text, with one pair of surrounding quotes removed.
func Lookup(text, key string) (string, bool) {
	if !ValidKey(key) {
		return "", false
	}
	m := assignment(key, `\S+`).FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return unquote(m[2]), true
}

// Count returns how many live lines assign key in text.
func Count(text, key string) int {
	if !ValidKey(key) {
		return 0
	}
	return len(assignment(key, `\S+`).FindAllStringIndex(text, -1))
}

// ReadParam reads the parameter file at path and looks up key.
func ReadParam(path, key string) (string, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read parameters: %w", err)
	}
	v, ok := Lookup(string(b), key)
	return v, ok, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// substitute replaces group 2 of every match of re in text with value and
// returns the new text and the number of replacements.
func substitute(re *regexp.Regexp, text, value string) (string, int) {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text) + len(locs)*len(value))
	last := 0
	for _, loc := range locs {
		b.WriteString(text[last:loc[4]])
		b.WriteString(value)
		last = loc[5]
	}
	b.WriteString(text[last:])
	return b.String(), len(locs)
}

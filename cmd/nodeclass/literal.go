package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"

	"github.com/mgomes/nodeclass/class"
)

// parseLiteral reads a command-line value. Quoted text is a string, as is
// any word that is not a number, a boolean or null.
func parseLiteral(raw string) class.Value {
	switch raw {
	case "null", "nil":
		return class.NewNil()
	case "true":
		return class.NewBool(true)
	case "false":
		return class.NewBool(false)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return class.NewInt(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return class.NewFloat(f)
	}
	if s, err := strconv.Unquote(raw); err == nil {
		return class.NewString(s)
	}
	return class.NewString(raw)
}

func parseLiterals(raws []string) []class.Value {
	out := make([]class.Value, len(raws))
	for i, raw := range raws {
		out[i] = parseLiteral(raw)
	}
	return out
}

// splitWords splits a line with shell quoting rules but keeps the quotes on
// quoted words, so "42" stays a string and 42 a number.
func splitWords(line string) ([]string, error) {
	words, err := shellquote.Split(keepQuotes(line))
	if err != nil {
		return nil, errors.Wrap(err, "parse arguments")
	}
	return words, nil
}

// keepQuotes escapes a double-quoted span's delimiters so shellquote hands
// them back as part of the word.
func keepQuotes(line string) string {
	var b strings.Builder
	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && inQuote && i+1 < len(line):
			b.WriteString(`\\`)
			i++
			b.WriteByte('\\')
			b.WriteByte(line[i])
		case c == '"':
			inQuote = !inQuote
			b.WriteString(`\"`)
		case inQuote && (c == ' ' || c == '\t' || c == '\'' || c == '$' || c == '`'):
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package translate rewrites vRO item scripts into ordered, declaratively
// structured target tasks. The scripting surface is recognized through a
// fixed set of structural idioms, not a full grammar: auditable, predictable
// coverage over completeness.
package translate

import (
	"strconv"
	"strings"
)

// stripQuotes removes one matching pair of surrounding quote characters.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}

	return s
}

// isQuoted reports whether the expression is one bare quoted string literal.
func isQuoted(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return false
	}

	quote := s[0]
	if quote != '"' && quote != '\'' {
		return false
	}

	if s[len(s)-1] != quote {
		return false
	}

	// Reject "a" + "b": the closing quote must be the literal's own.
	for i := 1; i < len(s)-1; i++ {
		if s[i] == quote && s[i-1] != '\\' {
			return false
		}
	}

	return true
}

// splitTopLevel splits an expression on a separator byte, ignoring
// occurrences inside quotes or parentheses.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	parts = append(parts, s[start:])

	return parts
}

// normalizeOperators rewrites strict JS comparison operators into their
// target-expression equivalents.
func normalizeOperators(expr string) string {
	expr = strings.ReplaceAll(expr, "===", "==")
	expr = strings.ReplaceAll(expr, "!==", "!=")

	return expr
}

// renderValue converts an assignment right-hand side into a target value: a
// bare quoted string becomes the literal, string concatenation becomes an
// interpolated template, comparison and boolean expressions become a
// templated boolean, and plain literals keep their type.
func renderValue(expr string) any {
	expr = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(expr), ";"))

	if isQuoted(expr) {
		return stripQuotes(expr)
	}

	if n, err := strconv.Atoi(expr); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(expr, 64); err == nil {
		return f
	}

	if expr == "true" || expr == "false" {
		return expr == "true"
	}

	if parts := splitTopLevel(expr, '+'); len(parts) > 1 && containsQuoted(parts) {
		return renderConcat(parts)
	}

	return "{{ " + normalizeOperators(expr) + " }}"
}

func containsQuoted(parts []string) bool {
	for _, p := range parts {
		if isQuoted(p) {
			return true
		}
	}

	return false
}

// renderConcat renders a string concatenation as one interpolated template:
// quoted pieces stay literal text, everything else becomes an expression.
func renderConcat(parts []string) string {
	var b strings.Builder

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if isQuoted(part) {
			b.WriteString(stripQuotes(part))
		} else {
			b.WriteString("{{ " + normalizeOperators(part) + " }}")
		}
	}

	return b.String()
}

// extractBlock returns the body of a brace-delimited block starting at the
// character after the opening brace, found by depth-first delimiter counting
// (bodies may be arbitrarily nested, so a regular expression cannot do this).
// The returned end index points at the closing brace.
func extractBlock(s string, open int) (string, int, bool) {
	depth := 1

	var quote byte

	for i := open + 1; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == quote && s[i-1] != '\\' {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[open+1 : i], i, true
			}
		}
	}

	return "", -1, false
}

package translate

import (
	"regexp"
	"strings"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// gate is one detected validation idiom: "if (condition) { throw message }".
type gate struct {
	condition string
	message   string
	start     int
	end       int // index past the closing brace
}

var ifHeadRe = regexp.MustCompile(`\bif\s*\(`)

var throwRe = regexp.MustCompile(`\bthrow\s+(?:new\s+Error\s*\(\s*)?(["'])`)

// ExtractValidations translates validation gates into assertion steps. The
// source throws when the condition is true, so the assertion check is the
// logical negation of the source condition; the thrown message becomes the
// failure message verbatim.
func ExtractValidations(script string, item *models.WorkflowItem) []*models.Task {
	gates := findGates(script)

	tasks := make([]*models.Task, 0, len(gates))
	for _, g := range gates {
		tasks = append(tasks, &models.Task{
			Name:   "Assert: " + g.condition + " must not hold",
			Action: "ansible.builtin.assert",
			Args: map[string]any{
				"that":     []string{negateCondition(g.condition)},
				"fail_msg": g.message,
			},
		})
	}

	return tasks
}

// gateSpans returns the source ranges covered by validation gates, so the
// assignment extractor can exclude statements the validation extractor
// already consumed.
func gateSpans(script string) [][2]int {
	gates := findGates(script)

	spans := make([][2]int, 0, len(gates))
	for _, g := range gates {
		spans = append(spans, [2]int{g.start, g.end})
	}

	return spans
}

func findGates(script string) []gate {
	var gates []gate

	for _, loc := range ifHeadRe.FindAllStringIndex(script, -1) {
		condition, condEnd, ok := extractParens(script, loc[1]-1)
		if !ok {
			continue
		}

		open := nextNonSpace(script, condEnd+1)
		if open < 0 || script[open] != '{' {
			continue
		}

		body, bodyEnd, ok := extractBlock(script, open)
		if !ok {
			continue
		}

		message, ok := unconditionalThrow(body)
		if !ok {
			continue
		}

		gates = append(gates, gate{
			condition: strings.TrimSpace(condition),
			message:   message,
			start:     loc[0],
			end:       bodyEnd + 1,
		})
	}

	return gates
}

// unconditionalThrow finds a throw statement at the top level of a gate body
// and returns its message.
func unconditionalThrow(body string) (string, bool) {
	m := throwRe.FindStringSubmatchIndex(body)
	if m == nil {
		return "", false
	}

	// The throw must not be nested inside a deeper block of the body.
	if blockDepthAt(body, m[0]) != 0 {
		return "", false
	}

	quote := body[m[2]]
	end := -1

	for i := m[3]; i < len(body); i++ {
		if body[i] == quote && body[i-1] != '\\' {
			end = i

			break
		}
	}

	if end < 0 {
		return "", false
	}

	return body[m[3]:end], true
}

// negateCondition inverts a source condition through careful operator
// inversion; an unrecognized operator falls back to wrapping the whole
// condition in a boolean negation.
func negateCondition(cond string) string {
	cond = strings.TrimSpace(cond)

	if indexTopLevel(cond, "&&") >= 0 || indexTopLevel(cond, "||") >= 0 {
		return "not (" + normalizeOperators(cond) + ")"
	}

	inversions := [][2]string{
		{"===", "!="},
		{"!==", "=="},
		{"==", "!="},
		{"!=", "=="},
		{">=", "<"},
		{"<=", ">"},
		{">", "<="},
		{"<", ">="},
	}

	for _, inv := range inversions {
		if idx := indexTopLevel(cond, inv[0]); idx >= 0 {
			left := strings.TrimSpace(cond[:idx])
			right := strings.TrimSpace(cond[idx+len(inv[0]):])

			return left + " " + inv[1] + " " + right
		}
	}

	return "not (" + normalizeOperators(cond) + ")"
}

// extractParens returns the text between a matching parenthesis pair, given
// the index of the opening parenthesis.
func extractParens(s string, open int) (string, int, bool) {
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
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return s[open+1 : i], i, true
			}
		}
	}

	return "", -1, false
}

// indexTopLevel returns the first index of needle outside quotes and
// parentheses, or -1.
func indexTopLevel(s, needle string) int {
	var (
		depth int
		quote byte
	)

	for i := 0; i+len(needle) <= len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}

			continue
		case c == '"' || c == '\'':
			quote = c

			continue
		case c == '(' || c == '[':
			depth++

			continue
		case c == ')' || c == ']':
			depth--

			continue
		}

		if depth == 0 && s[i:i+len(needle)] == needle {
			return i
		}
	}

	return -1
}

// blockDepthAt returns the brace nesting depth at an index.
func blockDepthAt(s string, at int) int {
	var (
		depth int
		quote byte
	)

	for i := 0; i < at && i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}

	return depth
}

// nextNonSpace returns the index of the next non-whitespace byte at or after
// from, or -1.
func nextNonSpace(s string, from int) int {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return i
		}
	}

	return -1
}

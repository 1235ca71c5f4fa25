package translate

import (
	"regexp"
	"strings"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

var assignRe = regexp.MustCompile(`^\s*(?:var\s+)?([A-Za-z_]\w*)\s*=\s*(.+?);\s*$`)

var methodCallRe = regexp.MustCompile(`\w+\s*\.\s*\w+\s*\(`)

// ExtractAssignments translates top-level "name = expression;" statements
// into value-binding tasks. Statements inside validation-gate bodies are
// excluded (the validation extractor consumes those), and right-hand sides
// that are method calls are left to the call-oriented extractors so no
// statement is emitted twice.
func ExtractAssignments(script string, item *models.WorkflowItem) []*models.Task {
	spans := gateSpans(script)

	var tasks []*models.Task

	offset := 0

	for _, line := range strings.SplitAfter(script, "\n") {
		lineStart := offset
		offset += len(line)

		m := assignRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		if insideSpan(spans, lineStart) {
			continue
		}

		name, rhs := m[1], m[2]
		if methodCallRe.MatchString(rhs) {
			continue
		}

		tasks = append(tasks, &models.Task{
			Name:   "Set " + name,
			Action: "ansible.builtin.set_fact",
			Args: map[string]any{
				name: renderValue(rhs),
			},
		})
	}

	return tasks
}

func insideSpan(spans [][2]int, pos int) bool {
	for _, span := range spans {
		if pos >= span[0] && pos < span[1] {
			return true
		}
	}

	return false
}

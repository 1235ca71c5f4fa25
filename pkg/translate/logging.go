package translate

import (
	"regexp"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

var logCallRe = regexp.MustCompile(`System\.(log|debug|warn|error)\s*\(`)

// ExtractLogs translates logging calls into informational steps. String
// concatenation in the logged expression is rendered as an interpolated
// template.
func ExtractLogs(script string, item *models.WorkflowItem) []*models.Task {
	var tasks []*models.Task

	for _, m := range logCallRe.FindAllStringSubmatchIndex(script, -1) {
		expr, _, ok := extractParens(script, m[1]-1)
		if !ok {
			continue
		}

		level := script[m[2]:m[3]]

		task := &models.Task{
			Name:   "Log message",
			Action: "ansible.builtin.debug",
			Args: map[string]any{
				"msg": renderValue(expr),
			},
		}

		if level == "warn" || level == "error" {
			task.Name = "Log " + level + " message"
		}

		tasks = append(tasks, task)
	}

	return tasks
}

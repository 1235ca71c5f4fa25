package translate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/config"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

var callRe = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*\.\s*([A-Za-z_]\w*)\s*\(`)

// Call objects that belong to other extractors, never to integration codegen.
var reservedObjects = map[string]bool{
	"System":        true,
	"LockingSystem": true,
}

// ExtractIntegrations translates recognized external-system calls. Matching
// is driven entirely by the caller-supplied allowlist. When a mapping
// declares required configuration keys that are absent from the fact set,
// the extractor emits a stub task that deterministically fails and names
// exactly what is missing, instead of guessing a translation.
func ExtractIntegrations(script string, item *models.WorkflowItem, mappings *config.Mappings, facts config.Facts) []*models.Task {
	var tasks []*models.Task

	for _, m := range callRe.FindAllStringSubmatchIndex(script, -1) {
		object := script[m[2]:m[3]]
		method := script[m[4]:m[5]]

		if reservedObjects[object] {
			continue
		}

		argText, argEnd, ok := extractParens(script, m[1]-1)
		if !ok {
			continue
		}

		callText := strings.TrimSpace(script[m[0] : argEnd+1])

		entry, matched := mappings.Match(object, method, callText)
		if !matched {
			continue
		}

		if missing := facts.Missing(entry.RequiredConfig); len(missing) > 0 {
			tasks = append(tasks, stubTask(entry, callText, missing))

			continue
		}

		tasks = append(tasks, integrationTask(entry, argText))
	}

	return tasks
}

// stubTask is the deterministic "blocked, here is what to configure"
// fallback: it always fails and quotes the original call as evidence.
func stubTask(entry *config.IntegrationMapping, callText string, missing []string) *models.Task {
	return &models.Task{
		Name:   fmt.Sprintf("Blocked: %s.%s requires configuration", entry.Object, entry.Method),
		Action: "ansible.builtin.fail",
		Args: map[string]any{
			"msg": fmt.Sprintf(
				"Cannot translate %q: missing configuration for %s. Supply these keys and re-run the translation.",
				callText, strings.Join(missing, ", ")),
		},
		Tags:    entry.Tags,
		Comment: "source call: " + callText,
	}
}

func integrationTask(entry *config.IntegrationMapping, argText string) *models.Task {
	args := splitArgs(argText)

	taskArgs := make(map[string]any, len(entry.Params))
	for name, tmpl := range entry.Params {
		taskArgs[name] = substituteArgs(tmpl, args)
	}

	return &models.Task{
		Name:   entry.Description,
		Action: entry.Action,
		Args:   taskArgs,
		Tags:   entry.Tags,
	}
}

func splitArgs(argText string) []string {
	if strings.TrimSpace(argText) == "" {
		return nil
	}

	parts := splitTopLevel(argText, ',')
	args := make([]string, 0, len(parts))

	for _, part := range parts {
		args = append(args, strings.TrimSpace(part))
	}

	return args
}

// substituteArgs replaces positional arg0, arg1, ... placeholders in a
// parameter template with the call-site arguments, stripping surrounding
// quote characters from literal arguments. Higher indexes are replaced first
// so arg10 never collides with arg1.
func substituteArgs(tmpl string, args []string) string {
	for i := len(args) - 1; i >= 0; i-- {
		placeholder := "arg" + strconv.Itoa(i)

		value := args[i]
		if isQuoted(value) {
			value = stripQuotes(value)
		} else if tmpl == placeholder {
			// A bare variable argument stays an expression in the output.
			value = "{{ " + value + " }}"
		}

		tmpl = strings.ReplaceAll(tmpl, placeholder, value)
	}

	return tmpl
}

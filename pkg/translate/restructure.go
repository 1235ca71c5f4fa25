package translate

import (
	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// failureDetailExpr is the target runtime's built-in failure-detail value,
// available inside a rescue section.
const failureDetailExpr = "{{ ansible_failed_result.msg }}"

// restructureException turns one try/catch(/finally) span into a guarded
// execution structure. The try body becomes the primary list; the catch body
// becomes the on-failure list, prefixed with a synthesized diagnostic step
// and suffixed with a synthesized re-fail step when the source re-throws;
// the finally body becomes the always list. A missing finally omits the
// always section entirely; a finally that translates to nothing gets one
// placeholder step so the always list is never silently empty.
func (e *Engine) restructureException(item *models.WorkflowItem, block *ExceptionBlock) *models.Task {
	rescue := []*models.Task{{
		Name:   "Report failure in " + item.Label(),
		Action: "ansible.builtin.debug",
		Args: map[string]any{
			"msg": "Step failed: " + failureDetailExpr,
		},
	}}
	rescue = append(rescue, e.translateFragment(item, block.CatchBody)...)

	if block.Rethrows() {
		rescue = append(rescue, &models.Task{
			Name:   "Re-raise failure from " + item.Label(),
			Action: "ansible.builtin.fail",
			Args: map[string]any{
				"msg": failureDetailExpr,
			},
		})
	}

	primary := e.translateFragment(item, block.TryBody)
	if len(primary) == 0 {
		primary = []*models.Task{placeholderTask(item, "try block had no translatable statements")}
	}

	task := &models.Task{
		Name:   "Guarded execution: " + item.Label(),
		Block:  primary,
		Rescue: rescue,
	}

	if block.HasFinally {
		always := e.translateFragment(item, block.FinallyBody)
		if len(always) == 0 {
			always = []*models.Task{{
				Name:   "Cleanup for " + item.Label(),
				Action: "ansible.builtin.debug",
				Args: map[string]any{
					"msg": "finally block had no translatable statements",
				},
			}}
		}

		task.Always = always
	}

	return task
}

package translate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/actionindex"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/config"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/graph"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// Engine is the workflow translation pipeline. It is single-threaded and
// deterministic: the same document, action index, and fact set always yield
// byte-identical output. It never consults wall-clock time or random sources
// for anything that affects task content.
type Engine struct {
	logger   *slog.Logger
	mappings *config.Mappings
	facts    config.Facts
	lock     LockBackend
}

// New constructs an engine. Selecting an unsupported lock backend fails
// here, not during translation.
func New(logger *slog.Logger, mappings *config.Mappings, facts config.Facts, lockBackend string) (*Engine, error) {
	backend, err := NewLockBackend(lockBackend)
	if err != nil {
		return nil, err
	}

	if mappings == nil {
		mappings = config.DefaultMappings()
	}

	if facts == nil {
		facts = make(config.Facts)
	}

	return &Engine{
		logger:   logger,
		mappings: mappings,
		facts:    facts,
		lock:     backend,
	}, nil
}

// Result is one translation run's output: the ordered task list plus the
// per-item unresolved action references (diagnostic, not fatal).
type Result struct {
	WorkflowName string
	Tasks        []*models.Task
	Unresolved   map[string][]string
	Resolved     map[string][]*models.ActionDef
}

// Translate runs the full pipeline over a parsed graph: order resolution,
// action resolution against the index, then per-item statement translation
// in execution order. Every item contributes at least one task, so the total
// task count stays an auditable function of the input.
func (e *Engine) Translate(g *graph.Graph, idx *actionindex.Index) *Result {
	result := &Result{
		WorkflowName: g.Name,
		Unresolved:   make(map[string][]string),
		Resolved:     make(map[string][]*models.ActionDef),
	}

	resolutions := g.ResolveActions(idx)

	for _, item := range g.Ordered() {
		if res := resolutions[item.Name]; res != nil {
			if len(res.Unresolved) > 0 {
				result.Unresolved[item.Name] = res.Unresolved
				e.logger.Warn("Unresolved action references",
					"item", item.Name, "references", strings.Join(res.Unresolved, ", "))
			}

			result.Resolved[item.Name] = res.Resolved
		}

		result.Tasks = append(result.Tasks, e.TranslateItem(item)...)
	}

	return result
}

// TranslateItem translates one item's script. Exception structures win over
// lock synthesis, which wins over flat extraction; an item that yields
// nothing emits one labeled placeholder so no input is silently dropped.
func (e *Engine) TranslateItem(item *models.WorkflowItem) []*models.Task {
	if strings.TrimSpace(item.Script) == "" {
		return []*models.Task{placeholderTask(item, "item has no script body")}
	}

	tasks := e.translateScript(item, item.Script)
	if len(tasks) == 0 {
		return []*models.Task{placeholderTask(item, "no usable translation for this statement shape")}
	}

	return tasks
}

// translateScript is the recursive core: exception restructuring first, then
// lock synthesis, then the flat extractor pass.
func (e *Engine) translateScript(item *models.WorkflowItem, script string) []*models.Task {
	if block, ok := ExtractExceptionBlock(script); ok {
		tasks := e.translateFragment(item, script[:block.Start])
		tasks = append(tasks, e.restructureException(item, block))

		return append(tasks, e.translateFragment(item, script[block.End:])...)
	}

	if patterns := DetectLockPatterns(script); len(patterns) > 0 {
		return e.translateWithLocks(item, script, patterns)
	}

	return e.extract(item, script)
}

// translateFragment re-runs the full pipeline over a script fragment. Used
// for try/catch/finally bodies and lock work sections, so nested structures
// translate the same way top-level ones do.
func (e *Engine) translateFragment(item *models.WorkflowItem, fragment string) []*models.Task {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	return e.translateScript(item, fragment)
}

// translateWithLocks synthesizes the first acquire/release pair into a
// guarded structure; statements before the acquire and after the release
// translate flat around it. Remaining patterns are flagged for manual review
// rather than nested — multiple-lock ordering semantics are not something
// this engine guesses at.
func (e *Engine) translateWithLocks(item *models.WorkflowItem, script string, patterns []*models.LockPattern) []*models.Task {
	first := patterns[0]

	if !first.HasRelease() {
		e.logger.Warn("Lock acquire without matching release",
			"item", item.Name, "resource", first.Resource)

		tasks := []*models.Task{placeholderTask(item,
			fmt.Sprintf("lock on %q is never released in the source; review before translating", first.Resource))}

		return append(tasks, e.extract(item, script)...)
	}

	acquireEnd := statementEnd(script, first.AcquirePos)
	releaseEnd := statementEnd(script, first.ReleasePos)

	pre := e.extract(item, script[:first.AcquirePos])
	work := e.translateFragment(item, script[acquireEnd:first.ReleasePos])
	post := e.extract(item, script[releaseEnd:])

	tasks := append(pre, SynthesizeLock(e.lock, first, work))
	tasks = append(tasks, post...)

	for _, extra := range patterns[1:] {
		tasks = append(tasks, placeholderTask(item,
			fmt.Sprintf("additional lock on %q detected; review manually", extra.Resource)))
	}

	return tasks
}

// extract runs the flat extractor pass in its fixed priority: integration
// calls, log statements, validation gates, variable assignments. The order
// is a stable output convention, not a semantic requirement.
func (e *Engine) extract(item *models.WorkflowItem, script string) []*models.Task {
	var tasks []*models.Task

	tasks = append(tasks, ExtractIntegrations(script, item, e.mappings, e.facts)...)
	tasks = append(tasks, ExtractLogs(script, item)...)
	tasks = append(tasks, ExtractValidations(script, item)...)
	tasks = append(tasks, ExtractAssignments(script, item)...)

	return tasks
}

func placeholderTask(item *models.WorkflowItem, reason string) *models.Task {
	return &models.Task{
		Name:   "Review: " + item.Label(),
		Action: "ansible.builtin.debug",
		Args: map[string]any{
			"msg": fmt.Sprintf("Item %q: %s", item.Name, reason),
		},
		Comment: reason,
	}
}

// statementEnd returns the index just past the statement that starts at pos:
// past the next semicolon, or the next newline when no semicolon follows.
func statementEnd(script string, pos int) int {
	for i := pos; i < len(script); i++ {
		if script[i] == ';' {
			return i + 1
		}

		if script[i] == '\n' {
			return i + 1
		}
	}

	return len(script)
}

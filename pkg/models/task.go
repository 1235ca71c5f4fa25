package models

// Task is the engine's output unit: one declarative target task. A task is
// either a module invocation (Action + Args) or a guarded execution structure
// (Block, with optional Rescue and Always sections), mirroring the target
// format where a task carries exactly one of the two shapes.
type Task struct {
	Name     string         `json:"name"`
	Action   string         `json:"action,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
	When     string         `json:"when,omitempty"`
	Register string         `json:"register,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Comment  string         `json:"comment,omitempty"`

	// Retry budget for the target runtime's execution of the task; never a
	// property of the engine's own execution.
	Retries int    `json:"retries,omitempty"`
	Delay   int    `json:"delay,omitempty"`
	Until   string `json:"until,omitempty"`

	// Guarded execution structure. Always stays nil when the source had no
	// always-section; an empty non-nil list is never emitted.
	Block  []*Task `json:"block,omitempty"`
	Rescue []*Task `json:"rescue,omitempty"`
	Always []*Task `json:"always,omitempty"`
}

// IsBlock reports whether the task is a guarded execution structure rather
// than a plain module invocation.
func (t *Task) IsBlock() bool {
	return len(t.Block) > 0
}

// Package models defines the core domain types for vRO workflow translation.
package models

// ItemType represents the kind of a workflow graph node.
type ItemType string

const (
	ItemTypeTask        ItemType = "task"
	ItemTypeDecision    ItemType = "decision"
	ItemTypeInteraction ItemType = "interaction"
	ItemTypeEmail       ItemType = "email"
	ItemTypeEnd         ItemType = "end"
)

// Binding is one input or output binding on a workflow item.
type Binding struct {
	Name       string `json:"name"       validate:"required"`
	Type       string `json:"type"`
	ExportName string `json:"export_name,omitempty"`
}

// Position is the 2D layout position of an item in the workflow canvas.
// It is only consulted as a deterministic tie-break when a graph has no
// unambiguous root.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WorkflowItem is one node in the workflow graph. Items are created once
// during document parsing and are immutable afterwards; the graph owns them.
type WorkflowItem struct {
	Name        string    `json:"name" validate:"required"`
	Type        ItemType  `json:"type" validate:"required"`
	DisplayName string    `json:"display_name"`
	Script      string    `json:"script,omitempty"`
	InBindings  []Binding `json:"in_bindings,omitempty"`
	OutBindings []Binding `json:"out_bindings,omitempty"`
	OutName     string    `json:"out_name,omitempty"` // next item, "" = terminal
	Position    *Position `json:"position,omitempty"`
}

// Label returns the human-readable name for the item, falling back to the
// internal name when no display name was authored.
func (i *WorkflowItem) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}

	return i.Name
}

package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// ActionParam describes one declared input parameter of a reusable action.
type ActionParam struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ActionDef is one reusable vRO script module. Definitions are created during
// bulk indexing and are immutable; the action index owns them.
type ActionDef struct {
	FQName      string        `json:"fq_name" validate:"required"` // module-path/short-name
	Name        string        `json:"name"    validate:"required"`
	ModulePath  string        `json:"module_path"`
	Script      string        `json:"script"  validate:"required"`
	Inputs      []ActionParam `json:"inputs,omitempty"`
	ResultType  string        `json:"result_type,omitempty"`
	Description string        `json:"description,omitempty"`
	ScriptHash  string        `json:"script_hash"`
	Version     string        `json:"version,omitempty"`
	SourcePath  string        `json:"source_path,omitempty"`
}

// HashScript computes the content hash for an action script body. The hash
// covers the exact text, so whitespace-only edits still change it.
func HashScript(script string) string {
	sum := sha256.Sum256([]byte(script))

	return hex.EncodeToString(sum[:])
}

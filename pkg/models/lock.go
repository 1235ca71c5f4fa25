package models

// DefaultLockTimeoutSeconds applies when an acquire call omits its timeout.
const DefaultLockTimeoutSeconds = 300

// LockPattern is one detected acquire/release pair in an item script. A
// pattern with no matching release is still reported (it signals an authoring
// defect in the source workflow) but is not synthesized into a full guarded
// structure without explicit caller acknowledgment.
type LockPattern struct {
	Resource       string `json:"resource"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	AcquirePos     int    `json:"acquire_pos"`
	ReleasePos     int    `json:"release_pos"` // -1 when no release call was found
	HasFinally     bool   `json:"has_finally"`
}

// HasRelease reports whether a matching release call was found.
func (p *LockPattern) HasRelease() bool {
	return p.ReleasePos >= 0
}

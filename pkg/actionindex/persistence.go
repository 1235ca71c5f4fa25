package actionindex

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// snapshot is the flat on-disk record format for a persisted index. The
// generated-at timestamp is metadata only and never affects re-derived
// behavior.
type snapshot struct {
	Count       int                          `json:"count"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Actions     map[string]*models.ActionDef `json:"actions"`
	Order       []string                     `json:"order"`
}

// Save serializes the index to path, creating parent directories as needed.
func (idx *Index) Save(path string) error {
	snap := snapshot{
		Count:       idx.Len(),
		GeneratedAt: time.Now().UTC(),
		Actions:     idx.actions,
		Order:       idx.order,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize action index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write action index %s: %w", path, err)
	}

	return nil
}

// Load restores a persisted index. A missing, corrupt, or truncated file
// yields nil (with a warning) rather than an error, so callers always have
// the empty-index behavior as a safe fallback.
func Load(logger *slog.Logger, path string) *Index {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Action index cache not readable, continuing without it", "path", path, "error", err)

		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.Warn("Action index cache is corrupt, continuing without it", "path", path, "error", err)

		return nil
	}

	idx := NewIndex()

	for _, fqName := range snap.Order {
		if def, ok := snap.Actions[fqName]; ok && def != nil {
			idx.add(def)
		}
	}

	// Older snapshots may lack the order list; fall back to the map with a
	// re-derived deterministic order.
	if len(idx.order) == 0 && len(snap.Actions) > 0 {
		for _, fqName := range sortedKeys(snap.Actions) {
			idx.add(snap.Actions[fqName])
		}
	}

	if snap.Count != idx.Len() {
		logger.Warn("Action index cache looks truncated, continuing without it",
			"path", path, "declared", snap.Count, "loaded", idx.Len())

		return nil
	}

	return idx
}

func sortedKeys(m map[string]*models.ActionDef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

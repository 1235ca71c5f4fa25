// Package actionindex builds and serves the lookup table of reusable vRO
// script modules, keyed by fully-qualified name.
package actionindex

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/vro"
)

// Index maps fully-qualified names to action definitions. It is read-only
// after construction and safe to reuse across many translations in one run.
type Index struct {
	actions map[string]*models.ActionDef
	order   []string // insertion order, keeps lookups by module deterministic
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		actions: make(map[string]*models.ActionDef),
	}
}

// Build parses every module-bundle entry into the index. A per-entry parse
// failure is logged and skipped; N entries with K unparsable ones yield an
// index of size N-K. The build itself never fails.
func Build(logger *slog.Logger, root string, entries []string) *Index {
	idx := NewIndex()

	for _, entry := range entries {
		def, err := vro.ParseActionFile(entry, root)
		if err != nil {
			logger.Warn("Skipping unparsable module document", "path", entry, "error", err)

			continue
		}

		idx.add(def)
	}

	logger.Info("Action index built", "entries", len(entries), "indexed", idx.Len())

	return idx
}

// BuildFromDir walks a bundle directory and indexes every XML module
// document found under it. Directory walking is lexical, so insertion order
// is stable across runs.
func BuildFromDir(logger *slog.Logger, root string) (*Index, error) {
	entries := make([]string, 0)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if strings.EqualFold(filepath.Ext(path), ".xml") {
			entries = append(entries, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return Build(logger, root, entries), nil
}

func (idx *Index) add(def *models.ActionDef) {
	if _, exists := idx.actions[def.FQName]; !exists {
		idx.order = append(idx.order, def.FQName)
	}

	idx.actions[def.FQName] = def
}

// Get returns the definition for a fully-qualified name, or false when the
// name is not indexed. Misses are expected and never an error.
func (idx *Index) Get(fqName string) (*models.ActionDef, bool) {
	if idx == nil {
		return nil, false
	}

	def, ok := idx.actions[fqName]

	return def, ok
}

// FindByModule returns all definitions under one module path, in index
// insertion order.
func (idx *Index) FindByModule(modulePath string) []*models.ActionDef {
	if idx == nil {
		return nil
	}

	var defs []*models.ActionDef

	for _, fqName := range idx.order {
		if idx.actions[fqName].ModulePath == modulePath {
			defs = append(defs, idx.actions[fqName])
		}
	}

	return defs
}

// Len returns the number of indexed definitions.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}

	return len(idx.actions)
}

// FQNames returns every indexed fully-qualified name in insertion order.
func (idx *Index) FQNames() []string {
	if idx == nil {
		return nil
	}

	names := make([]string, len(idx.order))
	copy(names, idx.order)

	return names
}

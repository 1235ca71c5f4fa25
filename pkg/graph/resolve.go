package graph

import (
	"regexp"
	"sort"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/actionindex"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// Resolution records which action modules one item's script calls. Resolved
// entries carry the full definition (including its own script, available for
// recursive downstream translation); unresolved entries are names only.
type Resolution struct {
	Resolved   []*models.ActionDef
	Unresolved []string
}

// Call-site surface forms. The one-shot form gets a module and immediately
// invokes a method on it; the bind form assigns the module to a variable and
// calls the method later.
var (
	oneShotCallRe = regexp.MustCompile(`System\.getModule\("([^"]+)"\)\s*\.\s*(\w+)\s*\(`)
	moduleBindRe  = regexp.MustCompile(`(\w+)\s*=\s*System\.getModule\("([^"]+)"\)\s*;`)
)

// ResolveActions scans every item script for action call references and looks
// each module-path + method pair up in the index. Duplicate call sites naming
// the same fully-qualified name collapse to a single entry. Misses are
// diagnostic, not fatal.
func (g *Graph) ResolveActions(idx *actionindex.Index) map[string]*Resolution {
	resolutions := make(map[string]*Resolution, len(g.order))

	for _, name := range g.order {
		resolutions[name] = resolveItem(g.items[name], idx)
	}

	return resolutions
}

// ScanCalls returns every module-path/method fully-qualified name referenced
// by a script, in first-occurrence order.
func ScanCalls(script string) []string {
	type ref struct {
		pos    int
		fqName string
	}

	var refs []ref

	for _, m := range oneShotCallRe.FindAllStringSubmatchIndex(script, -1) {
		modulePath := script[m[2]:m[3]]
		method := script[m[4]:m[5]]
		refs = append(refs, ref{pos: m[0], fqName: modulePath + "/" + method})
	}

	// Bind form: collect bound variables, then find method calls on them.
	for _, m := range moduleBindRe.FindAllStringSubmatchIndex(script, -1) {
		variable := script[m[2]:m[3]]
		modulePath := script[m[4]:m[5]]

		callRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(variable) + `\s*\.\s*(\w+)\s*\(`)
		for _, c := range callRe.FindAllStringSubmatchIndex(script, -1) {
			if c[0] < m[1] {
				continue // the getModule call itself, or text before the bind
			}

			method := script[c[2]:c[3]]
			if method == "getModule" {
				continue
			}

			refs = append(refs, ref{pos: c[0], fqName: modulePath + "/" + method})
		}
	}

	// Stable order: by position in the script, first occurrence wins.
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].pos < refs[j].pos
	})

	seen := make(map[string]bool, len(refs))
	names := make([]string, 0, len(refs))

	for _, r := range refs {
		if seen[r.fqName] {
			continue
		}

		seen[r.fqName] = true
		names = append(names, r.fqName)
	}

	return names
}

func resolveItem(item *models.WorkflowItem, idx *actionindex.Index) *Resolution {
	res := &Resolution{}

	for _, fqName := range ScanCalls(item.Script) {
		if def, ok := idx.Get(fqName); ok {
			res.Resolved = append(res.Resolved, def)
		} else {
			res.Unresolved = append(res.Unresolved, fqName)
		}
	}

	return res
}

// Package graph models the workflow item graph and resolves it into a
// deterministic execution order.
package graph

import (
	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/vro"
)

// Graph owns the workflow items of one document, indexed by name, with the
// original document order preserved for deterministic root selection.
type Graph struct {
	Name  string
	items map[string]*models.WorkflowItem
	order []string // document order of item names
}

// Parse builds a graph from a parsed workflow document. End items never
// execute and are excluded up front.
func Parse(doc *vro.Document) *Graph {
	g := &Graph{
		Name:  doc.Name,
		items: make(map[string]*models.WorkflowItem),
	}

	for _, item := range doc.Items {
		if item.Type == models.ItemTypeEnd {
			continue
		}

		if _, exists := g.items[item.Name]; !exists {
			g.order = append(g.order, item.Name)
		}

		g.items[item.Name] = item
	}

	return g
}

// Item returns the item with the given name.
func (g *Graph) Item(name string) (*models.WorkflowItem, bool) {
	item, ok := g.items[name]

	return item, ok
}

// Len returns the number of items in the graph.
func (g *Graph) Len() int {
	return len(g.items)
}

// Ordered linearizes the graph into execution order. The root is the first
// item (in document order) that no other item points to; a graph with no
// such item (a closed cycle) falls back to the item with the smallest layout
// position. Next-pointers are followed with a visited set, so cycles
// terminate, no item appears twice, and items unreachable from the root are
// omitted — unreachable workflow nodes cannot execute and generate no tasks.
func (g *Graph) Ordered() []*models.WorkflowItem {
	if len(g.order) == 0 {
		return nil
	}

	root := g.findRoot()

	ordered := make([]*models.WorkflowItem, 0, len(g.order))
	visited := make(map[string]bool, len(g.order))

	for name := root; name != ""; {
		item, ok := g.items[name]
		if !ok || visited[name] {
			break
		}

		visited[name] = true
		ordered = append(ordered, item)
		name = item.OutName
	}

	return ordered
}

func (g *Graph) findRoot() string {
	pointedTo := make(map[string]bool, len(g.order))

	for _, name := range g.order {
		if out := g.items[name].OutName; out != "" {
			pointedTo[out] = true
		}
	}

	for _, name := range g.order {
		if !pointedTo[name] {
			return name
		}
	}

	// Closed cycle: every item is pointed to. Pick the item with the
	// smallest layout position, breaking ties by name.
	best := g.order[0]
	for _, name := range g.order[1:] {
		if positionLess(g.items[name], g.items[best]) {
			best = name
		}
	}

	return best
}

func positionLess(a, b *models.WorkflowItem) bool {
	ax, ay := positionOf(a)
	bx, by := positionOf(b)

	if ax != bx {
		return ax < bx
	}

	if ay != by {
		return ay < by
	}

	return a.Name < b.Name
}

func positionOf(item *models.WorkflowItem) (float64, float64) {
	if item.Position == nil {
		return 0, 0
	}

	return item.Position.X, item.Position.Y
}

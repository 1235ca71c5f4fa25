package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
	"github.com/tsanders-rh/ops-translate-sub001/pkg/vro"
)

func docOf(items ...*models.WorkflowItem) *vro.Document {
	return &vro.Document{Name: "test", Items: items}
}

func item(name, out string) *models.WorkflowItem {
	return &models.WorkflowItem{Name: name, Type: models.ItemTypeTask, OutName: out}
}

func names(items []*models.WorkflowItem) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Name)
	}

	return out
}

func TestParse_ExcludesEndItems(t *testing.T) {
	g := Parse(docOf(
		item("a", "b"),
		item("b", ""),
		&models.WorkflowItem{Name: "item0", Type: models.ItemTypeEnd},
	))

	assert.Equal(t, 2, g.Len())

	_, ok := g.Item("item0")
	assert.False(t, ok)
}

func TestOrdered_Chain(t *testing.T) {
	// Document order intentionally scrambled: only next-pointers decide.
	g := Parse(docOf(
		item("b", "c"),
		item("a", "b"),
		item("c", ""),
	))

	assert.Equal(t, []string{"a", "b", "c"}, names(g.Ordered()))
}

func TestOrdered_CycleTerminates(t *testing.T) {
	// c points back to b: order resolution must terminate without
	// duplicates.
	g := Parse(docOf(
		item("a", "b"),
		item("b", "c"),
		item("c", "b"),
	))

	assert.Equal(t, []string{"a", "b", "c"}, names(g.Ordered()))
}

func TestOrdered_UnreachableOmitted(t *testing.T) {
	g := Parse(docOf(
		item("a", "b"),
		item("b", ""),
		item("orphan", ""),
	))

	// orphan is also a root candidate, but "a" comes first in document
	// order; orphan cannot execute and generates no tasks.
	assert.Equal(t, []string{"a", "b"}, names(g.Ordered()))
}

func TestOrdered_ClosedCycleFallsBackToPosition(t *testing.T) {
	left := item("left", "right")
	left.Position = &models.Position{X: 10, Y: 50}

	right := item("right", "left")
	right.Position = &models.Position{X: 200, Y: 50}

	g := Parse(docOf(right, left))

	require.Equal(t, []string{"left", "right"}, names(g.Ordered()))
}

func TestOrdered_Empty(t *testing.T) {
	g := Parse(docOf(&models.WorkflowItem{Name: "item0", Type: models.ItemTypeEnd}))
	assert.Empty(t, g.Ordered())
}

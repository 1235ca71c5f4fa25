package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

func testItem(script string) *models.WorkflowItem {
	return &models.WorkflowItem{Name: "item1", Type: models.ItemTypeTask, Script: script}
}

func TestNegateCondition(t *testing.T) {
	// The source throws when the condition is true; the assertion must fail
	// when the inverted check is false.
	assert.Equal(t, "x <= 16", negateCondition("x > 16"))
	assert.Equal(t, "x >= 16", negateCondition("x < 16"))
	assert.Equal(t, "x < 16", negateCondition("x >= 16"))
	assert.Equal(t, "x > 16", negateCondition("x <= 16"))
	assert.Equal(t, `x != "prod"`, negateCondition(`x === "prod"`))
	assert.Equal(t, `x != "prod"`, negateCondition(`x == "prod"`))
	assert.Equal(t, `x == "prod"`, negateCondition(`x !== "prod"`))
	assert.Equal(t, `x == "prod"`, negateCondition(`x != "prod"`))

	// Unrecognized operators fall back to wrapping the whole condition.
	assert.Equal(t, "not (isEmpty(x))", negateCondition("isEmpty(x)"))
	assert.Equal(t, "not (a == 1 && b == 2)", negateCondition("a === 1 && b === 2"))
}

func TestNegateCondition_OperatorInsideString(t *testing.T) {
	// The ">" inside the string literal must not be mistaken for the
	// comparison operator.
	assert.Equal(t, `name != "a > b"`, negateCondition(`name == "a > b"`))
}

func TestExtractValidations(t *testing.T) {
	script := `if (vlanId > 4094) { throw "VLAN id out of range"; }
var other = 1;`

	tasks := ExtractValidations(script, testItem(script))
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, "ansible.builtin.assert", task.Action)
	assert.Equal(t, []string{"vlanId <= 4094"}, task.Args["that"])
	assert.Equal(t, "VLAN id out of range", task.Args["fail_msg"])
}

func TestExtractValidations_NewErrorForm(t *testing.T) {
	script := `if (env === "prod") { throw new Error("no prod changes"); }`

	tasks := ExtractValidations(script, testItem(script))
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{`env != "prod"`}, tasks[0].Args["that"])
	assert.Equal(t, "no prod changes", tasks[0].Args["fail_msg"])
}

func TestExtractValidations_IgnoresOrdinaryIf(t *testing.T) {
	// An if without an unconditional throw is not a validation gate.
	script := `if (x > 1) { System.log("big"); }`
	assert.Empty(t, ExtractValidations(script, testItem(script)))
}

func TestExtractValidations_NestedThrowNotAGate(t *testing.T) {
	script := `if (x > 1) { if (y > 2) { throw "deep"; } System.log("hi"); }`

	// The inner if is the gate, not the outer one.
	tasks := ExtractValidations(script, testItem(script))
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"y <= 2"}, tasks[0].Args["that"])
}

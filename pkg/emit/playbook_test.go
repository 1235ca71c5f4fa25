package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

func sampleTasks() []*models.Task {
	return []*models.Task{
		{
			Name:   "Set environment",
			Action: "ansible.builtin.set_fact",
			Args:   map[string]any{"env": "production"},
		},
		{
			Name:   "Open incident",
			Action: "servicenow.itsm.incident",
			Args: map[string]any{
				"state":             "new",
				"short_description": "VM provisioning failed",
			},
			Tags:    []string{"ticketing"},
			Comment: `source call: ServiceNow.createIncident(...)`,
		},
	}
}

func TestMarshalPlaybook(t *testing.T) {
	data, err := MarshalPlaybook("provision-vm", sampleTasks())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "name: provision-vm")
	assert.Contains(t, text, "hosts: localhost")
	assert.Contains(t, text, "gather_facts: false")
	assert.Contains(t, text, "ansible.builtin.set_fact:")
	assert.Contains(t, text, "env: production")

	// Task comments survive as YAML comments above the task.
	assert.Contains(t, text, "# source call: ServiceNow.createIncident(...)")
}

func TestMarshalPlaybook_Deterministic(t *testing.T) {
	first, err := MarshalPlaybook("w", sampleTasks())
	require.NoError(t, err)

	second, err := MarshalPlaybook("w", sampleTasks())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMarshalPlaybook_ArgsSorted(t *testing.T) {
	tasks := []*models.Task{{
		Name:   "many args",
		Action: "ansible.builtin.set_fact",
		Args:   map[string]any{"zeta": 1, "alpha": 2, "mid": 3},
	}}

	data, err := MarshalPlaybook("w", tasks)
	require.NoError(t, err)

	text := string(data)
	alpha := strings.Index(text, "alpha:")
	mid := strings.Index(text, "mid:")
	zeta := strings.Index(text, "zeta:")
	assert.Less(t, alpha, mid)
	assert.Less(t, mid, zeta)
}

func TestMarshalPlaybook_BlockStructure(t *testing.T) {
	tasks := []*models.Task{{
		Name: "Guarded execution: provision",
		Block: []*models.Task{
			{Name: "work", Action: "ansible.builtin.debug", Args: map[string]any{"msg": "A"}},
		},
		Rescue: []*models.Task{
			{Name: "recover", Action: "ansible.builtin.debug", Args: map[string]any{"msg": "B"}},
		},
		Always: []*models.Task{
			{Name: "cleanup", Action: "ansible.builtin.debug", Args: map[string]any{"msg": "C"}},
		},
	}}

	data, err := MarshalPlaybook("w", tasks)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "block:")
	assert.Contains(t, text, "rescue:")
	assert.Contains(t, text, "always:")

	block := strings.Index(text, "block:")
	rescue := strings.Index(text, "rescue:")
	always := strings.Index(text, "always:")
	assert.Less(t, block, rescue)
	assert.Less(t, rescue, always)
}

func TestMarshalPlaybook_AlwaysOmittedWhenNil(t *testing.T) {
	tasks := []*models.Task{{
		Name:   "no finally",
		Block:  []*models.Task{{Name: "work", Action: "ansible.builtin.debug"}},
		Rescue: []*models.Task{{Name: "recover", Action: "ansible.builtin.debug"}},
	}}

	data, err := MarshalPlaybook("w", tasks)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "always:")
}

func TestMarshalPlaybook_RetryFields(t *testing.T) {
	tasks := []*models.Task{{
		Name:     "Acquire lock vlan-pool",
		Action:   "ansible.builtin.command",
		Args:     map[string]any{"cmd": "redis-cli SET lock:vlan-pool {{ inventory_hostname }} NX EX 600"},
		Register: "lock_acquire",
		Retries:  120,
		Delay:    5,
		Until:    "lock_acquire.stdout == 'OK'",
	}}

	data, err := MarshalPlaybook("w", tasks)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "register: lock_acquire")
	assert.Contains(t, text, "retries: 120")
	assert.Contains(t, text, "delay: 5")
	assert.Contains(t, text, "until: lock_acquire.stdout == 'OK'")
}

func TestWritePlaybook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playbook.yml")

	require.NoError(t, WritePlaybook(path, "w", sampleTasks()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tasks:")
}

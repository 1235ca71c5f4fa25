package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMappings(t *testing.T) {
	doc := `[
  {
    "object": "Dns",
    "method": "registerRecord",
    "action": "community.general.nsupdate",
    "params": {"record": "arg0"},
    "required_config": ["dns.server"],
    "tags": ["dns"]
  }
]`

	mappings, err := ParseMappings([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, mappings.Len())

	entry, ok := mappings.Match("Dns", "registerRecord", "")
	require.True(t, ok)
	assert.Equal(t, "community.general.nsupdate", entry.Action)
	assert.Equal(t, []string{"dns.server"}, entry.RequiredConfig)
}

func TestParseMappings_SchemaRejection(t *testing.T) {
	cases := map[string]string{
		"missing action":      `[{"object": "Dns", "method": "register"}]`,
		"unknown field":       `[{"object": "Dns", "method": "register", "action": "x", "extra": true}]`,
		"empty object":        `[{"object": "", "method": "register", "action": "x"}]`,
		"not an array":        `{"object": "Dns"}`,
		"wrong params values": `[{"object": "Dns", "method": "register", "action": "x", "params": {"a": 1}}]`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMappings([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidMappings)
		})
	}
}

func TestLoadMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.json")
	doc := `[{"object": "Dns", "method": "registerRecord", "action": "community.general.nsupdate"}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	mappings, err := LoadMappings(path)
	require.NoError(t, err)
	assert.Equal(t, 1, mappings.Len())

	_, err = LoadMappings(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestMappings_MatchFallback(t *testing.T) {
	mappings := DefaultMappings()

	// Exact object+method wins outright.
	entry, ok := mappings.Match("ServiceNow", "createIncident", "")
	require.True(t, ok)
	assert.Equal(t, "servicenow.itsm.incident", entry.Action)

	// Wrapper objects fall back to substring matching on the call text.
	entry, ok = mappings.Match("wrapper", "createIncident", `snowClient.createIncident("x")`)
	require.True(t, ok)
	assert.Equal(t, "servicenow.itsm.incident", entry.Action)

	// Same method through an unknown wrapper with no recognized fragment.
	_, ok = mappings.Match("wrapper", "createIncident", `helper.createIncident("x")`)
	assert.False(t, ok)

	_, ok = mappings.Match("ServiceNow", "deleteIncident", "")
	assert.False(t, ok)
}

func TestParseFacts_Flattening(t *testing.T) {
	doc := `servicenow:
  instance: dev12345
  username: svc-ops
infoblox:
  server: gm.example.com
flat: value
`

	facts, err := ParseFacts([]byte(doc))
	require.NoError(t, err)

	assert.True(t, facts.Has("servicenow.instance"))
	assert.True(t, facts.Has("servicenow.username"))
	assert.True(t, facts.Has("infoblox.server"))
	assert.True(t, facts.Has("flat"))

	// Section prefixes are present whenever any child is.
	assert.True(t, facts.Has("servicenow"))

	assert.False(t, facts.Has("servicenow.password"))
}

func TestFacts_MissingIsSorted(t *testing.T) {
	facts := make(Facts)

	missing := facts.Missing([]string{"z.key", "a.key", "m.key"})
	assert.Equal(t, []string{"a.key", "m.key", "z.key"}, missing)

	facts["m.key"] = struct{}{}
	assert.Equal(t, []string{"a.key", "z.key"}, facts.Missing([]string{"z.key", "a.key", "m.key"}))

	assert.Empty(t, facts.Missing(nil))
}

func TestLoadFacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ad:\n  domain: corp.example.com\n"), 0o644))

	facts, err := LoadFacts(path)
	require.NoError(t, err)
	assert.True(t, facts.Has("ad.domain"))

	_, err = ParseFacts([]byte("{unclosed: ["))
	assert.Error(t, err)
}

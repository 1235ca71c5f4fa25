// Package config loads the declarative configuration the translation engine
// consumes: the integration-call allowlist and the configuration-availability
// facts.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// Static error variables for linter compliance.
var (
	ErrInvalidMappings = errors.New("invalid integration mappings")
)

// IntegrationMapping maps one recognized external-system call to a target
// action template. Matching is allowlist-driven, never inferred from
// arbitrary call shapes, to avoid false positives on ordinary method calls.
type IntegrationMapping struct {
	Object         string            `json:"object"                    validate:"required"`
	Method         string            `json:"method"                    validate:"required"`
	MatchContains  []string          `json:"match_contains,omitempty"`
	Action         string            `json:"action"                    validate:"required"`
	Params         map[string]string `json:"params,omitempty"` // values may reference arg0, arg1, ...
	RequiredConfig []string          `json:"required_config,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Description    string            `json:"description,omitempty"`
}

// Mappings is the immutable allowlist, loaded once per run. Entry order is
// the file order, which keeps fallback matching deterministic.
type Mappings struct {
	entries []IntegrationMapping
}

const mappingsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "object":          {"type": "string", "minLength": 1},
      "method":          {"type": "string", "minLength": 1},
      "match_contains":  {"type": "array", "items": {"type": "string"}},
      "action":          {"type": "string", "minLength": 1},
      "params":          {"type": "object", "additionalProperties": {"type": "string"}},
      "required_config": {"type": "array", "items": {"type": "string"}},
      "tags":            {"type": "array", "items": {"type": "string"}},
      "description":     {"type": "string"}
    },
    "required": ["object", "method", "action"],
    "additionalProperties": false
  }
}`

// LoadMappings reads and validates an allowlist file. The document is checked
// against the embedded schema before unmarshalling, then each entry is
// struct-validated.
func LoadMappings(path string) (*Mappings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file %s: %w", path, err)
	}

	return ParseMappings(data)
}

// ParseMappings validates and decodes an allowlist document.
func ParseMappings(data []byte) (*Mappings, error) {
	schemaLoader := gojsonschema.NewStringLoader(mappingsSchema)
	dataLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate mappings document: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			details = append(details, resultError.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidMappings, strings.Join(details, "; "))
	}

	var entries []IntegrationMapping
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode mappings document: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	for i := range entries {
		if err := validate.Struct(&entries[i]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidMappings, i, err)
		}
	}

	return &Mappings{entries: entries}, nil
}

// DefaultMappings returns the built-in allowlist covering the external
// systems the source workflows commonly integrate with, so the engine works
// without a mappings file.
func DefaultMappings() *Mappings {
	return &Mappings{entries: []IntegrationMapping{
		{
			Object:         "ServiceNow",
			Method:         "createIncident",
			MatchContains:  []string{"serviceNow", "snowClient"},
			Action:         "servicenow.itsm.incident",
			Params:         map[string]string{"state": "new", "short_description": "arg0", "description": "arg1"},
			RequiredConfig: []string{"servicenow.instance", "servicenow.username"},
			Tags:           []string{"ticketing"},
			Description:    "Open a ServiceNow incident",
		},
		{
			Object:         "ServiceNow",
			Method:         "createChangeRequest",
			MatchContains:  []string{"serviceNow", "snowClient"},
			Action:         "servicenow.itsm.change_request",
			Params:         map[string]string{"state": "new", "short_description": "arg0"},
			RequiredConfig: []string{"servicenow.instance", "servicenow.username"},
			Tags:           []string{"ticketing"},
			Description:    "Open a ServiceNow change request",
		},
		{
			Object:         "Infoblox",
			Method:         "allocateIp",
			MatchContains:  []string{"infobloxClient", "ipamService"},
			Action:         "infoblox.nios_modules.nios_host_record",
			Params:         map[string]string{"name": "arg0", "view": "default"},
			RequiredConfig: []string{"infoblox.server", "infoblox.username"},
			Tags:           []string{"ipam"},
			Description:    "Allocate an address via Infoblox",
		},
		{
			Object:         "NsxService",
			Method:         "createSecurityGroup",
			MatchContains:  []string{"nsxClient", "nsxService"},
			Action:         "vmware.ansible_for_nsxt.nsxt_policy_group",
			Params:         map[string]string{"display_name": "arg0", "state": "present"},
			RequiredConfig: []string{"nsx.manager", "nsx.username"},
			Tags:           []string{"network-policy"},
			Description:    "Create an NSX security group",
		},
		{
			Object:         "ActiveDirectory",
			Method:         "createUser",
			MatchContains:  []string{"adClient", "directoryService"},
			Action:         "microsoft.ad.user",
			Params:         map[string]string{"name": "arg0", "state": "present"},
			RequiredConfig: []string{"ad.domain", "ad.username"},
			Tags:           []string{"directory"},
			Description:    "Create a directory user",
		},
	}}
}

// Match looks an object+method pair up against the allowlist: first by exact
// pair, then by the contains-substring fallback for calls made through
// intermediate wrapper objects.
func (m *Mappings) Match(object, method, callText string) (*IntegrationMapping, bool) {
	for i := range m.entries {
		entry := &m.entries[i]
		if entry.Object == object && entry.Method == method {
			return entry, true
		}
	}

	for i := range m.entries {
		entry := &m.entries[i]
		if entry.Method != method {
			continue
		}

		for _, fragment := range entry.MatchContains {
			if strings.Contains(callText, fragment) {
				return entry, true
			}
		}
	}

	return nil, false
}

// Len returns the number of allowlist entries.
func (m *Mappings) Len() int {
	return len(m.entries)
}

// Package vro parses vRealize Orchestrator export documents: workflow
// definitions and the two module-document shapes used for reusable actions.
package vro

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// Static error variables for linter compliance.
var (
	ErrUnknownDocumentShape = errors.New("unknown module document shape")
	ErrMissingScript        = errors.New("module document has no script body")
	ErrNoWorkflowItems      = errors.New("workflow document contains no items")
)

// Document is one parsed workflow export. Items appear in document order and
// include end items; the graph layer excludes those from translation.
type Document struct {
	Name    string
	Version string
	Items   []*models.WorkflowItem
}

type workflowXML struct {
	XMLName     xml.Name          `xml:"workflow"`
	ObjectName  string            `xml:"object-name,attr"`
	Version     string            `xml:"version,attr"`
	DisplayName string            `xml:"display-name"`
	Items       []workflowItemXML `xml:"workflow-item"`
}

type workflowItemXML struct {
	Name        string         `xml:"name,attr"`
	Type        string         `xml:"type,attr"`
	OutName     string         `xml:"out-name,attr"`
	DisplayName string         `xml:"display-name"`
	Script      *scriptXML     `xml:"script"`
	InBinding   bindingListXML `xml:"in-binding"`
	OutBinding  bindingListXML `xml:"out-binding"`
	Position    *positionXML   `xml:"position"`
}

type scriptXML struct {
	Encoded string `xml:"encoded,attr"`
	Value   string `xml:",chardata"`
}

type bindingListXML struct {
	Binds []bindXML `xml:"bind"`
}

type bindXML struct {
	Name       string `xml:"name,attr"`
	Type       string `xml:"type,attr"`
	ExportName string `xml:"export-name,attr"`
}

type positionXML struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

// ParseWorkflow parses a workflow export document. A document that cannot be
// decoded, or that contains no items at all, is a fatal error for the whole
// translation run.
func ParseWorkflow(data []byte) (*Document, error) {
	var raw workflowXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode workflow document: %w", err)
	}

	if len(raw.Items) == 0 {
		return nil, ErrNoWorkflowItems
	}

	doc := &Document{
		Name:    workflowName(raw),
		Version: raw.Version,
		Items:   make([]*models.WorkflowItem, 0, len(raw.Items)),
	}

	for _, item := range raw.Items {
		doc.Items = append(doc.Items, convertItem(item))
	}

	return doc, nil
}

// ParseWorkflowFile reads and parses a workflow export document from disk.
func ParseWorkflowFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow document %s: %w", path, err)
	}

	return ParseWorkflow(data)
}

func workflowName(raw workflowXML) string {
	if raw.DisplayName != "" {
		return strings.TrimSpace(raw.DisplayName)
	}

	// object-name carries "workflow:name=generic" style identifiers.
	if idx := strings.Index(raw.ObjectName, "name="); idx >= 0 {
		return raw.ObjectName[idx+len("name="):]
	}

	return raw.ObjectName
}

func convertItem(raw workflowItemXML) *models.WorkflowItem {
	item := &models.WorkflowItem{
		Name:        raw.Name,
		Type:        models.ItemType(raw.Type),
		DisplayName: strings.TrimSpace(raw.DisplayName),
		OutName:     raw.OutName,
		InBindings:  convertBinds(raw.InBinding.Binds),
		OutBindings: convertBinds(raw.OutBinding.Binds),
	}

	if raw.Script != nil {
		item.Script = decodeScript(raw.Script)
	}

	if raw.Position != nil {
		item.Position = &models.Position{X: raw.Position.X, Y: raw.Position.Y}
	}

	return item
}

func convertBinds(raw []bindXML) []models.Binding {
	if len(raw) == 0 {
		return nil
	}

	binds := make([]models.Binding, 0, len(raw))
	for _, b := range raw {
		binds = append(binds, models.Binding{
			Name:       b.Name,
			Type:       b.Type,
			ExportName: b.ExportName,
		})
	}

	return binds
}

// decodeScript returns the script body, decoding the base64 form some vRO
// exports use. A body that fails to decode is kept as-is rather than dropped.
func decodeScript(script *scriptXML) string {
	body := script.Value
	if script.Encoded == "true" {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
		if err == nil {
			return string(decoded)
		}
	}

	return body
}

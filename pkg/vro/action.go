package vro

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// Two on-disk module-document shapes are supported. The script-module shape
// carries its identity as root attributes; the action shape always derives
// its fully-qualified name from the file path so it stays consistent with
// how calling code references the module.

type scriptModuleXML struct {
	XMLName     xml.Name     `xml:"dunes-script-module"`
	Name        string       `xml:"name,attr"`
	FQName      string       `xml:"fqname,attr"`
	ResultType  string       `xml:"result-type,attr"`
	Version     string       `xml:"version,attr"`
	Description string       `xml:"description"`
	Params      []shortParam `xml:"param"`
	Script      *scriptXML   `xml:"script"`
}

type shortParam struct {
	Name        string `xml:"n,attr"`
	Type        string `xml:"t,attr"`
	Description string `xml:"description"`
}

type actionXML struct {
	XMLName     xml.Name    `xml:"action"`
	Name        string      `xml:"name,attr"`
	Version     string      `xml:"version,attr"`
	Description string      `xml:"description"`
	Inputs      []longParam `xml:"inputs>param"`
	Output      *outputXML  `xml:"output"`
	Script      *scriptXML  `xml:"script"`
}

type longParam struct {
	Name        string `xml:"name,attr"`
	Type        string `xml:"type,attr"`
	Description string `xml:"description"`
}

type outputXML struct {
	Type string `xml:"type,attr"`
}

// ParseActionFile parses one module document into an ActionDef. root is the
// bundle root used for path-derived fully-qualified names. A document that
// matches neither shape, or that lacks a script body, is a fatal error for
// that one entry.
func ParseActionFile(path, root string) (*models.ActionDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module document %s: %w", path, err)
	}

	var scriptModule scriptModuleXML
	if err := xml.Unmarshal(data, &scriptModule); err == nil {
		return convertScriptModule(scriptModule, path, root)
	}

	var action actionXML
	if err := xml.Unmarshal(data, &action); err == nil {
		return convertAction(action, path, root)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownDocumentShape, path)
}

func convertScriptModule(raw scriptModuleXML, path, root string) (*models.ActionDef, error) {
	if raw.Script == nil || strings.TrimSpace(raw.Script.Value) == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingScript, path)
	}

	name := raw.Name
	if name == "" {
		name = shortNameFromPath(path)
	}

	fqName := raw.FQName
	if fqName == "" {
		fqName = deriveFQName(path, root, name)
	}

	script := decodeScript(raw.Script)

	def := &models.ActionDef{
		FQName:      fqName,
		Name:        name,
		ModulePath:  modulePathOf(fqName),
		Script:      script,
		ResultType:  raw.ResultType,
		Description: strings.TrimSpace(raw.Description),
		ScriptHash:  models.HashScript(script),
		Version:     raw.Version,
		SourcePath:  path,
	}

	for _, p := range raw.Params {
		def.Inputs = append(def.Inputs, models.ActionParam{
			Name:        p.Name,
			Type:        p.Type,
			Description: strings.TrimSpace(p.Description),
		})
	}

	return def, nil
}

func convertAction(raw actionXML, path, root string) (*models.ActionDef, error) {
	if raw.Script == nil || strings.TrimSpace(raw.Script.Value) == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingScript, path)
	}

	// The embedded name attribute is ignored on purpose: callers reference
	// the module by its bundle location, so the path is the identity.
	name := shortNameFromPath(path)
	fqName := deriveFQName(path, root, name)
	script := decodeScript(raw.Script)

	def := &models.ActionDef{
		FQName:      fqName,
		Name:        name,
		ModulePath:  modulePathOf(fqName),
		Script:      script,
		Description: strings.TrimSpace(raw.Description),
		ScriptHash:  models.HashScript(script),
		Version:     raw.Version,
		SourcePath:  path,
	}

	if raw.Output != nil {
		def.ResultType = raw.Output.Type
	}

	for _, p := range raw.Inputs {
		def.Inputs = append(def.Inputs, models.ActionParam{
			Name:        p.Name,
			Type:        p.Type,
			Description: strings.TrimSpace(p.Description),
		})
	}

	return def, nil
}

func shortNameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	// Bundles exported flat use dotted file names (com.acme.net.allocateIp.xml).
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		return base[idx+1:]
	}

	return base
}

// deriveFQName builds "module-path/short-name" from the entry's location
// inside the bundle: directory segments become the dotted module path. Flat
// bundles with dotted file names keep the dotted prefix as the module path.
func deriveFQName(path, root, name string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if idx := strings.LastIndex(base, "."); idx >= 0 {
		return base[:idx] + "/" + name
	}

	rel := path
	if root != "" {
		if r, err := filepath.Rel(root, path); err == nil {
			rel = r
		}
	}

	dir := filepath.Dir(rel)
	if dir == "." || dir == string(filepath.Separator) {
		return name
	}

	segments := strings.Split(filepath.ToSlash(dir), "/")

	return strings.Join(segments, ".") + "/" + name
}

func modulePathOf(fqName string) string {
	if idx := strings.LastIndex(fqName, "/"); idx >= 0 {
		return fqName[:idx]
	}

	return ""
}

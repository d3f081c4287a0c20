// Package registry loads and validates agent capability override files.
package registry

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/errors"
)

// OverrideFile is the on-disk shape of a registry override file.
type OverrideFile struct {
	Overrides []agents.Override `json:"overrides"`
}

// Load reads, schema-validates, and decodes an override file.
func Load(path string) (*OverrideFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewRegistryLoadFailedError(path, err)
	}
	return Parse(raw)
}

// Parse validates raw override JSON against the schema and decodes it.
func Parse(raw []byte) (*OverrideFile, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(overrideSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, errors.NewRegistryValidationFailedError(err.Error())
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, errors.NewRegistryValidationFailedError(strings.Join(details, "; "))
	}

	var file OverrideFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errors.NewRegistryValidationFailedError(err.Error())
	}
	return &file, nil
}

// Apply loads an override file and applies it to the registry. An empty
// path is a no-op so deployments without overrides need no file.
func Apply(reg *agents.Registry, path string) error {
	if path == "" {
		return nil
	}
	file, err := Load(path)
	if err != nil {
		return err
	}
	return reg.ApplyOverrides(file.Overrides)
}

package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile configures one import type. Different flows use different
// duplicate composite keys (a game plan row is identified by
// campaign+range+country+year, a sufficiency row by audience+budget), so
// the key is configuration, not a hardcoded rule.
type Profile struct {
	Name         string
	Required     []Field
	DuplicateKey []Field
}

type profileEntry struct {
	Required     []string `yaml:"required"`
	DuplicateKey []string `yaml:"duplicateKey"`
}

type profileFile struct {
	Profiles map[string]profileEntry `yaml:"profiles"`
}

// LoadProfiles reads the import-profile YAML. Unknown field names in the
// file are rejected up front rather than silently never matching.
func LoadProfiles(path string) (map[string]Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import profiles: %w", err)
	}
	var file profileFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse import profiles: %w", err)
	}
	if len(file.Profiles) == 0 {
		return nil, fmt.Errorf("import profiles file %s defines no profiles", path)
	}

	profiles := make(map[string]Profile, len(file.Profiles))
	for name, entry := range file.Profiles {
		p := Profile{Name: name}
		for _, f := range entry.Required {
			field := Field(f)
			if _, ok := fieldKinds[field]; !ok {
				return nil, fmt.Errorf("profile %s: unknown required field %q", name, f)
			}
			p.Required = append(p.Required, field)
		}
		for _, f := range entry.DuplicateKey {
			field := Field(f)
			if _, ok := fieldKinds[field]; !ok {
				return nil, fmt.Errorf("profile %s: unknown duplicate-key field %q", name, f)
			}
			p.DuplicateKey = append(p.DuplicateKey, field)
		}
		profiles[name] = p
	}
	return profiles, nil
}

// DefaultProfiles is the built-in fallback when no profile file is
// configured.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"gameplan": {
			Name:         "gameplan",
			Required:     []Field{FieldCountry, FieldCategory, FieldRange, FieldCampaign, FieldMediaType, FieldYear, FieldTotalBudget},
			DuplicateKey: []Field{FieldCampaign, FieldRange, FieldCountry, FieldYear},
		},
		"mediasufficiency": {
			Name:         "mediasufficiency",
			Required:     []Field{FieldCountry, FieldTargetAudience, FieldTotalBudget},
			DuplicateKey: []Field{FieldTargetAudience, FieldTotalBudget},
		},
	}
}

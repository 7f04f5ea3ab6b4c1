package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Program types
const (
	ProgramTypeMajor = "Major"
	ProgramTypeMinor = "Minor"
)

// Program describes one academic program of the catalog.
// Records are loaded once at start and never mutated afterwards.
type Program struct {
	URL                  string          `json:"url" yaml:"url"`
	Title                string          `json:"title" yaml:"title"`
	Name                 string          `json:"program_name" yaml:"program_name"`
	Type                 string          `json:"program_type" yaml:"program_type"`
	PrimaryKeywords      []string        `json:"primary_keywords" yaml:"primary_keywords"`
	SecondaryKeywords    []string        `json:"secondary_keywords" yaml:"secondary_keywords"`
	CareerFocus          []string        `json:"career_focus" yaml:"career_focus"`
	TechnologyAreas      []string        `json:"technology_areas" yaml:"technology_areas"`
	IndustryApplications []string        `json:"industry_applications" yaml:"industry_applications"`
	Content              string          `json:"content" yaml:"content"`
	Specializations      Specializations `json:"specializations" yaml:"specializations"`
}

// Specializations is the canonical form of the specializations field.
// Source files carry it as a string, a list or not at all.
type Specializations []string

// String joins the specializations for display.
func (s Specializations) String() string {
	return strings.Join(s, ", ")
}

// UnmarshalYAML accepts a scalar, a sequence or null.
func (s *Specializations) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = fromString(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("decode specializations: %w", err)
		}
		*s = compact(items)
		return nil
	default:
		return fmt.Errorf("specializations: unsupported yaml node kind %d", value.Kind)
	}
}

// UnmarshalJSON accepts a string, an array or null.
func (s *Specializations) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = nil
	case string:
		*s = fromString(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("specializations: non-string item %v", item)
			}
			items = append(items, str)
		}
		*s = compact(items)
	default:
		return fmt.Errorf("specializations: unsupported json value %v", v)
	}
	return nil
}

func fromString(v string) Specializations {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return Specializations{v}
}

func compact(items []string) Specializations {
	var out Specializations
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

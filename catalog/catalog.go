// Package catalog loads the fixed set of programs the advisor recommends from.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/egor/engadvisor/models"
)

//go:embed programs.yaml
var embedded []byte

var (
	ErrMissingProgramName = errors.New("program_name is required")
	ErrInvalidProgramType = errors.New("program_type must be Major or Minor")
)

// Catalog is the immutable, ordered program collection.
type Catalog struct {
	version  string
	programs []models.Program
}

type file struct {
	Version  string           `json:"version" yaml:"version"`
	Programs []models.Program `json:"programs" yaml:"programs"`
}

// Load reads the catalog at path. An empty path selects the embedded catalog.
// Files ending in .json are decoded as JSON, anything else as YAML.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(embedded, "yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes and validates catalog data in the given format ("json" or "yaml").
func Parse(data []byte, format string) (*Catalog, error) {
	var f file
	switch format {
	case "json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode catalog json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode catalog yaml: %w", err)
		}
	}

	for i := range f.Programs {
		if err := validate(&f.Programs[i]); err != nil {
			return nil, fmt.Errorf("program #%d: %w", i+1, err)
		}
	}

	return &Catalog{version: f.Version, programs: f.Programs}, nil
}

// New builds a catalog from in-memory records, mostly for tests.
func New(version string, programs ...models.Program) (*Catalog, error) {
	for i := range programs {
		if err := validate(&programs[i]); err != nil {
			return nil, fmt.Errorf("program #%d: %w", i+1, err)
		}
	}
	return &Catalog{version: version, programs: programs}, nil
}

func validate(p *models.Program) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingProgramName
	}
	if p.Type != models.ProgramTypeMajor && p.Type != models.ProgramTypeMinor {
		return fmt.Errorf("%w: %q (%s)", ErrInvalidProgramType, p.Type, p.Name)
	}
	return nil
}

// Programs returns the records in catalog order. Callers must not modify them.
func (c *Catalog) Programs() []models.Program {
	return c.programs
}

// Version returns the catalog version string.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of programs.
func (c *Catalog) Len() int {
	return len(c.programs)
}

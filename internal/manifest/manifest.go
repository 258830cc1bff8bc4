// Package manifest records which files a run produced and the role each one
// plays, so paired jobs can be chained without rescanning the output directory.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateIndex indicates an index that is already recorded in the manifest.
var ErrDuplicateIndex = errors.New("file index already recorded in manifest")

// Role classifies a generated file.
type Role string

const (
	RoleTrain      Role = "train"
	RoleValidation Role = "validation"
)

// Entry describes one generated file. Pair links a validation file to the
// index of the train file it evaluates.
type Entry struct {
	Index int    `yaml:"index"`
	File  string `yaml:"file"`
	Role  Role   `yaml:"role"`
	Pair  *int   `yaml:"pair,omitempty"`
}

// Manifest is the ordered list of files produced by one run.
type Manifest struct {
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`
	Entries   []Entry   `yaml:"entries"`

	indices map[int]struct{}
}

// New starts an empty manifest with a fresh run ID.
func New() *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		indices:   make(map[int]struct{}),
	}
}

// Has reports whether index is already recorded.
func (m *Manifest) Has(index int) bool {
	_, ok := m.indices[index]
	return ok
}

// Add appends e, rejecting indices that are already recorded.
func (m *Manifest) Add(e Entry) error {
	if m.Has(e.Index) {
		return fmt.Errorf("%w: %d", ErrDuplicateIndex, e.Index)
	}
	m.indices[e.Index] = struct{}{}
	m.Entries = append(m.Entries, e)
	return nil
}

// ByRole returns the entries with the given role, in insertion order.
func (m *Manifest) ByRole(role Role) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out
}

// Save writes the manifest to path as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Load reads a manifest previously written by Save.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.indices = make(map[int]struct{}, len(m.Entries))
	for _, e := range m.Entries {
		if _, dup := m.indices[e.Index]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateIndex, e.Index)
		}
		m.indices[e.Index] = struct{}{}
	}
	return &m, nil
}

// Package tenant holds the fixed set of tenants the server knows about.
package tenant

import (
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
	"gopkg.in/yaml.v3"
)

// Profile describes one tenant. Profiles are immutable after startup.
type Profile struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Storage string `json:"storage" yaml:"-"`
}

// DefaultProfiles is the built-in tenant set used when no registry file is configured.
var DefaultProfiles = []Profile{
	{ID: "alice", Name: "Alice"},
	{ID: "bob", Name: "Bob"},
	{ID: "carol", Name: "Carol"},
	{ID: "dave", Name: "Dave"},
}

// Normalize folds a tenant token to its canonical form.
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// StoragePath returns the slash-separated location of a tenant's document,
// relative to the data directory.
func StoragePath(id string) string {
	return path.Join("users", Normalize(id)+".json")
}

// Registry resolves tenant tokens to profiles.
type Registry struct {
	byID  map[string]Profile
	order []string
}

// NewRegistry builds a registry from profiles. Ids are normalized; duplicates
// and empty ids are rejected.
func NewRegistry(profiles []Profile) (*Registry, error) {
	r := &Registry{byID: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		id := Normalize(p.ID)
		if id == "" {
			return nil, domainerrors.Validation("tenant id must not be empty")
		}
		if strings.ContainsAny(id, `/\.`) {
			return nil, domainerrors.Validationf("tenant id %q contains path characters", p.ID)
		}
		if _, dup := r.byID[id]; dup {
			return nil, domainerrors.Conflict(fmt.Sprintf("duplicate tenant id %q", id))
		}
		if strings.TrimSpace(p.Name) == "" {
			p.Name = id
		}
		p.ID = id
		p.Storage = StoragePath(id)
		r.byID[id] = p
		r.order = append(r.order, id)
	}
	return r, nil
}

// NewDefaultRegistry returns the built-in tenant set.
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultProfiles)
	if err != nil {
		panic(err)
	}
	return r
}

type registryFile struct {
	Tenants []Profile `yaml:"tenants"`
}

// LoadFile reads a YAML registry of the form:
//
//	tenants:
//	  - id: alice
//	    name: Alice
func LoadFile(filename string) (*Registry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read tenants file: %w", err)
	}

	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tenants file %s: %w", filename, err)
	}
	if len(f.Tenants) == 0 {
		return nil, fmt.Errorf("tenants file %s defines no tenants", filename)
	}
	return NewRegistry(f.Tenants)
}

// Lookup resolves a tenant token case-insensitively.
func (r *Registry) Lookup(id string) (Profile, error) {
	p, ok := r.byID[Normalize(id)]
	if !ok {
		return Profile{}, domainerrors.NotFoundf("unknown tenant %q", id)
	}
	return p, nil
}

// Has reports whether the token names a known tenant.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[Normalize(id)]
	return ok
}

// List returns all profiles in registration order.
func (r *Registry) List() []Profile {
	out := make([]Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns the sorted tenant ids.
func (r *Registry) IDs() []string {
	ids := slices.Clone(r.order)
	slices.Sort(ids)
	return ids
}

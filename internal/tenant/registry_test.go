package tenant

import (
	"os"
	"path/filepath"
	"testing"

	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupCaseInsensitive(t *testing.T) {
	r := NewDefaultRegistry()

	for _, token := range []string{"alice", "Alice", "ALICE", "  alice "} {
		p, err := r.Lookup(token)
		require.NoError(t, err, token)
		assert.Equal(t, "alice", p.ID)
		assert.Equal(t, "users/alice.json", p.Storage)
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Lookup("mallory")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.False(t, r.Has("mallory"))
	assert.True(t, r.Has("BOB"))
}

func TestNewRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		profiles []Profile
	}{
		{"empty id", []Profile{{ID: "  "}}},
		{"duplicate ignoring case", []Profile{{ID: "alice"}, {ID: "Alice"}}},
		{"path traversal", []Profile{{ID: "../etc"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.profiles)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_ListKeepsOrder(t *testing.T) {
	r, err := NewRegistry([]Profile{{ID: "Zed", Name: "Zed"}, {ID: "amy"}})
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "zed", list[0].ID)
	assert.Equal(t, "amy", list[1].ID)
	assert.Equal(t, "amy", list[1].Name, "name defaults to id")
	assert.Equal(t, []string{"amy", "zed"}, r.IDs())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tenants.yaml")
	require.NoError(t, os.WriteFile(file, []byte("tenants:\n  - id: Erin\n    name: Erin E.\n  - id: frank\n"), 0o600))

	r, err := LoadFile(file)
	require.NoError(t, err)

	p, err := r.Lookup("erin")
	require.NoError(t, err)
	assert.Equal(t, "Erin E.", p.Name)
	assert.Equal(t, "users/erin.json", p.Storage)
	assert.True(t, r.Has("FRANK"))
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("tenants: []\n"), 0o600))
	_, err = LoadFile(empty)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tenants: [\n"), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

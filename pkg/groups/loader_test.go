package groups

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/tmacl/pkg/acl"
)

// memStore is an in-memory Store for loader tests.
type memStore struct {
	classes     map[string]int64
	groups      map[string]int64
	permissions map[int64][]Permission
	nextGroupID int64
	failOn      string
	committed   bool
}

func newMemStore(classes ...string) *memStore {
	s := &memStore{
		classes:     make(map[string]int64),
		groups:      make(map[string]int64),
		permissions: make(map[int64][]Permission),
		nextGroupID: 1,
	}
	for i, c := range classes {
		s.classes[c] = int64(i + 1)
	}
	return s
}

func (s *memStore) Transaction(fn func(Store) error) error {
	err := fn(s)
	if err == nil {
		s.committed = true
	}
	return err
}

func (s *memStore) ClassID(classname string) (int64, bool, error) {
	id, ok := s.classes[classname]
	return id, ok, nil
}

func (s *memStore) UpsertGroup(qualifiedName string) (int64, error) {
	if s.failOn == qualifiedName {
		return 0, fmt.Errorf("boom")
	}
	if id, ok := s.groups[qualifiedName]; ok {
		return id, nil
	}
	id := s.nextGroupID
	s.nextGroupID++
	s.groups[qualifiedName] = id
	return id, nil
}

func (s *memStore) ReplacePermissions(groupID int64, perms []Permission) error {
	s.permissions[groupID] = perms
	return nil
}

func TestParse(t *testing.T) {
	defs, err := ParseString(`
groups:
  - name: acl.group.tm.ProjectManager
    permissions:
      project: [read, write, create, delete, admin, management]
      project-template: [read, management]
  - name: acl.group.tm.TestRunner
    permissions:
      campaign: [read, execute]
`)
	require.NoError(t, err)
	require.Len(t, defs.Groups, 2)

	pm := defs.Groups[0]
	assert.Equal(t, "acl.group.tm.ProjectManager", pm.Name)
	assert.Contains(t, pm.Permissions["project"], acl.MaskManagement)
	assert.Equal(t, []acl.Mask{acl.MaskRead, acl.MaskManagement}, pm.Permissions["project-template"])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "invalid yaml",
			yaml: "groups: [not closed",
			want: "failed to parse",
		},
		{
			name: "unknown mask",
			yaml: "groups:\n  - name: g\n    permissions:\n      project: [fly]\n",
			want: "failed to parse",
		},
		{
			name: "no groups",
			yaml: "groups: []\n",
			want: "no groups defined",
		},
		{
			name: "missing name",
			yaml: "groups:\n  - permissions:\n      project: [read]\n",
			want: "missing name",
		},
		{
			name: "duplicate name",
			yaml: "groups:\n  - name: g\n    permissions:\n      project: [read]\n  - name: g\n    permissions:\n      project: [write]\n",
			want: "duplicate group name",
		},
		{
			name: "empty permissions",
			yaml: "groups:\n  - name: g\n    permissions: {}\n",
			want: "no permissions defined",
		},
		{
			name: "repeated mask",
			yaml: "groups:\n  - name: g\n    permissions:\n      project: [read, read]\n",
			want: "repeats mask",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	store := newMemStore("project", "project-template")
	loader := NewLoader(store)

	result, err := loader.LoadFromReader(strings.NewReader(`
groups:
  - name: acl.group.tm.ProjectManager
    permissions:
      project: [read, write, management]
      project-template: [read]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"acl.group.tm.ProjectManager"}, result.LoadedGroups)
	assert.True(t, store.committed)

	groupID := store.groups["acl.group.tm.ProjectManager"]
	perms := store.permissions[groupID]
	require.Len(t, perms, 4)

	// Classes applied alphabetically, masks in enum order, orders sequential
	assert.Equal(t, Permission{ClassID: 1, Mask: acl.MaskRead.Bit(), Order: 0}, perms[0])
	assert.Equal(t, Permission{ClassID: 1, Mask: acl.MaskWrite.Bit(), Order: 1}, perms[1])
	assert.Equal(t, Permission{ClassID: 1, Mask: acl.MaskManagement.Bit(), Order: 2}, perms[2])
	assert.Equal(t, Permission{ClassID: 2, Mask: acl.MaskRead.Bit(), Order: 3}, perms[3])
}

func TestLoadUnknownClass(t *testing.T) {
	store := newMemStore("project")
	loader := NewLoader(store)

	_, err := loader.LoadFromReader(strings.NewReader(`
groups:
  - name: g
    permissions:
      spaceship: [read]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown class spaceship")
	assert.False(t, store.committed)
}

func TestLoadDryRun(t *testing.T) {
	store := newMemStore("project")
	loader := NewLoader(store).WithDryRun(true)

	result, err := loader.LoadFromReader(strings.NewReader(`
groups:
  - name: g
    permissions:
      project: [read]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"g"}, result.LoadedGroups)
	assert.False(t, store.committed)
}

func TestLoadStoreFailureAborts(t *testing.T) {
	store := newMemStore("project")
	store.failOn = "second"
	loader := NewLoader(store)

	_, err := loader.LoadFromReader(strings.NewReader(`
groups:
  - name: first
    permissions:
      project: [read]
  - name: second
    permissions:
      project: [write]
`))
	require.Error(t, err)
	assert.False(t, store.committed)
}

package groups

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/perimetra/tmacl/pkg/acl"
)

// Result contains the results of loading group definitions.
type Result struct {
	LoadedGroups []string
}

// Loader handles loading group definitions into the database.
type Loader struct {
	store  Store
	dryRun bool
}

// NewLoader creates a new group loader.
func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// WithDryRun sets whether to validate only without applying changes.
func (l *Loader) WithDryRun(dryRun bool) *Loader {
	l.dryRun = dryRun
	return l
}

// LoadFromReader parses and loads group definitions from an io.Reader.
func (l *Loader) LoadFromReader(r io.Reader) (*Result, error) {
	defs, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return l.Load(defs)
}

// LoadFile parses and loads group definitions from a file on disk.
func (l *Loader) LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open definitions file: %w", err)
	}
	defer f.Close()
	return l.LoadFromReader(f)
}

// Load applies parsed definitions to the database. All groups load in
// one transaction so a bad definition leaves the stored set untouched.
func (l *Loader) Load(defs *Definitions) (*Result, error) {
	result := &Result{}

	err := l.store.Transaction(func(txStore Store) error {
		for _, def := range defs.Groups {
			if err := loadGroup(txStore, def); err != nil {
				return err
			}
			result.LoadedGroups = append(result.LoadedGroups, def.Name)
		}

		if l.dryRun {
			return errDryRunRollback
		}
		return nil
	})

	if err == errDryRunRollback {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

var errDryRunRollback = fmt.Errorf("DRY_RUN_ROLLBACK")

func loadGroup(store Store, def Definition) error {
	groupID, err := store.UpsertGroup(def.Name)
	if err != nil {
		return err
	}

	classes := make([]string, 0, len(def.Permissions))
	for class := range def.Permissions {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	var perms []Permission
	order := 0
	for _, class := range classes {
		classID, ok, err := store.ClassID(class)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("group %s: unknown class %s", def.Name, class)
		}
		masks := append([]acl.Mask(nil), def.Permissions[class]...)
		sort.Slice(masks, func(i, j int) bool { return masks[i] < masks[j] })
		for _, m := range masks {
			perms = append(perms, Permission{
				ClassID: classID,
				Mask:    m.Bit(),
				Order:   order,
			})
			order++
		}
	}

	return store.ReplacePermissions(groupID, perms)
}

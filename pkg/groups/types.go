package groups

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/perimetra/tmacl/pkg/acl"
)

// Definition describes one permission group: a qualified name plus the
// permission masks it carries per object class.
type Definition struct {
	Name        string                `yaml:"name"`
	Permissions map[string][]acl.Mask `yaml:"permissions"`
}

// Definitions is the root of a group definitions document.
type Definitions struct {
	Groups []Definition `yaml:"groups"`
}

// Parse reads a group definitions document from r.
func Parse(r io.Reader) (*Definitions, error) {
	var defs Definitions
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&defs); err != nil {
		return nil, fmt.Errorf("failed to parse group definitions: %w", err)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}

// ParseString reads a group definitions document from a string.
func ParseString(s string) (*Definitions, error) {
	return Parse(strings.NewReader(s))
}

// Validate checks structural constraints on the definitions.
func (d *Definitions) Validate() error {
	if len(d.Groups) == 0 {
		return fmt.Errorf("no groups defined")
	}

	seen := make(map[string]bool, len(d.Groups))
	for i, g := range d.Groups {
		if g.Name == "" {
			return fmt.Errorf("group %d: missing name", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate group name: %s", g.Name)
		}
		seen[g.Name] = true

		if len(g.Permissions) == 0 {
			return fmt.Errorf("group %s: no permissions defined", g.Name)
		}
		for class, masks := range g.Permissions {
			if len(masks) == 0 {
				return fmt.Errorf("group %s: class %s has no masks", g.Name, class)
			}
			seenMask := make(map[acl.Mask]bool, len(masks))
			for _, m := range masks {
				if seenMask[m] {
					return fmt.Errorf("group %s: class %s repeats mask %s", g.Name, class, m)
				}
				seenMask[m] = true
			}
		}
	}
	return nil
}

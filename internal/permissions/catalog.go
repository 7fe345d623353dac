package permissions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
)

// ModuleSpec lists the submodules of a module and the permissions beneath each.
type ModuleSpec struct {
	Submodules map[string][]string `mapstructure:"submodules" json:"submodules" yaml:"submodules"`
}

// CatalogSpec is the typed form of a permission catalog keyed by module name.
type CatalogSpec map[string]ModuleSpec

// Catalog is a read-only view over modules, submodules and permissions.
// A nil Catalog behaves as an empty one.
type Catalog struct {
	modules map[string]map[string][]string
}

// NewCatalog copies spec into a Catalog. Blank names are skipped.
func NewCatalog(spec CatalogSpec) *Catalog {
	catalog := &Catalog{modules: make(map[string]map[string][]string, len(spec))}
	for module, def := range spec {
		module = strings.TrimSpace(module)
		if module == "" {
			continue
		}
		subs := make(map[string][]string, len(def.Submodules))
		for submodule, perms := range def.Submodules {
			submodule = strings.TrimSpace(submodule)
			if submodule == "" {
				continue
			}
			subs[submodule] = append([]string(nil), perms...)
		}
		catalog.modules[module] = subs
	}
	return catalog
}

// DecodeCatalog converts loosely typed input (decoded JSON or YAML) into a
// Catalog. Malformed entries are skipped rather than rejected: the returned
// catalog is always usable and the error, when non-nil, lists every entry
// that was dropped.
func DecodeCatalog(raw map[string]any) (*Catalog, error) {
	spec := make(CatalogSpec, len(raw))
	var issues error

	for module, value := range raw {
		var entry struct {
			Submodules map[string]any `mapstructure:"submodules"`
		}
		if err := mapstructure.Decode(value, &entry); err != nil {
			issues = multierr.Append(issues, fmt.Errorf("catalog: module %q: %w", module, err))
			continue
		}

		def := ModuleSpec{Submodules: make(map[string][]string, len(entry.Submodules))}
		for submodule, permsValue := range entry.Submodules {
			var perms []string
			if err := mapstructure.Decode(permsValue, &perms); err != nil {
				issues = multierr.Append(issues, fmt.Errorf("catalog: submodule %q: %w", SubmoduleKey(module, submodule), err))
				continue
			}
			def.Submodules[submodule] = perms
		}
		spec[module] = def
	}

	return NewCatalog(spec), issues
}

// Len reports the number of modules.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.modules)
}

// IsEmpty reports whether the catalog has no modules.
func (c *Catalog) IsEmpty() bool {
	return c.Len() == 0
}

// Modules returns the module names in sorted order.
func (c *Catalog) Modules() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasModule reports whether module is part of the catalog.
func (c *Catalog) HasModule(module string) bool {
	if c == nil {
		return false
	}
	_, ok := c.modules[module]
	return ok
}

// Submodules returns the submodule names of module in sorted order.
func (c *Catalog) Submodules(module string) []string {
	if c == nil {
		return nil
	}
	subs := c.modules[module]
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasSubmodule reports whether submodule is declared under module.
func (c *Catalog) HasSubmodule(module, submodule string) bool {
	_, ok := c.Permissions(module, submodule)
	return ok
}

// Permissions returns a copy of the permission names declared for the submodule.
func (c *Catalog) Permissions(module, submodule string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	perms, ok := c.modules[module][submodule]
	if !ok {
		return nil, false
	}
	return append([]string(nil), perms...), true
}

// PermissionKeys returns every composite permission key declared under module.
func (c *Catalog) PermissionKeys(module string) []string {
	var keys []string
	for _, submodule := range c.Submodules(module) {
		perms, _ := c.Permissions(module, submodule)
		for _, perm := range perms {
			keys = append(keys, PermissionKey(module, submodule, perm))
		}
	}
	return keys
}

// SameModules reports whether both catalogs declare the same module names.
func (c *Catalog) SameModules(other *Catalog) bool {
	return SetsEqual(NewSet(c.Modules()...), NewSet(other.Modules()...))
}

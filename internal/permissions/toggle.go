package permissions

// ModuleToggle is the outcome of flipping a module's enabled state.
type ModuleToggle struct {
	Enabled    Set
	WasEnabled bool
	// Cascade is set only when the module went from enabled to disabled.
	Cascade bool
}

// TogglePermission removes key from selected when present, otherwise adds it.
func TogglePermission(selected Set, key string) Set {
	if selected.Has(key) {
		return selected.Without(key)
	}
	return selected.With(key)
}

// ToggleSubmodule selects every permission of the submodule unless all of
// them are already selected, in which case it deselects them all. A
// partially selected submodule therefore always completes to full selection.
func ToggleSubmodule(selected Set, submoduleKey string, permissions []string) Set {
	current := PartitionByPrefix(selected, submoduleKey)

	keys := make([]string, 0, len(permissions))
	for _, perm := range permissions {
		keys = append(keys, submoduleKey+KeySeparator+perm)
	}

	if len(current) < len(permissions) {
		return selected.With(keys...)
	}
	return selected.Without(keys...)
}

// ToggleModule flips membership of module in enabled.
func ToggleModule(enabled Set, module string) ModuleToggle {
	if enabled.Has(module) {
		return ModuleToggle{
			Enabled:    enabled.Without(module),
			WasEnabled: true,
			Cascade:    true,
		}
	}
	return ModuleToggle{Enabled: enabled.With(module)}
}

// CascadeRemove drops every catalog permission of module from selected,
// whether or not it was individually selected. Modules unknown to the catalog
// leave selected unchanged.
func CascadeRemove(selected Set, module string, catalog *Catalog) Set {
	keys := catalog.PermissionKeys(module)
	if len(keys) == 0 {
		return selected
	}
	return selected.Without(keys...)
}

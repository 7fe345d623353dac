package permissions

import "strings"

// KeySeparator joins module, submodule and permission names into composite keys.
const KeySeparator = "-"

// SubmoduleKey returns the composite key "<module>-<submodule>".
func SubmoduleKey(module, submodule string) string {
	return module + KeySeparator + submodule
}

// PermissionKey returns the composite key "<module>-<submodule>-<permission>".
func PermissionKey(module, submodule, permission string) string {
	return SubmoduleKey(module, submodule) + KeySeparator + permission
}

// ModuleOf returns the module prefix of a composite key. Module names are
// expected not to contain the separator.
func ModuleOf(key string) string {
	if idx := strings.Index(key, KeySeparator); idx >= 0 {
		return key[:idx]
	}
	return key
}

func hasKeyPrefix(key, prefix string) bool {
	return strings.HasPrefix(key, prefix+KeySeparator)
}

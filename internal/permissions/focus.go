package permissions

// Focus identifies the module and submodule currently open for editing.
// Empty strings mean nothing is focused.
type Focus struct {
	Module    string
	Submodule string // composite "<module>-<submodule>" key
}

// FocusPolicy guards focus clicks.
type FocusPolicy struct {
	ReadOnly bool
	// RequireEnabled ignores clicks on modules that are not enabled.
	RequireEnabled bool
}

func (p FocusPolicy) allows(enabled Set, module string) bool {
	if p.ReadOnly {
		return false
	}
	return !p.RequireEnabled || enabled.Has(module)
}

// FocusModule focuses module and clears the submodule focus.
func FocusModule(current Focus, enabled Set, module string, policy FocusPolicy) Focus {
	if !policy.allows(enabled, module) {
		return current
	}
	return Focus{Module: module}
}

// FocusSubmodule focuses submodule and its parent module.
func FocusSubmodule(current Focus, enabled Set, module, submodule string, policy FocusPolicy) Focus {
	if !policy.allows(enabled, module) {
		return current
	}
	return Focus{Module: module, Submodule: SubmoduleKey(module, submodule)}
}

// ClearFocusFor clears focus when the disabled module is the active one.
func ClearFocusFor(current Focus, disabled string) Focus {
	if current.Module != "" && current.Module == disabled {
		return Focus{}
	}
	return current
}

package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTogglePermissionIsItsOwnInverse(t *testing.T) {
	sets := []Set{NewSet(), NewSet("m-s-p1"), NewSet("m-s-p1", "m-s-p2", "other-x-y")}
	keys := []string{"m-s-p1", "m-s-p3", "unknown-key"}

	for _, selected := range sets {
		for _, key := range keys {
			once := TogglePermission(selected, key)
			require.NotEqual(t, selected.Has(key), once.Has(key))
			require.True(t, SetsEqual(selected, TogglePermission(once, key)))
		}
	}
}

func TestToggleSubmoduleSelectsThenDeselects(t *testing.T) {
	perms := []string{"p1", "p2"}

	first := ToggleSubmodule(NewSet(), "module-sub", perms)
	require.True(t, SetsEqual(NewSet("module-sub-p1", "module-sub-p2"), first))

	second := ToggleSubmodule(first, "module-sub", perms)
	require.Equal(t, 0, second.Len())
}

func TestToggleSubmoduleCompletesPartialSelection(t *testing.T) {
	selected := NewSet("module-sub-p1", "unrelated-a-b")

	next := ToggleSubmodule(selected, "module-sub", []string{"p1", "p2"})

	require.True(t, SetsEqual(NewSet("module-sub-p1", "module-sub-p2", "unrelated-a-b"), next))
	require.Equal(t, 2, selected.Len())
}

func TestToggleSubmoduleWithoutPermissionsLeavesSelection(t *testing.T) {
	selected := NewSet("module-sub-p1")

	next := ToggleSubmodule(selected, "module-sub", nil)

	require.True(t, SetsEqual(selected, next))
}

func TestToggleModuleReportsCascadeOnlyOnDisable(t *testing.T) {
	disabled := ToggleModule(NewSet("m"), "m")
	require.True(t, disabled.WasEnabled)
	require.True(t, disabled.Cascade)
	require.False(t, disabled.Enabled.Has("m"))

	enabled := ToggleModule(NewSet(), "m")
	require.False(t, enabled.WasEnabled)
	require.False(t, enabled.Cascade)
	require.True(t, enabled.Enabled.Has("m"))
}

func TestCascadeRemoveIsComplete(t *testing.T) {
	catalog := NewCatalog(CatalogSpec{
		"m": {Submodules: map[string][]string{"s": {"p1", "p2"}}},
	})
	selected := NewSet("m-s-p1", "m-s-p2", "other-x-y")

	next := CascadeRemove(selected, "m", catalog)

	require.True(t, SetsEqual(NewSet("other-x-y"), next))
	require.Equal(t, 3, selected.Len())
}

func TestCascadeRemoveUnknownModuleIsNoop(t *testing.T) {
	catalog := NewCatalog(CatalogSpec{"m": {}})
	selected := NewSet("m-s-p1")

	require.True(t, SetsEqual(selected, CascadeRemove(selected, "missing", catalog)))
	require.True(t, SetsEqual(selected, CascadeRemove(selected, "m", catalog)))
	require.True(t, SetsEqual(selected, CascadeRemove(selected, "m", nil)))
}

func TestEnableNeverRemovesPermissions(t *testing.T) {
	selected := NewSet("m-s-p1", "n-s-p1")

	result := ToggleModule(NewSet("n"), "m")

	require.False(t, result.Cascade)
	require.True(t, SetsEqual(NewSet("m-s-p1", "n-s-p1"), selected))
}

func TestFocusTransitions(t *testing.T) {
	enabled := NewSet("m1")
	open := FocusPolicy{}

	focus := FocusModule(Focus{}, enabled, "m1", open)
	require.Equal(t, Focus{Module: "m1"}, focus)

	focus = FocusSubmodule(focus, enabled, "m1", "s1", open)
	require.Equal(t, Focus{Module: "m1", Submodule: "m1-s1"}, focus)

	focus = FocusModule(focus, enabled, "m1", open)
	require.Equal(t, Focus{Module: "m1"}, focus, "clicking a module clears submodule focus")
}

func TestFocusGuards(t *testing.T) {
	enabled := NewSet("m1")
	current := Focus{Module: "m1", Submodule: "m1-s1"}

	require.Equal(t, current, FocusModule(current, enabled, "m2", FocusPolicy{ReadOnly: true}))
	require.Equal(t, current, FocusSubmodule(current, enabled, "m2", "s", FocusPolicy{RequireEnabled: true}))
	require.Equal(t, Focus{Module: "m2"}, FocusModule(current, enabled, "m2", FocusPolicy{}))
}

func TestClearFocusForOnlyClearsActiveModule(t *testing.T) {
	current := Focus{Module: "m1", Submodule: "m1-s1"}

	require.Equal(t, current, ClearFocusFor(current, "m2"))
	require.Equal(t, Focus{}, ClearFocusFor(current, "m1"))
	require.Equal(t, Focus{}, ClearFocusFor(Focus{}, ""))
}

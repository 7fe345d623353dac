package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type countingResetter struct {
	calls int
}

func (r *countingResetter) Reset() { r.calls++ }

func TestResetTriggerFiresOnIncrease(t *testing.T) {
	target := &countingResetter{}
	trigger := NewResetTrigger(target)

	require.False(t, trigger.Observe(0), "initial zero must not fire")
	require.True(t, trigger.Observe(1))
	require.False(t, trigger.Observe(1), "unchanged value must not fire")
	require.True(t, trigger.Observe(2))
	require.False(t, trigger.Observe(-3))
	require.False(t, trigger.Observe(0))
	require.True(t, trigger.Observe(1))

	require.Equal(t, 3, target.calls)
}

func TestResetTriggerDrivesController(t *testing.T) {
	ctrl, rec := newTestController(t, Options{})
	ctrl.Initialize(scenarioCatalog(), nil)
	trigger := NewResetTrigger(ctrl)

	trigger.Observe(0)
	ctrl.ToggleModule("Reports")
	require.True(t, ctrl.HasChanges())

	trigger.Observe(1)
	require.False(t, ctrl.HasChanges())
	require.Equal(t, []string{"Billing", "Reports"}, rec.last(t).EnabledModules)
}

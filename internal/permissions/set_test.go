package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetsEqualIsSymmetricAndReflexive(t *testing.T) {
	cases := []struct {
		name string
		a, b Set
		want bool
	}{
		{name: "both empty", a: NewSet(), b: Set{}, want: true},
		{name: "same members", a: NewSet("a", "b"), b: NewSet("b", "a"), want: true},
		{name: "different size", a: NewSet("a"), b: NewSet("a", "b"), want: false},
		{name: "same size different members", a: NewSet("a", "c"), b: NewSet("a", "b"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SetsEqual(tc.a, tc.b))
			require.Equal(t, SetsEqual(tc.a, tc.b), SetsEqual(tc.b, tc.a))
			require.True(t, SetsEqual(tc.a, tc.a))
			require.True(t, SetsEqual(tc.b, tc.b))
		})
	}
}

func TestSetCopyOnWrite(t *testing.T) {
	base := NewSet("a")

	added := base.With("b")
	removed := base.Without("a")

	require.Equal(t, []string{"a"}, base.Values())
	require.Equal(t, []string{"a", "b"}, added.Values())
	require.Empty(t, removed.Values())
	require.NotNil(t, removed.Values())
}

func TestPartitionByPrefixRequiresSeparator(t *testing.T) {
	set := NewSet("Billing-Invoices-view", "Billing-Invoices-edit", "Billing-InvoicesArchive-view", "Reports-Export-run")

	require.Equal(t, []string{"Billing-Invoices-edit", "Billing-Invoices-view"}, PartitionByPrefix(set, "Billing-Invoices"))
	require.Empty(t, PartitionByPrefix(set, "Missing"))
	require.Len(t, PartitionByPrefix(set, "Billing"), 3)
}

func TestIsFullySelected(t *testing.T) {
	require.True(t, IsFullySelected([]string{"a", "b"}, []string{"x", "y"}))
	require.False(t, IsFullySelected([]string{"a"}, []string{"x", "y"}))
	require.False(t, IsFullySelected(nil, nil))
	require.False(t, IsFullySelected([]string{}, []string{}))
}

func TestCompositeKeys(t *testing.T) {
	require.Equal(t, "Billing-Invoices", SubmoduleKey("Billing", "Invoices"))
	require.Equal(t, "Billing-Invoices-view", PermissionKey("Billing", "Invoices", "view"))
	require.Equal(t, "Billing", ModuleOf("Billing-Invoices-view"))
	require.Equal(t, "Billing", ModuleOf("Billing"))
}

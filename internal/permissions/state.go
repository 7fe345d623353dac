package permissions

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ChangeField is the field name passed to change callbacks.
const ChangeField = "permissions"

// Snapshot is an immutable view of the permission state.
type Snapshot struct {
	EnabledModules      Set
	SelectedPermissions Set
	Focus               Focus
}

// SameSelection reports whether both snapshots enable the same modules and
// select the same permissions. Focus is ignored.
func (s Snapshot) SameSelection(other Snapshot) bool {
	return SetsEqual(s.EnabledModules, other.EnabledModules) &&
		SetsEqual(s.SelectedPermissions, other.SelectedPermissions)
}

// Projection converts the snapshot into its serializable form.
func (s Snapshot) Projection() Projection {
	return Projection{
		EnabledModules:      s.EnabledModules.Values(),
		SelectedPermissions: s.SelectedPermissions.Values(),
		ActiveModule:        optional(s.Focus.Module),
		ActiveSubmodule:     optional(s.Focus.Submodule),
	}
}

// Projection is the form data handed to change callbacks. Arrays are sorted.
type Projection struct {
	EnabledModules      []string `json:"enabledModules"`
	SelectedPermissions []string `json:"selectedPermissions"`
	ActiveModule        *string  `json:"activeModule"`
	ActiveSubmodule     *string  `json:"activeSubmodule"`
}

// Selection is a previously saved permission selection. Nil slices mark
// fields that were absent from the saved data.
type Selection struct {
	EnabledModules      *[]string `mapstructure:"enabledModules" json:"enabledModules" yaml:"enabledModules"`
	SelectedPermissions *[]string `mapstructure:"selectedPermissions" json:"selectedPermissions" yaml:"selectedPermissions"`
	ActiveModule        *string   `mapstructure:"activeModule" json:"activeModule" yaml:"activeModule"`
	ActiveSubmodule     *string   `mapstructure:"activeSubmodule" json:"activeSubmodule" yaml:"activeSubmodule"`
}

// NewSelection builds a Selection with both sets present.
func NewSelection(enabledModules, selectedPermissions []string) *Selection {
	enabled := append([]string{}, enabledModules...)
	selected := append([]string{}, selectedPermissions...)
	return &Selection{EnabledModules: &enabled, SelectedPermissions: &selected}
}

// Usable reports whether the selection can seed a controller.
func (s *Selection) Usable() bool {
	return s != nil && s.EnabledModules != nil && s.SelectedPermissions != nil
}

// DecodeSelection converts loosely typed saved data into a Selection.
func DecodeSelection(raw map[string]any) (*Selection, error) {
	if raw == nil {
		return nil, nil
	}
	var sel Selection
	if err := mapstructure.Decode(raw, &sel); err != nil {
		return nil, fmt.Errorf("selection: decode: %w", err)
	}
	return &sel, nil
}

// Status is the controller lifecycle state.
type Status int

const (
	StatusUninitialized Status = iota
	StatusInitializedFromSaved
	StatusInitializedDefault
	StatusDirty
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitializedFromSaved:
		return "initialized-from-saved"
	case StatusInitializedDefault:
		return "initialized-default"
	case StatusDirty:
		return "dirty"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

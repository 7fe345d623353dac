// Package script replays a recorded sequence of user actions against a
// permission controller. Hosts and tests use it to drive the controller the
// way a screen's event handlers would.
package script

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/charlesng35/permstate/internal/permissions"
	apperrors "github.com/charlesng35/permstate/pkg/errors"
	pkgvalidator "github.com/charlesng35/permstate/pkg/validator"
)

// Op names an action a step performs.
type Op string

const (
	OpToggleModule     Op = "toggle_module"
	OpToggleSubmodule  Op = "toggle_submodule"
	OpTogglePermission Op = "toggle_permission"
	OpFocusModule      Op = "focus_module"
	OpFocusSubmodule   Op = "focus_submodule"
	OpReset            Op = "reset"
	OpBumpReset        Op = "bump_reset"
)

func init() {
	if err := pkgvalidator.RegisterValidation("module_name", func(fl validator.FieldLevel) bool {
		return !strings.Contains(fl.Field().String(), permissions.KeySeparator)
	}); err != nil {
		panic(err)
	}
}

// Step is a single recorded action.
type Step struct {
	Op         Op     `yaml:"op" json:"op" validate:"required,oneof=toggle_module toggle_submodule toggle_permission focus_module focus_submodule reset bump_reset"`
	Module     string `yaml:"module" json:"module,omitempty" validate:"module_name,required_if=Op toggle_module,required_if=Op toggle_submodule,required_if=Op toggle_permission,required_if=Op focus_module,required_if=Op focus_submodule"`
	Submodule  string `yaml:"submodule" json:"submodule,omitempty" validate:"required_if=Op toggle_submodule,required_if=Op toggle_permission,required_if=Op focus_submodule"`
	Permission string `yaml:"permission" json:"permission,omitempty" validate:"required_if=Op toggle_permission"`
}

// Document is the on-disk script layout.
type Document struct {
	Steps []Step `yaml:"steps" validate:"dive"`
}

// Result captures the controller state after a step.
type Result struct {
	Step       Step                   `json:"step"`
	HasChanges bool                   `json:"hasChanges"`
	Status     string                 `json:"status"`
	State      permissions.Projection `json:"state"`
}

// Controller is the subset of the permission controller a script drives.
type Controller interface {
	permissions.Resetter
	ToggleModule(module string)
	ToggleSubmoduleSelectAll(module, submodule string)
	TogglePermission(module, submodule, permission string)
	FocusModule(module string)
	FocusSubmodule(module, submodule string)
	HasChanges() bool
	Status() permissions.Status
	Projection() permissions.Projection
}

// Parse decodes and validates a YAML (or JSON) script.
func Parse(r io.Reader) ([]Step, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, apperrors.ErrScriptInvalid.WithInternal(fmt.Errorf("script: decode: %w", err))
	}
	if err := pkgvalidator.ValidateStruct(doc); err != nil {
		return nil, apperrors.ErrScriptInvalid.WithInternal(fmt.Errorf("script: validate: %w", err))
	}
	return doc.Steps, nil
}

// Run applies steps in order and returns the state after each one. It stops
// early when ctx is cancelled, returning the results gathered so far.
func Run(ctx context.Context, ctrl Controller, steps []Step) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	trigger := permissions.NewResetTrigger(ctrl)
	counter := 0
	trigger.Observe(counter)

	results := make([]Result, 0, len(steps))
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("script: step %d: %w", i, err)
		}

		switch step.Op {
		case OpToggleModule:
			ctrl.ToggleModule(step.Module)
		case OpToggleSubmodule:
			ctrl.ToggleSubmoduleSelectAll(step.Module, step.Submodule)
		case OpTogglePermission:
			ctrl.TogglePermission(step.Module, step.Submodule, step.Permission)
		case OpFocusModule:
			ctrl.FocusModule(step.Module)
		case OpFocusSubmodule:
			ctrl.FocusSubmodule(step.Module, step.Submodule)
		case OpReset:
			ctrl.Reset()
		case OpBumpReset:
			counter++
			trigger.Observe(counter)
		default:
			return results, apperrors.ErrScriptInvalid.WithInternal(fmt.Errorf("script: step %d: unknown op %q", i, step.Op))
		}

		results = append(results, Result{
			Step:       step,
			HasChanges: ctrl.HasChanges(),
			Status:     ctrl.Status().String(),
			State:      ctrl.Projection(),
		})
	}

	return results, nil
}

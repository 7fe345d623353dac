package permissions

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/charlesng35/permstate/pkg/logger"
	"github.com/charlesng35/permstate/pkg/metrics"
)

// Mode selects how module toggles are reported.
type Mode string

const (
	// ModeBasic notifies synchronously after every operation.
	ModeBasic Mode = "basic"
	// ModeAdvanced defers module toggle notifications by Options.NotifyDelay.
	ModeAdvanced Mode = "advanced"
)

// DefaultNotifyDelay is the advanced mode deferral used when none is configured.
const DefaultNotifyDelay = 10 * time.Millisecond

// ChangeFunc receives the serializable state after each mutation.
type ChangeFunc func(field string, value Projection)

// Options configures a Controller.
type Options struct {
	// Entity identifies the hosting screen's entity in logs.
	Entity string
	Mode   Mode
	// ReadOnly turns every toggle and focus click into a no-op.
	ReadOnly bool
	// Strict ignores submodule toggles for submodules missing from the catalog.
	Strict bool
	// RequireEnabledFocus ignores focus clicks on disabled modules.
	RequireEnabledFocus bool
	NotifyDelay         time.Duration
	OnChange            ChangeFunc
	Clock               clockwork.Clock
	Logger              *zap.Logger
}

// Controller owns the live permission state, its baseline and change detection.
type Controller struct {
	id       string
	opts     Options
	log      *zap.Logger
	notifier *deferredNotifier

	mu          sync.Mutex
	catalog     *Catalog
	live        Snapshot
	baseline    Snapshot
	hasBaseline bool
	fromSaved   bool
	dirty       bool
	closed      bool
}

// NewController constructs an uninitialized controller.
func NewController(opts Options) *Controller {
	if opts.Mode == "" {
		opts.Mode = ModeBasic
	}
	if opts.Mode == ModeAdvanced && opts.NotifyDelay == 0 {
		opts.NotifyDelay = DefaultNotifyDelay
	}

	id := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = logger.WithModule("permissions")
	}
	log = log.With(zap.String("entity", opts.Entity), zap.String("controller", id))

	return &Controller{
		id:       id,
		opts:     opts,
		log:      log,
		notifier: newDeferredNotifier(opts.Clock, opts.NotifyDelay),
	}
}

// ID returns the generated controller instance identifier.
func (c *Controller) ID() string {
	return c.id
}

// Entity returns the entity key the controller was created for.
func (c *Controller) Entity() string {
	return c.opts.Entity
}

// SetReadOnly switches read-only mode.
func (c *Controller) SetReadOnly(readOnly bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.ReadOnly = readOnly
}

// Initialize seeds the live state and captures the baseline the first time a
// non-empty catalog is supplied. Saved data is used only when both its module
// and permission lists are present; otherwise every catalog module starts
// enabled with nothing selected. Once a baseline exists, later calls only
// replace the catalog used for lookups.
func (c *Controller) Initialize(catalog *Catalog, saved *Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || catalog.IsEmpty() {
		return
	}
	if c.hasBaseline {
		if !catalog.SameModules(c.catalog) {
			c.log.Debug("catalog modules changed after baseline capture", zap.Int("modules", catalog.Len()))
		}
		c.catalog = catalog
		return
	}

	c.catalog = catalog
	seed := "default"
	if saved.Usable() {
		c.live = Snapshot{
			EnabledModules:      NewSet(*saved.EnabledModules...),
			SelectedPermissions: NewSet(*saved.SelectedPermissions...),
		}
		c.fromSaved = true
		seed = "saved"
	} else {
		c.live = Snapshot{
			EnabledModules:      NewSet(catalog.Modules()...),
			SelectedPermissions: NewSet(),
		}
	}
	c.baseline = c.live
	c.hasBaseline = true
	c.dirty = false

	metrics.BaselinesCaptured.WithLabelValues(seed).Inc()
	c.log.Info("permission baseline captured",
		zap.String("seed", seed),
		zap.Int("enabled_modules", c.live.EnabledModules.Len()),
		zap.Int("selected_permissions", c.live.SelectedPermissions.Len()),
	)
}

// ToggleModule enables or disables module. Disabling removes every selected
// permission of the module and clears focus when the module was active.
func (c *Controller) ToggleModule(module string) {
	c.mu.Lock()
	if c.closed || c.opts.ReadOnly {
		c.mu.Unlock()
		c.ignored("module", module)
		return
	}

	result := ToggleModule(c.live.EnabledModules, module)
	next := c.live
	next.EnabledModules = result.Enabled
	if result.Cascade {
		next.SelectedPermissions = CascadeRemove(next.SelectedPermissions, module, c.catalog)
		next.Focus = ClearFocusFor(next.Focus, module)
	}
	c.applyLocked(next)

	if c.opts.Mode == ModeAdvanced {
		c.mu.Unlock()
		metrics.PermissionToggles.WithLabelValues("module", "applied").Inc()
		c.notifier.Schedule(c.emitCurrent)
		return
	}
	projection := c.live.Projection()
	c.mu.Unlock()

	metrics.PermissionToggles.WithLabelValues("module", "applied").Inc()
	c.emit(projection)
}

// ToggleSubmoduleSelectAll selects every permission of the submodule, or
// clears them all when the submodule is already fully selected.
func (c *Controller) ToggleSubmoduleSelectAll(module, submodule string) {
	c.mu.Lock()
	if c.closed || c.opts.ReadOnly {
		c.mu.Unlock()
		c.ignored("submodule", SubmoduleKey(module, submodule))
		return
	}

	perms, ok := c.catalog.Permissions(module, submodule)
	if !ok && c.opts.Strict {
		c.mu.Unlock()
		c.ignored("submodule", SubmoduleKey(module, submodule))
		return
	}

	next := c.live
	next.SelectedPermissions = ToggleSubmodule(next.SelectedPermissions, SubmoduleKey(module, submodule), perms)
	c.applyLocked(next)
	projection := c.live.Projection()
	c.mu.Unlock()

	metrics.PermissionToggles.WithLabelValues("submodule", "applied").Inc()
	c.emit(projection)
}

// TogglePermission flips a single permission.
func (c *Controller) TogglePermission(module, submodule, permission string) {
	key := PermissionKey(module, submodule, permission)

	c.mu.Lock()
	if c.closed || c.opts.ReadOnly {
		c.mu.Unlock()
		c.ignored("permission", key)
		return
	}

	next := c.live
	next.SelectedPermissions = TogglePermission(next.SelectedPermissions, key)
	c.applyLocked(next)
	projection := c.live.Projection()
	c.mu.Unlock()

	metrics.PermissionToggles.WithLabelValues("permission", "applied").Inc()
	c.emit(projection)
}

// FocusModule makes module the active module.
func (c *Controller) FocusModule(module string) {
	c.focus("focus_module", module, func(current Focus, enabled Set, policy FocusPolicy) Focus {
		return FocusModule(current, enabled, module, policy)
	})
}

// FocusSubmodule makes the submodule and its parent module active.
func (c *Controller) FocusSubmodule(module, submodule string) {
	c.focus("focus_submodule", SubmoduleKey(module, submodule), func(current Focus, enabled Set, policy FocusPolicy) Focus {
		return FocusSubmodule(current, enabled, module, submodule, policy)
	})
}

func (c *Controller) focus(operation, target string, transition func(Focus, Set, FocusPolicy) Focus) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	policy := FocusPolicy{ReadOnly: c.opts.ReadOnly, RequireEnabled: c.opts.RequireEnabledFocus}
	focus := transition(c.live.Focus, c.live.EnabledModules, policy)
	if focus == c.live.Focus {
		c.mu.Unlock()
		c.ignored(operation, target)
		return
	}

	next := c.live
	next.Focus = focus
	c.applyLocked(next)
	projection := c.live.Projection()
	c.mu.Unlock()

	metrics.PermissionToggles.WithLabelValues(operation, "applied").Inc()
	c.emit(projection)
}

// Reset restores the baseline, drops any pending deferred notification and
// notifies with the baseline state. Without a baseline it does nothing.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.closed || !c.hasBaseline {
		c.mu.Unlock()
		c.ignored("reset", "")
		return
	}

	c.live = c.baseline
	c.dirty = false
	projection := c.live.Projection()
	c.mu.Unlock()

	c.notifier.Cancel()
	metrics.PermissionResets.Inc()
	c.log.Info("permission state reset to baseline")
	c.emit(projection)
}

// HasChanges reports whether enabled modules or selected permissions differ
// from the baseline.
func (c *Controller) HasChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Status reports the lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case !c.hasBaseline:
		return StatusUninitialized
	case c.dirty:
		return StatusDirty
	case c.fromSaved:
		return StatusInitializedFromSaved
	default:
		return StatusInitializedDefault
	}
}

// Snapshot returns the live state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// Baseline returns the captured baseline, if any.
func (c *Controller) Baseline() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseline, c.hasBaseline
}

// Projection returns the serializable form of the live state.
func (c *Controller) Projection() Projection {
	return c.Snapshot().Projection()
}

// Flush delivers a pending deferred notification immediately. It reports
// whether one was waiting.
func (c *Controller) Flush() bool {
	return c.notifier.Flush()
}

// Close cancels any pending deferred notification and silences the
// controller. Later operations are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.notifier.Close()
}

func (c *Controller) applyLocked(next Snapshot) {
	c.live = next
	c.dirty = c.hasBaseline && !c.live.SameSelection(c.baseline)
}

func (c *Controller) emitCurrent() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	projection := c.live.Projection()
	c.mu.Unlock()

	c.emit(projection)
}

func (c *Controller) emit(projection Projection) {
	if c.opts.OnChange == nil {
		return
	}
	c.opts.OnChange(ChangeField, projection)
}

func (c *Controller) ignored(operation, target string) {
	metrics.PermissionToggles.WithLabelValues(operation, "ignored").Inc()
	c.log.Debug("permission operation ignored",
		zap.String("operation", operation),
		zap.String("target", target),
	)
}

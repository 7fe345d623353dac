package permissions

import "sync"

// Resetter is implemented by anything that can restore a baseline.
type Resetter interface {
	Reset()
}

// ResetTrigger converts an externally incremented counter into Reset calls.
// Only a positive value greater than the previously observed one fires, so
// the initial zero observation never resets.
type ResetTrigger struct {
	target Resetter

	mu   sync.Mutex
	last int
}

// NewResetTrigger returns a trigger that resets target.
func NewResetTrigger(target Resetter) *ResetTrigger {
	return &ResetTrigger{target: target}
}

// Observe records the counter value and reports whether it fired a reset.
func (t *ResetTrigger) Observe(value int) bool {
	t.mu.Lock()
	fire := value > 0 && value > t.last
	t.last = value
	t.mu.Unlock()

	if fire && t.target != nil {
		t.target.Reset()
	}
	return fire
}

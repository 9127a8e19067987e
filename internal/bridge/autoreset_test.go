package bridge

import (
	"testing"
	"time"
)

// resetHarness marshals timer completions onto a channel so the test
// goroutine plays the role of the dispatch loop.
type resetHarness struct {
	registry *autoResetRegistry
	tasks    chan func()
}

func newResetHarness() *resetHarness {
	h := &resetHarness{tasks: make(chan func(), 8)}
	h.registry = newAutoResetRegistry(func(f func()) { h.tasks <- f })
	return h
}

func (h *resetHarness) waitTask(t *testing.T) func() {
	t.Helper()
	select {
	case f := <-h.tasks:
		return f
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
		return nil
	}
}

func (h *resetHarness) expectNoTask(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case <-h.tasks:
		t.Fatal("unexpected timer fire")
	case <-time.After(within):
	}
}

func TestAutoResetRearmReplacesTimer(t *testing.T) {
	h := newResetHarness()
	fires := 0

	h.registry.Arm(1, 40*time.Millisecond, func() { fires++ })
	time.Sleep(10 * time.Millisecond)
	h.registry.Arm(1, 40*time.Millisecond, func() { fires++ })

	h.waitTask(t)()
	if fires != 1 {
		t.Fatalf("fires = %d, want 1", fires)
	}
	if h.registry.Len() != 0 {
		t.Errorf("Len() = %d after fire, want 0", h.registry.Len())
	}
	// Re-arming replaced the first timer instead of stacking a second.
	h.expectNoTask(t, 80*time.Millisecond)
}

func TestAutoResetCancel(t *testing.T) {
	h := newResetHarness()

	h.registry.Arm(2, 30*time.Millisecond, func() { t.Error("cancelled timer fired") })
	h.registry.Cancel(2)
	if h.registry.Len() != 0 {
		t.Errorf("Len() = %d after cancel, want 0", h.registry.Len())
	}
	h.expectNoTask(t, 80*time.Millisecond)
}

func TestAutoResetStaleGeneration(t *testing.T) {
	h := newResetHarness()
	var fired string

	h.registry.Arm(3, 5*time.Millisecond, func() { fired = "first" })
	stale := h.waitTask(t)

	// Re-arm after the first timer fired but before its completion ran
	// on the loop. The stale completion must be a no-op.
	h.registry.Arm(3, time.Hour, func() { fired = "second" })
	stale()

	if fired != "" {
		t.Errorf("fired = %q, want none", fired)
	}
	if h.registry.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (replacement still armed)", h.registry.Len())
	}
	h.registry.Cancel(3)
}

func TestAutoResetCancelAll(t *testing.T) {
	h := newResetHarness()

	h.registry.Arm(4, time.Hour, func() {})
	h.registry.Arm(5, time.Hour, func() {})
	if h.registry.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.registry.Len())
	}

	h.registry.CancelAll()
	if h.registry.Len() != 0 {
		t.Errorf("Len() = %d after CancelAll, want 0", h.registry.Len())
	}
	h.expectNoTask(t, 50*time.Millisecond)
}

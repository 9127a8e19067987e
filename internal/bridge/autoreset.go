package bridge

import "time"

// autoResetEntry is one armed reset timer.
type autoResetEntry struct {
	timer    *time.Timer
	gen      uint64
	deadline time.Time
}

// autoResetRegistry owns the delayed off-reset per Trigger device.
// Invariant: at most one live timer per device id; arming cancels and
// replaces any existing timer. All map mutation happens on the
// bridge's dispatch loop (fires are marshalled onto it through run),
// so no locking is needed. The generation check makes cancellation
// race-free against a timer whose AfterFunc has already fired but
// whose callback has not yet run on the loop.
type autoResetRegistry struct {
	run     func(func())
	timers  map[uint32]*autoResetEntry
	nextGen uint64
}

func newAutoResetRegistry(run func(func())) *autoResetRegistry {
	return &autoResetRegistry{
		run:    run,
		timers: make(map[uint32]*autoResetEntry),
	}
}

// Arm schedules fire to run after interval, replacing any timer
// already armed for the device. The interval restarts; it never stacks.
func (r *autoResetRegistry) Arm(deviceID uint32, interval time.Duration, fire func()) {
	if prev, ok := r.timers[deviceID]; ok {
		prev.timer.Stop()
	}
	r.nextGen++
	gen := r.nextGen
	entry := &autoResetEntry{
		gen:      gen,
		deadline: time.Now().Add(interval),
	}
	entry.timer = time.AfterFunc(interval, func() {
		r.run(func() { r.fired(deviceID, gen, fire) })
	})
	r.timers[deviceID] = entry
}

// fired completes a timer on the dispatch loop. A stale generation
// means the timer was cancelled or re-armed after AfterFunc fired;
// its callback must not run.
func (r *autoResetRegistry) fired(deviceID uint32, gen uint64, fire func()) {
	entry, ok := r.timers[deviceID]
	if !ok || entry.gen != gen {
		return
	}
	delete(r.timers, deviceID)
	fire()
}

// Cancel drops the device's timer without firing.
func (r *autoResetRegistry) Cancel(deviceID uint32) {
	if entry, ok := r.timers[deviceID]; ok {
		entry.timer.Stop()
		delete(r.timers, deviceID)
	}
}

// CancelAll drops every armed timer without firing. Used on shutdown;
// no off-payload is forced.
func (r *autoResetRegistry) CancelAll() {
	for id, entry := range r.timers {
		entry.timer.Stop()
		delete(r.timers, id)
	}
}

// Len reports the number of armed timers.
func (r *autoResetRegistry) Len() int {
	return len(r.timers)
}

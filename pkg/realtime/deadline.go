package realtime

import "time"

// Deadline is a one-shot timer measured on a monotonic clock that the owner
// advances itself (for example the sum of frame deltas). It never fires on its
// own: the owner polls Due on every tick and disarms it once handled, so a
// deadline resolves on elapsed time no matter how many ticks it took to get there.
type Deadline struct {
	Start time.Duration
	At    time.Duration
	armed bool
}

// Arm schedules the deadline to fire after d, measured from now.
// Arming an armed deadline replaces the previous schedule.
func (d *Deadline) Arm(now, after time.Duration) {
	if after < 0 {
		after = 0
	}
	d.Start = now
	d.At = now + after
	d.armed = true
}

// Disarm cancels the deadline.
func (d *Deadline) Disarm() {
	d.Start = 0
	d.At = 0
	d.armed = false
}

// Armed reports whether the deadline is scheduled and has not been disarmed.
func (d *Deadline) Armed() bool {
	return d.armed
}

// Due reports whether the deadline is armed and now has reached it.
func (d *Deadline) Due(now time.Duration) bool {
	return d.armed && now >= d.At
}

// Since returns how long the deadline has been armed at now, or 0 if it is not armed.
func (d *Deadline) Since(now time.Duration) time.Duration {
	if !d.armed || now < d.Start {
		return 0
	}
	return now - d.Start
}

// Remaining returns the time left until the deadline fires, or 0 if it is due or not armed.
func (d *Deadline) Remaining(now time.Duration) time.Duration {
	if !d.armed || now >= d.At {
		return 0
	}
	return d.At - now
}

// Clock turns wall-clock readings into tick deltas. The first reading after
// Reset yields a zero delta; readings that go backwards also yield zero.
type Clock struct {
	last time.Time
}

// Reset forgets the previous reading.
func (c *Clock) Reset() {
	c.last = time.Time{}
}

// Advance records now and returns the time elapsed since the previous reading.
func (c *Clock) Advance(now time.Time) time.Duration {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	delta := now.Sub(c.last)
	if delta < 0 {
		return 0
	}
	c.last = now
	return delta
}

// Last returns the previous reading, zero if there was none.
func (c *Clock) Last() time.Time {
	return c.last
}

package realtime

import (
	"testing"
	"time"
)

func TestDeadline_NotArmed(t *testing.T) {
	var d Deadline
	if d.Armed() {
		t.Error("zero Deadline should not be armed")
	}
	if d.Due(time.Hour) {
		t.Error("unarmed deadline should never be due")
	}
	if got := d.Since(time.Second); got != 0 {
		t.Errorf("Since %v, want 0", got)
	}
}

func TestDeadline_ArmThenDue(t *testing.T) {
	var d Deadline
	d.Arm(100*time.Millisecond, 500*time.Millisecond)
	if !d.Armed() {
		t.Fatal("deadline should be armed")
	}
	if d.Due(599 * time.Millisecond) {
		t.Error("should not be due before deadline")
	}
	if got := d.Remaining(400 * time.Millisecond); got != 200*time.Millisecond {
		t.Errorf("Remaining %v, want 200ms", got)
	}
	if !d.Due(600 * time.Millisecond) {
		t.Error("should be due at deadline")
	}
	if got := d.Since(350 * time.Millisecond); got != 250*time.Millisecond {
		t.Errorf("Since %v, want 250ms", got)
	}
}

func TestDeadline_DueAfterSingleLargeStep(t *testing.T) {
	var d Deadline
	d.Arm(0, 500*time.Millisecond)
	// One long frame covers the whole window.
	if !d.Due(2 * time.Second) {
		t.Error("should be due after a long step")
	}
}

func TestDeadline_Disarm(t *testing.T) {
	var d Deadline
	d.Arm(0, 10*time.Millisecond)
	d.Disarm()
	if d.Armed() {
		t.Error("deadline should be disarmed")
	}
	if d.Due(time.Second) {
		t.Error("disarmed deadline should not be due")
	}
}

func TestDeadline_NegativeAfterClamps(t *testing.T) {
	var d Deadline
	d.Arm(time.Second, -time.Second)
	if !d.Due(time.Second) {
		t.Error("negative delay should fire immediately")
	}
}

func TestClock_Advance(t *testing.T) {
	var c Clock
	now := time.Now().UTC()
	if got := c.Advance(now); got != 0 {
		t.Errorf("first Advance %v, want 0", got)
	}
	if got := c.Advance(now.Add(16 * time.Millisecond)); got != 16*time.Millisecond {
		t.Errorf("Advance %v, want 16ms", got)
	}
	if got := c.Advance(now); got != 0 {
		t.Errorf("backwards Advance %v, want 0", got)
	}
	if !c.Last().Equal(now.Add(16 * time.Millisecond)) {
		t.Error("backwards reading should not replace Last")
	}
	c.Reset()
	if !c.Last().IsZero() {
		t.Error("Reset should clear Last")
	}
}

package domain

import "time"

// DefaultInterval is the reset interval used when none is configured.
const DefaultInterval = 24 * time.Hour

// Cycle tracks the current daily window of a partition.
type Cycle struct {
	LastResetAt time.Time
	NextResetAt time.Time
}

// ResetTrigger records which path performed a reset.
type ResetTrigger string

const (
	// TriggerScheduled is a reset found due on a regular access or sweep.
	TriggerScheduled ResetTrigger = "scheduled"
	// TriggerStartup is a reset found due while catching up at process start.
	TriggerStartup ResetTrigger = "startup"
)

// CycleState is Open while the deadline is ahead and Expired otherwise.
type CycleState string

const (
	CycleOpen    CycleState = "open"
	CycleExpired CycleState = "expired"
)

// NewCycle starts a cycle at now.
func NewCycle(now time.Time, interval time.Duration) Cycle {
	now = now.UTC()
	return Cycle{LastResetAt: now, NextResetAt: now.Add(interval)}
}

// State classifies the cycle at now. A missing deadline is expired.
func (c Cycle) State(now time.Time) CycleState {
	if c.NextResetAt.IsZero() || !now.Before(c.NextResetAt) {
		return CycleExpired
	}
	return CycleOpen
}

// Anomalous reports a deadline that cannot be trusted: missing, or further
// ahead than one interval, which only happens when the clock moved back.
func (c Cycle) Anomalous(now time.Time, interval time.Duration) bool {
	if c.NextResetAt.IsZero() {
		return true
	}
	return c.NextResetAt.Sub(now) > interval
}

// Due reports whether the cycle must be reset at now.
func (c Cycle) Due(now time.Time, interval time.Duration) bool {
	return c.State(now) == CycleExpired || c.Anomalous(now, interval)
}

// Remaining returns the time left before the deadline, never negative.
func (c Cycle) Remaining(now time.Time) time.Duration {
	if c.NextResetAt.IsZero() {
		return 0
	}
	if remaining := c.NextResetAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// ResetPartition performs the reset transition in place: rituals idle, tasks
// cleared, entry prepended to the log and a new cycle started at now.
// Callers check Due first and hold the partition's exclusive section.
func ResetPartition(p *Partition, now time.Time, interval time.Duration, entry LogEntry) {
	p.Rituals = ResetRituals(p.Rituals)
	p.Tasks = nil
	p.Logs = PrependLog(p.Logs, entry)
	p.Cycle = NewCycle(now, interval)
}

// DailyStatus is the reported state of a partition's cycle.
type DailyStatus struct {
	Completed   bool
	Interval    time.Duration
	NextResetAt time.Time
	Remaining   time.Duration
}

// StatusOf reports the cycle status of p at now.
func StatusOf(p Partition, now time.Time, interval time.Duration) DailyStatus {
	return DailyStatus{
		Completed:   AllRitualsDone(p.Rituals),
		Interval:    interval,
		NextResetAt: p.Cycle.NextResetAt,
		Remaining:   p.Cycle.Remaining(now),
	}
}

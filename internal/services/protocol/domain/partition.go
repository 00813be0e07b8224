package domain

import (
	"strings"
	"time"
)

// SchemaVersion is the partition layout written by this build.
//
// Version 1 partitions predate per-partition locales and may carry ritual
// sets from older builds; MigratePartition upgrades them on load.
const SchemaVersion = 2

const (
	// GuestLogin is the reserved partition used by unauthenticated readers.
	GuestLogin = "guest"
	// GuestPassword is the credential the guest account is created with.
	GuestPassword = "guest"
)

// Partition is the per-user aggregate and the unit of persistence.
type Partition struct {
	SchemaVersion int
	Login         string
	Locale        string
	Cycle         Cycle
	Rituals       []Ritual
	Tasks         []Task
	Logs          []LogEntry
}

// NewPartition builds the default partition for login with a cycle
// starting at now.
func NewPartition(login string, locale string, now time.Time, interval time.Duration) Partition {
	return Partition{
		SchemaVersion: SchemaVersion,
		Login:         strings.TrimSpace(login),
		Locale:        locale,
		Cycle:         NewCycle(now, interval),
		Rituals:       DefaultRituals(),
	}
}

// MigratePartition brings a loaded partition to SchemaVersion. It reports
// whether anything changed so the caller can persist the upgrade.
//
// The ritual set is rebuilt in canonical order: unknown ids are dropped and
// missing ids are added idle. If more than one ritual is active only the
// first keeps that status. A zero deadline is left alone; the scheduler
// treats it as expired.
func MigratePartition(p Partition, defaultLocale string) (Partition, bool) {
	changed := false

	if strings.TrimSpace(p.Locale) == "" {
		p.Locale = defaultLocale
		changed = true
	}

	byID := make(map[RitualID]Ritual, len(p.Rituals))
	for _, ritual := range p.Rituals {
		if _, seen := byID[ritual.ID]; !seen {
			byID[ritual.ID] = ritual
		}
	}
	rituals := make([]Ritual, 0, len(canonicalRituals))
	activeSeen := false
	for _, ritualID := range canonicalRituals {
		ritual, ok := byID[ritualID]
		if !ok {
			ritual = Ritual{ID: ritualID, Status: StatusIdle}
		}
		switch ritual.Status {
		case StatusIdle, StatusDone:
		case StatusActive:
			if activeSeen {
				ritual.Status = StatusIdle
			}
			activeSeen = true
		default:
			ritual.Status = StatusIdle
		}
		if ritual.Status != StatusDone {
			ritual.CompletedAt = nil
		}
		rituals = append(rituals, ritual)
	}
	if !sameRituals(p.Rituals, rituals) {
		p.Rituals = rituals
		changed = true
	}

	if p.SchemaVersion != SchemaVersion {
		p.SchemaVersion = SchemaVersion
		changed = true
	}
	return p, changed
}

func sameRituals(a []Ritual, b []Ritual) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Status != b[i].Status {
			return false
		}
		if (a[i].CompletedAt == nil) != (b[i].CompletedAt == nil) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of p.
func (p Partition) Clone() Partition {
	out := p
	out.Rituals = cloneRituals(p.Rituals)
	out.Tasks = append([]Task(nil), p.Tasks...)
	out.Logs = append([]LogEntry(nil), p.Logs...)
	return out
}

// Progress summarizes a partition for the suggestion generator.
type Progress struct {
	RitualsTotal     int
	RitualsCompleted int
	LogsCount        int
	CompletionRatio  float64
}

// ProgressOf summarizes p.
func ProgressOf(p Partition) Progress {
	total := len(p.Rituals)
	completed := CountDone(p.Rituals)
	ratio := 0.0
	if total > 0 {
		ratio = float64(completed) / float64(total)
	}
	return Progress{
		RitualsTotal:     total,
		RitualsCompleted: completed,
		LogsCount:        len(p.Logs),
		CompletionRatio:  ratio,
	}
}

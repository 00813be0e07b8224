package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/lifeprotocol/internal/platform/errors"
)

// RitualID identifies one ritual of the fixed daily set.
type RitualID string

const (
	RitualBreath RitualID = "breath"
	RitualWater  RitualID = "water"
	RitualStep   RitualID = "step"
)

var canonicalRituals = []RitualID{RitualBreath, RitualWater, RitualStep}

// CanonicalRituals returns the ritual ids in progression order.
func CanonicalRituals() []RitualID {
	return append([]RitualID(nil), canonicalRituals...)
}

// RitualStatus is the lifecycle state of one ritual within a cycle.
type RitualStatus string

const (
	StatusIdle   RitualStatus = "idle"
	StatusActive RitualStatus = "active"
	StatusDone   RitualStatus = "done"
)

// Ritual is one ritual record of a partition.
type Ritual struct {
	ID          RitualID
	Status      RitualStatus
	CompletedAt *time.Time
}

// ParseRitualID validates raw against the canonical set. Ids match exactly,
// apart from surrounding whitespace.
func ParseRitualID(raw string) (RitualID, error) {
	candidate := RitualID(strings.TrimSpace(raw))
	for _, known := range canonicalRituals {
		if candidate == known {
			return known, nil
		}
	}
	return "", apperrors.Wrap(apperrors.CodeRitualNotFound, "complete ritual", fmt.Errorf("ritual %q not found", raw))
}

// DefaultRituals returns the canonical set, every ritual idle.
func DefaultRituals() []Ritual {
	out := make([]Ritual, 0, len(canonicalRituals))
	for _, ritualID := range canonicalRituals {
		out = append(out, Ritual{ID: ritualID, Status: StatusIdle})
	}
	return out
}

// StartRitual activates the first ritual that is not done and forces every
// other unfinished ritual to idle. With every ritual done it returns the
// input unchanged.
func StartRitual(rituals []Ritual) []Ritual {
	out := cloneRituals(rituals)
	next := firstUndone(out)
	if next < 0 {
		return out
	}
	for i := range out {
		switch {
		case out[i].Status == StatusDone:
		case i == next:
			out[i].Status = StatusActive
		default:
			out[i].Status = StatusIdle
		}
	}
	return out
}

// CompleteRitual marks ritualID done at now, demotes any other active ritual
// and promotes the first unfinished ritual. A ritual that is already done
// keeps its original completion time.
func CompleteRitual(rituals []Ritual, ritualID RitualID, now time.Time) ([]Ritual, error) {
	target := -1
	for i := range rituals {
		if rituals[i].ID == ritualID {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, apperrors.Wrap(apperrors.CodeRitualNotFound, "complete ritual", fmt.Errorf("ritual %q not found", ritualID))
	}

	out := cloneRituals(rituals)
	for i := range out {
		if i == target {
			if out[i].Status != StatusDone {
				completedAt := now.UTC()
				out[i].Status = StatusDone
				out[i].CompletedAt = &completedAt
			}
			continue
		}
		if out[i].Status == StatusActive {
			out[i].Status = StatusIdle
		}
	}
	if next := firstUndone(out); next >= 0 {
		out[next].Status = StatusActive
	}
	return out, nil
}

// ResetRituals returns every ritual to idle and clears completion times.
func ResetRituals(rituals []Ritual) []Ritual {
	out := cloneRituals(rituals)
	for i := range out {
		out[i].Status = StatusIdle
		out[i].CompletedAt = nil
	}
	return out
}

// AllRitualsDone reports whether every ritual is done. An empty set is not
// considered complete.
func AllRitualsDone(rituals []Ritual) bool {
	if len(rituals) == 0 {
		return false
	}
	return CountDone(rituals) == len(rituals)
}

// CountDone returns how many rituals are done.
func CountDone(rituals []Ritual) int {
	done := 0
	for _, ritual := range rituals {
		if ritual.Status == StatusDone {
			done++
		}
	}
	return done
}

// CountActive returns how many rituals are active.
func CountActive(rituals []Ritual) int {
	active := 0
	for _, ritual := range rituals {
		if ritual.Status == StatusActive {
			active++
		}
	}
	return active
}

func firstUndone(rituals []Ritual) int {
	for i, ritual := range rituals {
		if ritual.Status != StatusDone {
			return i
		}
	}
	return -1
}

func cloneRituals(rituals []Ritual) []Ritual {
	out := make([]Ritual, len(rituals))
	for i, ritual := range rituals {
		out[i] = ritual
		if ritual.CompletedAt != nil {
			completedAt := *ritual.CompletedAt
			out[i].CompletedAt = &completedAt
		}
	}
	return out
}

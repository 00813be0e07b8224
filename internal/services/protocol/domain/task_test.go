package domain

import (
	"strings"
	"testing"
	"time"
)

func TestRecordID(t *testing.T) {
	createdAt := time.UnixMilli(1767225600000).UTC()

	got := RecordID("Drink a glass of water!", createdAt, "k2x9")
	want := "drink-a-glass-of-water-1767225600000-k2x9"
	if got != want {
		t.Fatalf("id = %q, want %q", got, want)
	}

	if got := RecordID("Прогулка 10 минут", createdAt, ""); got != "прогулка-10-минут-1767225600000" {
		t.Fatalf("unicode id = %q", got)
	}
	if got := RecordID("   !!!  ", createdAt, "a"); !strings.HasPrefix(got, "task-") {
		t.Fatalf("fallback id = %q, want task- prefix", got)
	}
}

func TestRecordIDDisambiguatesSameTitleAndInstant(t *testing.T) {
	createdAt := time.UnixMilli(1767225600000).UTC()
	a := RecordID("Walk", createdAt, "aaaa")
	b := RecordID("Walk", createdAt, "bbbb")
	if a == b {
		t.Fatalf("ids collide: %q", a)
	}
}

func TestRecordIDCapsSlug(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := RecordID(long, time.UnixMilli(1).UTC(), "")
	if got != strings.Repeat("a", maxSlugRunes)+"-1" {
		t.Fatalf("id = %q", got)
	}
}

func TestNeedsRefill(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	fresh := Task{ID: "fresh", CreatedAt: now.Add(-time.Hour)}
	stale := Task{ID: "stale", CreatedAt: now.Add(-25 * time.Hour)}

	if !NeedsRefill(nil, now, DefaultInterval) {
		t.Fatal("empty list should need refill")
	}
	if !NeedsRefill([]Task{stale}, now, DefaultInterval) {
		t.Fatal("all-stale list should need refill")
	}
	if NeedsRefill([]Task{stale, fresh}, now, DefaultInterval) {
		t.Fatal("partly fresh list should not need refill")
	}

	kept := DropStale([]Task{stale, fresh}, now, DefaultInterval)
	if len(kept) != 1 || kept[0].ID != "fresh" {
		t.Fatalf("kept = %+v, want fresh only", kept)
	}
}

func TestRemoveTask(t *testing.T) {
	tasks := []Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out, removed := RemoveTask(tasks, "b")
	if !removed {
		t.Fatal("expected removal")
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "c" {
		t.Fatalf("tasks = %+v", out)
	}
	if len(tasks) != 3 {
		t.Fatal("input mutated")
	}

	if _, removed := RemoveTask(tasks, "zzz"); removed {
		t.Fatal("unexpected removal")
	}
}

func TestPrependTasks(t *testing.T) {
	out := PrependTasks([]Task{{ID: "a"}, {ID: "c"}}, Task{ID: "d"})
	if len(out) != 3 || out[0].ID != "d" || out[1].ID != "a" || out[2].ID != "c" {
		t.Fatalf("tasks = %+v", out)
	}
}

func TestNewLogEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	entry, err := NewLogEntry("  Slept well ", " eight hours ", now, "q1")
	if err != nil {
		t.Fatalf("new log entry: %v", err)
	}
	if entry.Title != "Slept well" || entry.Note != "eight hours" {
		t.Fatalf("entry = %+v", entry)
	}
	if !entry.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v, want %v", entry.CreatedAt, now)
	}

	if _, err := NewLogEntry("   ", "", now, "q2"); err != ErrEmptyLogTitle {
		t.Fatalf("err = %v, want ErrEmptyLogTitle", err)
	}
}

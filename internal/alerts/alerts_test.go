package alerts

import (
	"testing"
	"time"
)

func TestLatestDecisions(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("latest timestamp wins", func(t *testing.T) {
		d := LatestDecisions([]Review{
			{AlertID: "a", Decision: DecisionApproved, CreatedAt: base},
			{AlertID: "a", Decision: DecisionRejected, CreatedAt: base.Add(time.Minute)},
		})
		if d["a"] != DecisionRejected {
			t.Errorf("expected rejected, got %s", d["a"])
		}
	})

	t.Run("equal timestamps resolve to later entry", func(t *testing.T) {
		d := LatestDecisions([]Review{
			{AlertID: "a", Decision: DecisionRejected, CreatedAt: base},
			{AlertID: "a", Decision: DecisionApproved, CreatedAt: base},
		})
		if d["a"] != DecisionApproved {
			t.Errorf("expected approved, got %s", d["a"])
		}
	})

	t.Run("independent alerts", func(t *testing.T) {
		d := LatestDecisions([]Review{
			{AlertID: "a", Decision: DecisionApproved, CreatedAt: base},
			{AlertID: "b", Decision: DecisionRejected, CreatedAt: base},
		})
		if len(d) != 2 || d["a"] != DecisionApproved || d["b"] != DecisionRejected {
			t.Errorf("unexpected decisions: %v", d)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if d := LatestDecisions(nil); len(d) != 0 {
			t.Errorf("expected empty map, got %v", d)
		}
	})
}

func TestSortByPage(t *testing.T) {
	list := []Alert{
		{ID: "c", Source: &Source{PageNumber: 5}},
		{ID: "a"},
		{ID: "b", Source: &Source{PageNumber: 2}},
		{ID: "d", Source: &Source{PageNumber: 2}},
	}
	SortByPage(list)

	wantOrder := []string{"b", "d", "c", "a"}
	for i, want := range wantOrder {
		if list[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s (full: %+v)", i, want, list[i].ID, list)
		}
	}
}

package service

import (
	"reflect"
	"testing"

	"github.com/nexus-manager/backend/internal/models"
)

func TestBuildSyncUpdateCounters(t *testing.T) {
	memberCards := map[string][]models.TrelloCard{
		"m1": {
			{ID: "c1", Name: "Ship API"},
			{ID: "c2", Name: "Refactor auth"},
			{ID: "c3", Name: "Water the plants"},
			{ID: "c4", Name: "Docs pass"},
		},
	}
	scores := map[string]CardScore{
		"c1": {ID: "c1", Score: 95},
		"c2": {ID: "c2", Score: 80},
		"c3": {ID: "c3", Score: 10},
		"c4": {ID: "c4", Score: 65},
	}

	_, stats := BuildSyncUpdate(memberCards, scores)
	got := stats["m1"]
	if got.Aligned != 2 {
		t.Fatalf("aligned = %d, want 2 (scores 95 and 80)", got.Aligned)
	}
	if got.Misaligned != 1 {
		t.Fatalf("misaligned = %d, want 1 (score 10)", got.Misaligned)
	}
}

func TestBuildSyncUpdateUnscoredCardsCountNowhere(t *testing.T) {
	memberCards := map[string][]models.TrelloCard{
		"m1": {{ID: "c1", Name: "Mystery task"}},
	}

	demands, stats := BuildSyncUpdate(memberCards, map[string]CardScore{})
	if got := stats["m1"]; got.Aligned != 0 || got.Misaligned != 0 {
		t.Fatalf("unscored card moved a counter: %+v", got)
	}
	if !reflect.DeepEqual(demands["m1"], []string{"Mystery task"}) {
		t.Fatalf("demand titles = %v", demands["m1"])
	}
}

func TestBuildSyncUpdateReplacesDemandList(t *testing.T) {
	memberCards := map[string][]models.TrelloCard{
		"m1": {
			{ID: "c1", Name: "First"},
			{ID: "c2", Name: "Second"},
		},
		"m2": {},
	}

	demands, stats := BuildSyncUpdate(memberCards, nil)
	if !reflect.DeepEqual(demands["m1"], []string{"First", "Second"}) {
		t.Fatalf("m1 demands = %v", demands["m1"])
	}
	// A member with zero cards still gets an (empty) entry so the sync
	// clears their previous demand list.
	if d, ok := demands["m2"]; !ok || len(d) != 0 {
		t.Fatalf("m2 demands = %v (present=%v)", d, ok)
	}
	if _, ok := stats["m2"]; !ok {
		t.Fatalf("m2 missing from stats")
	}
}

package trello

import (
	"reflect"
	"testing"

	"github.com/nexus-manager/backend/internal/models"
)

func TestExactIDMatchWinsOverName(t *testing.T) {
	team := []models.TeamMember{
		{ID: "other", Name: "Carlos"},
		{ID: "p", Name: "Someone Else", TrelloMemberID: "u1"},
	}
	members := []models.TrelloMember{{ID: "u1", FullName: "Carlos Souza"}}
	cards := []models.TrelloCard{{ID: "c1", Name: "Task", IDMembers: []string{"u1"}}}

	res := OrganizeCardsByMember(cards, nil, members, team)
	if len(res.MemberCards["p"]) != 1 {
		t.Fatalf("expected exact-id member to get the card, got %+v", res.MemberCards)
	}
	if len(res.MemberCards["other"]) != 0 {
		t.Fatalf("fuzzy candidate must not get the card when an exact match exists")
	}
	if len(res.Unassigned) != 0 {
		t.Fatalf("card must not be unassigned")
	}
}

func TestFuzzyNameSubstringMatch(t *testing.T) {
	team := []models.TeamMember{{ID: "m", Name: "Maria"}}
	members := []models.TrelloMember{{ID: "u2", FullName: "Maria Silva"}}
	cards := []models.TrelloCard{{ID: "c1", Name: "Report", IDMembers: []string{"u2"}}}

	res := OrganizeCardsByMember(cards, nil, members, team)
	if len(res.MemberCards["m"]) != 1 {
		t.Fatalf("expected substring match to assign the card, got %+v", res)
	}
}

func TestCardWithNoMembersIsUnassigned(t *testing.T) {
	team := []models.TeamMember{{ID: "m", Name: "Maria"}}
	cards := []models.TrelloCard{{ID: "c1", Name: "Orphan", IDMembers: nil}}

	res := OrganizeCardsByMember(cards, nil, nil, team)
	if len(res.Unassigned) != 1 {
		t.Fatalf("expected orphan card unassigned, got %+v", res)
	}
}

func TestUnresolvableMemberGoesUnassigned(t *testing.T) {
	team := []models.TeamMember{{ID: "m", Name: "Maria"}}
	members := []models.TrelloMember{{ID: "u9", FullName: "Zoe Chen"}}
	cards := []models.TrelloCard{{ID: "c1", Name: "Mystery", IDMembers: []string{"u9"}}}

	res := OrganizeCardsByMember(cards, nil, members, team)
	if len(res.Unassigned) != 1 || len(res.MemberCards["m"]) != 0 {
		t.Fatalf("expected unresolvable card unassigned, got %+v", res)
	}
}

func TestListNameEnrichment(t *testing.T) {
	team := []models.TeamMember{{ID: "m", Name: "Maria"}}
	lists := []models.TrelloList{{ID: "l1", Name: "Doing"}}
	members := []models.TrelloMember{{ID: "u2", FullName: "Maria Silva"}}
	cards := []models.TrelloCard{
		{ID: "c1", Name: "Known", IDList: "l1", IDMembers: []string{"u2"}},
		{ID: "c2", Name: "Unknown", IDList: "l9", IDMembers: []string{"u2"}},
	}

	res := OrganizeCardsByMember(cards, lists, members, team)
	got := res.MemberCards["m"]
	if len(got) != 2 {
		t.Fatalf("expected both cards assigned, got %+v", got)
	}
	if got[0].ListName != "Doing" {
		t.Fatalf("expected list name resolved, got %q", got[0].ListName)
	}
	if got[1].ListName != "Unknown List" {
		t.Fatalf("expected fallback list name, got %q", got[1].ListName)
	}
}

func TestMultiMemberCardDuplicatesAcrossPeople(t *testing.T) {
	team := []models.TeamMember{
		{ID: "a", Name: "Maria"},
		{ID: "b", Name: "Carlos"},
	}
	members := []models.TrelloMember{
		{ID: "u1", FullName: "Maria Silva"},
		{ID: "u2", FullName: "Carlos Souza"},
	}
	cards := []models.TrelloCard{{ID: "c1", Name: "Shared", IDMembers: []string{"u1", "u2"}}}

	res := OrganizeCardsByMember(cards, nil, members, team)
	if len(res.MemberCards["a"]) != 1 || len(res.MemberCards["b"]) != 1 {
		t.Fatalf("expected card under both people, got %+v", res.MemberCards)
	}
	if len(res.Unassigned) != 0 {
		t.Fatalf("shared card must not be unassigned")
	}
}

func TestPartitionCompleteness(t *testing.T) {
	team := []models.TeamMember{
		{ID: "a", Name: "Maria"},
		{ID: "b", Name: "Carlos", TrelloMemberID: "u2"},
	}
	members := []models.TrelloMember{
		{ID: "u1", FullName: "Maria Silva"},
		{ID: "u2", FullName: "Carlos Souza"},
		{ID: "u3", FullName: "Nobody Known"},
	}
	cards := []models.TrelloCard{
		{ID: "c1", IDMembers: []string{"u1"}},
		{ID: "c2", IDMembers: []string{"u2"}},
		{ID: "c3", IDMembers: []string{"u3"}},
		{ID: "c4", IDMembers: nil},
	}

	res := OrganizeCardsByMember(cards, nil, members, team)
	seen := map[string]int{}
	for _, cs := range res.MemberCards {
		for _, c := range cs {
			seen[c.ID]++
		}
	}
	for _, c := range res.Unassigned {
		seen[c.ID]++
	}
	for _, c := range cards {
		if seen[c.ID] == 0 {
			t.Fatalf("card %s lost from partition", c.ID)
		}
	}
	if len(res.Unassigned) != 2 {
		t.Fatalf("expected c3 and c4 unassigned, got %+v", res.Unassigned)
	}
}

func TestResolutionIsDeterministic(t *testing.T) {
	team := []models.TeamMember{{ID: "a", Name: "Ana"}, {ID: "b", Name: "Mariana"}}
	members := []models.TrelloMember{{ID: "u1", FullName: "Mariana Costa"}}
	cards := []models.TrelloCard{{ID: "c1", IDMembers: []string{"u1"}}}

	first := OrganizeCardsByMember(cards, nil, members, team)
	second := OrganizeCardsByMember(cards, nil, members, team)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolution not deterministic")
	}
	// "Ana" is a substring of "Mariana Costa", and roster order is the
	// only tie-break.
	if len(first.MemberCards["a"]) != 1 {
		t.Fatalf("expected first roster match to win, got %+v", first.MemberCards)
	}
}

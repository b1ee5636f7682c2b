package trello

import (
	"strings"

	"github.com/nexus-manager/backend/internal/models"
)

// Resolution partitions fetched cards by local team member. Every card
// appears either under at least one member or in Unassigned, never both.
type Resolution struct {
	MemberCards map[string][]models.TrelloCard `json:"memberCards"`
	Unassigned  []models.TrelloCard            `json:"unassignedCards"`
}

// OrganizeCardsByMember maps board cards onto the local roster. Exact
// stored trelloMemberId matches win; otherwise the board member's full name
// is matched against local names case-insensitively, exact or substring in
// either direction, first roster match taken. The substring fallback can
// false-positive on short names ("Ana" matches any name containing "ana");
// that imprecision is accepted, not guarded against.
//
// Pure function: no I/O, deterministic for a given input tuple.
func OrganizeCardsByMember(
	cards []models.TrelloCard,
	lists []models.TrelloList,
	boardMembers []models.TrelloMember,
	team []models.TeamMember,
) Resolution {
	res := Resolution{
		MemberCards: make(map[string][]models.TrelloCard, len(team)),
		Unassigned:  []models.TrelloCard{},
	}
	for _, m := range team {
		res.MemberCards[m.ID] = []models.TrelloCard{}
	}

	listNames := make(map[string]string, len(lists))
	for _, l := range lists {
		listNames[l.ID] = l.Name
	}
	memberNames := make(map[string]string, len(boardMembers))
	for _, bm := range boardMembers {
		memberNames[bm.ID] = bm.FullName
	}

	for _, card := range cards {
		name, ok := listNames[card.IDList]
		if !ok {
			name = "Unknown List"
		}
		card.ListName = name

		if len(card.IDMembers) == 0 {
			res.Unassigned = append(res.Unassigned, card)
			continue
		}

		assigned := false
		for _, boardMemberID := range card.IDMembers {
			local, ok := matchMember(boardMemberID, memberNames, team)
			if !ok {
				continue
			}
			res.MemberCards[local.ID] = append(res.MemberCards[local.ID], card)
			assigned = true
		}
		if !assigned {
			res.Unassigned = append(res.Unassigned, card)
		}
	}
	return res
}

func matchMember(boardMemberID string, memberNames map[string]string, team []models.TeamMember) (models.TeamMember, bool) {
	for _, m := range team {
		if m.TrelloMemberID != "" && m.TrelloMemberID == boardMemberID {
			return m, true
		}
	}

	fullName, ok := memberNames[boardMemberID]
	if !ok {
		return models.TeamMember{}, false
	}
	full := strings.ToLower(fullName)
	for _, m := range team {
		local := strings.ToLower(m.Name)
		if local == full || strings.Contains(local, full) || strings.Contains(full, local) {
			return m, true
		}
	}
	return models.TeamMember{}, false
}

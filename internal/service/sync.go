package service

import "github.com/nexus-manager/backend/internal/models"

// BuildSyncUpdate folds a reconciliation session into the durable shape:
// per-member demand lists (card titles, full replace) and aligned/misaligned
// counters derived from recorded scores. Only members present in the
// resolution map get an entry; cards without a recorded score count in
// neither bucket, as do scores in the neutral band.
func BuildSyncUpdate(memberCards map[string][]models.TrelloCard, scores map[string]CardScore) (map[string][]string, map[string]models.AlignmentStats) {
	demands := make(map[string][]string, len(memberCards))
	stats := make(map[string]models.AlignmentStats, len(memberCards))

	for memberID, cards := range memberCards {
		titles := make([]string, 0, len(cards))
		var st models.AlignmentStats
		for _, card := range cards {
			titles = append(titles, card.Name)
			score, ok := scores[card.ID]
			if !ok {
				continue
			}
			if score.Score >= AlignedThreshold {
				st.Aligned++
			}
			if score.Score < MisalignedThreshold {
				st.Misaligned++
			}
		}
		demands[memberID] = titles
		stats[memberID] = st
	}
	return demands, stats
}

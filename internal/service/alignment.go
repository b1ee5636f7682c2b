package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nexus-manager/backend/internal/ai"
	"github.com/nexus-manager/backend/internal/models"
)

// Alignment thresholds. Scores of 80 and above count as aligned, below 50
// as scope drift; the band between lands in neither counter.
const (
	AlignedThreshold    = 80
	MisalignedThreshold = 50
)

type CardScore struct {
	ID     string `json:"id"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

type AlignmentResult struct {
	SummaryHTML string      `json:"summaryHtml"`
	CardScores  []CardScore `json:"cardScores"`
}

const alignmentFallback = "Could not get an analysis from the AI provider. Check the AI settings and try again."

// BuildAlignmentPrompt renders the single instruction prompt for one
// member's audit: their role, their board cards and every project's
// objectives as scoring context.
func BuildAlignmentPrompt(member models.TeamMember, cards []models.TrelloCard, projects []models.Project) string {
	type promptCard struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		List string `json:"list"`
		Desc string `json:"desc"`
	}
	pcs := make([]promptCard, 0, len(cards))
	for _, c := range cards {
		pcs = append(pcs, promptCard{ID: c.ID, Name: c.Name, List: c.ListName, Desc: c.Desc})
	}
	cardJSON, _ := json.Marshal(pcs)

	var objectives strings.Builder
	for _, p := range projects {
		texts := make([]string, 0, len(p.Objectives))
		for _, o := range p.Objectives {
			texts = append(texts, o.Text)
		}
		fmt.Fprintf(&objectives, "- %s: %s\n", p.Name, strings.Join(texts, "; "))
	}

	return fmt.Sprintf(`ROLE: You are an expert Engineering Manager running an alignment audit.

TEAM MEMBER:
Name: %s
Role: %s (%s)
Description: %s

BOARD TASKS (real data):
%s

PROJECT OBJECTIVES (all active):
%s
TASK:
1. For EACH task, give a 0-100 alignment score against the project objectives and the person's role.
   - >80: Highly aligned (critical to the project or core to the role).
   - <50: Suspect (scope drift, busy work or misaligned).
2. Write an executive summary in HTML.

REQUIRED OUTPUT FORMAT (JSON):
{
   "summaryHtml": "Your summary in <b>HTML</b> here...",
   "cardScores": [
      { "id": "task_id", "score": 95, "reason": "Short justification" }
   ]
}`,
		member.Name, member.Role, member.Seniority, member.JobDescription,
		string(cardJSON), objectives.String())
}

// AnalyzeAlignment runs one classification attempt for one member. It never
// fails past its boundary: a transport or parse failure degrades to an
// empty score list with a fallback narrative.
func AnalyzeAlignment(ctx context.Context, gen ai.Generator, member models.TeamMember, cards []models.TrelloCard, projects []models.Project) AlignmentResult {
	prompt := BuildAlignmentPrompt(member, cards, projects)
	raw, err := gen.Generate(ctx, ai.GenerateRequest{Prompt: prompt, JSONMode: true})
	if err != nil {
		return AlignmentResult{SummaryHTML: alignmentFallback, CardScores: []CardScore{}}
	}

	var result AlignmentResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return AlignmentResult{SummaryHTML: alignmentFallback, CardScores: []CardScore{}}
	}
	if result.SummaryHTML == "" {
		result.SummaryHTML = "Analysis returned no summary."
	}
	if result.CardScores == nil {
		result.CardScores = []CardScore{}
	}
	return result
}

// stripFences unwraps a markdown code fence some models emit around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nexus-manager/backend/internal/ai"
	"github.com/nexus-manager/backend/internal/models"
	"github.com/nexus-manager/backend/internal/store"
)

// Advisor wraps the analytical text-generation features around the managed
// state: consultant chat, quick analysis, development plans, project risk
// and knowledge-doc review.
type Advisor struct {
	Store  *store.Store
	AI     ai.Factory
	Logger zerolog.Logger
}

// contextPrompt frames the full snapshot as system context for the
// consultant features.
func contextPrompt(state models.GlobalState) string {
	var kb strings.Builder
	for _, doc := range state.KnowledgeBase {
		fmt.Fprintf(&kb, "-- DOCUMENT (%s): %s (%s) --\n%s\n\n", doc.Type, doc.Title, doc.Category, doc.Content)
	}
	data, _ := json.MarshalIndent(map[string]any{
		"team":     state.Team,
		"projects": state.Projects,
	}, "", "  ")

	return fmt.Sprintf(`You are Nexus, a senior consultant for technical management and AI strategy.
You help a manager oversee an engineering team and multiple projects.

CURRENT DATA CONTEXT (JSON):
%s

INTERNAL KNOWLEDGE BASE (docs and references):
%s
YOUR GOAL:
- Analyze team strengths, weaknesses and workload to suggest allocations.
- Review project status to spot risks, missing steps or automation opportunities.
- Suggest new ideas based on team capabilities and market trends.
- Give constructive feedback for individual development plans.
- Answer questions about the architecture and logic in the knowledge base.

GUIDELINES:
- Be concise, strategic and actionable.
- When referring to a person or project, use the specific data from the context.`,
		string(data), kb.String())
}

// Chat sends one consultant turn. History is supplied by the caller; the
// server keeps no conversation state.
func (a *Advisor) Chat(ctx context.Context, history []ai.Message, message string) (string, error) {
	state := a.Store.State()
	gen, err := a.AI(state.AIConfig)
	if err != nil {
		return "", err
	}
	return gen.Chat(ctx, ai.ChatRequest{
		System:  contextPrompt(state),
		History: history,
		Message: message,
	})
}

// QuickAnalysis answers a one-off question against the full context.
func (a *Advisor) QuickAnalysis(ctx context.Context, question string) (string, error) {
	state := a.Store.State()
	gen, err := a.AI(state.AIConfig)
	if err != nil {
		return "", err
	}
	prompt := contextPrompt(state) + "\n\nUSER QUESTION: " + question
	return gen.Generate(ctx, ai.GenerateRequest{Prompt: prompt})
}

// GeneratePDI asks for a structured development plan for one member,
// appends it to their existing plan and persists. Returns only the newly
// generated items.
func (a *Advisor) GeneratePDI(ctx context.Context, memberID string) ([]models.PDIItem, error) {
	state := a.Store.State()
	var member models.TeamMember
	found := false
	for _, m := range state.Team {
		if m.ID == memberID {
			member = m
			found = true
			break
		}
	}
	if !found {
		return nil, store.ErrNotFound
	}

	gen, err := a.AI(state.AIConfig)
	if err != nil {
		return nil, err
	}

	stacks := make([]string, 0, len(state.Projects))
	for _, p := range state.Projects {
		stacks = append(stacks, strings.Join(p.TechStack, ", "))
	}
	prompt := fmt.Sprintf(`Create a STRUCTURED individual development plan for:
Name: %s
Current seniority: %s
Strengths: %s
Weaknesses: %s
Current demands: %s

Consider the company's current projects and tech stack (%s).

Return a JSON list of concrete actions.
Accepted values for "category": 'Short Term', 'Mid Term', 'Action', 'Mentoring'.

JSON ARRAY FORMAT:
[
  { "text": "Study the X documentation", "category": "Short Term" },
  { "text": "Run a code review on project Y", "category": "Action" }
]`,
		member.Name, member.Seniority,
		strings.Join(member.Strengths, ", "), strings.Join(member.Weaknesses, ", "),
		strings.Join(member.Demands, ", "), strings.Join(stacks, ", "))

	raw, err := gen.Generate(ctx, ai.GenerateRequest{Prompt: prompt, JSONMode: true})
	if err != nil {
		a.Logger.Warn().Err(err).Str("member", memberID).Msg("pdi generation failed")
		return []models.PDIItem{}, nil
	}

	var parsed []struct {
		Text     string `json:"text"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		a.Logger.Warn().Err(err).Str("member", memberID).Msg("pdi response unparseable")
		return []models.PDIItem{}, nil
	}

	items := make([]models.PDIItem, 0, len(parsed))
	for _, p := range parsed {
		items = append(items, models.PDIItem{
			ID:       uuid.NewString(),
			Text:     p.Text,
			Category: p.Category,
		})
	}
	if len(items) > 0 {
		if err := a.Store.SetMemberPDI(memberID, append(member.PDI, items...)); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// AssessProjectRisk scores one project on four risk vectors and stores the
// result on the project. A failed or unparseable response yields nil
// without an error, mirroring the classifier's soft degradation.
func (a *Advisor) AssessProjectRisk(ctx context.Context, projectID string) (*models.ProjectRisk, error) {
	state := a.Store.State()
	var project models.Project
	found := false
	for _, p := range state.Projects {
		if p.ID == projectID {
			project = p
			found = true
			break
		}
	}
	if !found {
		return nil, store.ErrNotFound
	}

	gen, err := a.AI(state.AIConfig)
	if err != nil {
		return nil, err
	}

	var assigned strings.Builder
	for _, m := range state.Team {
		for _, id := range project.AssignedTeamMembers {
			if m.ID == id {
				fmt.Fprintf(&assigned, "- %s (%s): %s\n", m.Name, m.Seniority, strings.Join(m.Strengths, ", "))
			}
		}
	}
	objectives := make([]string, 0, len(project.Objectives))
	for _, o := range project.Objectives {
		objectives = append(objectives, o.Text)
	}
	blockers := make([]string, 0, len(project.Blockers))
	for _, b := range project.Blockers {
		blockers = append(blockers, b.Text)
	}
	var pending []string
	for _, t := range project.Tasks {
		if t.Status == models.TaskTodo {
			pending = append(pending, t.Title)
		}
	}

	prompt := fmt.Sprintf(`Run a detailed risk analysis for the project: %q.

PROJECT DATA:
Status: %s
Objectives: %s
Blockers: %s
Stack: %s
Pending tasks: %s

ASSIGNED TEAM:
%s
Score the risk (0 to 100, where 100 is critical/imminent failure) on:
1. Deadline (deadlineRisk)
2. Technical complexity (complexityRisk)
3. Headcount (headcountRisk - not enough people?)
4. Technical competency (competencyRisk - does the team know the stack?)

Return ONLY a JSON object:
{
  "overallScore": number,
  "deadlineRisk": number,
  "complexityRisk": number,
  "headcountRisk": number,
  "competencyRisk": number,
  "analysis": "Short explanation"
}`,
		project.Name, project.Status, strings.Join(objectives, ", "),
		strings.Join(blockers, ", "), strings.Join(project.TechStack, ", "),
		strings.Join(pending, ", "), assigned.String())

	raw, err := gen.Generate(ctx, ai.GenerateRequest{Prompt: prompt, JSONMode: true})
	if err != nil {
		a.Logger.Warn().Err(err).Str("project", projectID).Msg("risk assessment failed")
		return nil, nil
	}
	var risk models.ProjectRisk
	if err := json.Unmarshal([]byte(stripFences(raw)), &risk); err != nil {
		a.Logger.Warn().Err(err).Str("project", projectID).Msg("risk response unparseable")
		return nil, nil
	}
	risk.LastUpdated = time.Now().UnixMilli()
	if err := a.Store.SetProjectRisk(projectID, risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// AnalyzeDoc reviews an external knowledge-base resource against current
// projects and suggests who should study it, storing the analysis on the
// doc.
func (a *Advisor) AnalyzeDoc(ctx context.Context, docID string) (string, error) {
	state := a.Store.State()
	var doc models.KnowledgeDoc
	found := false
	for _, d := range state.KnowledgeBase {
		if d.ID == docID {
			doc = d
			found = true
			break
		}
	}
	if !found {
		return "", store.ErrNotFound
	}

	gen, err := a.AI(state.AIConfig)
	if err != nil {
		return "", err
	}

	var stack []string
	for _, p := range state.Projects {
		stack = append(stack, p.TechStack...)
	}
	names := make([]string, 0, len(state.Team))
	for _, m := range state.Team {
		names = append(names, m.Name)
	}

	prompt := fmt.Sprintf(`Analyze this external resource (link, article or text) for the company:
Title: %s
Content: %s

Compare it against the current projects and the team's methods (stack: %s).

1. Is this aligned with what we are doing? (Supports or contradicts?)
2. Suggest which team member (%s) should study it based on their strengths and weaknesses.

Answer in plain prose (Markdown).`,
		doc.Title, doc.Content, strings.Join(stack, ", "), strings.Join(names, ", "))

	analysis, err := gen.Generate(ctx, ai.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	if err := a.Store.SetDocAnalysis(docID, analysis); err != nil {
		return "", err
	}
	return analysis, nil
}

package store

import (
	"time"

	"github.com/nexus-manager/backend/internal/models"
)

// DefaultState seeds a fresh installation so the dashboard is never empty.
func DefaultState() models.GlobalState {
	return models.GlobalState{
		Team: []models.TeamMember{
			{
				ID:               "1",
				Name:             "Alice Dev",
				Role:             "Backend Engineer",
				Seniority:        models.SenioritySpecialist,
				JobDescription:   "Design scalable APIs and own database interactions.",
				Responsibilities: []string{"API Gateway", "Database Tuning"},
				Demands:          []string{"PostgreSQL migration", "Code review"},
				Strengths:        []string{"System design", "Node.js", "Mentoring"},
				Weaknesses:       []string{"Frontend CSS", "Public speaking"},
				Notes:            "High performer, interested in ML.",
				PDI:              models.PDIList{},
				StudyPlan:        []string{},
			},
		},
		Projects: []models.Project{
			{
				ID:          "1",
				Name:        "Project Alpha (AI Automation)",
				Description: "Automate customer support tickets using LLMs.",
				Blockers:    []models.ProjectBlocker{},
				Status:      models.ProjectInProgress,
				Goals: models.GoalList{
					{ID: "g1", Text: "Reach 90% accuracy"},
					{ID: "g2", Text: "Response time under 2s"},
				},
				Objectives: models.GoalList{
					{ID: "o1", Text: "Cut response time by 50%"},
				},
				Tasks: []models.ProjectTask{
					{ID: "t1", Title: "Proof of concept", Status: models.TaskDone, AssigneeIDs: []string{"1"}},
					{ID: "t2", Title: "API integration", Status: models.TaskDone, AssigneeIDs: []string{"1"}},
					{ID: "t3", Title: "Production rollout", Status: models.TaskTodo, AssigneeIDs: []string{"1"}},
				},
				TechStack:           []string{"Python", "React", "Gemini API"},
				AssignedTeamMembers: []string{"1"},
				LinkedDocIDs:        []string{"kb-1"},
			},
		},
		KnowledgeBase: []models.KnowledgeDoc{
			{
				ID:        "kb-1",
				Title:     "AI Docs Architecture",
				Type:      models.DocInternal,
				Category:  "Architecture",
				Content:   "The core architecture is a multi-agent system built on Gemini 2.5 Flash.",
				UpdatedAt: time.Now().UnixMilli(),
			},
		},
		AIConfig: DefaultAIConfig(),
	}
}

// DefaultAIConfig is also used to backfill snapshots written before
// provider settings existed.
func DefaultAIConfig() models.AIConfig {
	return models.AIConfig{
		Provider:    models.ProviderGemini,
		GeminiModel: "gemini-2.5-flash",
		GPTModel:    "gpt-4o",
		Temperature: 0.7,
	}
}

package store

import (
	"github.com/google/uuid"

	"github.com/nexus-manager/backend/internal/models"
)

// Migrate normalizes a decoded snapshot so every field the rest of the
// system assumes is present. It is idempotent: running it on an
// already-migrated snapshot changes nothing, which keeps generated
// identifiers stable across restarts.
func Migrate(s *models.GlobalState) {
	defaults := DefaultState()

	if s.Team == nil {
		s.Team = defaults.Team
	}
	if s.Projects == nil {
		s.Projects = defaults.Projects
	}
	if s.KnowledgeBase == nil {
		s.KnowledgeBase = defaults.KnowledgeBase
	}
	if s.AIConfig.Provider == "" {
		s.AIConfig = DefaultAIConfig()
	}

	for i := range s.Team {
		migrateMember(&s.Team[i])
	}
	for i := range s.Projects {
		migrateProject(&s.Projects[i])
	}
}

func migrateMember(m *models.TeamMember) {
	if m.Seniority == "" {
		m.Seniority = models.SeniorityAnalyst
	}
	if m.PDI == nil {
		m.PDI = models.PDIList{}
	}
	if m.StudyPlan == nil {
		m.StudyPlan = []string{}
	}
	if m.Responsibilities == nil {
		m.Responsibilities = []string{}
	}
	if m.Demands == nil {
		m.Demands = []string{}
	}
	if m.Strengths == nil {
		m.Strengths = []string{}
	}
	if m.Weaknesses == nil {
		m.Weaknesses = []string{}
	}
}

func migrateProject(p *models.Project) {
	p.Goals = fillGoalIDs(p.Goals)
	p.Objectives = fillGoalIDs(p.Objectives)
	if p.Goals == nil {
		p.Goals = models.GoalList{}
	}
	if p.Objectives == nil {
		p.Objectives = models.GoalList{}
	}

	// A legacy free-text difficulties field with no structured blockers
	// becomes a single open blocker. The text itself is kept.
	if p.Blockers == nil {
		p.Blockers = []models.ProjectBlocker{}
		if p.Difficulties != "" {
			p.Blockers = append(p.Blockers, models.ProjectBlocker{
				ID:   uuid.NewString(),
				Text: p.Difficulties,
			})
		}
	}

	// Old snapshots tracked tasks as todo/done string lists.
	if p.Tasks == nil {
		p.Tasks = []models.ProjectTask{}
		for _, title := range p.LegacyTodo {
			p.Tasks = append(p.Tasks, models.ProjectTask{
				ID:          uuid.NewString(),
				Title:       title,
				Status:      models.TaskTodo,
				AssigneeIDs: []string{},
			})
		}
		for _, title := range p.LegacyDone {
			p.Tasks = append(p.Tasks, models.ProjectTask{
				ID:          uuid.NewString(),
				Title:       title,
				Status:      models.TaskDone,
				AssigneeIDs: []string{},
			})
		}
	}
	p.LegacyTodo = nil
	p.LegacyDone = nil

	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.AssignedTeamMembers == nil {
		p.AssignedTeamMembers = []string{}
	}
	if p.LinkedDocIDs == nil {
		p.LinkedDocIDs = []string{}
	}
}

func fillGoalIDs(goals models.GoalList) models.GoalList {
	for i := range goals {
		if goals[i].ID == "" {
			goals[i].ID = uuid.NewString()
		}
	}
	return goals
}

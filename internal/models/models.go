package models

// Seniority is the ordered career ladder used across the team.
type Seniority string

const (
	SeniorityIntern     Seniority = "Intern"
	SeniorityAssistant  Seniority = "Assistant"
	SeniorityAnalyst    Seniority = "Analyst"
	SenioritySpecialist Seniority = "Specialist"
)

// Rank returns the position of s on the ladder, lowest first. Unknown
// values rank below Intern.
func (s Seniority) Rank() int {
	switch s {
	case SeniorityIntern:
		return 1
	case SeniorityAssistant:
		return 2
	case SeniorityAnalyst:
		return 3
	case SenioritySpecialist:
		return 4
	default:
		return 0
	}
}

type PDIItem struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
	Category    string `json:"category,omitempty"`
}

type TeamMember struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Role                string    `json:"role"`
	Seniority           Seniority `json:"seniority"`
	JobDescription      string    `json:"jobDescription"`
	Responsibilities    []string  `json:"responsibilities"`
	Demands             []string  `json:"demands"`
	Strengths           []string  `json:"strengths"`
	Weaknesses          []string  `json:"weaknesses"`
	Notes               string    `json:"notes"`
	PDI                 PDIList   `json:"pdi"`
	StudyPlan           []string  `json:"studyPlan"`
	TrelloMemberID      string    `json:"trelloMemberId,omitempty"`
	AlignedTaskCount    int       `json:"alignedTaskCount"`
	MisalignedTaskCount int       `json:"misalignedTaskCount"`
}

type TaskStatus string

const (
	TaskBacklog TaskStatus = "backlog"
	TaskTodo    TaskStatus = "todo"
	TaskDone    TaskStatus = "done"
)

type ProjectTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	AssigneeIDs []string   `json:"assigneeIds"`
	DueDate     int64      `json:"dueDate,omitempty"`
	Status      TaskStatus `json:"status"`
}

type ProjectGoal struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
	DueDate     int64  `json:"dueDate,omitempty"`
}

type ProjectBlocker struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	IsResolved bool   `json:"isResolved"`
}

type ProjectRisk struct {
	OverallScore   int    `json:"overallScore"`
	DeadlineRisk   int    `json:"deadlineRisk"`
	ComplexityRisk int    `json:"complexityRisk"`
	HeadcountRisk  int    `json:"headcountRisk"`
	CompetencyRisk int    `json:"competencyRisk"`
	Analysis       string `json:"analysis"`
	LastUpdated    int64  `json:"lastUpdated"`
}

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectPaused     ProjectStatus = "Paused"
	ProjectCompleted  ProjectStatus = "Completed"
)

type Project struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Difficulties string           `json:"difficulties"`
	Blockers     []ProjectBlocker `json:"blockers"`
	Status       ProjectStatus    `json:"status"`
	Goals        GoalList         `json:"goals"`
	Objectives   GoalList         `json:"objectives"`
	Tasks        []ProjectTask    `json:"tasks"`

	// Legacy string lists from snapshots written before structured tasks
	// existed. Consumed by the store's migration and cleared afterwards.
	LegacyTodo []string `json:"todo,omitempty"`
	LegacyDone []string `json:"done,omitempty"`

	TechStack           []string     `json:"techStack"`
	AssignedTeamMembers []string     `json:"assignedTeamMembers"`
	LinkedDocIDs        []string     `json:"linkedDocIds"`
	RiskAssessment      *ProjectRisk `json:"riskAssessment,omitempty"`
}

type DocType string

const (
	DocInternal DocType = "Internal"
	DocExternal DocType = "External"
)

type KnowledgeDoc struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Type      DocType `json:"type"`
	Category  string  `json:"category"`
	Content   string  `json:"content"`
	Analysis  string  `json:"analysis,omitempty"`
	UpdatedAt int64   `json:"updatedAt"`
}

type TrelloConfig struct {
	APIKey  string `json:"apiKey"`
	Token   string `json:"token"`
	BoardID string `json:"boardId"`
}

type TrelloCard struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc"`
	IDList    string   `json:"idList"`
	ListName  string   `json:"listName,omitempty"`
	URL       string   `json:"url"`
	IDMembers []string `json:"idMembers"`
}

type TrelloList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TrelloMember struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

type AIProvider string

const (
	ProviderGemini AIProvider = "gemini"
	ProviderGPT    AIProvider = "gpt"
)

type AIConfig struct {
	Provider    AIProvider `json:"provider"`
	OpenAIKey   string     `json:"openAIKey,omitempty"`
	GPTModel    string     `json:"gptModel"`
	GeminiModel string     `json:"geminiModel"`
	Temperature float64    `json:"temperature"`
}

// AlignmentStats is the per-member outcome of one reconciliation sync.
// Counters are overwritten on every sync, never incremented.
type AlignmentStats struct {
	Aligned    int `json:"aligned"`
	Misaligned int `json:"misaligned"`
}

// GlobalState is the single persisted snapshot.
type GlobalState struct {
	Team          []TeamMember   `json:"team"`
	Projects      []Project      `json:"projects"`
	KnowledgeBase []KnowledgeDoc `json:"knowledgeBase"`
	TrelloConfig  *TrelloConfig  `json:"trelloConfig,omitempty"`
	AIConfig      AIConfig       `json:"aiConfig"`
}

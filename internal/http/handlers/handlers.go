package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/nexus-manager/backend/internal/models"
	"github.com/nexus-manager/backend/internal/service"
	"github.com/nexus-manager/backend/internal/store"
	"github.com/nexus-manager/backend/internal/trello"
)

type Handler struct {
	Store     *store.Store
	Trello    *trello.Client
	Auditor   *service.Auditor
	Advisor   *service.Advisor
	Validator *validator.Validate
	Logger    zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Full snapshot
// @Tags state
// @Produce json
// @Success 200 {object} models.GlobalState
// @Router /api/state [get]
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.State())
}

// --- Team ---

func (h *Handler) CreateTeamMember(c *gin.Context) {
	var m models.TeamMember
	if err := c.ShouldBindJSON(&m); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid team member payload", err.Error())
		return
	}
	if m.Name == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
		return
	}
	created, err := h.Store.AddTeamMember(m)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateTeamMember(c *gin.Context) {
	var m models.TeamMember
	if err := c.ShouldBindJSON(&m); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid team member payload", err.Error())
		return
	}
	m.ID = c.Param("id")
	if err := h.Store.UpdateTeamMember(m); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteTeamMember(c *gin.Context) {
	if err := h.Store.DeleteTeamMember(c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --- Projects ---

func (h *Handler) CreateProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid project payload", err.Error())
		return
	}
	if p.Name == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
		return
	}
	created, err := h.Store.AddProject(p)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid project payload", err.Error())
		return
	}
	p.ID = c.Param("id")
	if err := h.Store.UpdateProject(p); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.Store.DeleteProject(c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --- Knowledge base ---

func (h *Handler) CreateDoc(c *gin.Context) {
	var d models.KnowledgeDoc
	if err := c.ShouldBindJSON(&d); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid doc payload", err.Error())
		return
	}
	if d.Title == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Title is required", nil)
		return
	}
	created, err := h.Store.AddDoc(d)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateDoc(c *gin.Context) {
	var d models.KnowledgeDoc
	if err := c.ShouldBindJSON(&d); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid doc payload", err.Error())
		return
	}
	d.ID = c.Param("id")
	if err := h.Store.UpdateDoc(d); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoc(c *gin.Context) {
	if err := h.Store.DeleteDoc(c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --- Settings ---

type trelloConfigRequest struct {
	APIKey  string `json:"apiKey" validate:"required"`
	Token   string `json:"token" validate:"required"`
	BoardID string `json:"boardId" validate:"required"`
}

func (h *Handler) UpdateTrelloConfig(c *gin.Context) {
	var req trelloConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid Trello settings payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "apiKey, token and boardId are required", err.Error())
		return
	}
	cfg := models.TrelloConfig{APIKey: req.APIKey, Token: req.Token, BoardID: req.BoardID}
	if err := h.Store.SetTrelloConfig(cfg); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) VerifyTrelloConfig(c *gin.Context) {
	state := h.Store.State()
	if state.TrelloConfig == nil {
		writeError(c, http.StatusBadRequest, "TRELLO_NOT_CONFIGURED", "Trello is not configured", nil)
		return
	}
	if err := h.Trello.VerifyConnection(c.Request.Context(), *state.TrelloConfig); err != nil {
		writeTrelloError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected"})
}

type aiConfigRequest struct {
	Provider    models.AIProvider `json:"provider" validate:"required,oneof=gemini gpt"`
	OpenAIKey   string            `json:"openAIKey"`
	GPTModel    string            `json:"gptModel"`
	GeminiModel string            `json:"geminiModel"`
	Temperature float64           `json:"temperature" validate:"gte=0,lte=1"`
}

func (h *Handler) UpdateAIConfig(c *gin.Context) {
	var req aiConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid AI settings payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "provider must be gemini or gpt, temperature within 0..1", err.Error())
		return
	}
	cfg := models.AIConfig{
		Provider:    req.Provider,
		OpenAIKey:   req.OpenAIKey,
		GPTModel:    req.GPTModel,
		GeminiModel: req.GeminiModel,
		Temperature: req.Temperature,
	}
	if err := h.Store.SetAIConfig(cfg); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- Error envelope ---

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Record not found", nil)
		return
	}
	writeError(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to persist snapshot", err.Error())
}

func writeTrelloError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trello.ErrMissingConfig):
		writeError(c, http.StatusBadRequest, "TRELLO_NOT_CONFIGURED", "Trello credentials are incomplete", nil)
	case errors.Is(err, trello.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, "TRELLO_UNAUTHORIZED", "Check your Trello API key and token", err.Error())
	case errors.Is(err, trello.ErrBoardNotFound):
		writeError(c, http.StatusNotFound, "TRELLO_BOARD_NOT_FOUND", "Check your Trello board id", err.Error())
	default:
		writeError(c, http.StatusBadGateway, "TRELLO_ERROR", "Trello request failed", err.Error())
	}
}

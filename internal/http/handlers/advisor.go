package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexus-manager/backend/internal/ai"
	"github.com/nexus-manager/backend/internal/store"
)

type chatRequest struct {
	Message string       `json:"message" validate:"required"`
	History []ai.Message `json:"history"`
}

func (h *Handler) ConsultantChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid chat payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "message is required", err.Error())
		return
	}
	answer, err := h.Advisor.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": answer})
}

type quickAnalysisRequest struct {
	Question string `json:"question" validate:"required"`
}

func (h *Handler) QuickAnalysis(c *gin.Context) {
	var req quickAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid analysis payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "question is required", err.Error())
		return
	}
	answer, err := h.Advisor.QuickAnalysis(c.Request.Context(), req.Question)
	if err != nil {
		writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": answer})
}

func (h *Handler) GeneratePDI(c *gin.Context) {
	items, err := h.Advisor.GeneratePDI(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStoreError(c, err)
			return
		}
		writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) AssessProjectRisk(c *gin.Context) {
	risk, err := h.Advisor.AssessProjectRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStoreError(c, err)
			return
		}
		writeAIError(c, err)
		return
	}
	if risk == nil {
		writeError(c, http.StatusBadGateway, "AI_ERROR", "Risk assessment unavailable", nil)
		return
	}
	c.JSON(http.StatusOK, risk)
}

func (h *Handler) AnalyzeDoc(c *gin.Context) {
	analysis, err := h.Advisor.AnalyzeDoc(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeStoreError(c, err)
			return
		}
		writeAIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func writeAIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ai.ErrMissingOpenAIKey), errors.Is(err, ai.ErrMissingGeminiKey):
		writeError(c, http.StatusBadRequest, "AI_NOT_CONFIGURED", "AI provider is not configured", err.Error())
	default:
		writeError(c, http.StatusBadGateway, "AI_ERROR", "AI request failed", err.Error())
	}
}

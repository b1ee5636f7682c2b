package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexus-manager/backend/internal/service"
)

// StartAudit opens a reconciliation session: fetch board data, resolve
// cards to team members, return the partition. Replaces any previous
// session.
//
// @Summary Start reconciliation session
// @Tags audit
// @Produce json
// @Success 200 {object} service.SessionView
// @Router /api/audit [post]
func (h *Handler) StartAudit(c *gin.Context) {
	view, err := h.Auditor.Start(c.Request.Context())
	if err != nil {
		writeAuditError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AnalyzeMember runs the alignment classifier for one member of the
// active session.
func (h *Handler) AnalyzeMember(c *gin.Context) {
	result, err := h.Auditor.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAuditError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SyncAudit folds the session's demands and alignment counters into the
// persisted snapshot and closes the session.
func (h *Handler) SyncAudit(c *gin.Context) {
	view, err := h.Auditor.Sync()
	if err != nil {
		writeAuditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "synced", "session": view})
}

// DiscardAudit drops the active session without persisting anything.
func (h *Handler) DiscardAudit(c *gin.Context) {
	h.Auditor.Discard()
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}

func writeAuditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrelloNotConfigured):
		writeError(c, http.StatusBadRequest, "TRELLO_NOT_CONFIGURED", "Configure Trello before starting an audit", nil)
	case errors.Is(err, service.ErrNoSession):
		writeError(c, http.StatusConflict, "NO_SESSION", "No active reconciliation session", nil)
	case errors.Is(err, service.ErrUnknownMember):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Team member not part of this session", nil)
	default:
		writeTrelloError(c, err)
	}
}

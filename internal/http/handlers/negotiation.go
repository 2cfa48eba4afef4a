package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/redlinehq/redline-backend/internal/http/response"
	negotiation "github.com/redlinehq/redline-backend/internal/modules/negotiation"
)

type NegotiationHandler struct {
	uc negotiation.Usecases
}

func NewNegotiationHandler(uc negotiation.Usecases) *NegotiationHandler {
	return &NegotiationHandler{uc: uc}
}

// GET /api/rounds/:id/changes?status=pending&risk_level=high&limit=200
func (h *NegotiationHandler) ListChanges(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_round_id", err)
		return
	}
	limit := 200
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	changes, err := h.uc.ListChanges(c.Request.Context(), negotiation.ListChangesInput{
		RoundID:   roundID,
		Status:    strings.TrimSpace(c.Query("status")),
		RiskLevel: strings.TrimSpace(c.Query("risk_level")),
		Limit:     limit,
	})
	if err != nil {
		response.RespondDomainError(c, "list_changes_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"changes": changes})
}

// POST /api/changes/:id/analyze
func (h *NegotiationHandler) AnalyzeChange(c *gin.Context) {
	changeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_change_id", err)
		return
	}
	out, err := h.uc.AnalyzeChange(c.Request.Context(), negotiation.AnalyzeInput{ChangeID: changeID})
	if err != nil {
		response.RespondDomainError(c, "analyze_failed", err)
		return
	}
	response.RespondOK(c, out)
}

type batchAnalyzeReq struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
	RoundID   uuid.UUID `json:"round_id" binding:"required"`
}

// POST /api/rounds/analyze
func (h *NegotiationHandler) BatchAnalyze(c *gin.Context) {
	var req batchAnalyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.uc.BatchAnalyze(c.Request.Context(), negotiation.BatchAnalyzeInput{
		SessionID: req.SessionID,
		RoundID:   req.RoundID,
	})
	if err != nil {
		response.RespondDomainError(c, "batch_analyze_failed", err)
		return
	}
	response.RespondOK(c, out)
}

type counterproposalReq struct {
	Mode      string    `json:"mode" binding:"required"`
	CreatedBy uuid.UUID `json:"created_by" binding:"required"`
}

// POST /api/changes/:id/counterproposals
func (h *NegotiationHandler) GenerateCounterproposal(c *gin.Context) {
	changeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_change_id", err)
		return
	}
	var req counterproposalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.uc.GenerateCounterproposal(c.Request.Context(), negotiation.GenerateCounterproposalInput{
		ChangeID:  changeID,
		Mode:      req.Mode,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		response.RespondDomainError(c, "counterproposal_failed", err)
		return
	}
	response.RespondCreated(c, out)
}

// GET /api/changes/:id/counterproposals
func (h *NegotiationHandler) ListCounterproposals(c *gin.Context) {
	changeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_change_id", err)
		return
	}
	rows, err := h.uc.ListCounterproposals(c.Request.Context(), changeID)
	if err != nil {
		response.RespondDomainError(c, "list_counterproposals_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"counterproposals": rows})
}

type acceptCounterproposalReq struct {
	AcceptedBy uuid.UUID `json:"accepted_by" binding:"required"`
}

// POST /api/counterproposals/:id/accept
func (h *NegotiationHandler) AcceptCounterproposal(c *gin.Context) {
	cpID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_counterproposal_id", err)
		return
	}
	var req acceptCounterproposalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	cp, err := h.uc.AcceptCounterproposal(c.Request.Context(), negotiation.AcceptCounterproposalInput{
		CounterproposalID: cpID,
		AcceptedBy:        req.AcceptedBy,
	})
	if err != nil {
		response.RespondDomainError(c, "accept_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"counterproposal": cp})
}

type resolveChangeReq struct {
	Status     string    `json:"status" binding:"required"`
	ResolvedBy uuid.UUID `json:"resolved_by" binding:"required"`
}

// POST /api/changes/:id/resolve
func (h *NegotiationHandler) ResolveChange(c *gin.Context) {
	changeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_change_id", err)
		return
	}
	var req resolveChangeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	change, err := h.uc.ResolveChange(c.Request.Context(), negotiation.ResolveChangeInput{
		ChangeID:   changeID,
		Status:     req.Status,
		ResolvedBy: req.ResolvedBy,
	})
	if err != nil {
		response.RespondDomainError(c, "resolve_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"change": change})
}

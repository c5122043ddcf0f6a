package handler

import (
	"strconv"
	"time"

	"carbon-offset-registry/internal/adapter/http/dto"
	"carbon-offset-registry/internal/adapter/http/middleware"
	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/pkg/apperror"
	"carbon-offset-registry/pkg/response"

	"github.com/gin-gonic/gin"
)

// PoolHandler handles investment round endpoints.
type PoolHandler struct {
	poolSvc ports.PoolService
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(poolSvc ports.PoolService) *PoolHandler {
	return &PoolHandler{poolSvc: poolSvc}
}

// roundID parses the :id path parameter.
func roundID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apperror.Validation("invalid round id"))
		return 0, false
	}
	return id, true
}

// CreateRound handles POST /api/v1/rounds.
func (h *PoolHandler) CreateRound(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	var req dto.CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	round, err := h.poolSvc.CreateRound(c.Request.Context(), ports.CreateRoundRequest{
		Caller:       caller,
		LeadName:     req.LeadName,
		LeadAddress:  req.LeadAddress,
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toRoundResponse(round))
}

// AddParticipant handles POST /api/v1/rounds/:id/participants.
func (h *PoolHandler) AddParticipant(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	id, ok := roundID(c)
	if !ok {
		return
	}

	var req dto.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	err := h.poolSvc.AddParticipant(c.Request.Context(), ports.AddParticipantRequest{
		Caller:  caller,
		RoundID: id,
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"round_id": id, "address": req.Address})
}

// Invest handles POST /api/v1/rounds/:id/investments.
func (h *PoolHandler) Invest(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	id, ok := roundID(c)
	if !ok {
		return
	}

	var req dto.InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	investor := req.Investor
	if investor == "" {
		investor = caller
	}

	round, err := h.poolSvc.Invest(c.Request.Context(), ports.InvestRequest{
		Caller:   caller,
		RoundID:  id,
		Investor: investor,
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toRoundResponse(round))
}

// ForceComplete handles POST /api/v1/rounds/:id/complete.
func (h *PoolHandler) ForceComplete(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	id, ok := roundID(c)
	if !ok {
		return
	}

	if err := h.poolSvc.ForceComplete(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"round_id": id, "status": string(domain.RoundStatusCompleted)})
}

// Verify handles POST /api/v1/rounds/:id/verify.
func (h *PoolHandler) Verify(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	id, ok := roundID(c)
	if !ok {
		return
	}

	if err := h.poolSvc.Verify(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"round_id": id, "status": string(domain.RoundStatusVerified)})
}

// IssueCredits handles POST /api/v1/rounds/:id/credits.
func (h *PoolHandler) IssueCredits(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	id, ok := roundID(c)
	if !ok {
		return
	}

	var req dto.IssueCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	err := h.poolSvc.IssueCredits(c.Request.Context(), ports.IssueCreditsRequest{
		Caller:       caller,
		RoundID:      id,
		CreditAmount: req.CreditAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"round_id":      id,
		"credit_amount": req.CreditAmount,
		"status":        string(domain.RoundStatusCreditsIssued),
	})
}

// ClaimShare handles POST /api/v1/rounds/:id/claims.
func (h *PoolHandler) ClaimShare(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	id, ok := roundID(c)
	if !ok {
		return
	}

	var req dto.ClaimShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	participant := req.Participant
	if participant == "" {
		participant = caller
	}

	share, err := h.poolSvc.ClaimShare(c.Request.Context(), id, participant)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ClaimShareResponse{
		RoundID:     id,
		Participant: participant,
		Share:       share,
	})
}

// GetRound handles GET /api/v1/rounds/:id.
func (h *PoolHandler) GetRound(c *gin.Context) {
	id, ok := roundID(c)
	if !ok {
		return
	}

	round, err := h.poolSvc.GetDetails(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toRoundResponse(round))
}

func toRoundResponse(r *domain.InvestmentRound) dto.RoundResponse {
	participants := make([]dto.PartyResponse, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, dto.PartyResponse{Name: p.Name, Address: p.Address})
	}

	pledges := make([]dto.PledgeResponse, 0, len(r.Pledges))
	for _, p := range r.Pledges {
		pledges = append(pledges, dto.PledgeResponse{
			Investor:  p.Investor,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
	}

	return dto.RoundResponse{
		ID:           r.ID,
		Lead:         dto.PartyResponse{Name: r.Lead.Name, Address: r.Lead.Address},
		TargetAmount: r.TargetAmount,
		RaisedAmount: r.RaisedAmount,
		CreditAmount: r.CreditAmount,
		Status:       string(r.Status),
		Participants: participants,
		Pledges:      pledges,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}

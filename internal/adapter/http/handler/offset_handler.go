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

const defaultCertificateLimit = 50

// OffsetHandler handles credit circulation endpoints.
type OffsetHandler struct {
	offsetSvc ports.OffsetService
}

// NewOffsetHandler creates a new OffsetHandler.
func NewOffsetHandler(offsetSvc ports.OffsetService) *OffsetHandler {
	return &OffsetHandler{offsetSvc: offsetSvc}
}

// ProjectComplete handles POST /api/v1/offsets/completions.
func (h *OffsetHandler) ProjectComplete(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	var req dto.ProjectCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.offsetSvc.OnProjectComplete(c.Request.Context(), caller, req.Amount, req.ProjectName); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"project": req.ProjectName, "amount": req.Amount})
}

// Offset handles POST /api/v1/offsets/retirements.
func (h *OffsetHandler) Offset(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	var req dto.OffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	cert, err := h.offsetSvc.OffsetAgainstProject(c.Request.Context(), ports.OffsetRequest{
		Caller:      caller,
		Amount:      req.Amount,
		SourceParty: req.SourceParty,
		SinkParty:   req.SinkParty,
		FromProject: req.FromProject,
		ToProject:   req.ToProject,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toCertificateResponse(cert))
}

// ClaimTokens handles POST /api/v1/offsets/claims.
func (h *OffsetHandler) ClaimTokens(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	var req dto.ClaimTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	user := req.User
	if user == "" {
		user = caller
	}

	if err := h.offsetSvc.Claim(c.Request.Context(), caller, user, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user": user, "amount": req.Amount})
}

// SelfOffset handles POST /api/v1/offsets/self-retirements.
// The authenticated caller's own balance is retired; no impersonation.
func (h *OffsetHandler) SelfOffset(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	var req dto.SelfOffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	cert, err := h.offsetSvc.OffsetToProject(c.Request.Context(), ports.SelfOffsetRequest{
		SourceParty: caller,
		Amount:      req.Amount,
		ToProject:   req.ToProject,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toCertificateResponse(cert))
}

// GetCertificate handles GET /api/v1/certificates/:id.
func (h *OffsetHandler) GetCertificate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apperror.Validation("invalid certificate id"))
		return
	}

	cert, err := h.offsetSvc.GetCertificate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toCertificateResponse(cert))
}

// ListCertificates handles GET /api/v1/certificates.
func (h *OffsetHandler) ListCertificates(c *gin.Context) {
	limit := defaultCertificateLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			response.Error(c, apperror.Validation("invalid limit"))
			return
		}
		limit = parsed
	}

	certs, err := h.offsetSvc.ListCertificates(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.CertificateResponse, 0, len(certs))
	for i := range certs {
		items = append(items, toCertificateResponse(&certs[i]))
	}

	response.OK(c, dto.CertificateListResponse{Items: items, Count: len(items)})
}

func toCertificateResponse(cert *domain.Certificate) dto.CertificateResponse {
	return dto.CertificateResponse{
		ID:          cert.ID,
		Amount:      cert.Amount,
		SourceParty: cert.SourceParty,
		SinkParty:   cert.SinkParty,
		Beneficiary: cert.Beneficiary(),
		FromProject: cert.FromProject,
		ToProject:   cert.ToProject,
		IssuedAt:    cert.IssuedAt.Format(time.RFC3339),
	}
}

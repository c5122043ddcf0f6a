package handler

import (
	"carbon-offset-registry/internal/adapter/http/dto"
	"carbon-offset-registry/internal/adapter/http/middleware"
	"carbon-offset-registry/internal/core/domain"
	"carbon-offset-registry/internal/core/ports"
	"carbon-offset-registry/pkg/apperror"
	"carbon-offset-registry/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles capability administration endpoints.
type AdminHandler struct {
	capSvc ports.CapabilityService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(capSvc ports.CapabilityService) *AdminHandler {
	return &AdminHandler{capSvc: capSvc}
}

// GrantCapability handles POST /api/v1/admin/capabilities.
func (h *AdminHandler) GrantCapability(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	var req dto.GrantCapabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	err := h.capSvc.Grant(c.Request.Context(), caller, req.Address, domain.Operation(req.Operation))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"address": req.Address, "operation": req.Operation})
}

// RevokeCapability handles DELETE /api/v1/admin/capabilities.
func (h *AdminHandler) RevokeCapability(c *gin.Context) {
	caller := c.GetString(middleware.CtxPartyAddress)

	var req dto.GrantCapabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	err := h.capSvc.Revoke(c.Request.Context(), caller, req.Address, domain.Operation(req.Operation))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"address": req.Address, "operation": req.Operation})
}

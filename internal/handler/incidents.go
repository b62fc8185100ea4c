package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/interworky/error-tracker/internal/model"
	"github.com/interworky/error-tracker/internal/service"
)

type IncidentHandler struct {
	svc *service.IncidentService
}

func NewIncidentHandler(svc *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{svc: svc}
}

// ListIncidents godoc
// @Summary List incidents of an organization
// @Tags incidents
// @Produce json
// @Param organization_id query string true "Organization ID"
// @Param limit query int false "Max incidents (default 100, max 500)"
// @Success 200 {object} model.IncidentListEnvelope
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/incidents [get]
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.ListIncidents(c.Request.Context(), c.Query("organization_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.IncidentListEnvelope{Status: "success", Data: list})
}

// GetIncident godoc
// @Summary Get incident detail
// @Tags incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} model.IncidentEnvelope
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/incidents/{id} [get]
func (h *IncidentHandler) GetIncident(c *gin.Context) {
	inc, err := h.svc.GetIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.IncidentEnvelope{Status: "success", Data: inc})
}

// CompleteRemediation godoc
// @Summary Report remediation outcome
// @Description Called by the remediation backend once it has opened a PR, filed an issue or given up.
// @Tags incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param request body model.CompleteRemediationRequest true "Remediation outcome"
// @Success 200 {object} model.IncidentEnvelope
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/incidents/{id}/remediation [post]
func (h *IncidentHandler) CompleteRemediation(c *gin.Context) {
	var req model.CompleteRemediationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	inc, err := h.svc.CompleteRemediation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.IncidentEnvelope{Status: "success", Data: inc})
}

// Resolve godoc
// @Summary Resolve incident
// @Tags incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} model.IncidentEnvelope
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/incidents/{id}/resolve [post]
func (h *IncidentHandler) Resolve(c *gin.Context) {
	h.operatorAction(c, h.svc.Resolve)
}

// Ignore godoc
// @Summary Ignore incident
// @Tags incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} model.IncidentEnvelope
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/incidents/{id}/ignore [post]
func (h *IncidentHandler) Ignore(c *gin.Context) {
	h.operatorAction(c, h.svc.Ignore)
}

// MarkDuplicate godoc
// @Summary Mark incident as duplicate
// @Tags incidents
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} model.IncidentEnvelope
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/incidents/{id}/duplicate [post]
func (h *IncidentHandler) MarkDuplicate(c *gin.Context) {
	h.operatorAction(c, h.svc.MarkDuplicate)
}

func (h *IncidentHandler) operatorAction(c *gin.Context, action func(ctx context.Context, id string) (*model.Incident, error)) {
	inc, err := action(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.IncidentEnvelope{Status: "success", Data: inc})
}

// DeleteByFingerprint godoc
// @Summary Delete every incident sharing a fingerprint
// @Tags incidents
// @Produce json
// @Param org path string true "Organization ID"
// @Param fingerprint path string true "Fingerprint"
// @Success 200 {object} model.DeleteFingerprintResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/organizations/{org}/fingerprints/{fingerprint} [delete]
func (h *IncidentHandler) DeleteByFingerprint(c *gin.Context) {
	deleted, err := h.svc.DeleteByFingerprint(c.Request.Context(), c.Param("org"), c.Param("fingerprint"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.DeleteFingerprintResponse{Status: "success", Deleted: deleted})
}

// PutRemediationConfig godoc
// @Summary Set auto-fix configuration of an organization
// @Tags remediation
// @Accept json
// @Produce json
// @Param org path string true "Organization ID"
// @Param request body model.PutRemediationConfigRequest true "Remediation config"
// @Success 200 {object} model.RemediationConfig
// @Failure 400 {object} model.ErrorResponse
// @Router /api/v1/organizations/{org}/remediation-config [put]
func (h *IncidentHandler) PutRemediationConfig(c *gin.Context) {
	var req model.PutRemediationConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	cfg, err := h.svc.PutRemediationConfig(c.Request.Context(), c.Param("org"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GetRemediationConfig godoc
// @Summary Get auto-fix configuration of an organization
// @Tags remediation
// @Produce json
// @Param org path string true "Organization ID"
// @Success 200 {object} model.RemediationConfig
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/organizations/{org}/remediation-config [get]
func (h *IncidentHandler) GetRemediationConfig(c *gin.Context) {
	cfg, err := h.svc.GetRemediationConfig(c.Request.Context(), c.Param("org"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/interworky/error-tracker/internal/model"
	"github.com/interworky/error-tracker/internal/service"
)

type IngestHandler struct {
	svc *service.IngestService
}

func NewIngestHandler(svc *service.IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

// IngestError godoc
// @Summary Report a client error
// @Tags errors
// @Accept json
// @Produce json
// @Param request body model.ErrorReport true "Error report"
// @Success 201 {object} model.IngestResult "new incident"
// @Success 200 {object} model.IngestResult "duplicate of an open incident"
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/errors [post]
func (h *IngestHandler) IngestError(c *gin.Context) {
	var report model.ErrorReport
	if err := c.ShouldBindJSON(&report); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := h.svc.Ingest(c.Request.Context(), report)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if res.IsDuplicate {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// IngestBatch godoc
// @Summary Report a batch of client errors
// @Description Each report is processed independently; failures are listed per index.
// @Tags errors
// @Accept json
// @Produce json
// @Param request body model.BatchRequest true "Up to 50 error reports"
// @Success 200 {object} model.BatchResult
// @Failure 400 {object} model.ErrorResponse
// @Failure 413 {object} model.ErrorResponse
// @Router /api/v1/errors/batch [post]
func (h *IngestHandler) IngestBatch(c *gin.Context) {
	var req model.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := h.svc.IngestBatch(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satyamraj2990/slotify-engine/internal/dto"
	"github.com/satyamraj2990/slotify-engine/internal/models"
	"github.com/satyamraj2990/slotify-engine/internal/service"
	appErrors "github.com/satyamraj2990/slotify-engine/pkg/errors"
	"github.com/satyamraj2990/slotify-engine/pkg/response"
)

// TimetableHandler manages timetable generation endpoints.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate runs (or dispatches) timetable generation for a term.
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if resp.Status == models.TimetableRunPending {
		response.Accepted(c, resp)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// GetRun returns a stored generation run.
func (h *TimetableHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run)
}

// Export streams a stored run in the requested serialization format.
func (h *TimetableHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, filename, err := h.service.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

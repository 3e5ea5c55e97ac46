package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ucao-academy/web-academy-api/internal/models"
	"github.com/ucao-academy/web-academy-api/internal/service"
	"github.com/ucao-academy/web-academy-api/pkg/response"
)

// ExportHandler exposes roster export endpoints.
type ExportHandler struct {
	service *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Students godoc
// @Summary Export student roster
// @Description Download the active student roster as CSV or PDF. Institute admins only export their own institute.
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Param institute query string false "Restrict to institute"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /exports/students [get]
func (h *ExportHandler) Students(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))

	var institute *models.Institute
	if raw := c.Query("institute"); raw != "" {
		inst := models.Institute(raw)
		institute = &inst
	}

	result, err := h.service.StudentRoster(c.Request.Context(), format, institute, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(200, result.ContentType, result.Data)
}

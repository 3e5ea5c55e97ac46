package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ucao-academy/web-academy-api/internal/dto"
	"github.com/ucao-academy/web-academy-api/internal/models"
	"github.com/ucao-academy/web-academy-api/internal/service"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
	"github.com/ucao-academy/web-academy-api/pkg/response"
)

// ToolHandler exposes study tool endpoints.
type ToolHandler struct {
	service *service.ToolService
}

func NewToolHandler(svc *service.ToolService) *ToolHandler {
	return &ToolHandler{service: svc}
}

// List godoc
// @Summary List tools
// @Description List study tools ordered by position. Students only see published tools.
// @Tags Tools
// @Produce json
// @Param search query string false "Search by title"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /tools [get]
func (h *ToolHandler) List(c *gin.Context) {
	filter := models.ContentFilter{
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}

	tools, pagination, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tools, pagination)
}

// Get godoc
// @Summary Get tool
// @Tags Tools
// @Produce json
// @Param id path string true "Tool ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tools/{id} [get]
func (h *ToolHandler) Get(c *gin.Context) {
	tool, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tool, nil)
}

// Create godoc
// @Summary Create tool
// @Tags Tools
// @Accept json
// @Produce json
// @Param payload body dto.CreateToolRequest true "Tool payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tools [post]
func (h *ToolHandler) Create(c *gin.Context) {
	var req dto.CreateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tool payload"))
		return
	}

	tool, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, tool)
}

// Update godoc
// @Summary Update tool
// @Tags Tools
// @Accept json
// @Produce json
// @Param id path string true "Tool ID"
// @Param payload body dto.UpdateToolRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tools/{id} [put]
func (h *ToolHandler) Update(c *gin.Context) {
	var req dto.UpdateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tool payload"))
		return
	}

	tool, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tool, nil)
}

// Delete godoc
// @Summary Delete tool
// @Tags Tools
// @Produce json
// @Param id path string true "Tool ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tools/{id} [delete]
func (h *ToolHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

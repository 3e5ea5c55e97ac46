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

// GuideHandler exposes student guide endpoints.
type GuideHandler struct {
	service *service.GuideService
}

func NewGuideHandler(svc *service.GuideService) *GuideHandler {
	return &GuideHandler{service: svc}
}

// List godoc
// @Summary List guides
// @Description List guides ordered by position. Students only see published guides.
// @Tags Guides
// @Produce json
// @Param search query string false "Search by title"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /guides [get]
func (h *GuideHandler) List(c *gin.Context) {
	filter := models.ContentFilter{
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}

	guides, pagination, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, guides, pagination)
}

// Get godoc
// @Summary Get guide
// @Tags Guides
// @Produce json
// @Param id path string true "Guide ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /guides/{id} [get]
func (h *GuideHandler) Get(c *gin.Context) {
	guide, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, guide, nil)
}

// Create godoc
// @Summary Create guide
// @Description Create a guide. Only a title is required and new guides are published immediately.
// @Tags Guides
// @Accept json
// @Produce json
// @Param payload body dto.CreateGuideRequest true "Guide payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /guides [post]
func (h *GuideHandler) Create(c *gin.Context) {
	var req dto.CreateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guide payload"))
		return
	}

	guide, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, guide)
}

// Update godoc
// @Summary Update guide
// @Tags Guides
// @Accept json
// @Produce json
// @Param id path string true "Guide ID"
// @Param payload body dto.UpdateGuideRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /guides/{id} [put]
func (h *GuideHandler) Update(c *gin.Context) {
	var req dto.UpdateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid guide payload"))
		return
	}

	guide, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, guide, nil)
}

// Delete godoc
// @Summary Delete guide
// @Tags Guides
// @Produce json
// @Param id path string true "Guide ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /guides/{id} [delete]
func (h *GuideHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

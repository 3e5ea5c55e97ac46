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

// FiliereHandler exposes filiere (study track) endpoints.
type FiliereHandler struct {
	service *service.FiliereService
}

func NewFiliereHandler(svc *service.FiliereService) *FiliereHandler {
	return &FiliereHandler{service: svc}
}

// List godoc
// @Summary List filieres
// @Description List study tracks. Institute admins are scoped to their own institute.
// @Tags Filieres
// @Produce json
// @Param institute query string false "Filter by institute"
// @Param search query string false "Search by name"
// @Success 200 {object} response.Envelope
// @Router /filieres [get]
func (h *FiliereHandler) List(c *gin.Context) {
	var institute *models.Institute
	if raw := c.Query("institute"); raw != "" {
		inst := models.Institute(raw)
		institute = &inst
	}

	filieres, err := h.service.List(c.Request.Context(), institute, c.Query("search"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, filieres, nil)
}

// Get godoc
// @Summary Get filiere
// @Tags Filieres
// @Produce json
// @Param id path string true "Filiere ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /filieres/{id} [get]
func (h *FiliereHandler) Get(c *gin.Context) {
	filiere, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, filiere, nil)
}

// Create godoc
// @Summary Create filiere
// @Tags Filieres
// @Accept json
// @Produce json
// @Param payload body dto.CreateFiliereRequest true "Filiere payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /filieres [post]
func (h *FiliereHandler) Create(c *gin.Context) {
	var req dto.CreateFiliereRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filiere payload"))
		return
	}

	filiere, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, filiere)
}

// Update godoc
// @Summary Update filiere
// @Tags Filieres
// @Accept json
// @Produce json
// @Param id path string true "Filiere ID"
// @Param payload body dto.UpdateFiliereRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /filieres/{id} [put]
func (h *FiliereHandler) Update(c *gin.Context) {
	var req dto.UpdateFiliereRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filiere payload"))
		return
	}

	filiere, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, filiere, nil)
}

// Delete godoc
// @Summary Delete filiere
// @Tags Filieres
// @Produce json
// @Param id path string true "Filiere ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /filieres/{id} [delete]
func (h *FiliereHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

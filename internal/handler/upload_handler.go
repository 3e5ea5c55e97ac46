package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ucao-academy/web-academy-api/internal/service"
	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
	"github.com/ucao-academy/web-academy-api/pkg/response"
	"github.com/ucao-academy/web-academy-api/pkg/storage"
)

// UploadHandler accepts media uploads for course thumbnails and documents.
type UploadHandler struct {
	store           *storage.UploadStore
	settings        *service.SettingsService
	fallbackMaxSize int64
}

func NewUploadHandler(store *storage.UploadStore, settings *service.SettingsService, fallbackMaxSize int64) *UploadHandler {
	return &UploadHandler{store: store, settings: settings, fallbackMaxSize: fallbackMaxSize}
}

// Upload godoc
// @Summary Upload file
// @Description Store an uploaded file and return its public URL. The size limit follows the max_upload_size setting.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field is required"))
		return
	}

	maxSize := h.fallbackMaxSize
	if h.settings != nil {
		maxSize = h.settings.MaxUploadSize(c.Request.Context(), h.fallbackMaxSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read upload"))
		return
	}
	defer file.Close()

	url, err := h.store.Save(file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, maxSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"url": url})
}

package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
	"github.com/mithunreddyy/valuva-sub002/internal/middleware"
	"github.com/mithunreddyy/valuva-sub002/internal/storage"
)

type UploadController struct {
	storage storage.ImageStorage
}

func NewUploadController(storage storage.ImageStorage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // products (default) or categories
}

// PresignUpload signs a direct-to-bucket PUT for a catalog image
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := ctrl.storage.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType, req.Folder)
	switch {
	case errors.Is(err, storage.ErrUnsupportedContentType), errors.Is(err, storage.ErrUnknownFolder):
		log.Warn("Rejected upload request", map[string]interface{}{
			"content_type": req.ContentType,
			"folder":       req.Folder,
			"error":        err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	case err != nil:
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   req.Folder,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "failed to generate upload URL")
		return
	}

	log.Info("Presigned upload issued", map[string]interface{}{
		"key": upload.Key,
	})
	c.JSON(http.StatusOK, upload)
}

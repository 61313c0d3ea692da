package handlers

import (
	"errors"
	"net/http"

	"medibook/services/storage"
	"medibook/submission"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorageHandler relays single report uploads outside of a booking.
type StorageHandler struct {
	Relay storage.Relay
}

func NewStorageHandler(relay storage.Relay) *StorageHandler {
	return &StorageHandler{Relay: relay}
}

// UploadReportHandler encodes the "file" form part and stores it under
// "name", or under the file's own name when "name" is empty.
func (h *StorageHandler) UploadReportHandler(c *gin.Context) {
	logger := getLogger(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file not provided", err.Error())
		return
	}
	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	encoded, err := submission.EncodeFile(c.Request.Context(), submission.FormFile(fileHeader))
	if err != nil {
		logger.Error("Failed to read uploaded file", zap.String("name", name), zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "failed to read file", err.Error())
		return
	}

	url, err := h.Relay.Upload(c.Request.Context(), encoded, name)
	if err != nil {
		var uploadErr *storage.UploadError
		if errors.As(err, &uploadErr) {
			utils.JSONError(c, http.StatusBadGateway, "failed to upload file", uploadErr.Err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to upload file", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "name": name})
}

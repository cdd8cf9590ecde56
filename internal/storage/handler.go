package storage

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invitation-canvas-editor/internal/errors"
)

type Handler struct {
	storage *FileStorage
}

func NewHandler(storage *FileStorage) *Handler {
	return &Handler{storage: storage}
}

// Upload stores the multipart "file" field and answers {url, key}.
func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	file, err := header.Open()
	if err != nil {
		c.Error(errors.BadRequest("Can't read file", err))
		return
	}
	defer file.Close()

	obj, err := h.storage.Save(c.Request.Context(), c.GetUint64("user_id"), file)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, obj)
}

// Mount serves stored files under MediaPrefix.
func (h *Handler) Mount(router gin.IRoutes) {
	router.Static(MediaPrefix, h.storage.Root())
}

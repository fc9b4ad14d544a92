package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/service"
)

type UploadHandler struct {
	uploads service.IUploadService
	auth    middleware.TokenValidator
}

func NewUploadHandler(uploads service.IUploadService, auth middleware.TokenValidator) *UploadHandler {
	return &UploadHandler{uploads: uploads, auth: auth}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload", middleware.AuthMiddleware(h.auth), h.Upload)
}

// Upload stores the multipart "file" field and returns its public URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	// Leave headroom for the multipart envelope around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxUploadSize+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, service.FieldError("file", "file size must not exceed 5MB"))
			return
		}
		respondError(c, service.FieldError("file", "no file was submitted"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	url, err := h.uploads.Upload(c.Request.Context(), principal(c), fh.Filename, fh.Size, f)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "upload successful", gin.H{"url": url})
}

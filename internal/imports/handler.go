package imports

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/extract"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/shared/util"
)

const maxImportBytes = 10 << 20

var allowedContentTypes = map[string]struct{}{
	extract.MimePDF:            {},
	extract.MimeDOCX:           {},
	"application/zip":          {},
	"application/octet-stream": {},
}

type importResponse struct {
	FileName string `json:"fileName"`
	Text     string `json:"text"`
}

// RegisterRoutes attaches the resume import route.
func RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/imports/resume", importResume)
}

// importResume extracts plain text from an uploaded PDF or DOCX so clients
// can prefill the bio field. Nothing is stored.
func importResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fh.Size <= 0 || fh.Size > maxImportBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds size limit", nil)
		return
	}
	name, err := util.SanitizeFileName(fh.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]))
	if _, ok := allowedContentTypes[contentType]; !ok && contentType != "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "contentType is not allowed", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable file", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImportBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable file", nil)
		return
	}

	text, err := extract.ExtractTextFromBytes(c.Request.Context(), data, contentType, name)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "only PDF and DOCX files are supported", nil)
			return
		}
		telemetry.Warn("imports.extract_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"user_id":    middleware.UserIDFromContext(c),
			"file_name":  name,
			"error":      err,
		})
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "could not read text from file", nil)
		return
	}

	respond.OK(c, importResponse{FileName: name, Text: text})
}

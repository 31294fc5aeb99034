package exports

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/templates"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/portfolios/:id/exports", h.create)
	rg.GET("/portfolios/:id/exports", h.list)
	rg.GET("/exports/:id/file", h.file)
}

type createRequest struct {
	Format Format `json:"format"`
}

func (h *Handler) create(c *gin.Context) {
	portfolioID := c.Param("id")
	c.Set(middleware.PortfolioIDKey, portfolioID)

	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
			return
		}
	}
	e, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), portfolioID, req.Format)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, e)
}

func (h *Handler) list(c *gin.Context) {
	portfolioID := c.Param("id")
	c.Set(middleware.PortfolioIDKey, portfolioID)
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), portfolioID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) file(c *gin.Context) {
	e, rc, err := h.Svc.Open(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()
	c.Set(middleware.PortfolioIDKey, e.PortfolioID)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="portfolio-`+e.PortfolioID+`.`+string(e.Format)+`"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("export.stream_failed", map[string]any{"export_id": e.ID, "error": err})
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "unsupported_format", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotReady):
		respond.Error(c, http.StatusConflict, "not_ready", "portfolio generation has not completed", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
	case errors.Is(err, templates.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
	case errors.Is(err, portfolios.ErrNotFound), errors.Is(err, portfolios.ErrForbidden):
		portfolios.WriteError(c, err)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "export request failed", nil)
	}
}

package portfolios

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches portfolio routes to the router group. Creation is
// registered by the generation package.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/portfolios", h.list)
	rg.GET("/portfolios/:id", h.get)
	rg.DELETE("/portfolios/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.PortfolioIDKey, id)
	p, err := h.Svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.PortfolioIDKey, id)
	if err := h.Svc.Delete(c.Request.Context(), userID, id); err != nil {
		WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// WriteError maps repository errors to the shared error envelope.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "portfolio not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "portfolio belongs to another user", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "portfolio request failed", nil)
	}
}

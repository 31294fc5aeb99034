package generation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// FunctionPath is where the generation function is served.
const FunctionPath = "/functions/generate-portfolio"

// Handler wires the pipeline and the function to HTTP.
type Handler struct {
	Pipeline *Pipeline
	Function *Function
}

func NewHandler(pipeline *Pipeline, function *Function) *Handler {
	return &Handler{Pipeline: pipeline, Function: function}
}

// RegisterRoutes attaches creation and function routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	if h.Pipeline != nil {
		rg.POST("/portfolios", h.create)
	}
	if h.Function != nil {
		rg.POST(FunctionPath, h.invoke)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	req.OwnerID = middleware.UserIDFromContext(c)

	outcome, err := h.Pipeline.RequestGeneration(c.Request.Context(), req)
	if outcome.PortfolioID != "" {
		c.Set(middleware.PortfolioIDKey, outcome.PortfolioID)
	}
	if outcome.Status != "" {
		c.Set(middleware.StatusTransitionKey, string(portfolios.StatusGenerating)+"->"+string(outcome.Status))
	}
	switch {
	case err == nil:
		respond.JSON(c, http.StatusCreated, outcome)
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrPersistence):
		respond.Error(c, http.StatusInternalServerError, "persistence_error", "could not save portfolio", nil)
	case errors.Is(err, ErrInvocation):
		respond.Error(c, http.StatusBadGateway, "generation_failed", "portfolio generation failed",
			gin.H{"portfolioId": outcome.PortfolioID, "success": false})
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "portfolio generation failed", nil)
	}
}

func (h *Handler) invoke(c *gin.Context) {
	var req InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, InvokeResult{Success: false, Error: "invalid JSON body"})
		return
	}
	c.Set(middleware.PortfolioIDKey, req.PortfolioID)

	result, err := h.Function.Run(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, InvokeResult{Success: false, Error: err.Error()})
		return
	}
	c.Set(middleware.StatusTransitionKey, string(portfolios.StatusGenerating)+"->"+string(portfolios.StatusCompleted))
	c.JSON(http.StatusOK, result)
}

package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/users"
)

// Handler exposes email/password account routes.
type Handler struct {
	Password *PasswordService
}

func NewHandler(password *PasswordService) *Handler {
	return &Handler{Password: password}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signUp)
	rg.POST("/auth/signin", h.signIn)
	rg.GET("/auth/verify", h.verify)
	rg.DELETE("/session", h.signOut)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, err := h.Password.SignUp(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{
		"id":               user.ID,
		"email":            user.Email,
		"fullName":         user.FullName,
		"verificationSent": true,
	})
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	session, err := h.Password.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, session)
}

func (h *Handler) verify(c *gin.Context) {
	if err := h.Password.Verify(c.Request.Context(), c.Query("token")); err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"verified": true})
}

func (h *Handler) signOut(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	if err := h.Password.SignOut(c.Request.Context(), claims); err != nil {
		telemetry.Error("auth.signout_failed", map[string]any{"user_id": claims.Subject, "error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign out", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, users.ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "email_taken", "email already registered", nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", nil)
	case errors.Is(err, ErrEmailNotVerified):
		respond.Error(c, http.StatusForbidden, "email_not_verified", "confirm your email before signing in", nil)
	case errors.Is(err, ErrInvalidToken):
		respond.Error(c, http.StatusBadRequest, "invalid_token", "verification link is invalid or expired", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "authentication failed", nil)
	}
}

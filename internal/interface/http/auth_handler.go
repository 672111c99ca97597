package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/apperrors"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/response"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Store   *application.Store
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, store *application.Store, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Store: store, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,min=2"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Register creates the account, seeds the aggregate, and logs the user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	a, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	// First write materializes the default aggregate, seeded with the name.
	if _, err := h.Store.UpdateProfile(c.Request.Context(), a.ID, application.ProfilePatch{Name: &req.Name}); err != nil {
		h.Logger.WithError(err).WithField("user_id", a.ID).Warn("initial profile write failed")
	}

	pair, err := h.Svc.IssueTokens(c.Request.Context(), a)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "token issue failed", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusCreated, gin.H{
		"user_id": a.ID,
		"email":   a.Email,
		"name":    a.Name,
	}, "registered", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Logout drops the session and cookies. An optional final patch in the body
// is flushed best-effort before the session goes away; a failed flush does
// not block the logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString("userID")

	var patch application.Patch
	if err := c.ShouldBindJSON(&patch); err == nil && !patch.IsZero() {
		if _, err := h.Store.Save(c.Request.Context(), uid, patch); err != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Warn("final flush on logout failed")
		}
	}

	h.Svc.Logout(c.Request.Context(), uid)
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

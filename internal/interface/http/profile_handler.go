package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/response"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/validation"
)

// ProfileHandler serves the profile and settings sub-objects plus the public
// profile registry (search and lookup).
type ProfileHandler struct {
	Store  *application.Store
	Search *application.SearchService
	Logger *logrus.Logger
}

func NewProfileHandler(store *application.Store, search *application.SearchService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Store: store, Search: search, Logger: logger}
}

// GetProfile GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	d, err := h.Store.Load(c.Request.Context(), uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d.Profile, "profile", nil)
}

// UpdateProfile PUT /api/profile — merges the sent fields into the profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString("userID")
	var patch application.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if patch.IsZero() {
		response.Error[any](c, http.StatusBadRequest, "empty patch", nil)
		return
	}

	d, err := h.Store.UpdateProfile(c.Request.Context(), uid, patch)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	h.Search.IndexProfile(c.Request.Context(), uid, d)
	response.Success(c, http.StatusOK, d.Profile, "profile updated", nil)
}

// UpdateSettings PUT /api/settings — merges the sent fields into the settings.
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	uid := c.GetString("userID")
	var patch application.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if patch.IsZero() {
		response.Error[any](c, http.StatusBadRequest, "empty patch", nil)
		return
	}

	d, err := h.Store.UpdateSettings(c.Request.Context(), uid, patch)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	h.Search.IndexProfile(c.Request.Context(), uid, d)
	response.Success(c, http.StatusOK, d.Settings, "settings updated", nil)
}

// SearchUsers GET /api/users/search?q=&size=
func (h *ProfileHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Search.Search(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, http.StatusServiceUnavailable, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// GetUserByID GET /api/users/:id — public profile lookup. Private profiles
// are only visible to themselves.
func (h *ProfileHandler) GetUserByID(c *gin.Context) {
	id := c.Param("id")
	uid := c.GetString("userID")

	echo, err := h.Search.ProfileByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	if !echo.IsPublic && id != uid {
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		return
	}
	response.Success(c, http.StatusOK, echo, "profile", nil)
}

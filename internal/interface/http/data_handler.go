package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/response"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/validation"
)

// DataHandler exposes the raw aggregate: full load, shallow patch, purge,
// and the analysis history view.
type DataHandler struct {
	Store  *application.Store
	Search *application.SearchService
	Auth   *application.AuthService
	Logger *logrus.Logger
}

func NewDataHandler(store *application.Store, search *application.SearchService, auth *application.AuthService, logger *logrus.Logger) *DataHandler {
	return &DataHandler{Store: store, Search: search, Auth: auth, Logger: logger}
}

// GetData GET /api/data
func (h *DataHandler) GetData(c *gin.Context) {
	uid := c.GetString("userID")
	d, err := h.Store.Load(c.Request.Context(), uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d, "user data", nil)
}

// PatchData PATCH /api/data — shallow top-level merge.
func (h *DataHandler) PatchData(c *gin.Context) {
	uid := c.GetString("userID")
	var patch application.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if patch.IsZero() {
		response.Error[any](c, http.StatusBadRequest, "empty patch", nil)
		return
	}

	d, err := h.Store.Save(c.Request.Context(), uid, patch)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	if patch.Profile != nil || patch.Settings != nil {
		h.Search.IndexProfile(c.Request.Context(), uid, d)
	}
	response.Success(c, http.StatusOK, d, "user data updated", nil)
}

// PurgeData DELETE /api/data — removes everything stored for the identity.
func (h *DataHandler) PurgeData(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Store.Purge(c.Request.Context(), uid); err != nil {
		writeStoreError(c, err)
		return
	}
	h.Search.RemoveProfile(c.Request.Context(), uid)
	response.Success[any](c, http.StatusOK, map[string]any{"purged": true}, "user data purged", nil)
}

// GetHistory GET /api/history
func (h *DataHandler) GetHistory(c *gin.Context) {
	uid := c.GetString("userID")
	d, err := h.Store.Load(c.Request.Context(), uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d.History, "resonance history", map[string]any{"count": len(d.History), "resonance_count": d.ResonanceCount})
}

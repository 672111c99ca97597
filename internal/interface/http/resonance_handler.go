package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/resonance"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/response"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/validation"
)

// ResonanceHandler runs one submission through the analysis provider, then
// records the result. The provider is called exactly once per submission:
// failures come back retryable to the user, with no state change.
type ResonanceHandler struct {
	Analyzer resonance.Analyzer
	Store    *application.Store
	Logger   *logrus.Logger
}

func NewResonanceHandler(analyzer resonance.Analyzer, store *application.Store, logger *logrus.Logger) *ResonanceHandler {
	return &ResonanceHandler{Analyzer: analyzer, Store: store, Logger: logger}
}

type resonanceRequest struct {
	Text string `json:"text" binding:"required,min=1,max=4000"`
}

// Process POST /api/resonance
func (h *ResonanceHandler) Process(c *gin.Context) {
	uid := c.GetString("userID")
	var req resonanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if h.Analyzer == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "analysis unavailable", nil)
		return
	}

	res, err := h.Analyzer.Process(c.Request.Context(), req.Text)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Warn("analysis call failed")
		response.Error[any](c, http.StatusBadGateway, "analysis failed, try again", gin.H{"retryable": true})
		return
	}

	item := entity.HistoryItem{
		ID:        uuid.NewString(),
		Original:  req.Text,
		Timestamp: time.Now().UnixMilli(),
		Response: entity.ResonanceResponse{
			SocialInfo:            res.SocialInfo,
			CollectiveObservation: res.CollectiveObservation,
			MovementNote:          res.MovementNote,
		},
		RelatedEchoes: []entity.EchoProfile{},
	}
	if _, err := h.Store.AppendHistory(c.Request.Context(), uid, item); err != nil {
		writeStoreError(c, err)
		return
	}

	count, err := h.Store.IncrementResonanceCount(c.Request.Context(), uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"response":        item.Response,
		"history_item":    item,
		"resonance_count": count,
	}, "resonance processed", nil)
}

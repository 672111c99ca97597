package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/response"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/validation"
)

// SocialHandler covers gallery posts, comments, follows, groups, dynasties
// and premium status.
type SocialHandler struct {
	Store  *application.Store
	Search *application.SearchService
	Logger *logrus.Logger
}

func NewSocialHandler(store *application.Store, search *application.SearchService, logger *logrus.Logger) *SocialHandler {
	return &SocialHandler{Store: store, Search: search, Logger: logger}
}

func (h *SocialHandler) author(c *gin.Context, uid string) (entity.EchoProfile, error) {
	d, err := h.Store.Load(c.Request.Context(), uid)
	if err != nil {
		return entity.EchoProfile{}, err
	}
	return d.Echo(uid), nil
}

type createPostRequest struct {
	Caption string             `json:"caption" binding:"max=2000"`
	Media   []entity.MediaFile `json:"media" binding:"required,min=1,dive"`
}

// CreatePost POST /api/gallery
func (h *SocialHandler) CreatePost(c *gin.Context) {
	uid := c.GetString("userID")
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	author, err := h.author(c, uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	post, err := h.Store.CreateGalleryPost(c.Request.Context(), uid, req.Caption, req.Media, author)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	var meta map[string]any
	if post.Dropped > 0 {
		meta = map[string]any{"dropped_media": post.Dropped}
	}
	response.Success(c, http.StatusCreated, post.Item, "post created", meta)
}

type commentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// AddComment POST /api/gallery/:id/comments
func (h *SocialHandler) AddComment(c *gin.Context) {
	uid := c.GetString("userID")
	postID := c.Param("id")
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	comment, err := h.Store.AddComment(c.Request.Context(), uid, postID, c.GetString("userName"), req.Text)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, comment, "comment added", nil)
}

type followRequest struct {
	ID string `json:"id" binding:"required"`
}

// Follow POST /api/follow
func (h *SocialHandler) Follow(c *gin.Context) {
	uid := c.GetString("userID")
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	profile, err := h.Search.ProfileByID(c.Request.Context(), req.ID)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	d, err := h.Store.Follow(c.Request.Context(), uid, *profile)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d.Following, "following", map[string]any{"count": len(d.Following)})
}

// Unfollow DELETE /api/follow/:id
func (h *SocialHandler) Unfollow(c *gin.Context) {
	uid := c.GetString("userID")
	d, err := h.Store.Unfollow(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d.Following, "unfollowed", map[string]any{"count": len(d.Following)})
}

type createGroupRequest struct {
	Name     string               `json:"name" binding:"required,min=1,max=100"`
	PhotoURL string               `json:"photoUrl"`
	Members  []entity.EchoProfile `json:"members" binding:"required,min=1"`
}

// CreateGroup POST /api/groups
func (h *SocialHandler) CreateGroup(c *gin.Context) {
	uid := c.GetString("userID")
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	group, err := h.Store.CreateGroup(c.Request.Context(), uid, req.Name, req.PhotoURL, req.Members)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, group, "group created", nil)
}

type messageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// PostGroupMessage POST /api/groups/:id/messages
func (h *SocialHandler) PostGroupMessage(c *gin.Context) {
	uid := c.GetString("userID")
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	msg, err := h.Store.PostGroupMessage(c.Request.Context(), uid, c.Param("id"), c.GetString("userName"), req.Text)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg, "message sent", nil)
}

// LeaveGroup DELETE /api/groups/:id
func (h *SocialHandler) LeaveGroup(c *gin.Context) {
	uid := c.GetString("userID")
	d, err := h.Store.LeaveGroup(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d.Groups, "left group", map[string]any{"count": len(d.Groups)})
}

type foundDynastyRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Purpose   string `json:"purpose" binding:"required,min=1,max=500"`
	PhotoURL  string `json:"photoUrl"`
	BannerURL string `json:"bannerUrl"`
	IsPublic  bool   `json:"isPublic"`
}

// FoundDynasty POST /api/dynasty
func (h *SocialHandler) FoundDynasty(c *gin.Context) {
	uid := c.GetString("userID")
	var req foundDynastyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	dynasty, err := h.Store.FoundDynasty(c.Request.Context(), uid, req.Name, req.Purpose, req.PhotoURL, req.BannerURL, req.IsPublic)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dynasty, "dynasty founded", nil)
}

type dynastyMessageRequest struct {
	Text string              `json:"text" binding:"required,max=2000"`
	Role *entity.DynastyRole `json:"role"`
}

// PostDynastyMessage POST /api/dynasty/messages
func (h *SocialHandler) PostDynastyMessage(c *gin.Context) {
	uid := c.GetString("userID")
	var req dynastyMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	msg, err := h.Store.PostDynastyMessage(c.Request.Context(), uid, c.GetString("userName"), req.Text, req.Role)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg, "message sent", nil)
}

// PostDynastyFeed POST /api/dynasty/feed
func (h *SocialHandler) PostDynastyFeed(c *gin.Context) {
	uid := c.GetString("userID")
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	author, err := h.author(c, uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	post, err := h.Store.CreateDynastyFeedPost(c.Request.Context(), uid, req.Caption, req.Media, author)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	var meta map[string]any
	if post.Dropped > 0 {
		meta = map[string]any{"dropped_media": post.Dropped}
	}
	response.Success(c, http.StatusCreated, post.Item, "post published to dynasty", meta)
}

type premiumRequest struct {
	PremiumSettings *entity.PremiumSettings `json:"premiumSettings"`
}

// UpgradePremium POST /api/premium
func (h *SocialHandler) UpgradePremium(c *gin.Context) {
	uid := c.GetString("userID")
	var req premiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	d, err := h.Store.UpgradePremium(c.Request.Context(), uid, req.PremiumSettings)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	h.Search.IndexProfile(c.Request.Context(), uid, d)
	response.Success(c, http.StatusOK, d.Profile, "premium activated", nil)
}

// CancelPremium DELETE /api/premium
func (h *SocialHandler) CancelPremium(c *gin.Context) {
	uid := c.GetString("userID")
	d, err := h.Store.CancelPremium(c.Request.Context(), uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	h.Search.IndexProfile(c.Request.Context(), uid, d)
	response.Success(c, http.StatusOK, d.Profile, "premium cancelled", nil)
}

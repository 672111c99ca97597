package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/container"
	handlers "github.com/starv8193-prog/ressonancia-social-v2/internal/interface/http"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/interface/middleware"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
)

// SocialModule wires gallery, follow, group, dynasty and premium routes.
type SocialModule struct {
	Handler *handlers.SocialHandler
	JWT     *helpers.JWTManager
}

func NewSocialModule(h *handlers.SocialHandler, jwt *helpers.JWTManager) *SocialModule {
	return &SocialModule{Handler: h, JWT: jwt}
}

func (m *SocialModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/gallery", m.Handler.CreatePost)
		auth.POST("/gallery/:id/comments", m.Handler.AddComment)
		auth.POST("/follow", m.Handler.Follow)
		auth.DELETE("/follow/:id", m.Handler.Unfollow)
		auth.POST("/groups", m.Handler.CreateGroup)
		auth.POST("/groups/:id/messages", m.Handler.PostGroupMessage)
		auth.DELETE("/groups/:id", m.Handler.LeaveGroup)
		auth.POST("/dynasty", m.Handler.FoundDynasty)
		auth.POST("/dynasty/messages", m.Handler.PostDynastyMessage)
		auth.POST("/dynasty/feed", m.Handler.PostDynastyFeed)
		auth.POST("/premium", m.Handler.UpgradePremium)
		auth.DELETE("/premium", m.Handler.CancelPremium)
	}
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/container"
	handlers "github.com/starv8193-prog/ressonancia-social-v2/internal/interface/http"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/interface/middleware"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
)

// ProfileModule wires profile, settings, media and registry routes.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Media   *handlers.MediaHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, media *handlers.MediaHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, Media: media, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/settings", m.Handler.UpdateSettings)
		auth.POST("/profile/avatar", m.Media.UploadAvatar)
		auth.POST("/profile/banner", m.Media.UploadBanner)
		auth.POST("/media", m.Media.UploadMedia)
		auth.GET("/users/search", m.Handler.SearchUsers)
		auth.GET("/users/:id", m.Handler.GetUserByID)
	}
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/container"
	handlers "github.com/starv8193-prog/ressonancia-social-v2/internal/interface/http"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/interface/middleware"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
)

// DataModule wires the raw aggregate routes: load, patch, purge, history.
type DataModule struct {
	Handler *handlers.DataHandler
	JWT     *helpers.JWTManager
}

func NewDataModule(h *handlers.DataHandler, jwt *helpers.JWTManager) *DataModule {
	return &DataModule{Handler: h, JWT: jwt}
}

func (m *DataModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/data", m.Handler.GetData)
		auth.PATCH("/data", m.Handler.PatchData)
		auth.DELETE("/data", m.Handler.PurgeData)
		auth.GET("/history", m.Handler.GetHistory)
	}
}

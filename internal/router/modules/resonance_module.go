package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/container"
	handlers "github.com/starv8193-prog/ressonancia-social-v2/internal/interface/http"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/interface/middleware"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
)

// ResonanceModule wires the analysis submission route. Tighter per-user rate
// limit than the rest of the API: every hit is one provider call.
type ResonanceModule struct {
	Handler *handlers.ResonanceHandler
	JWT     *helpers.JWTManager
}

func NewResonanceModule(h *handlers.ResonanceHandler, jwt *helpers.JWTManager) *ResonanceModule {
	return &ResonanceModule{Handler: h, JWT: jwt}
}

func (m *ResonanceModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/resonance", m.Handler.Process)
	}
}

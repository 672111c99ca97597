package router

import (
	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/container"
	pginfra "github.com/starv8193-prog/ressonancia-social-v2/internal/infrastructure/postgres"
	handlers "github.com/starv8193-prog/ressonancia-social-v2/internal/interface/http"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/router/modules"
)

// Deps holds the services and handlers shared by the feature modules.
type Deps struct {
	Store     *application.Store
	Auth      *application.AuthService
	Search    *application.SearchService
	AuthH     *handlers.AuthHandler
	ProfileH  *handlers.ProfileHandler
	DataH     *handlers.DataHandler
	SocialH   *handlers.SocialHandler
	MediaH    *handlers.MediaHandler
	ResonH    *handlers.ResonanceHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	backend := pginfra.NewDataBackend(container.GetPGPool())
	accounts := pginfra.NewAccountRepository(container.GetPGPool())

	store := application.NewStore(backend, container.GetRedis(), logger, cfg.MirrorTTL)
	search := application.NewSearchService(container.GetES(), cfg.ESProfilesIndex, store, logger)
	auth := application.NewAuthService(accounts, container.GetJWT(), container.GetRedis(), logger, container.GetRabbitPub())

	return Deps{
		Store:    store,
		Auth:     auth,
		Search:   search,
		AuthH:    handlers.NewAuthHandler(auth, store, logger, cfg.CookieDomain, cfg.CookieSecure),
		ProfileH: handlers.NewProfileHandler(store, search, logger),
		DataH:    handlers.NewDataHandler(store, search, auth, logger),
		SocialH:  handlers.NewSocialHandler(store, search, logger),
		MediaH:   handlers.NewMediaHandler(store, search, container.GetGCS(), cfg.GCSBucket, logger),
		ResonH:   handlers.NewResonanceHandler(container.GetAnalyzer(), store, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(deps.AuthH, jwt))
	r.Add(modules.NewProfileModule(deps.ProfileH, deps.MediaH, jwt))
	r.Add(modules.NewDataModule(deps.DataH, jwt))
	r.Add(modules.NewSocialModule(deps.SocialH, jwt))
	r.Add(modules.NewResonanceModule(deps.ResonH, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

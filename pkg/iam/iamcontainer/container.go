// Package iamcontainer wires the IAM dependency graph. Order matters:
// infra, then services, then handlers and middleware.
package iamcontainer

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/mensajero-app/mensajero/pkg/config"
	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/iam/auth/authapi"
	"github.com/mensajero-app/mensajero/pkg/iam/auth/authinfra"
	"github.com/mensajero-app/mensajero/pkg/iam/auth/authsrv"
	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/iam/user/userinfra"
	"github.com/mensajero-app/mensajero/pkg/logx"
)

// Deps are the external dependencies this bounded context requires.
// Redis may be nil when the token store backend is "memory".
type Deps struct {
	DB    *sqlx.DB
	Redis *redis.Client
	Cfg   *config.Config
}

// Container is the public surface of the IAM module.
type Container struct {
	UserRepository user.Repository
	AuthService    *authsrv.AuthService
	Guard          *auth.Guard
	AuthHandlers   *authapi.AuthHandlers

	cleanup *authinfra.CleanupService
}

func New(deps Deps) *Container {
	c := &Container{}

	c.UserRepository = userinfra.NewPostgresUserRepository(deps.DB)

	var store auth.TokenStore
	if deps.Cfg.Auth.TokenStore == "redis" && deps.Redis != nil {
		store = authinfra.NewRedisTokenStore(deps.Redis)
		logx.Info("token store: redis")
	} else {
		store = authinfra.NewMemoryTokenStore()
		logx.Warn("token store: in-memory (single instance only, lost on restart)")
	}

	if deps.Cfg.Auth.JWT.IsInsecure() {
		logx.Warn("JWT_SECRET is unset, using the insecure development default")
	}

	hasher := authinfra.NewBcryptHasher(deps.Cfg.Auth.Password.BcryptCost)
	codec := auth.NewJWTCodec(&deps.Cfg.Auth.JWT)

	c.AuthService = authsrv.NewAuthService(c.UserRepository, hasher, codec, store)
	c.Guard = auth.NewGuard(c.AuthService)
	c.AuthHandlers = authapi.NewAuthHandlers(c.AuthService, c.Guard, deps.Cfg)

	c.cleanup = authinfra.NewCleanupService(store, deps.Cfg.Auth.Session.CleanupInterval)

	return c
}

// StartBackgroundServices launches the token cleanup loop.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	go c.cleanup.Start(ctx)
	logx.Info("token cleanup service started")
}

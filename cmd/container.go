// Root composition root. Owns shared infrastructure (DB, Redis) and
// composes the bounded-context containers. This is the only place that
// knows about all modules.
package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/mensajero-app/mensajero/pkg/config"
	"github.com/mensajero-app/mensajero/pkg/iam/iamcontainer"
	"github.com/mensajero-app/mensajero/pkg/logx"
	"github.com/mensajero-app/mensajero/pkg/messaging/messagingcontainer"
)

// Container holds shared infrastructure and the composed module containers.
type Container struct {
	Config *config.Config

	DB    *sqlx.DB
	Redis *redis.Client

	IAM       *iamcontainer.Container
	Messaging *messagingcontainer.Container
}

func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("application container initialized")
	return c
}

func (c *Container) initInfrastructure() {
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("database connected")

	// Redis is only dialed when the token store needs it.
	if c.Config.Auth.TokenStore == "redis" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if err := c.Redis.Ping(context.Background()).Err(); err != nil {
			logx.Fatalf("failed to connect to Redis: %v", err)
		}
		logx.Info("redis connected")
	}
}

func (c *Container) initModules() {
	c.IAM = iamcontainer.New(iamcontainer.Deps{
		DB:    c.DB,
		Redis: c.Redis,
		Cfg:   c.Config,
	})
	c.Messaging = messagingcontainer.New(messagingcontainer.Deps{
		DB:  c.DB,
		Cfg: c.Config,
	})
}

func (c *Container) StartBackgroundServices(ctx context.Context) {
	c.IAM.StartBackgroundServices(ctx)
}

func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("error closing database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("error closing redis: %v", err)
		}
	}
}

package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/rryowa/todoapp/internal/api"
	"github.com/rryowa/todoapp/internal/controller"
	"github.com/rryowa/todoapp/internal/migrations"
	"github.com/rryowa/todoapp/internal/service"
	"github.com/rryowa/todoapp/internal/storage/postgres"
	"github.com/rryowa/todoapp/internal/storage/redis"
	"github.com/rryowa/todoapp/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger, "./internal/migrations"); err != nil {
		logger.Fatal(zap.Error(err))
	}

	redisClient, redisCleanup, err := util.NewRedisClient(logger, util.NewRedisConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	store := postgres.NewStorage(db)
	cleanupFuncs := []func(){dbCleanup, redisCleanup}

	tokenBlacklist := redis.NewTokenStorage(redisClient)
	tokenService := service.NewTokenService(util.NewTokenConfig(), store, store, tokenBlacklist)
	authService := service.NewAuthService(store, tokenService, logger)

	c := controller.NewController(logger, authService, tokenService, store)

	apiServer := api.NewAPI(c, tokenService, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}

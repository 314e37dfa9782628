package main

import (
	"context"
	"log"
	"net/http"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/score-admin/config"
	httphandler "github.com/kinkando/score-admin/http"
	"github.com/kinkando/score-admin/pkg/database/redis"
	"github.com/kinkando/score-admin/pkg/envconfig"
	"github.com/kinkando/score-admin/pkg/google"
	httpinterceptor "github.com/kinkando/score-admin/pkg/http/interceptor"
	httpmiddleware "github.com/kinkando/score-admin/pkg/http/middleware"
	httpserver "github.com/kinkando/score-admin/pkg/http/server"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/kinkando/score-admin/pkg/option"
	"github.com/kinkando/score-admin/repository"
	"github.com/kinkando/score-admin/service"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	var cfg config.Config
	if err := envconfig.Parse(&cfg); err != nil {
		log.Fatal(err)
	}
	logger.New(cfg.App.Environment)
	defer logger.Sync()

	var redisClient *goredis.Client
	if cfg.Session.Store == config.SessionStoreRedis {
		redisClient = redis.NewClient(
			redis.WithHost(cfg.Redis.Host),
			redis.WithPort(cfg.Redis.Port),
			redis.WithUsername(cfg.Redis.Username),
			redis.WithPassword(cfg.Redis.Password),
			redis.WithDB(cfg.Redis.DB),
		)
		defer redis.Shutdown(redisClient)
	}
	tokenStore := newTokenStore(cfg.Session, redisClient)

	var reportStorage google.Storage
	if cfg.Report.GoogleCredential != "" && cfg.Report.Storage.BucketName != "" {
		reportStorage = google.NewStorage([]byte(cfg.Report.GoogleCredential), cfg.Report.Storage.BucketName, cfg.Report.Storage.ExpiredTime)
		defer reportStorage.Shutdown()
	}

	rateLimiter := httpinterceptor.NewRateLimiterTransport(
		option.WithHTTPInterceptorRateLimiterRate(cfg.API.RateLimit),
	)

	// sign-in and reissue never go through the token interceptor
	authRepository := repository.NewAuthRepository(cfg.API.ServerURL, &http.Client{
		Transport: rateLimiter,
		Timeout:   cfg.API.Timeout,
	})
	scoreRepository := repository.NewScoreRepository(cfg.API.ServerURL, &http.Client{
		Transport: httpinterceptor.NewTokenTransport(tokenStore, authRepository,
			option.WithHTTPInterceptorTokenTransport(rateLimiter),
		),
		Timeout: cfg.API.Timeout,
	})

	validate := validator.New()

	authenService := service.NewAuthenService(authRepository, tokenStore)
	scoreService := service.NewScoreService(scoreRepository, service.NewReportLinker(cfg.Report.BaseURL, reportStorage), validate, cfg.API.PageSize)
	exportService := service.NewExportService()

	httpServer := httpserver.New(
		httpserver.WithPort(cfg.App.Port),
		httpserver.WithMiddlewares([]echo.MiddlewareFunc{httpmiddleware.RequestID}),
	)

	e := httpServer.Routers()
	httphandler.NewHealthzHandler(e, redisClient)
	httphandler.NewAuthenHandler(e, validate, cfg.App.APIKey, authenService)
	httphandler.NewScoreHandler(e, validate, scoreService, exportService,
		service.NewGpaBoard(scoreService),
		service.NewLanguageTestBoard(scoreService),
		httpmiddleware.ApiKey(cfg.App.APIKey),
		httpmiddleware.Session(func(ctx context.Context) bool {
			return authenService.Session(ctx).SignedIn
		}),
	)

	httpServer.ListenAndServe()
	httpServer.GracefulShutdown()
}

func newTokenStore(cfg config.SessionConfig, redisClient *goredis.Client) repository.TokenStore {
	switch cfg.Store {
	case config.SessionStoreRedis:
		return repository.NewRedisTokenStore(redisClient, cfg.Namespace)
	case config.SessionStoreMemory:
		return repository.NewMemoryTokenStore()
	case config.SessionStoreFile:
		return repository.NewFileTokenStore(cfg.FilePath)
	}
	logger.Fatalf("unknown session store %q", cfg.Store)
	return nil
}

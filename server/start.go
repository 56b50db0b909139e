package server

import (
	"net/http"
	"os"
	"strings"

	"todolist-service/auth"
	cachepackage "todolist-service/cache"
	"todolist-service/config"
	"todolist-service/database"
	"todolist-service/handlers"
	"todolist-service/services"
	"todolist-service/store"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// checkAuth accepts requests carrying "Bearer <token>"
func checkAuth(token string) func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		header := r.Header.Get("Authorization")
		bearer, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" || bearer != token {
			return false, httpserver.RequestAuth{}
		}
		return true, httpserver.RequestAuth{
			Type:   "bearer",
			Client: "todolist-client",
			Claims: map[string]interface{}{"service": "todolist-service"},
		}
	}
}

// authType guards the API with the bearer check only when a token is configured
func authType(token string) string {
	if token == "" {
		return "none"
	}
	return "bearer"
}

func StartServer(cfg config.Config) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting To-Do List Service...")

	dbConn, err := database.InitializeDatabase(cfg.Database)
	if err != nil {
		logger.Error("Failed to initialize database", zap.Error(err))
		os.Exit(1)
	}
	defer dbConn.Close()

	responseCache, err := cachepackage.InitializeCache(cachepackage.Config{
		Type:          cfg.Cache.Type,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		logger.Error("Failed to initialize cache", zap.Error(err))
		os.Exit(1)
	}
	defer responseCache.Close()

	userStore := store.NewUserStore(dbConn)
	taskStore := store.NewTaskStore(dbConn)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	userHandler := handlers.NewUserHandler(services.NewUserService(userStore, hasher), responseCache)
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(taskStore, userStore), responseCache)

	server := httpserver.New(cfg.Server.Port, checkAuth(cfg.Auth.Token))

	for _, route := range Routes(userHandler, taskHandler, authType(cfg.Auth.Token)) {
		server.Register(route.Route, httpserver.HandlerFunc(handlers.WithRequestID(route.Handler)))
	}

	logger.Info("To-Do List Service started", zap.String("port", cfg.Server.Port))
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: /users, /login, /task")

	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}

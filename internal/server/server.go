package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"schemabridge/internal/config"
	"schemabridge/internal/database"
	"schemabridge/internal/handlers"
	"schemabridge/internal/repositories"
	"schemabridge/internal/routes"
	"schemabridge/internal/services"
)

// Server bundles the HTTP server with the resources it owns so main can tear
// them down on shutdown.
type Server struct {
	HTTP        *http.Server
	Log         *logrus.Logger
	connService *services.ConnectionService
}

func New() (*Server, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.DBAdminUser != "" {
		if err := database.EnsureDatabaseExists(cfg, log); err != nil {
			return nil, err
		}
	}

	store, err := database.ConnectStore(cfg)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	}

	// Dependency injection
	connRepo := repositories.NewConnectionRepository(store)
	redisRepo := repositories.NewRedisRepository(rdb)
	schemaRepo := repositories.NewSchemaRepository()
	tableRepo := repositories.NewTableRepository()
	recordRepo := repositories.NewRecordRepository()

	connService := services.NewConnectionService(connRepo, redisRepo, log)
	schemaService := services.NewSchemaService(schemaRepo, tableRepo, redisRepo, log)
	relationService := services.NewRelationService(services.NewRelationValidator(), log)
	discoveryService := services.NewDiscoveryService(schemaRepo, redisRepo, log)
	recordService := services.NewRecordService(recordRepo)

	connectionHandler := handlers.NewConnectionHandler(connService)
	schemaHandler := handlers.NewSchemaHandler(schemaService, connService)
	relationHandler := handlers.NewRelationHandler(relationService, connService)
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService, connService)
	recordHandler := handlers.NewRecordHandler(recordService, connService)

	router := gin.Default()
	router.Use(cors.Default())
	routes.RegisterRoutes(router, connectionHandler, schemaHandler, relationHandler, discoveryHandler, recordHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return &Server{HTTP: httpServer, Log: log, connService: connService}, nil
}

// Shutdown stops the HTTP server and closes every open target session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)
	s.connService.CloseAll()
	return err
}

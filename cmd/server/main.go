// Package main runs the association management HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dernekos/backend/config"
	"github.com/dernekos/backend/internal/auth"
	"github.com/dernekos/backend/internal/boards"
	"github.com/dernekos/backend/internal/finance"
	"github.com/dernekos/backend/internal/groups"
	"github.com/dernekos/backend/internal/members"
	"github.com/dernekos/backend/internal/messaging"
	"github.com/dernekos/backend/internal/middleware"
	"github.com/dernekos/backend/internal/organizations"
	"github.com/dernekos/backend/internal/templates"
	"github.com/dernekos/backend/internal/worker"
	"github.com/dernekos/backend/pkg/database"
	"github.com/dernekos/backend/pkg/queue"
	"github.com/dernekos/backend/pkg/redis"
	"github.com/dernekos/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo)

	// Boards and terms
	boardRepo := boards.NewRepository(pool)
	boardHandler := boards.NewHandler(pool, boardRepo, logger)

	// Members
	memberRepo := members.NewRepository(pool)
	memberHandler := members.NewHandler(pool, memberRepo, boardRepo, logger)

	// Groups
	groupRepo := groups.NewRepository(pool)
	groupHandler := groups.NewHandler(groupRepo)

	// Finance
	financeRepo := finance.NewRepository(pool)
	financeHandler := finance.NewHandler(financeRepo, memberRepo, logger)

	// Document templates
	templateRepo := templates.NewRepository(pool)
	templateHandler := templates.NewHandler(templateRepo)

	// Campaigns
	messagingRepo := messaging.NewRepository(pool)
	messagingHandler := messaging.NewHandler(pool, messagingRepo, jobQueue, logger)
	campaignProcessor := worker.NewCampaignProcessor(messagingRepo, memberRepo,
		worker.NewEmailSender(cfg.Email), worker.NewSMSSender(cfg.SMS), jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (admin only)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Organizations (create, join, list mine)
		api.GET("/organizations", orgHandler.ListMyOrganizations)
		api.POST("/organizations", orgHandler.CreateOrganization)
		api.POST("/organizations/join", orgHandler.JoinOrganization)

		// Organization-scoped routes
		org := api.Group("/organizations/:id", organizations.RequireOrgAccess(orgRepo))
		{
			org.GET("/users", orgHandler.ListUsers)

			// Members
			org.GET("/members", memberHandler.List)
			org.POST("/members", memberHandler.Create)
			org.GET("/members/:memberId", memberHandler.Get)
			org.PATCH("/members/:memberId", memberHandler.Update)
			org.DELETE("/members/:memberId", memberHandler.Delete)

			// Boards and terms
			org.GET("/boards", boardHandler.ListBoards)
			org.POST("/boards/:type/terms", boardHandler.CreateTerm)

			// Groups
			org.GET("/groups", groupHandler.List)
			org.POST("/groups", groupHandler.Create)
			org.PATCH("/groups/:groupId", groupHandler.Update)
			org.DELETE("/groups/:groupId", groupHandler.Delete)
			org.POST("/groups/:groupId/members/:memberId", groupHandler.AddMember)
			org.DELETE("/groups/:groupId/members/:memberId", groupHandler.RemoveMember)
			org.GET("/members/:memberId/groups", groupHandler.ListForMember)

			// Dues and payments
			org.GET("/due-periods", financeHandler.ListDuePeriods)
			org.PUT("/due-periods", financeHandler.UpsertDuePeriod)
			org.GET("/members/:memberId/charges", financeHandler.ListCharges)
			org.POST("/members/:memberId/charges", financeHandler.CreateCharge)
			org.GET("/members/:memberId/balance", financeHandler.GetBalance)
			org.POST("/charges/:chargeId/payments", financeHandler.CreatePayment)

			// Document templates
			org.GET("/templates", templateHandler.List)
			org.POST("/templates", templateHandler.Create)
			org.GET("/templates/:templateId", templateHandler.Get)
			org.PUT("/templates/:templateId", templateHandler.Update)
			org.DELETE("/templates/:templateId", templateHandler.Delete)

			// Campaigns
			org.GET("/campaigns", messagingHandler.List)
			org.POST("/campaigns", messagingHandler.Create)
			org.GET("/campaigns/:campaignId", messagingHandler.Get)
		}

		// Term-scoped routes (access derived from the term's organization)
		term := api.Group("/terms/:id", boards.RequireTermOrgAccess(boardRepo, orgRepo))
		{
			term.GET("", boardHandler.GetTerm)
			term.PATCH("/activate", boardHandler.ActivateTerm)
			term.PUT("/members", boardHandler.ReplaceRoster)
			term.POST("/members", boardHandler.AddSeat)
			term.DELETE("/members/:memberId", boardHandler.RemoveSeat)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// In-process campaign worker; the standalone cmd/worker binary can run
	// instead when dispatch should be isolated from the API.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go campaignProcessor.Run(workerCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

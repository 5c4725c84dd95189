package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/bmc-class/bmc-api/api/swagger"
	"github.com/bmc-class/bmc-api/internal/handler"
	"github.com/bmc-class/bmc-api/internal/repository"
	"github.com/bmc-class/bmc-api/internal/rules"
	"github.com/bmc-class/bmc-api/internal/service"
	rediscache "github.com/bmc-class/bmc-api/pkg/cache"
	"github.com/bmc-class/bmc-api/pkg/config"
	"github.com/bmc-class/bmc-api/pkg/database"
	"github.com/bmc-class/bmc-api/pkg/logger"
	corsmiddleware "github.com/bmc-class/bmc-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bmc-class/bmc-api/pkg/middleware/requestid"
	"github.com/bmc-class/bmc-api/pkg/storage"
)

// @title BMC Class API
// @version 1.0.0
// @description Course management API for the blog monetisation class
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, ranking cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	table := rules.AwardTable{
		Attendance:      cfg.Points.Attendance,
		Mission:         cfg.Points.Mission,
		VODFeedback:     cfg.Points.VODFeedback,
		RevenueProof:    cfg.Points.RevenueProof,
		WeekMultipliers: cfg.Points.WeekMultipliers,
	}

	studentRepo := repository.NewStudentRepository(db)
	pointRepo := repository.NewPointRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	vodRepo := repository.NewVODRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	qnaRepo := repository.NewQnARepository(db)
	consultationRepo := repository.NewConsultationRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)

	cacheSvc := service.NewCacheService(redisClient, logr)
	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(studentRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "bmc-api",
	})
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	pointSvc := service.NewPointService(pointRepo, studentRepo, table, validate, logr)
	rankingSvc := service.NewRankingService(studentRepo, cacheSvc, logr, service.RankingServiceConfig{
		CacheEnabled: cfg.Rankings.CacheEnabled && redisClient != nil,
		CacheTTL:     cfg.Rankings.CacheTTL,
	})
	attendanceSvc := service.NewAttendanceService(attendanceRepo, pointSvc, rankingSvc, logr)
	missionSvc := service.NewMissionService(missionRepo, pointSvc, rankingSvc, table, validate, logr)
	vodSvc := service.NewVODService(vodRepo, pointSvc, rankingSvc, table, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, validate, logr)
	qnaSvc := service.NewQnAService(qnaRepo, validate, logr)
	consultationSvc := service.NewConsultationService(consultationRepo, validate, logr)
	revenueSvc := service.NewRevenueService(revenueRepo, pointSvc, rankingSvc, table, validate, logr)
	dashboardSvc := service.NewDashboardService(studentRepo, attendanceRepo, qnaRepo, vodRepo, revenueRepo, scheduleSvc, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		exportSvc = service.NewExportService(rankingSvc, pointRepo, exportStore, cfg.Exports.WorkerRetries, logr)
		exportSvc.StartSnapshots(ctx, cfg.Exports.SnapshotInterval)
		defer exportSvc.Stop()
	} else {
		exportSvc = service.NewExportService(rankingSvc, pointRepo, nil, cfg.Exports.WorkerRetries, logr)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Student:      handler.NewStudentHandler(studentSvc),
		Point:        handler.NewPointHandler(pointSvc),
		Ranking:      handler.NewRankingHandler(rankingSvc, metricsSvc),
		Attendance:   handler.NewAttendanceHandler(attendanceSvc, metricsSvc),
		Mission:      handler.NewMissionHandler(missionSvc),
		VOD:          handler.NewVODHandler(vodSvc),
		Schedule:     handler.NewScheduleHandler(scheduleSvc),
		Notice:       handler.NewNoticeHandler(noticeSvc),
		QnA:          handler.NewQnAHandler(qnaSvc),
		Consultation: handler.NewConsultationHandler(consultationSvc),
		Revenue:      handler.NewRevenueHandler(revenueSvc),
		Export:       handler.NewExportHandler(exportSvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
	}
	handler.RegisterRoutes(r, handlers, authSvc, metricsSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}

package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"hr-ops/internal/attendance"
	"hr-ops/internal/config"
	"hr-ops/internal/employee"
	"hr-ops/internal/leave"
	"hr-ops/internal/messaging/kafka"
	"hr-ops/internal/middleware"
	"hr-ops/internal/shared/apperror"
	"hr-ops/internal/shared/counter"
	"hr-ops/internal/shared/response"
	"hr-ops/internal/timelog"
	"hr-ops/internal/zoho"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	importOpts := []attendance.ImportOption{
		attendance.WithArchiver(attendance.NewFolderArchiver(cfg.Folders.Processed)),
		attendance.WithImportLock(attendance.NewRedisImportLock(rdb, cfg.Import.LockTTL, logger)),
		attendance.WithObserver(attendance.Observers(
			attendance.NewLogObserver(logger),
			attendance.NewMetricsObserver(registry),
		)),
		attendance.WithCounter(counterRepo),
		attendance.WithParseOptions(attendance.ParseOptions{
			HeaderRow:       cfg.Import.HeaderRow,
			SkipAfterHeader: cfg.Import.SkipAfterHeader,
		}),
		attendance.WithRawFolder(cfg.Folders.Raw),
		attendance.WithLogger(logger),
	}
	if cfg.Kafka.Broker != "" {
		importOpts = append(importOpts, attendance.WithOutbox(outboxRepo))
	}
	importService := attendance.NewImportService(
		db,
		employee.NewResolver(employeeRepo, logger),
		attendance.NewReconciler(attendanceRepo, logger),
		importOpts...,
	)
	timelogService, leaveService := newSyncServices(cfg, db, gormDB, employeeRepo, logger)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(importService, cfg.Import.MaxUploadBytes, logger)
	timelogHandler := timelog.NewHandler(timelogService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)

	idempotent := middleware.Idempotency(rdb, cfg.Server.IdempotencyTTL, logger.Named("middleware.idempotency"))

	// --- Routes Registration ---
	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(logger.Named("http")),
		middleware.RateLimitByIP(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateBurst),
	)

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err := ping(ctx, db.PingContext, func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable, "dependency unavailable", err.Error())
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	}

	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler)
		timelog.RegisterRoutes(api, timelogHandler, idempotent)
		leave.RegisterRoutes(api, leaveHandler, idempotent)
	}

	return nil
}

// newSyncServices builds the Zoho backed services shared by the API and the
// attendance-imported consumer.
func newSyncServices(
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	employeeRepo employee.Repository,
	logger *zap.Logger,
) (timelog.Service, leave.Service) {
	zohoClient := zoho.NewClient(cfg.Zoho, logger)
	timelogService := timelog.NewService(db, timelog.NewRepository(gormDB), employeeRepo, zohoClient, logger)
	leaveService := leave.NewService(db, leave.NewRepository(gormDB), employeeRepo, zohoClient, logger)
	return timelogService, leaveService
}

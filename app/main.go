package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/routes"
	"maintenance-system/internal/services"
	"maintenance-system/migrations"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/pkg/logger"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/validation"
)

func main() {
	cfg := config.New()

	log := logger.NewLogger()
	defer func() { _ = log.Sync() }()

	runMigrations(cfg.Postgres.DSN, log)

	pool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	defer func() { _ = redisClient.Close() }()

	// Repositories
	equipmentRepo := repositories.NewEquipmentRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	reservationRepo := repositories.NewReservationRepository(pool)
	workOrderRepo := repositories.NewWorkOrderRepository(pool)
	commentRepo := repositories.NewWorkOrderCommentRepository(pool)
	logRepo := repositories.NewMaintenanceLogRepository(pool)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	txManager := repositories.NewTxManager(pool)

	// Services
	resolver := services.NewStatusResolverService(equipmentRepo, workOrderRepo, log)
	equipmentService := services.NewEquipmentService(equipmentRepo, categoryRepo, resolver, log)
	categoryService := services.NewCategoryService(categoryRepo, log)
	reservationService := services.NewReservationService(reservationRepo, equipmentRepo, txManager, log)
	workOrderService := services.NewWorkOrderService(workOrderRepo, commentRepo, logRepo, equipmentRepo, cacheRepo, resolver, txManager, log)
	maintenanceLogService := services.NewMaintenanceLogService(logRepo, equipmentRepo, log)
	reportService := services.NewReportService(logRepo, log)

	profileRepo := repositories.NewUserProfileRepository(pool)
	profileService := services.NewUserProfileService(profileRepo, log)

	jwtService := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, profileService, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestLogger(log))

	routes.Register(e, routes.Controllers{
		Equipment:      controllers.NewEquipmentController(equipmentService, log),
		Category:       controllers.NewCategoryController(categoryService, log),
		Reservation:    controllers.NewReservationController(reservationService, log),
		WorkOrder:      controllers.NewWorkOrderController(workOrderService, log),
		MaintenanceLog: controllers.NewMaintenanceLogController(maintenanceLogService, log),
		Report:         controllers.NewReportController(reportService, log),
	}, authMiddleware)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := services.NewReservationSweeper(reservationService, cacheRepo, log, cfg.Sweeper.Interval, cfg.Sweeper.LockTTL)
	go sweeper.Run(ctx)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func runMigrations(dsn string, log *zap.Logger) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("failed to open migration connection", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("failed to set goose dialect", zap.Error(err))
	}
	if err := goose.Up(db, "."); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
}

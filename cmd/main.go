package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	redisclient "github.com/yungbote/mediaplan-backend/internal/clients/redis"
	"github.com/yungbote/mediaplan-backend/internal/db"
	"github.com/yungbote/mediaplan-backend/internal/handlers"
	"github.com/yungbote/mediaplan-backend/internal/importer"
	"github.com/yungbote/mediaplan-backend/internal/logger"
	"github.com/yungbote/mediaplan-backend/internal/middleware"
	"github.com/yungbote/mediaplan-backend/internal/observability"
	"github.com/yungbote/mediaplan-backend/internal/repos"
	"github.com/yungbote/mediaplan-backend/internal/server"
	"github.com/yungbote/mediaplan-backend/internal/services"
	"github.com/yungbote/mediaplan-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "mediaplan",
		Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	subRegionRepo := repos.NewSubRegionRepo(thePG, log)
	countryRepo := repos.NewCountryRepo(thePG, log)
	businessUnitRepo := repos.NewBusinessUnitRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	rangeRepo := repos.NewRangeRepo(thePG, log)
	campaignRepo := repos.NewCampaignRepo(thePG, log)
	mediaTypeRepo := repos.NewMediaTypeRepo(thePG, log)
	mediaSubtypeRepo := repos.NewMediaSubtypeRepo(thePG, log)
	periodRepo := repos.NewPeriodRepo(thePG, log)
	gamePlanRepo := repos.NewGamePlanRepo(thePG, log)

	// Session store
	var sessionStore services.SessionStore
	if os.Getenv("REDIS_ADDR") != "" {
		redisStore, err := redisclient.NewSessionStore(log)
		if err != nil {
			log.Error("Redis session store init failed", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		sessionStore = redisStore
	} else {
		log.Warn("REDIS_ADDR not set, sessions will not survive restarts")
		sessionStore = services.NewMemorySessionStore()
	}

	// Import profiles
	profiles := importer.DefaultProfiles()
	if path := os.Getenv("IMPORT_PROFILES_PATH"); path != "" {
		loaded, err := importer.LoadProfiles(path)
		if err != nil {
			log.Error("Failed to load import profiles", "path", path, "error", err)
			os.Exit(1)
		}
		profiles = loaded
	}

	// Services
	log.Info("Setting up Services from main...")
	resolver := importer.NewResolver(
		subRegionRepo,
		countryRepo,
		businessUnitRepo,
		categoryRepo,
		rangeRepo,
		campaignRepo,
		mediaTypeRepo,
		mediaSubtypeRepo,
		log,
	)
	batchSize := utils.GetEnvAsInt("IMPORT_BATCH_SIZE", 50, log)
	importService := services.NewImportService(
		thePG,
		log,
		sessionStore,
		profiles,
		resolver,
		gamePlanRepo,
		countryRepo,
		periodRepo,
		businessUnitRepo,
		batchSize,
	)

	// Handlers
	log.Info("Setting up handlers from main...")
	planImportHandler := handlers.NewPlanImportHandler(log, importService)
	masterDataHandler := handlers.NewMasterDataHandler(log, subRegionRepo, countryRepo, businessUnitRepo, categoryRepo, rangeRepo, mediaTypeRepo)

	// Middleware
	requestLogger := middleware.NewRequestLogger(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		PlanImportHandler: planImportHandler,
		MasterDataHandler: masterDataHandler,
		RequestLogger:     requestLogger,
	})

	addr := utils.GetEnv("SERVER_ADDR", ":8080", log)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		log.Info("Server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}

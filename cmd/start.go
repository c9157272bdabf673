package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"

	"catalog-sync/feature/export"
	"catalog-sync/feature/health"
	"catalog-sync/feature/migrate"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "catalog-sync/docs/swagger"
)

// @title Catalog Sync API
// @version 1.0
// @description Reconciles product catalogs between WooCommerce and Shopify stores.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog sync server",
	Long:  `Starts the HTTP server, the sync job queue and the optional sync schedule.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := setup()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)
		cfg := a.cfg

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           cfg.Server.ReadTimeout(),
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		mgr := loader.NewManager(logg)
		migrateFeature := migrate.NewFeature(a.migrate)
		mgr.Register(health.NewFeature(a.health))
		mgr.Register(migrateFeature)
		mgr.Register(export.NewFeature(a.export))

		// RayID first so every log line of a request carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(a.metrics.Handler()))

		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Skip:   []string{"/health", "/swagger", "/metrics"},
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		scheduler := migrate.NewScheduler(cfg.Sync.Schedule, platformOf(cfg.Sync.ScheduleSource), cfg.Sync.Kinds(), migrateFeature.Service(), logg)
		if err := scheduler.Start(); err != nil {
			logg.Fatal("Failed to start sync schedule", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		scheduler.Stop()
		_ = app.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()
		if err := a.queue.Wait(ctx); err != nil {
			logg.Warn("Sync jobs still running at shutdown", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

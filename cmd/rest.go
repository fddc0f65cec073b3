package cmd

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rutvik2598/PostPolice/core/config"
	"github.com/Rutvik2598/PostPolice/ui/rest"
	"github.com/Rutvik2598/PostPolice/ui/rest/middleware"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the caching proxy over http",
	Long:  `Starts the HTTP surface the browser extension talks to: summary lookup and store, metrics, admin and health endpoints.`,
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	cfg := config.Global

	app := fiber.New(fiber.Config{
		Network:               "tcp",
		AppName:               "PostPolice Cache Proxy",
		DisableStartupMessage: false,
		ServerHeader:          "Hidden",
	})

	app.Use(requestid.New())

	// The extension runs in the browser, so every call is cross-origin.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	var group fiber.Router = app
	if cfg.App.BasePath != "" {
		group = app.Group(cfg.App.BasePath)
	}

	// Basic auth is opt-in: the default deployment is loopback-only.
	if len(cfg.App.BasicAuth) > 0 {
		group.Use(basicauth.New(basicauth.Config{
			Users: parseBasicAuthAccounts(cfg.App.BasicAuth),
			Next: func(c *fiber.Ctx) bool {
				// Allow CORS preflight and liveness probes without credentials.
				return c.Method() == fiber.MethodOptions || c.Path() == cfg.App.BasePath+"/health"
			},
		}))
	}

	rest.InitRestCache(group, cacheUsecase)
	rest.InitRestMetrics(group, metricsUsecase)
	rest.InitRestVerify(group, verifyUsecase)
	rest.InitRestHealth(group, healthUsecase)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})

	if cfg.Metrics.PrometheusEnabled {
		go servePrometheus(cfg.Metrics.PrometheusAddr)
	}

	stopChecks := startBackgroundChecks()

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] termination signal received, shutting down gracefully...")
		stopChecks()
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] error during Fiber shutdown: %v", err)
		}
		StopApp()
	}()

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Fatalln("Failed to start: ", err.Error())
	}
}

// servePrometheus exposes the monotonic counters on a side listener so the
// scrape endpoint never mixes with the extension-facing JSON /metrics.
func servePrometheus(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logrus.Infof("[METRICS] Prometheus scrape endpoint on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.WithError(err).Error("[METRICS] Prometheus listener stopped")
	}
}

package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/DMarby/thumbor-url/internal/api"
	"github.com/DMarby/thumbor-url/internal/cmd"
	"github.com/DMarby/thumbor-url/internal/health"
	"github.com/DMarby/thumbor-url/internal/logger"
	"github.com/DMarby/thumbor-url/internal/metrics"
	"github.com/DMarby/thumbor-url/internal/thumbor"
	"github.com/DMarby/thumbor-url/internal/tracing"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Comandline flags
var (
	// Global
	listen        = flag.String("listen", ":8080", "listen address")
	metricsListen = flag.String("metrics-listen", "127.0.0.1:8082", "metrics listen address")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")

	// Thumbor
	serverURL   = flag.String("server-url", "http://localhost:8888", "url of the thumbor server the urls are built for")
	securityKey = flag.String("security-key", "", "thumbor security key to sign urls with, unsigned unsafe urls are built if empty")

	// Batches
	batchLimit = flag.Int("batch-limit", cmd.DefaultBatchLimit, "max number of urls built concurrently for a batch request")

	// Tracing
	traceExport = flag.Bool("trace-export", false, "export traces over otlp, configured through the OTEL_EXPORTER_OTLP_* environment variables")
)

func main() {
	// Parse environment variables
	envy.Parse("THUMBOR")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	// Initialize tracing
	tracer, err := tracing.New(shutdownCtx, log, "thumbor-api", *traceExport)
	if err != nil {
		log.Fatalf("error initializing tracing: %s", err)
	}
	defer tracer.Shutdown(context.Background())

	// Initialize the url builder
	th, err := thumbor.New(*serverURL, *securityKey)
	if err != nil {
		log.Fatalf("error initializing thumbor: %s", err)
	}

	if !th.Signed() {
		log.Warnf("no security key set, building unsafe urls")
	}

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(context.Background())
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:     checkerCtx,
		Thumbor: th,
		Log:     log,
	}
	go checker.Run()

	// Start and listen on http
	api := &api.API{
		Thumbor:        th,
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		HandlerTimeout: cmd.HandlerTimeout,
		BatchLimit:     *batchLimit,
	}
	server := &http.Server{
		Addr:         *listen,
		Handler:      api.Router(),
		ReadTimeout:  cmd.ReadTimeout,
		WriteTimeout: cmd.WriteTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			shutdown()
		}
	}()

	log.Infof("http server listening on %s", *listen)

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log, checker, *metricsListen)

	// Wait for shutdown or error
	err = cmd.WaitForInterrupt(shutdownCtx)
	log.Infof("shutting down: %s", err)

	// Shut down http server
	serverCtx, serverCancel := context.WithTimeout(context.Background(), cmd.WriteTimeout)
	defer serverCancel()
	if err := server.Shutdown(serverCtx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}
}

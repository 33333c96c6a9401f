package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/wrapped-cli/config"
	"github.com/otherjamesbrown/wrapped-cli/pkg/buildinfo"
	"github.com/otherjamesbrown/wrapped-cli/pkg/logging"
	"github.com/otherjamesbrown/wrapped-cli/pkg/report"
)

// Serve command flags.
var serveListen string

// ServeCommandDeps holds the dependencies for the serve command.
type ServeCommandDeps struct {
	Config       *config.CLIConfig
	LoadConfig   func() (*config.CLIConfig, error)
	LoadMessages MessageLoader
}

// DefaultServeDeps returns the default dependencies for production use.
func DefaultServeDeps() *ServeCommandDeps {
	return &ServeCommandDeps{
		LoadConfig:   config.LoadConfig,
		LoadMessages: loadMessages,
	}
}

// NewServeCommand creates the serve command.
func NewServeCommand(deps *ServeCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultServeDeps()
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Messages Wrapped report over HTTP",
		Long: `Serve the Messages Wrapped report over HTTP.

The report is rebuilt from the live database on every page load, so a
refresh always reflects the latest messages.

Endpoints:
  /          The report page
  /healthz   Liveness check
  /metrics   Prometheus metrics
  /version   Build information

Flags:
  --listen            Listen address (default from config)

Examples:
  wrapped serve
  wrapped serve --listen 0.0.0.0:8490`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, deps)
		},
	}

	cmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (host:port)")

	return cmd
}

// serverMetrics holds the prometheus instruments for serve mode.
type serverMetrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	buildDuration prometheus.Histogram
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wrapped_http_requests_total",
			Help: "HTTP requests served, by path and status code.",
		}, []string{"path", "status"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wrapped_report_build_seconds",
			Help:    "Time spent loading messages and computing the report.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
	m.registry.MustRegister(m.requests, m.buildDuration)
	m.registry.MustRegister(collectors.NewGoCollector())
	return m
}

// newServeRouter builds the gin engine with all endpoints registered.
func newServeRouter(deps *ServeCommandDeps, cfg *config.CLIConfig, log logging.Logger, metrics *serverMetrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		c.Next()
		metrics.requests.WithLabelValues(c.FullPath(), strconv.Itoa(c.Writer.Status())).Inc()
	})

	router.GET("/", func(c *gin.Context) {
		start := time.Now()
		messages, err := deps.LoadMessages(c.Request.Context(), cfg, log)
		if err != nil {
			log.Error("loading messages", logging.Err(err))
			c.String(http.StatusInternalServerError, "failed to load messages: %v", err)
			return
		}
		rep := report.Build(messages, reportConfig(cfg))
		metrics.buildDuration.Observe(time.Since(start).Seconds())

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := report.Render(c.Writer, rep); err != nil {
			log.Error("rendering report", logging.Err(err))
		}
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})))
	router.GET("/version", gin.WrapF(buildinfo.Handler("wrapped-serve")))

	return router
}

// runServe starts the HTTP server and blocks until the context is canceled.
func runServe(cmd *cobra.Command, deps *ServeCommandDeps) error {
	cfg := deps.Config
	if cfg == nil {
		var err error
		cfg, err = deps.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
	}
	log := newLogger(cfg)

	listen := serveListen
	if listen == "" {
		listen = cfg.ListenAddress
	}

	router := newServeRouter(deps, cfg, log, newServerMetrics())
	server := &http.Server{
		Addr:              listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Info("serving report", logging.F("address", listen))
	fmt.Fprintf(cmd.OutOrStdout(), "Serving Messages Wrapped on http://%s\n", listen)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
		log.Info("shutting down")
		return server.Close()
	}
}

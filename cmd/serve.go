package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"restaurant/controllers"
	"restaurant/middleware"
	"restaurant/routes"
	"restaurant/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if a.cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required to serve the API")
	}
	tokens := utils.NewTokens(a.cfg.JWTSecret)

	gin.SetMode(gin.ReleaseMode)
	a.log.Info("starting", "mode", gin.Mode(), "port", a.cfg.Port)

	r := gin.New()
	r.Use(gin.Recovery())

	middleware.InitMetrics(prometheus.DefaultRegisterer)
	r.Use(middleware.PrometheusMiddleware())
	r.GET("/metrics", middleware.MetricsHandler(prometheus.DefaultGatherer, a.cfg.MetricsClients()))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	scheduler, err := utils.ScheduleNightly(a.location, a.cfg.AnalyticsAt, "analytics", func(ctx context.Context) {
		if _, res := a.svc.RecomputeAnalytics(ctx); !res.Success {
			a.log.Warn("nightly analytics", "warning", res.Warning)
		}
	})
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	ctl := controllers.New(a.svc, a.migrator, tokens, a.log)
	routes.InitializeRoutes(r, ctl, tokens)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		a.svc.WaitAlerts()
		return err
	}
}

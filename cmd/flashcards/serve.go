package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/griesmnr/flash-cards/internal/handlers"
	"github.com/griesmnr/flash-cards/internal/middleware"
	"github.com/griesmnr/flash-cards/internal/tracing"
	"github.com/griesmnr/flash-cards/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser viewer",
	Long: `Serves the HTML viewer at / and its JSON API under /api. Every browser
session gets its own shuffled deck; open tabs of one session follow each other
over /ws.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (BACKEND_ADDR or PORT, default :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName: tracing.ServiceName,
		Environment: cfg.AppEnv,
		PrettyPrint: cfg.IsDev(),
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracer shutdown error", zap.Error(err))
		}
	}()

	src, release, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	// Everything below lives until the server has shut down.
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	hubRef := websocket.NewHubRef(websocket.NewHub(logger))
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		websocket.Supervise(appCtx, hubRef, logger)
	}()

	sessions := handlers.NewSessions(appCtx, src, handlers.SessionOptions{
		Logger:       logger,
		FetchTimeout: cfg.FetchTimeout,
		OnChange:     handlers.BroadcastViewerUpdates(hubRef),
	})
	defer sessions.Close()
	go sessions.RunEvictor(appCtx, cfg.SessionTTL, time.Minute)

	h := &handlers.ViewerHandlers{Sessions: sessions, Log: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(otelgin.Middleware(tracing.ServiceName))
	r.Use(middleware.DevCORS(cfg))
	r.SetHTMLTemplate(handlers.Templates())
	r.GET("/healthz", handlers.Healthz)

	app := r.Group("")
	app.Use(middleware.RequireSession(cfg))
	handlers.RegisterPageRoutes(app, h)
	handlers.RegisterAPIRoutes(app.Group("/api"), h)
	handlers.RegisterWebSocketRoutes(app, hubRef, h, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		// API actions may wait up to 30s for a deck.
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.CardStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := srv.Shutdown(sctx); serr != nil {
		logger.Warn("server shutdown error", zap.Error(serr))
	}
	cancelApp()
	<-hubDone
	return err
}

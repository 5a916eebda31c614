package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"study-quiz-service/internal/config"
	"study-quiz-service/internal/platform/logger"
	transport "study-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the study assistant API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	if cfg.Server.CookieSecret == "" {
		log.Warn("server.cookie_secret is empty, visitor cookies are signed with an insecure default")
		cfg.Server.CookieSecret = "study-quiz-insecure-default"
	}
	if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rt, err := buildRuntime(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	handler := transport.NewHandler(rt.service, transport.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CookieSecret:   cfg.Server.CookieSecret,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	}, log)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(handler, cfg.Server.AllowedOrigins),
		ReadTimeout: 30 * time.Second,
		// Generation waits on the model for two completions.
		WriteTimeout: 3 * time.Minute,
	}

	go func() {
		log.Info("starting study service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

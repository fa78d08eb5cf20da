package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "blog_app/docs"
	"blog_app/internal/config"
	"blog_app/internal/flash"
	"blog_app/internal/handlers"
	"blog_app/internal/logger"
	"blog_app/internal/repository"
	"blog_app/internal/repository/db"
	"blog_app/internal/server"
	"blog_app/internal/service"
	"blog_app/internal/session"
)

const shutdownTimeout = 10 * time.Second

// @title                       Blog API
// @version                     1.0
// @description                 Session-authenticated blog: HTML pages plus a JSON read API and a live post feed.
// @BasePath                    /
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        user_id
func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger settings come from config, so fall back to defaults here
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DSN, log)
	if err != nil {
		log.Fatalw("failed to open database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, log)

	sessions, err := newSessionManager(cfg, services)
	if err != nil {
		log.Fatalw("failed to init sessions", "err", err)
	}
	flashes, err := flash.New(cfg.Security.SecretKey, cfg.Security.FlashSalt, cfg.Security.FlashMaxAge, flash.WithLogger(log))
	if err != nil {
		log.Fatalw("failed to init flash messages", "err", err)
	}

	h := handlers.NewHandler(services, sessions, flashes, log).WithFeedInterval(cfg.Feed.Interval)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Addr(), h, log)

	waitForShutdown(cancel, srv, log)
}

func newSessionManager(cfg *config.Config, services *service.Service) (*session.Manager, error) {
	opts := []session.Option{session.WithCookieName(cfg.Session.CookieName)}
	if cfg.Session.Signed {
		opts = append(opts, session.WithSigningSecret(cfg.Security.SecretKey))
	}
	return session.NewManager(services.Authorization, opts...)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, addr string, h *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "addr", addr)
		if err := srv.Run(addr, h.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT or SIGTERM, then drains the server.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

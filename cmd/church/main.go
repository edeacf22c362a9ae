// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Command church runs the Hanbit Church website: the public board
// pages plus the admin area. All persistence and authentication is
// delegated to a hosted backend; without one configured the site runs
// in degraded mode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/hanbit-church/website/internal/authz"
	"github.com/hanbit-church/website/internal/backend"
	"github.com/hanbit-church/website/internal/config"
	"github.com/hanbit-church/website/internal/handler"
	"github.com/hanbit-church/website/internal/i18n"
	"github.com/hanbit-church/website/internal/middleware"
	"github.com/hanbit-church/website/internal/provision"
	"github.com/hanbit-church/website/internal/render"
	"github.com/hanbit-church/website/internal/repo"
	"github.com/hanbit-church/website/internal/session"
	"github.com/hanbit-church/website/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: church [options]\n\nOptions:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_BACKEND_URL       Hosted backend base URL (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_BACKEND_ANON_KEY  Hosted backend anonymous API key (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCH_SITE_NAME         Site name shown in the header\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("church %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	// Backend client. Missing configuration is not fatal: the site
	// starts in degraded mode and says so.
	client := backend.New(cfg)
	if client.Available() {
		slog.Info("backend configured", "url", cfg.BackendURL)
	} else {
		slog.Warn("backend not configured; running in degraded mode")
	}

	// Sessions
	sessionManager := session.NewManager(cfg.IsDevelopment())
	sessionStore := session.NewStore(sessionManager, client)

	// Domain services
	posts := repo.NewPosts(client)
	gate := authz.NewGate(client)
	provisioner := provision.New(client)

	// Renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("templates sub fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		SiteName:       cfg.SiteName,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	// Handlers
	frontendHandler := handler.NewFrontendHandler(posts, renderer, client.Available())
	authHandler := handler.NewAuthHandler(sessionStore, renderer, client.Available())
	postHandler := handler.NewPostHandler(posts, renderer)
	adminHandler := handler.NewAdminHandler(posts, provisioner, renderer)
	healthHandler := handler.NewHealthHandler(client.Available())

	r := chi.NewRouter()

	// Base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(middleware.LoadSession(sessionStore, gate))

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("static sub fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Public routes
	r.Get(handler.RouteRoot, frontendHandler.Home)
	r.Get(handler.RouteBoard, frontendHandler.BoardList)
	r.Get(handler.RouteBoardPost, frontendHandler.PostDetail)
	r.Get(handler.RouteHealth, healthHandler.Health)

	// Auth routes
	r.Get(handler.RouteLogin, authHandler.LoginForm)
	r.Post(handler.RouteLogin, authHandler.Login)
	r.Get(handler.RouteLogout, authHandler.Logout)
	r.Post(handler.RouteLogout, authHandler.Logout)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())

		r.Get(handler.RouteAdmin, adminHandler.Dashboard)
		r.Get(handler.RouteAdminSignup, adminHandler.SignupForm)
		r.Post(handler.RouteAdminSignup, adminHandler.Signup)

		r.Get(handler.RouteBoardNew, postHandler.NewForm)
		r.Post(handler.RouteBoard, postHandler.Create)
		r.Get(handler.RouteBoardPostEdit, postHandler.EditForm)
		r.Post(handler.RouteBoardPost, postHandler.Update)
		r.Post(handler.RouteBoardPostDelete, postHandler.Delete)
	})

	r.NotFound(frontendHandler.NotFound)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

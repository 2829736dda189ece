package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/models"
	"taskboard/internal/server"
	"taskboard/internal/state"
	"taskboard/internal/storage/sqlite"
	"taskboard/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TASKBOARD_ADDR", ":8080"), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("TASKBOARD_DB_PATH", "data/taskboard.db"), "Path to sqlite database file")
	staticFlag := flag.String("static", util.EnvOrDefault("TASKBOARD_STATIC_DIR", "web/dist"), "Directory with built frontend")
	sessionTTLFlag := flag.Duration("session-ttl", 12*time.Hour, "Lifetime of sign-in sessions")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("taskboard starting")

	store, err := sqlite.Open(*dbFlag, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seedAdmin(ctx, store, logger); err != nil {
		logger.Error("unable to seed admin user", slog.String("error", err.Error()))
		os.Exit(1)
	}

	st, err := state.New(ctx, store, logger)
	if err != nil {
		logger.Error("unable to load state", slog.String("error", err.Error()))
		os.Exit(1)
	}
	go st.Watch(ctx)

	authMgr := auth.NewManager(store, logger, *sessionTTLFlag)
	srv := server.New(st, store, authMgr, logger, *staticFlag)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// seedAdmin creates the initial admin account when the user table is
// empty, using TASKBOARD_ADMIN_EMAIL and TASKBOARD_ADMIN_PASSWORD.
func seedAdmin(ctx context.Context, store *sqlite.Store, logger *slog.Logger) error {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := util.EnvOrDefault("TASKBOARD_ADMIN_EMAIL", "admin@localhost")
	password := util.EnvOrDefault("TASKBOARD_ADMIN_PASSWORD", "changeme")
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := store.CreateUser(ctx, "Administrator", email, models.RoleAdmin, hash); err != nil {
		return err
	}
	logger.Info("seeded admin user", slog.String("email", email))
	return nil
}

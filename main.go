package main

import (
	"database/sql"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/danielhkuo/vocal-royale/auth"
	"github.com/danielhkuo/vocal-royale/cliparse"
	"github.com/danielhkuo/vocal-royale/db"
	"github.com/danielhkuo/vocal-royale/models"
	"github.com/danielhkuo/vocal-royale/router"
	"github.com/danielhkuo/vocal-royale/store"
)

func main() {
	var err error

	// Load .env if present; real env vars win
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	st, cleanup, err := openStore(cfg)
	if err != nil {
		slog.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Ensure a usable admin account exists
	if err := bootstrapAdmin(st, cfg); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Create router
	mux := router.NewRouter(st, cfg, rng)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "store", cfg.StoreType)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore builds the configured store. The returned cleanup closes the
// database connection for the postgres store and is a no-op for memory.
func openStore(cfg cliparse.Config) (*store.Store, func(), error) {
	if cfg.StoreType == "memory" {
		slog.Info("Using in-memory store; data is lost on restart")
		return store.NewMemory(), func() {}, nil
	}

	// Connect to PostgreSQL
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		dbConn.Close()
		return nil, nil, err
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	slog.Info("Database schema ready")

	return store.NewPostgres(dbConn), func() { dbConn.Close() }, nil
}

// bootstrapAdmin creates the configured admin account on first start.
// An existing user with the same username is left untouched.
func bootstrapAdmin(st *store.Store, cfg cliparse.Config) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	_, err := st.Users.GetByUsername(cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           uuid.NewString(),
		Username:     cfg.AdminUsername,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := st.Users.Create(admin); err != nil {
		return err
	}
	slog.Info("Created bootstrap admin account", "username", cfg.AdminUsername)
	return nil
}

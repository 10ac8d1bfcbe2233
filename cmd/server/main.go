package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/formlite/formlite/internal/api"
	"github.com/formlite/formlite/internal/config"
	"github.com/formlite/formlite/internal/db"
	"github.com/formlite/formlite/internal/logging"
	"github.com/formlite/formlite/internal/middleware"
	"github.com/formlite/formlite/internal/obs"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	commit := os.Getenv("FORMLITE_COMMIT")
	buildTime := os.Getenv("FORMLITE_BUILD_TIME")

	var store api.Store
	if cfg.DBPath != "" {
		st, err := db.Open(cfg.DBPath)
		if err != nil {
			logger.Error("open database", "path", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer st.Close()
		store = st
		logger.Info("using sqlite store", "path", cfg.DBPath)
	} else {
		store = api.NewMemoryStore()
		logger.Warn("using in-memory store; data is discarded at process exit")
	}

	obs.Init()

	mux := http.NewServeMux()
	api.NewRouter(store, logger).Register(mux)
	mux.Handle("/metrics", obs.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"name": "Formlite API",
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Serve the form-filling frontend when a build is available.
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	handler := obs.Instrument(middleware.SecureHeaders(middleware.CORS(middleware.WithAuth(mux))))

	logger.Info("formlite server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

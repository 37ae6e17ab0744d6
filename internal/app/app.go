package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kidsbilling/adjustments/internal/config"
	"github.com/kidsbilling/adjustments/internal/database"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
	db     *pgxpool.Pool
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var db *pgxpool.Pool
	if cfg.Storage.Backend == config.StorageBackendPostgres {
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, err
		}
		db, err = database.Open(context.Background(), cfg.Database)
		if err != nil {
			return nil, err
		}
	}

	deps, err := BuildDependencies(db, cfg)
	if err != nil {
		return nil, err
	}

	r := NewRouter(deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, db: db}, nil
}

// NewRouter builds the router with middleware and routes.
func NewRouter(deps *Dependencies) *mux.Router {
	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)
	return r
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	if a.db != nil {
		defer a.db.Close()
	}
	log.Infof("Starting server on %s (storage: %s)", a.srv.Addr, a.cfg.Storage.Backend)
	return a.srv.ListenAndServe()
}

package app

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kidsbilling/adjustments/internal/config"
	"github.com/kidsbilling/adjustments/internal/utils"
	"github.com/kidsbilling/adjustments/pkg/access"
	"github.com/kidsbilling/adjustments/pkg/adjustment"
	"github.com/kidsbilling/adjustments/pkg/directory"
	"github.com/kidsbilling/adjustments/pkg/export"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock utils.Clock

	Credentials   access.CredentialStore
	Sessions      *access.SessionStore
	AccessHandler *access.Handler

	AdjustmentStore   adjustment.Store
	DirectoryLoader   directory.Loader
	AdjustmentService *adjustment.ServiceImpl
	AdjustmentHandler *adjustment.Handler

	XlsxRenderer  *export.XlsxRendererImpl
	CsvRenderer   *export.CsvRendererImpl
	ExportHandler *export.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
// db is only used by the postgres storage backend and may be nil otherwise.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.Credentials = access.NewCsvCredentialStore(cfg.Storage.CredentialsFile)
	deps.Sessions = access.NewSessionStore(cfg.Session.TTL, deps.Clock)
	deps.AccessHandler = access.NewHandler(deps.Credentials, deps.Sessions, cfg.Session)

	switch cfg.Storage.Backend {
	case config.StorageBackendCsv:
		deps.AdjustmentStore = adjustment.NewFileStore(cfg.Storage.DataFile)
	case config.StorageBackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("storage backend %q requires a database", cfg.Storage.Backend)
		}
		deps.AdjustmentStore = adjustment.NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	deps.DirectoryLoader = directory.NewCsvLoader(cfg.Storage.DirectoryFile)
	deps.AdjustmentService = adjustment.NewService(deps.AdjustmentStore, deps.DirectoryLoader, adjustment.NewIdGenerator(), deps.Clock)
	deps.AdjustmentHandler = adjustment.NewHandler(deps.AdjustmentService)

	deps.XlsxRenderer = export.NewXlsxRenderer()
	deps.CsvRenderer = export.NewCsvRenderer()
	deps.ExportHandler = export.NewHandler(deps.AdjustmentService, deps.XlsxRenderer, deps.CsvRenderer, deps.Clock)

	return deps, nil
}

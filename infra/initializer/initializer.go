// Package initializer assembles the application dependency graph: logger,
// database, unit of work, metrics, fetch orchestrator, and the services the
// web layer serves.
package initializer

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/hbenmansour/cashops/infra"
	infrarepository "github.com/hbenmansour/cashops/infra/repository"
	"github.com/hbenmansour/cashops/pkg/config"
	"github.com/hbenmansour/cashops/pkg/ledger"
	"github.com/hbenmansour/cashops/pkg/metrics"
	"github.com/hbenmansour/cashops/pkg/repository"
	authsvc "github.com/hbenmansour/cashops/pkg/service/auth"
	operationsvc "github.com/hbenmansour/cashops/pkg/service/operation"
)

// Deps holds every initialized dependency.
type Deps struct {
	Logger       *slog.Logger
	DB           *gorm.DB
	Uow          repository.UnitOfWork
	Registry     *prometheus.Registry
	Orchestrator *ledger.Orchestrator
	Operations   *operationsvc.Service
	Auth         *authsvc.Service
}

// InitializeDependencies initializes all the application dependencies.
func InitializeDependencies(cfg *config.App) (*Deps, error) {
	deps := &Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if err := infra.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database schema", "error", err)
		return nil, err
	}
	deps.DB = db
	deps.Uow = infrarepository.NewUoW(db)

	deps.Registry = prometheus.NewRegistry()
	collector := metrics.NewPrometheusCollector(deps.Registry)

	deps.Orchestrator = ledger.NewOrchestrator(
		infrarepository.NewLedgerSource(db),
		cfg.Fetch,
		logger,
		ledger.WithCollector(collector),
		ledger.WithErrorNotifier(func(err error) {
			// Surfaced once per failed fetch cycle; silent retries stay quiet.
			logger.Error("Timeline fetch failed", "error", err)
		}),
	)

	deps.Operations = operationsvc.NewService(
		deps.Uow,
		cfg.Reconcile,
		logger,
		operationsvc.WithCollector(collector),
	)
	deps.Auth = authsvc.NewService(logger)

	return deps, nil
}

// Package bootstrap construye el grafo de dependencias compartido por la API y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/application/legacy"
	"github.com/Toutiscope/Facturation/internal/domain/layout"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
	"github.com/Toutiscope/Facturation/internal/infrastructure/cache"
	"github.com/Toutiscope/Facturation/internal/infrastructure/clearinghouse"
	"github.com/Toutiscope/Facturation/internal/infrastructure/facturx"
	"github.com/Toutiscope/Facturation/internal/infrastructure/filestore"
	"github.com/Toutiscope/Facturation/internal/infrastructure/metrics"
	infrapdf "github.com/Toutiscope/Facturation/internal/infrastructure/pdf"
	"github.com/Toutiscope/Facturation/internal/infrastructure/postgres"
	"github.com/Toutiscope/Facturation/pkg/config"
)

// Container casos de uso listos para usar más los recursos que hay que cerrar.
type Container struct {
	Config    *config.Config
	Metrics   *metrics.Recorder
	Documents *billing.DocumentUseCase
	Settings  *billing.SettingsUseCase
	PDF       *billing.PDFUseCase
	Exchange  *billing.ExchangeUseCase
	Importer  *legacy.Importer

	cache   *cache.SettingsCache
	closers []func()
}

// store repositorios del backend elegido.
type store struct {
	docs     repository.DocumentRepository
	settings repository.SettingsRepository
	tx       legacy.TxRunner
	cache    *cache.SettingsCache
}

// New conecta el backend de almacenamiento configurado y cablea los casos de uso.
// Con el driver file y STORE_WATCH, la caché de configuración se invalida ante ediciones externas.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Metrics: metrics.NewRecorder()}

	// ── 1. Almacenamiento ─────────────────────────────────────────────────────
	var (
		st  store
		err error
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		st, err = c.openPostgres(ctx, cfg, log.With().Str("component", "postgres").Logger())
	default:
		st, err = c.openFiles(ctx, cfg, log.With().Str("component", "filestore").Logger())
	}
	if err != nil {
		c.Close()
		return nil, err
	}

	c.cache = st.cache

	// ── 2. Casos de uso ───────────────────────────────────────────────────────
	engine := layout.NewEngine(infrapdf.NewFontMetrics(), layout.UniformMargins(cfg.Layout.PageMargin))
	sequencer := billing.NewSequencer(st.settings, log.With().Str("component", "sequencer").Logger())
	billingLog := log.With().Str("component", "billing").Logger()

	c.Documents = billing.NewDocumentUseCase(st.docs, sequencer, c.Metrics, billingLog)
	c.Settings = billing.NewSettingsUseCase(st.settings, billingLog)
	c.PDF = billing.NewPDFUseCase(
		st.docs, st.settings, engine,
		infrapdf.NewGofpdfPainter(log.With().Str("component", "pdf").Logger()),
		infrapdf.NewMarotoRegisterGenerator(),
		c.Metrics, billingLog,
	)
	c.Exchange = billing.NewExchangeUseCase(
		st.docs, st.settings,
		facturx.NewBuilder(),
		clearinghouse.NewUnavailable(log.With().Str("component", "clearinghouse").Logger()),
		billingLog,
	)
	c.Importer = legacy.NewImporter(st.tx, log.With().Str("component", "import").Logger())
	return c, nil
}

func (c *Container) openFiles(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store, error) {
	docs := filestore.NewDocumentStore(cfg.Store.DataDir, log)
	files := filestore.NewSettingsStore(cfg.Store.DataDir)
	settings := cache.NewSettingsCache(files)

	if cfg.Store.Watch {
		w, err := filestore.NewWatcher(files.Path(), settings.Invalidate, log)
		if err != nil {
			return store{}, err
		}
		watchCtx, cancel := context.WithCancel(ctx)
		go w.Run(watchCtx)
		c.closers = append(c.closers, func() {
			cancel()
			_ = w.Close()
		})
	}
	log.Info().Str("dir", cfg.Store.DataDir).Bool("watch", cfg.Store.Watch).Msg("almacenamiento en archivos")
	return store{docs: docs, settings: settings, tx: filestore.NewUnitOfWork(docs, settings), cache: settings}, nil
}

func (c *Container) openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return store{}, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c.closers = append(c.closers, pool.Close)
	if err := postgres.Migrate(ctx, pool, pool, log); err != nil {
		return store{}, fmt.Errorf("migraciones: %w", err)
	}
	settings := cache.NewSettingsCache(postgres.NewSettingsRepository(pool))
	return store{
		docs:     postgres.NewDocumentRepository(pool),
		settings: settings,
		tx:       postgres.NewTxRunner(pool),
		cache:    settings,
	}, nil
}

// Import importa un directorio heredado. La transacción de PostgreSQL escribe sin pasar
// por la caché de configuración, así que se invalida al terminar.
func (c *Container) Import(ctx context.Context, dir string, opts legacy.Options) (*legacy.Report, error) {
	defer c.cache.Invalidate()
	return c.Importer.Import(ctx, dir, opts)
}

// Close libera los recursos en orden inverso.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

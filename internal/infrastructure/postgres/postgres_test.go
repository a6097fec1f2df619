package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
	"github.com/Toutiscope/Facturation/internal/infrastructure/postgres"
)

// Pruebas de integración: requieren FACTURATION_TEST_DATABASE_URL apuntando a una base desechable.
func openPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("FACTURATION_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FACTURATION_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool, pool, zerolog.Nop()))
	_, err = pool.Exec(ctx, `TRUNCATE documents; DELETE FROM settings`)
	require.NoError(t, err)
	return pool
}

func quote(numero, created, name string) *entity.Document {
	return &entity.Document{
		ID:        numero,
		Type:      entity.KindQuote,
		Numero:    numero,
		Date:      "2026-03-01",
		Status:    entity.StatusDraft,
		Customer:  entity.Customer{CustomerName: name, ClientType: entity.ClientIndividual},
		Totals:    entity.Totals{TotalHT: decimal.NewFromInt(100), TotalTTC: decimal.NewFromInt(100)},
		CreatedAt: created,
		EditedAt:  created,
	}
}

// ── Documentos ──────────────────────────────────────────────────────────────

func TestDocumentRepo_CRUD(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	repo := postgres.NewDocumentRepository(pool)

	require.NoError(t, repo.Put(ctx, quote("Q000001", "2025-12-30T10:00:00Z", "Jeanne Martin")))
	require.NoError(t, repo.Put(ctx, quote("Q000002", "2026-01-05T10:00:00Z", "Paul Girard")))

	got, err := repo.Get(ctx, entity.KindQuote, "Q000001")
	require.NoError(t, err)
	assert.Equal(t, "Jeanne Martin", got.Customer.CustomerName)

	all, err := repo.List(ctx, entity.KindQuote, repository.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Q000002", all[0].Numero)

	y2025, err := repo.List(ctx, entity.KindQuote, repository.DocumentFilter{Year: 2025})
	require.NoError(t, err)
	require.Len(t, y2025, 1)

	found, err := repo.List(ctx, entity.KindQuote, repository.DocumentFilter{Search: "GIRARD"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Q000002", found[0].Numero)

	require.NoError(t, repo.Delete(ctx, entity.KindQuote, "Q000001"))
	_, err = repo.Get(ctx, entity.KindQuote, "Q000001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, entity.KindQuote, "Q000001"), domain.ErrNotFound)
}

// ── Configuración y contadores ──────────────────────────────────────────────

func TestSettingsRepo_ContadoresSobrevivenAlGuardar(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	repo := postgres.NewSettingsRepository(pool)

	s, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCurrency, s.Billing.Currency)

	require.NoError(t, repo.AdvanceSequence(ctx, entity.KindInvoice, 10))
	require.NoError(t, repo.AdvanceSequence(ctx, entity.KindInvoice, 5))

	s.Company.CompanyName = "Atelier Dupont"
	s.Billing.LatestInvoiceNumber = 0
	require.NoError(t, repo.Save(ctx, s))

	seq, err := repo.LoadSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), seq.Invoice)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Atelier Dupont", loaded.Company.CompanyName)
	assert.Equal(t, int64(10), loaded.Billing.LatestInvoiceNumber)
}

func TestTxRunner_RollbackSiHayError(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)

	err := runner.Run(ctx, func(docs repository.DocumentRepository, settings repository.SettingsRepository) error {
		require.NoError(t, docs.Put(ctx, quote("Q000009", "2026-01-01T00:00:00Z", "X")))
		require.NoError(t, settings.AdvanceSequence(ctx, entity.KindQuote, 9))
		return domain.ErrInvalidInput
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = postgres.NewDocumentRepository(pool).Get(ctx, entity.KindQuote, "Q000009")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	seq, err := postgres.NewSettingsRepository(pool).LoadSequence(ctx)
	require.NoError(t, err)
	assert.Zero(t, seq.Quote)
}

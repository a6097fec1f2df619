package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo registro único de configuración (fila id = 1).
// Los contadores viven en columnas propias: Save no los toca.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Load devuelve la configuración; DefaultSettings si aún no se guardó ninguna.
func (r *SettingsRepo) Load(ctx context.Context) (*entity.Settings, error) {
	query := `SELECT body, latest_quote, latest_invoice FROM settings WHERE id = 1`
	var (
		body           []byte
		quote, invoice int64
	)
	err := r.q.QueryRow(ctx, query).Scan(&body, &quote, &invoice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	s := entity.DefaultSettings()
	if err := json.Unmarshal(body, s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	s.Billing.LatestQuoteNumber = quote
	s.Billing.LatestInvoiceNumber = invoice
	return s, nil
}

// Save guarda la configuración sin modificar los contadores.
func (r *SettingsRepo) Save(ctx context.Context, s *entity.Settings) error {
	if s == nil {
		return domain.ErrInvalidInput
	}
	cp := *s
	cp.Billing.LatestQuoteNumber = 0
	cp.Billing.LatestInvoiceNumber = 0
	body, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	query := `
		INSERT INTO settings (id, body) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, body); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// LoadSequence lee solo los contadores.
func (r *SettingsRepo) LoadSequence(ctx context.Context) (entity.SequenceState, error) {
	var st entity.SequenceState
	err := r.q.QueryRow(ctx, `SELECT latest_quote, latest_invoice FROM settings WHERE id = 1`).
		Scan(&st.Quote, &st.Invoice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.SequenceState{}, nil
		}
		return st, fmt.Errorf("get sequence: %w", err)
	}
	return st, nil
}

// AdvanceSequence fija el contador a GREATEST(actual, n) en una sola sentencia.
func (r *SettingsRepo) AdvanceSequence(ctx context.Context, kind entity.Kind, n int64) error {
	var query string
	switch kind {
	case entity.KindQuote:
		query = `
			INSERT INTO settings (id, latest_quote) VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE
			SET latest_quote = GREATEST(settings.latest_quote, EXCLUDED.latest_quote), updated_at = now()`
	case entity.KindInvoice:
		query = `
			INSERT INTO settings (id, latest_invoice) VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE
			SET latest_invoice = GREATEST(settings.latest_invoice, EXCLUDED.latest_invoice), updated_at = now()`
	default:
		return fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, kind)
	}
	if _, err := r.q.Exec(ctx, query, n); err != nil {
		return fmt.Errorf("advance sequence: %w", err)
	}
	return nil
}

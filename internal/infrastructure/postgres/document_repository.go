package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre la tabla documents (usable con pool o tx).
type DocumentRepo struct {
	q   Querier
	now func() time.Time
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q, now: time.Now}
}

// Get obtiene un documento por tipo e id, en cualquier año.
func (r *DocumentRepo) Get(ctx context.Context, kind entity.Kind, id string) (*entity.Document, error) {
	query := `SELECT body FROM documents WHERE kind = $1 AND id = $2`
	var body []byte
	err := r.q.QueryRow(ctx, query, string(kind), id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return decode(body)
}

// List lista documentos filtrados, más recientes primero.
// La búsqueda no distingue mayúsculas y cubre numero, nombre de cliente y empresa.
func (r *DocumentRepo) List(ctx context.Context, kind entity.Kind, f repository.DocumentFilter) ([]*entity.Document, error) {
	query := `
		SELECT body FROM documents
		WHERE kind = $1
		  AND ($2 = 0 OR year = $2)
		  AND ($3 = '' OR status = $3)
		  AND ($4 = ''
		       OR strpos(lower(numero), lower($4)) > 0
		       OR strpos(lower(customer_name), lower($4)) > 0
		       OR strpos(lower(company_name), lower($4)) > 0)
		ORDER BY created_at DESC NULLS LAST, id DESC`
	rows, err := r.q.Query(ctx, query, string(kind), f.Year, f.Status, f.Search)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Document, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decode(body)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

// Put inserta o reemplaza el documento (último escritor gana).
func (r *DocumentRepo) Put(ctx context.Context, doc *entity.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	query := `
		INSERT INTO documents (kind, id, numero, year, status, customer_name, company_name,
		                       total_ttc, created_at, edited_at, body)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (kind, id) DO UPDATE SET
			numero        = EXCLUDED.numero,
			year          = EXCLUDED.year,
			status        = EXCLUDED.status,
			customer_name = EXCLUDED.customer_name,
			company_name  = EXCLUDED.company_name,
			total_ttc     = EXCLUDED.total_ttc,
			created_at    = EXCLUDED.created_at,
			edited_at     = EXCLUDED.edited_at,
			body          = EXCLUDED.body`
	_, err = r.q.Exec(ctx, query,
		string(doc.Type), doc.ID, doc.Numero, doc.Year(r.now()), doc.Status,
		doc.Customer.CustomerName, doc.Customer.CompanyName, doc.Totals.TotalTTC,
		timestamp(doc.CreatedAt), timestamp(doc.EditedAt), body,
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Delete elimina el documento; domain.ErrNotFound si no existe.
func (r *DocumentRepo) Delete(ctx context.Context, kind entity.Kind, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM documents WHERE kind = $1 AND id = $2`, string(kind), id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func decode(body []byte) (*entity.Document, error) {
	var doc entity.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// timestamp convierte un RFC 3339 en *time.Time; nil (NULL) si está vacío o es inválido.
func timestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

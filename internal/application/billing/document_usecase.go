package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
	"github.com/Toutiscope/Facturation/internal/domain/validation"
)

// DocumentUseCase ciclo de vida de presupuestos y facturas:
// validar → guardar → confirmar número; además lectura, listado y borrado.
type DocumentUseCase struct {
	docs      repository.DocumentRepository
	sequencer *Sequencer
	metrics   Recorder
	log       zerolog.Logger
	now       func() time.Time
}

// NewDocumentUseCase construye el caso de uso inyectando sus dependencias.
func NewDocumentUseCase(
	docs repository.DocumentRepository,
	sequencer *Sequencer,
	metrics Recorder,
	log zerolog.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		docs:      docs,
		sequencer: sequencer,
		metrics:   recorderOrNoop(metrics),
		log:       log,
		now:       time.Now,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *DocumentUseCase) WithClock(now func() time.Time) *DocumentUseCase {
	uc.now = now
	return uc
}

// Validate valida el JSON sin persistir nada.
func (uc *DocumentUseCase) Validate(kind entity.Kind, raw []byte) validation.Result {
	res := validation.Validate(kind, raw)
	uc.observe(kind, res)
	return res
}

// Save valida el JSON crudo y, si es válido, lo guarda y confirma su número.
// Un documento inválido devuelve *validation.Error (errors.Is domain.ErrInvalidInput).
func (uc *DocumentUseCase) Save(ctx context.Context, kind entity.Kind, raw []byte) (*entity.Document, error) {
	res := uc.Validate(kind, raw)
	if !res.Valid() {
		return nil, res.Err()
	}
	var doc entity.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return uc.persist(ctx, kind, &doc)
}

// SaveDocument igual que Save para un documento ya decodificado.
func (uc *DocumentUseCase) SaveDocument(ctx context.Context, kind entity.Kind, doc *entity.Document) (*entity.Document, error) {
	res := validation.ValidateDocument(kind, doc)
	uc.observe(kind, res)
	if !res.Valid() {
		return nil, res.Err()
	}
	cp := *doc
	return uc.persist(ctx, kind, &cp)
}

func (uc *DocumentUseCase) persist(ctx context.Context, kind entity.Kind, doc *entity.Document) (*entity.Document, error) {
	// ── 1. Identidad: id = numero ─────────────────────────────────────────────
	if doc.ID == "" {
		doc.ID = doc.Numero
	}
	if doc.ID != doc.Numero {
		return nil, fmt.Errorf("%w: id %q distinto del número %q", domain.ErrInvalidInput, doc.ID, doc.Numero)
	}

	// ── 2. Primer guardado vs. edición ────────────────────────────────────────
	existing, err := uc.docs.Get(ctx, kind, doc.ID)
	switch {
	case err == nil:
		if doc.CreatedAt == "" {
			// Documento nuevo que reutiliza un número ya emitido.
			return nil, fmt.Errorf("%w: el número %s ya está en uso", domain.ErrDuplicate, doc.Numero)
		}
		doc.CreatedAt = existing.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		if doc.CreatedAt == "" {
			doc.CreatedAt = uc.now().UTC().Format(time.RFC3339)
		}
	default:
		uc.log.Error().Err(err).Str("kind", string(kind)).Str("id", doc.ID).Msg("consultar documento")
		return nil, fmt.Errorf("consultar documento: %w", err)
	}
	doc.EditedAt = uc.now().UTC().Format(time.RFC3339)

	// ── 3. Persistir y confirmar número ───────────────────────────────────────
	if err := uc.docs.Put(ctx, doc); err != nil {
		uc.log.Error().Err(err).Str("kind", string(kind)).Str("id", doc.ID).Msg("guardar documento")
		return nil, fmt.Errorf("guardar documento: %w", err)
	}
	if err := uc.sequencer.Commit(ctx, kind, doc.Numero); err != nil {
		return nil, err
	}

	uc.metrics.DocumentSaved(kind)
	uc.log.Info().Str("kind", string(kind)).Str("numero", doc.Numero).Msg("documento guardado")
	return doc, nil
}

// Get devuelve el documento o domain.ErrNotFound.
func (uc *DocumentUseCase) Get(ctx context.Context, kind entity.Kind, id string) (*entity.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	return uc.docs.Get(ctx, kind, id)
}

// List lista documentos por año, estado y texto libre, más recientes primero.
func (uc *DocumentUseCase) List(ctx context.Context, kind entity.Kind, filter repository.DocumentFilter) ([]*entity.Document, error) {
	if filter.Status != "" && !contains(kind.Statuses(), filter.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, filter.Status)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return uc.docs.List(ctx, kind, filter)
}

// Delete elimina el documento; no reutiliza su número.
func (uc *DocumentUseCase) Delete(ctx context.Context, kind entity.Kind, id string) error {
	if err := uc.docs.Delete(ctx, kind, id); err != nil {
		return err
	}
	uc.log.Info().Str("kind", string(kind)).Str("id", id).Msg("documento eliminado")
	return nil
}

// NextNumber número que recibiría el próximo documento del tipo.
func (uc *DocumentUseCase) NextNumber(ctx context.Context, kind entity.Kind) (string, error) {
	return uc.sequencer.PeekNext(ctx, kind)
}

func (uc *DocumentUseCase) observe(kind entity.Kind, res validation.Result) {
	uc.metrics.ValidationCompleted(kind, res.Valid())
	if !res.Valid() {
		uc.log.Warn().Str("kind", string(kind)).Int("errors", len(res.Errors)).Msg("documento inválido")
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

package repository

import (
	"context"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// DocumentFilter criterios de listado. Campos vacíos = sin filtro (Year 0 = todos los años).
type DocumentFilter struct {
	Year   int
	Status string
	Search string // búsqueda sin distinguir mayúsculas en numero, customerName y companyName
}

// DocumentRepository define el puerto de persistencia de presupuestos y facturas.
// Get y Delete devuelven domain.ErrNotFound cuando el documento no existe.
type DocumentRepository interface {
	Get(ctx context.Context, kind entity.Kind, id string) (*entity.Document, error)
	// List devuelve los documentos ordenados por createdAt descendente.
	List(ctx context.Context, kind entity.Kind, filter DocumentFilter) ([]*entity.Document, error)
	// Put crea o reemplaza el documento (último escritor gana).
	Put(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, kind entity.Kind, id string) error
}

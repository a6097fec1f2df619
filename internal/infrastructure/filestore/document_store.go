package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentStore)(nil)

// DocumentStore guarda cada documento en <dir>/<tipo en plural>/<año>/<id>.json.
// El año es el de createdAt.
type DocumentStore struct {
	dir string
	mu  sync.RWMutex
	now func() time.Time
	log zerolog.Logger
}

// NewDocumentStore construye el almacén sobre dir (se crea al primer guardado).
func NewDocumentStore(dir string, log zerolog.Logger) *DocumentStore {
	return &DocumentStore{dir: dir, now: time.Now, log: log}
}

// Get busca el documento en todos los años.
func (s *DocumentStore) Get(ctx context.Context, kind entity.Kind, id string) (*entity.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.locate(kind, id)
	if err != nil {
		return nil, err
	}
	var doc entity.Document
	if err := readJSON(path, &doc); err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// List lee los documentos del tipo (de un año o de todos), filtra y ordena por createdAt descendente.
// Los archivos ilegibles se omiten con un aviso.
func (s *DocumentStore) List(ctx context.Context, kind entity.Kind, f repository.DocumentFilter) ([]*entity.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	years, err := s.years(kind)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(f.Search))

	out := make([]*entity.Document, 0)
	for _, y := range years {
		if f.Year != 0 && y != f.Year {
			continue
		}
		dir := filepath.Join(s.kindDir(kind), strconv.Itoa(y))
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
				continue
			}
			var doc entity.Document
			if err := readJSON(filepath.Join(dir, e.Name()), &doc); err != nil {
				s.log.Warn().Err(err).Str("file", e.Name()).Msg("documento ilegible omitido")
				continue
			}
			if f.Status != "" && doc.Status != f.Status {
				continue
			}
			if search != "" && !matches(fold, search, &doc) {
				continue
			}
			out = append(out, &doc)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := out[i].CreatedTime()
		tj, _ := out[j].CreatedTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Put escribe el documento. Si antes vivía en la carpeta de otro año, se elimina la copia anterior.
func (s *DocumentStore) Put(ctx context.Context, doc *entity.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil || !doc.Type.Valid() || !validID(doc.ID) {
		return fmt.Errorf("%w: documento sin tipo o id válido", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target := filepath.Join(s.kindDir(doc.Type), strconv.Itoa(doc.Year(s.now())), doc.ID+".json")
	previous, err := s.locate(doc.Type, doc.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err := writeJSON(target, doc); err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	if previous != "" && previous != target {
		if err := os.Remove(previous); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove previous copy: %w", err)
		}
	}
	return nil
}

// Delete elimina el documento; domain.ErrNotFound si no existe.
func (s *DocumentStore) Delete(ctx context.Context, kind entity.Kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.locate(kind, id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *DocumentStore) kindDir(kind entity.Kind) string {
	return filepath.Join(s.dir, kind.Plural())
}

// years devuelve las carpetas de año existentes para el tipo, en orden ascendente.
func (s *DocumentStore) years(kind entity.Kind) ([]int, error) {
	entries, err := os.ReadDir(s.kindDir(kind))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", kind.Plural(), err)
	}
	var years []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if y, err := strconv.Atoi(e.Name()); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years, nil
}

// locate devuelve la ruta del documento; el llamador debe tener el lock.
func (s *DocumentStore) locate(kind entity.Kind, id string) (string, error) {
	if !kind.Valid() || !validID(id) {
		return "", domain.ErrNotFound
	}
	years, err := s.years(kind)
	if err != nil {
		return "", err
	}
	for i := len(years) - 1; i >= 0; i-- {
		path := filepath.Join(s.kindDir(kind), strconv.Itoa(years[i]), id+".json")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", domain.ErrNotFound
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func matches(fold cases.Caser, search string, d *entity.Document) bool {
	for _, field := range []string{d.Numero, d.Customer.CustomerName, d.Customer.CompanyName} {
		if strings.Contains(fold.String(field), search) {
			return true
		}
	}
	return false
}

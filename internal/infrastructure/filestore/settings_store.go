package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

// SettingsFile nombre del registro de configuración dentro del directorio de datos.
const SettingsFile = "config.json"

var _ repository.SettingsRepository = (*SettingsStore)(nil)

// SettingsStore guarda la configuración en <dir>/config.json.
// Los contadores viven en el mismo archivo; Save los preserva y solo AdvanceSequence los mueve.
type SettingsStore struct {
	path string
	mu   sync.Mutex
}

// NewSettingsStore construye el almacén sobre dir.
func NewSettingsStore(dir string) *SettingsStore {
	return &SettingsStore{path: filepath.Join(dir, SettingsFile)}
}

// Path ruta del archivo de configuración (la usa el watcher).
func (s *SettingsStore) Path() string { return s.path }

// Load lee el registro; DefaultSettings si el archivo no existe.
func (s *SettingsStore) Load(ctx context.Context) (*entity.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save reemplaza el registro conservando los contadores guardados.
func (s *SettingsStore) Save(ctx context.Context, settings *entity.Settings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	next := *settings
	next.Billing.LatestQuoteNumber = current.Billing.LatestQuoteNumber
	next.Billing.LatestInvoiceNumber = current.Billing.LatestInvoiceNumber
	if err := writeJSON(s.path, &next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// LoadSequence lee solo los contadores.
func (s *SettingsStore) LoadSequence(ctx context.Context) (entity.SequenceState, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return entity.SequenceState{}, err
	}
	return settings.Sequence(), nil
}

// AdvanceSequence fija el contador a max(actual, n) bajo el lock del almacén.
func (s *SettingsStore) AdvanceSequence(ctx context.Context, kind entity.Kind, n int64) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, kind)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	if n <= current.Sequence().Counter(kind) {
		return nil
	}
	current.SetCounter(kind, n)
	if err := writeJSON(s.path, current); err != nil {
		return fmt.Errorf("advance sequence: %w", err)
	}
	return nil
}

func (s *SettingsStore) read() (*entity.Settings, error) {
	settings := entity.DefaultSettings()
	if err := readJSON(s.path, settings); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

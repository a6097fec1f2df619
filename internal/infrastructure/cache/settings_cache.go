package cache

import (
	"context"
	"sync"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsCache)(nil)

// SettingsCache decora un SettingsRepository guardando en memoria el último Load.
// Toda escritura lo invalida; Invalidate permite hacerlo desde fuera (watcher de archivos).
// LoadSequence nunca se sirve desde la caché.
type SettingsCache struct {
	next repository.SettingsRepository

	mu     sync.RWMutex
	cached *entity.Settings
	gen    uint64 // sube con cada Invalidate
}

// NewSettingsCache envuelve next.
func NewSettingsCache(next repository.SettingsRepository) *SettingsCache {
	return &SettingsCache{next: next}
}

// Load devuelve una copia del valor en caché o lo lee del repositorio subyacente.
// Una lectura que se cruza con una invalidación no se guarda.
func (c *SettingsCache) Load(ctx context.Context) (*entity.Settings, error) {
	c.mu.RLock()
	cached, gen := c.cached, c.gen
	c.mu.RUnlock()
	if cached != nil {
		return clone(cached), nil
	}

	s, err := c.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.gen == gen {
		c.cached = clone(s)
	}
	c.mu.Unlock()
	return s, nil
}

func (c *SettingsCache) Save(ctx context.Context, s *entity.Settings) error {
	defer c.Invalidate()
	return c.next.Save(ctx, s)
}

func (c *SettingsCache) LoadSequence(ctx context.Context) (entity.SequenceState, error) {
	return c.next.LoadSequence(ctx)
}

func (c *SettingsCache) AdvanceSequence(ctx context.Context, kind entity.Kind, n int64) error {
	defer c.Invalidate()
	return c.next.AdvanceSequence(ctx, kind, n)
}

// Invalidate descarta el valor en caché.
func (c *SettingsCache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.gen++
	c.mu.Unlock()
}

// Settings solo contiene valores; la copia superficial basta.
func clone(s *entity.Settings) *entity.Settings {
	cp := *s
	return &cp
}

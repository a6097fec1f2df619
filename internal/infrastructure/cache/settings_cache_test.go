package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/infrastructure/cache"
)

type mockSettingsRepo struct{ mock.Mock }

func (m *mockSettingsRepo) Load(ctx context.Context) (*entity.Settings, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*entity.Settings)
	return s, args.Error(1)
}

func (m *mockSettingsRepo) Save(ctx context.Context, s *entity.Settings) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSettingsRepo) LoadSequence(ctx context.Context) (entity.SequenceState, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.SequenceState), args.Error(1)
}

func (m *mockSettingsRepo) AdvanceSequence(ctx context.Context, kind entity.Kind, n int64) error {
	return m.Called(ctx, kind, n).Error(0)
}

func stored() *entity.Settings {
	s := entity.DefaultSettings()
	s.Company.CompanyName = "Atelier Dupont"
	return s
}

func TestSettingsCache_LeeUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	repo := &mockSettingsRepo{}
	repo.On("Load", ctx).Return(stored(), nil).Once()
	c := cache.NewSettingsCache(repo)

	first, err := c.Load(ctx)
	require.NoError(t, err)
	second, err := c.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Atelier Dupont", second.Company.CompanyName)
	repo.AssertNumberOfCalls(t, "Load", 1)

	// Las copias devueltas son independientes de la caché.
	first.Company.CompanyName = "modificado"
	third, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Atelier Dupont", third.Company.CompanyName)
}

func TestSettingsCache_EscriturasInvalidan(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		write func(c *cache.SettingsCache, repo *mockSettingsRepo) error
	}{
		{"save", func(c *cache.SettingsCache, repo *mockSettingsRepo) error {
			s := stored()
			repo.On("Save", ctx, s).Return(nil)
			return c.Save(ctx, s)
		}},
		{"advance", func(c *cache.SettingsCache, repo *mockSettingsRepo) error {
			repo.On("AdvanceSequence", ctx, entity.KindQuote, int64(3)).Return(nil)
			return c.AdvanceSequence(ctx, entity.KindQuote, 3)
		}},
		{"invalidate", func(c *cache.SettingsCache, _ *mockSettingsRepo) error {
			c.Invalidate()
			return nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSettingsRepo{}
			repo.On("Load", ctx).Return(stored(), nil)
			c := cache.NewSettingsCache(repo)

			_, err := c.Load(ctx)
			require.NoError(t, err)
			require.NoError(t, tt.write(c, repo))
			_, err = c.Load(ctx)
			require.NoError(t, err)

			repo.AssertNumberOfCalls(t, "Load", 2)
		})
	}
}

func TestSettingsCache_SecuenciaSinCache(t *testing.T) {
	ctx := context.Background()
	repo := &mockSettingsRepo{}
	repo.On("LoadSequence", ctx).Return(entity.SequenceState{Quote: 4}, nil)
	c := cache.NewSettingsCache(repo)

	for range 2 {
		st, err := c.LoadSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), st.Quote)
	}
	repo.AssertNumberOfCalls(t, "LoadSequence", 2)
}

func TestSettingsCache_LecturaCruzadaConInvalidacionNoSeGuarda(t *testing.T) {
	ctx := context.Background()
	stale := stored()
	fresh := stored()
	fresh.Company.CompanyName = "Atelier Dupont & Fils"

	started := make(chan struct{})
	release := make(chan struct{})
	repo := &mockSettingsRepo{}
	repo.On("Load", ctx).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(stale, nil).Once()
	repo.On("Load", ctx).Return(fresh, nil)
	c := cache.NewSettingsCache(repo)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s, err := c.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "Atelier Dupont", s.Company.CompanyName)
	}()

	// Una escritura invalida mientras la lectura anterior sigue en vuelo.
	<-started
	c.Invalidate()
	close(release)
	<-done

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Atelier Dupont & Fils", got.Company.CompanyName)
	got, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Atelier Dupont & Fils", got.Company.CompanyName)
	repo.AssertNumberOfCalls(t, "Load", 2)
}

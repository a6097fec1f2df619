package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoreFile, cfg.Store.Driver)
	assert.Equal(t, "./data", cfg.Store.DataDir)
	assert.True(t, cfg.Store.Watch)
	assert.Equal(t, 50.0, cfg.Layout.PageMargin)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.JWT.Secret)
}

func TestLoad_Entorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_PASSWORD", "p@ss:word")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PAGE_MARGIN", "36")
	t.Setenv("STORE_WATCH", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorePostgres, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 36.0, cfg.Layout.PageMargin)
	assert.False(t, cfg.Store.Watch)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Contains(t, cfg.DB.ConnectionString(), "p%40ss%3Aword")
}

func TestLoad_DatabaseURLTienePrioridad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/fact?sslmode=require")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/fact?sslmode=require", cfg.DB.ConnectionString())
}

func TestLoad_Invalido(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("margen", func(t *testing.T) {
		t.Setenv("PAGE_MARGIN", "400")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/internal/bootstrap"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/interfaces/cli"
	"github.com/Toutiscope/Facturation/pkg/config"
	"github.com/Toutiscope/Facturation/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const validQuote = `{
  "type": "quote",
  "numero": "Q000001",
  "date": "2026-03-02",
  "validityDate": "2026-04-01",
  "status": "draft",
  "customer": {
    "customerName": "Jeanne Martin",
    "companyName": "Martin Conseil",
    "address": "12 rue des Lilas",
    "postalCode": "69003",
    "city": "Lyon",
    "email": "jeanne@example.fr",
    "clientType": "individual"
  },
  "services": [
    {"id": 1, "description": "Audit du site", "quantity": 2, "unit": "day", "unitPriceHT": 100, "totalHT": 200}
  ],
  "totals": {"totalHT": 200, "VAT": 0, "VATRate": 0, "totalTTC": 200}
}`

func testConfig(dir string) *config.Config {
	return &config.Config{
		App:    config.AppConfig{Env: "test", Name: "factctl"},
		Log:    config.LogConfig{Level: "error"},
		Store:  config.StoreConfig{Driver: config.StoreFile, DataDir: dir},
		JWT:    config.JWTConfig{Secret: "cli-secret", Expiration: 60, Issuer: "facturation"},
		Layout: config.LayoutConfig{PageMargin: 50},
	}
}

// run ejecuta factctl y devuelve stdout.
func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCmd(func() (*config.Config, error) {
		cp := *cfg
		return &cp, nil
	})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// seed guarda el presupuesto de prueba con el mismo almacenamiento que usa la CLI.
func seed(t *testing.T, cfg *config.Config, outputFolder string) {
	t.Helper()
	ctx := context.Background()
	c, err := bootstrap.New(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Documents.Save(ctx, entity.KindQuote, []byte(validQuote))
	require.NoError(t, err)
	if outputFolder != "" {
		s := entity.DefaultSettings()
		s.Billing.OutputFolder = outputFolder
		_, err = c.Settings.Update(ctx, s)
		require.NoError(t, err)
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ──────────────────────────────────────────────────────────────────────────────
// validate
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	cfg := testConfig(t.TempDir())

	out, err := run(t, cfg, "validate", writeTemp(t, "q.json", validQuote), "--kind", "quote")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)

	broken := strings.Replace(validQuote, `"totalTTC": 200`, `"totalTTC": 210`, 1)
	out, err = run(t, cfg, "validate", writeTemp(t, "q.json", broken), "-k", "devis")
	require.Error(t, err)
	var report struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Path string `json:"path"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "totals.totalTTC", report.Errors[0].Path)
}

func TestValidate_RequiereTipo(t *testing.T) {
	_, err := run(t, testConfig(t.TempDir()), "validate", writeTemp(t, "q.json", validQuote))
	assert.Error(t, err)

	_, err = run(t, testConfig(t.TempDir()), "validate", writeTemp(t, "q.json", validQuote), "--kind", "receipt")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// next-number / render / register
// ──────────────────────────────────────────────────────────────────────────────

func TestNextNumber(t *testing.T) {
	cfg := testConfig(t.TempDir())

	out, err := run(t, cfg, "next-number", "--kind", "invoice")
	require.NoError(t, err)
	assert.Equal(t, "I000001", strings.TrimSpace(out))

	seed(t, cfg, "")
	out, err = run(t, cfg, "next-number", "--kind", "quote")
	require.NoError(t, err)
	assert.Equal(t, "Q000002", strings.TrimSpace(out))
}

func TestNextNumber_FlagDataDir(t *testing.T) {
	cfg := testConfig(t.TempDir())
	other := testConfig(t.TempDir())
	seed(t, other, "")

	out, err := run(t, cfg, "--data-dir", other.Store.DataDir, "next-number", "--kind", "quote")
	require.NoError(t, err)
	assert.Equal(t, "Q000002", strings.TrimSpace(out))
}

func TestRender(t *testing.T) {
	cfg := testConfig(t.TempDir())
	exports := t.TempDir()
	seed(t, cfg, exports)

	t.Run("carpeta de exportación", func(t *testing.T) {
		out, err := run(t, cfg, "render", "quote", "Q000001")
		require.NoError(t, err)
		want := filepath.Join(exports, "Q000001-jeanne-martin.pdf")
		assert.Equal(t, want, strings.TrimSpace(out))
		data, err := os.ReadFile(want)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	})

	t.Run("ruta explícita", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "sub", "devis.pdf")
		_, err := run(t, cfg, "render", "quote", "Q000001", "-o", target)
		require.NoError(t, err)
		assert.FileExists(t, target)
	})

	t.Run("inexistente", func(t *testing.T) {
		_, err := run(t, cfg, "render", "quote", "Q000099")
		assert.Error(t, err)
	})
}

func TestRegister(t *testing.T) {
	cfg := testConfig(t.TempDir())
	seed(t, cfg, "")

	target := filepath.Join(t.TempDir(), "registre.pdf")
	_, err := run(t, cfg, "register", "quote", "-o", target)
	require.NoError(t, err)
	assert.FileExists(t, target)
}

// ──────────────────────────────────────────────────────────────────────────────
// import / token
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_DirectorioVacio(t *testing.T) {
	cfg := testConfig(t.TempDir())

	out, err := run(t, cfg, "import", t.TempDir(), "--dry-run")
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, false, report["settings"])

	_, err = run(t, cfg, "import", filepath.Join(t.TempDir(), "no-existe"))
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	cfg := testConfig(t.TempDir())

	out, err := run(t, cfg, "token", "--subject", "poste-1", "--scope", "read")
	require.NoError(t, err)
	claims, err := jwt.Parse(cfg.JWT.Secret, cfg.JWT.Issuer, strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "poste-1", claims.Subject)
	assert.False(t, claims.CanWrite())

	_, err = run(t, cfg, "token", "--scope", "admin")
	assert.Error(t, err)

	open := testConfig(t.TempDir())
	open.JWT.Secret = ""
	_, err = run(t, open, "token")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

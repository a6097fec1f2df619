// Package cli expone los casos de uso de facturación como comandos cobra (factctl).
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Toutiscope/Facturation/internal/bootstrap"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/pkg/config"
	"github.com/Toutiscope/Facturation/pkg/logger"
)

// Loader carga la configuración de la aplicación.
type Loader func() (*config.Config, error)

// errInvalid la validación terminó con errores; el informe ya se imprimió.
var errInvalid = errors.New("documento inválido")

// runtime estado compartido por los subcomandos de una ejecución.
type runtime struct {
	load    Loader
	dataDir string

	cfg       *config.Config
	log       *logger.Logger
	container *bootstrap.Container
}

// NewRootCmd construye el árbol de comandos. La salida de datos va a stdout;
// los logs a stderr.
func NewRootCmd(load Loader) *cobra.Command {
	rt := &runtime{load: load}

	root := &cobra.Command{
		Use:           "factctl",
		Short:         "Presupuestos y facturas desde la línea de comandos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&rt.dataDir, "data-dir", "", "Directorio de datos (sobrescribe DATA_DIR)")

	root.AddCommand(
		newValidateCmd(rt),
		newNextNumberCmd(rt),
		newRenderCmd(rt),
		newRegisterCmd(rt),
		newImportCmd(rt),
		newTokenCmd(rt),
	)
	return root
}

// Execute ejecuta factctl con la configuración del entorno y devuelve el código de salida.
func Execute() int {
	root := NewRootCmd(config.Load)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return 1
	}
	return 0
}

func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := rt.load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if rt.dataDir != "" {
		cfg.Store.DataDir = rt.dataDir
	}
	// Un proceso corto no necesita vigilar config.json.
	cfg.Store.Watch = false
	rt.cfg = cfg
	rt.log = logger.NewWithWriter(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}, cmd.ErrOrStderr())
	return nil
}

// open conecta el almacenamiento; quien lo abre lo cierra con close.
func (rt *runtime) open(cmd *cobra.Command) (*bootstrap.Container, error) {
	if rt.container != nil {
		return rt.container, nil
	}
	c, err := bootstrap.New(cmd.Context(), rt.cfg, rt.log.Component("cli"))
	if err != nil {
		return nil, err
	}
	rt.container = c
	return c, nil
}

func (rt *runtime) close() {
	if rt.container != nil {
		rt.container.Close()
		rt.container = nil
	}
}

func parseKind(s string) (entity.Kind, error) {
	kind, err := entity.ParseKind(s)
	if err != nil {
		return "", fmt.Errorf("--kind: %w", err)
	}
	return kind, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

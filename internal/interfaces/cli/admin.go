package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Toutiscope/Facturation/internal/application/legacy"
	"github.com/Toutiscope/Facturation/pkg/jwt"
)

func newImportCmd(rt *runtime) *cobra.Command {
	var opts legacy.Options
	cmd := &cobra.Command{
		Use:   "import <legacy-dir>",
		Short: "Importar datos de la aplicación de escritorio anterior",
		Long: `Lee config.json, devis/<año>/*.json y factures/<año>/*.json, traduce los
valores antiguos, valida cada documento y lo guarda. Los documentos
inválidos o ya existentes se omiten y aparecen en el informe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.open(cmd)
			if err != nil {
				return err
			}
			defer rt.close()
			report, err := c.Import(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Reemplazar documentos existentes")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validar sin escribir nada")
	return cmd
}

func newTokenCmd(rt *runtime) *cobra.Command {
	var (
		subject string
		scope   string
		ttl     int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emitir un token de acceso para la API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if scope != jwt.ScopeRead && scope != jwt.ScopeWrite {
				return fmt.Errorf("--scope: %q no válido (read|write)", scope)
			}
			if ttl <= 0 {
				ttl = rt.cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(rt.cfg.JWT.Secret, subject, scope, rt.cfg.JWT.Issuer, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "desktop", "Sujeto del token")
	cmd.Flags().StringVar(&scope, "scope", jwt.ScopeWrite, "read | write")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "Minutos de validez (por defecto JWT_EXPIRATION)")
	return cmd
}

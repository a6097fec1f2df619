package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Toutiscope/Facturation/internal/application/dto"
	"github.com/Toutiscope/Facturation/internal/domain/validation"
)

func newValidateCmd(rt *runtime) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validar un documento JSON sin guardarlo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("leer %s: %w", args[0], err)
			}
			res := validation.Validate(k, raw)
			if err := printJSON(cmd.OutOrStdout(), dto.NewValidationResponse(res)); err != nil {
				return err
			}
			if !res.Valid() {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "quote | invoice")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newNextNumberCmd(rt *runtime) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "next-number",
		Short: "Mostrar el número que recibirá el próximo documento",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			c, err := rt.open(cmd)
			if err != nil {
				return err
			}
			defer rt.close()
			numero, err := c.Documents.NextNumber(cmd.Context(), k)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), numero)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "quote | invoice")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newRenderCmd(rt *runtime) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <kind> <id>",
		Short: "Generar el PDF de un documento",
		Long: `Genera el PDF del documento. Sin -o se escribe <numero>-<cliente>.pdf
en la carpeta de exportación configurada (billing.outputFolder), o en el
directorio actual si no hay ninguna.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(args[0])
			if err != nil {
				return err
			}
			c, err := rt.open(cmd)
			if err != nil {
				return err
			}
			defer rt.close()
			out, filename, err := c.PDF.ExportPDF(cmd.Context(), k, args[1])
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				folder, err := c.PDF.OutputFolder(cmd.Context())
				if err != nil {
					return err
				}
				path = filepath.Join(folder, filename)
			}
			if err := writeFile(path, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Ruta del PDF")
	return cmd
}

func newRegisterCmd(rt *runtime) *cobra.Command {
	var (
		year   int
		output string
	)
	cmd := &cobra.Command{
		Use:   "register <kind>",
		Short: "Generar el registro anual de documentos en PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(args[0])
			if err != nil {
				return err
			}
			c, err := rt.open(cmd)
			if err != nil {
				return err
			}
			defer rt.close()
			if year == 0 {
				year = time.Now().Year()
			}
			out, filename, err := c.PDF.ExportRegister(cmd.Context(), k, year)
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = filename
			}
			if err := writeFile(path, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Año (por defecto el actual)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Ruta del PDF")
	return cmd
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("crear %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	return nil
}

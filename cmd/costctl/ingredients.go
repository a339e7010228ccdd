package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/costeo/internal/logger"
	"github.com/Simplici0/costeo/internal/sheet"
)

// resolveFormat prefers an explicit --format over the file extension.
func resolveFormat(flag, path string) (sheet.Format, error) {
	if flag != "" {
		return sheet.ParseFormat(flag)
	}
	return sheet.FormatFromFilename(path)
}

func newImportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge a price list spreadsheet into the ingredient ledger",
		Long: `Import reads an .xlsx or .csv price list and merges it into the ledger.

Rows matching an existing ingredient by name (case-insensitive) update its
unit, prices and visibility. Unknown names are appended. Rows without a
name are skipped.`,
		Example: `  costctl import precios.xlsx
  costctl import export.txt --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			rows, err := sheet.Read(file, f)
			if err != nil {
				return err
			}
			merged, err := a.store.ImportIngredients(cmd.Context(), rows)
			if err != nil {
				return err
			}

			l := logger.WithComponent("import")
			l.Info().Str("file", args[0]).Int("rows", len(rows)).
				Int("updated", merged.Updated).Int("added", merged.Added).Msg("ingredients imported")
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows read, %d updated, %d added\n", len(rows), merged.Updated, merged.Added)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "File format: xlsx or csv (default: from extension)")
	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the whole ingredient ledger with a spreadsheet",
		Long: `Restore discards the current ledger and loads the spreadsheet in file order.

Use it to roll back to a file written by export. Unlike import, ingredients
missing from the file are removed and existing IDs are not kept, so product
recipes still match by name only.`,
		Example: `  costctl restore costes-backup.xlsx`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			rows, err := sheet.Read(file, f)
			if err != nil {
				return err
			}
			restored, err := a.store.ReplaceLedger(cmd.Context(), rows)
			if err != nil {
				return err
			}

			l := logger.WithComponent("restore")
			l.Info().Str("file", args[0]).Int("ingredients", len(restored)).Msg("ledger restored")
			fmt.Fprintf(cmd.OutOrStdout(), "ledger replaced with %d ingredients\n", len(restored))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "File format: xlsx or csv (default: from extension)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the ingredient ledger to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFormat(format, args[0])
			if err != nil {
				return err
			}
			l, err := a.store.Ledger(cmd.Context())
			if err != nil {
				return err
			}

			out, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			if err := sheet.Write(out, f, l); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d ingredients written to %s\n", len(l), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "File format: xlsx or csv (default: from extension)")
	return cmd
}

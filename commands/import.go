package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tea-techniques-api/repositories"
	"tea-techniques-api/services"
)

func importCmd() *cobra.Command {
	var (
		file   string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "import-techniques",
		Short: "Import a JSON technique catalog",
		Long: `Reads a catalog file (a JSON array of technique records, or an object
with a "techniques" array) and reconciles it with the database in one
transaction. Records are matched by name: existing techniques are
updated in place, new ones created. Re-running the same import is a
no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(true)
			if err != nil {
				return err
			}
			return runImport(cmd, store, file, strict)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "techniques.json", "Catalog file to import")
	cmd.Flags().BoolVar(&strict, "strict", false, "Abort and roll back everything on the first bad record")
	return cmd
}

func runImport(cmd *cobra.Command, store *repositories.Store, file string, strict bool) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	importService := services.NewImportService(store)
	summary, err := importService.Import(cmd.Context(), f, services.ImportOptions{
		Strict:   strict,
		Progress: cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	if len(summary.Errors) > 0 && !strict {
		fmt.Fprintf(cmd.OutOrStdout(), "%d record(s) were skipped; rerun with --strict to fail on errors\n",
			summary.Skipped)
	}
	return nil
}

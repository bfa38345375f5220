package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tea-techniques-api/config"
	"tea-techniques-api/repositories"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset-database",
		Short: "Drop and recreate every catalog table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmReset(cmd, force) {
				return nil
			}
			_, store, err := openStore(false)
			if err != nil {
				return err
			}
			return resetDatabase(store)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func resetAndImportCmd() *cobra.Command {
	var (
		file   string
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "reset-and-import",
		Short: "Reset the database and import a catalog in one step",
		Long: `Reset the database and import a catalog in one step.

Only JSON catalogs are supported; convert CSV exports to JSON with an
external tool before importing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" {
				return fmt.Errorf("unsupported catalog format %q (only json)", format)
			}
			if !confirmReset(cmd, force) {
				return nil
			}
			_, store, err := openStore(false)
			if err != nil {
				return err
			}
			if err := resetDatabase(store); err != nil {
				return err
			}
			return runImport(cmd, store, file, false)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "techniques.json", "Catalog file to import")
	cmd.Flags().StringVar(&format, "format", "json", "Catalog file format")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func resetDatabase(store *repositories.Store) error {
	if err := config.DropAll(store.DB); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return config.Migrate(store.DB)
}

func confirmReset(cmd *cobra.Command, force bool) bool {
	return confirm(cmd, force, "This will DELETE all catalog data. Continue? [y/N] ")
}

// confirm asks before mutating the schema unless --force was given.
func confirm(cmd *cobra.Command, force bool, prompt string) bool {
	if force {
		return true
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(cmd.OutOrStdout(), "aborted")
		return false
	}
	return true
}

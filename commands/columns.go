package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tea-techniques-api/models"
)

// Columns added to the schema after the first release. Older databases
// predate them; this command backfills without a full migration.
var missingColumns = []struct {
	model  interface{}
	column string
}{
	{&models.Technique{}, "applicable_models"},
	{&models.Technique{}, "complexity_rating"},
	{&models.Technique{}, "computational_cost_rating"},
}

func addMissingColumnsCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "add-missing-columns",
		Short: "Add schema columns missing from older databases",
		Long: `Checks the live schema for columns introduced after the first release
and adds any that are absent. Safe to run repeatedly; columns that
already exist are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm(cmd, force, "This will alter the live schema. Continue? [y/N] ") {
				return nil
			}
			_, store, err := openStore(false)
			if err != nil {
				return err
			}

			migrator := store.DB.Migrator()
			for _, mc := range missingColumns {
				if migrator.HasColumn(mc.model, mc.column) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: already present\n", mc.column)
					continue
				}
				if err := migrator.AddColumn(mc.model, mc.column); err != nil {
					return fmt.Errorf("add column %s: %w", mc.column, err)
				}
				log.Info().Str("column", mc.column).Msg("column added")
				fmt.Fprintf(cmd.OutOrStdout(), "%s: added\n", mc.column)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

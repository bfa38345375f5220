// Package commands wires the CLI surface of the catalog service:
// serving the API, importing catalogs, and database lifecycle tasks.
package commands

import (
	"github.com/spf13/cobra"

	"tea-techniques-api/config"
	"tea-techniques-api/repositories"

	"gorm.io/gorm"
)

const appName = "tea-techniques"

// Execute runs the root command.
func Execute() error {
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Catalog service for AI assurance techniques",
		Long: `tea-techniques manages a catalog of techniques for trustworthy and
ethical AI assurance: a relational store, a bulk JSON importer, and a
filterable REST API with session authentication.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare invocation serves.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe("")
		},
	}

	cmd.AddCommand(
		serveCmd(),
		importCmd(),
		resetCmd(),
		resetAndImportCmd(),
		addMissingColumnsCmd(),
		createAdminCmd(),
	)
	return cmd
}

// openStore loads configuration, opens the database and binds the
// repository layer. Every subcommand starts here.
func openStore(migrate bool) (*config.Config, *repositories.Store, error) {
	cfg := config.Load()
	config.SetupLogger(cfg)

	var db *gorm.DB
	var err error
	if migrate {
		db, err = config.InitDB(cfg)
	} else {
		db, err = config.OpenDB(cfg)
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, repositories.NewStore(db), nil
}

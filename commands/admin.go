package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tea-techniques-api/services"
)

func createAdminCmd() *cobra.Command {
	var (
		username string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create or update a staff user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("a non-empty --password is required")
			}

			cfg, store, err := openStore(true)
			if err != nil {
				return err
			}

			authService := services.NewAuthService(store, cfg.SessionTTL)
			user, err := authService.EnsureAdmin(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "staff user %q ready (id=%d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "admin", "Username for the staff account")
	cmd.Flags().StringVar(&email, "email", "", "Email for the staff account")
	cmd.Flags().StringVar(&password, "password", "", "Password for the staff account")
	return cmd
}

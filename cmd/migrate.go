package main

import (
	"log"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply catalog and credential store migrations, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(opts.ConfigFile)
			if err != nil {
				return err
			}

			products, err := openCatalog(cfg)
			if err != nil {
				return err
			}
			products.Close()
			log.Printf("catalog migrations applied to %s", cfg.CatalogDBPath)

			_, closeCreds, err := openCredentialRepository(ctx, cfg)
			if err != nil {
				return err
			}
			closeCreds()
			log.Printf("%s credential store is up to date", cfg.CredentialStore)
			return nil
		},
	}
}

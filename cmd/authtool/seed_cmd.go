package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cleanops/erp-sdk/modules/core/infrastructure/persistence"
	"github.com/cleanops/erp-sdk/modules/core/seed"
	"github.com/cleanops/erp-sdk/pkg/composables"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the baseline policy catalog (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			catalog := persistence.NewCatalogRepository()

			return composables.InTx(ctx, func(txCtx context.Context) error {
				return seed.Policies(txCtx, catalog)
			})
		},
	}
}

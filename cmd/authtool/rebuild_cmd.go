package main

import (
	"github.com/spf13/cobra"

	"github.com/cleanops/erp-sdk/modules/org/infrastructure/persistence"
	"github.com/cleanops/erp-sdk/modules/org/services"
	"github.com/cleanops/erp-sdk/pkg/composables"
	"github.com/cleanops/erp-sdk/pkg/configuration"
	"github.com/cleanops/erp-sdk/pkg/eventbus"
)

func newRebuildPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-paths",
		Short: "Recompute every department materialized path from parent links",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			conf := configuration.Use()
			logger := conf.Logger()

			ctx := composables.WithPool(cmd.Context(), pool)
			hierarchy := services.NewHierarchyService(
				persistence.NewDepartmentRepository(),
				eventbus.NewEventPublisher(logger),
				logger,
			)
			return hierarchy.RebuildAllPaths(ctx)
		},
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/cleanops/erp-sdk/modules/core/infrastructure/persistence"
	"github.com/cleanops/erp-sdk/pkg/composables"
)

type policyRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Resource  string `json:"resource"`
	Action    string `json:"action"`
	ScopeType string `json:"scope_type"`
	Config    string `json:"scope_config,omitempty"`
	Priority  int    `json:"priority"`
	Active    bool   `json:"is_active"`
}

func newPoliciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Inspect the policy catalog",
	}
	cmd.AddCommand(newPoliciesListCmd())
	return cmd
}

func newPoliciesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every catalog policy as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			catalog := persistence.NewCatalogRepository()

			policies, err := catalog.Policies(ctx)
			if err != nil {
				return err
			}

			rows := make([]policyRow, 0, len(policies))
			for _, p := range policies {
				rows = append(rows, policyRow{
					ID:        p.ID.String(),
					Name:      p.Name,
					Resource:  p.Resource,
					Action:    p.Action,
					ScopeType: p.ScopeType.String(),
					Config:    p.ScopeConfig,
					Priority:  p.Priority,
					Active:    p.IsActive,
				})
			}
			return writeJSON(rows)
		},
	}
}

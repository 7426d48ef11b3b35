package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "authtool",
		Short:         "Policy catalog and department hierarchy maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newPoliciesCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newRebuildPathsCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

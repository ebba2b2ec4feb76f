package cmd

import (
	"fmt"

	"reserveit/internal/usecase"

	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Release slots flagged as booked that no booking references",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			released, err := usecase.NewReconcileService(rt.repos.Slot, rt.logger).ReconcileOrphans(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "released %d orphaned slots\n", released)
			return nil
		},
	}
}

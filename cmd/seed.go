package cmd

import (
	"fmt"

	"reserveit/internal/usecase"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default resource catalog if it is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			resources := usecase.NewResourceService(rt.repos.Resource, rt.logger)
			inserted, err := resources.SeedDefaults(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d resources\n", inserted)
			return nil
		},
	}
}

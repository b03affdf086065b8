package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/reqkit/auth"
	"github.com/kbukum/reqkit/redis"
)

func newStatusCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configured components and their health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context(), g)
			if err != nil {
				return err
			}
			if rt.app.Cfg.Auth.Store == auth.StoreRedis {
				if err := rt.app.RegisterComponent(redis.NewComponent(rt.app.Cfg.Auth.Redis, nil)); err != nil {
					return err
				}
			}
			return rt.run(cmd.Context(), func(ctx context.Context) error {
				return rt.app.WriteSummary(ctx, cmd.OutOrStdout())
			})
		},
	}
}

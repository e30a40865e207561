package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/reportingcloud/pkg/propertymap"
)

func newAccountCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account information",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "settings",
		Short: "Show account quota and validity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				settings, err := s.client.GetAccountSettings(ctx)
				if err != nil {
					return err
				}
				m := propertymap.AccountSettingsMap
				return s.print.record(m.WireKeys(), m.ToWire(settings))
			})
		},
	})
	return cmd
}

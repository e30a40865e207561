package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/reportingcloud/pkg/propertymap"
)

func newAPIKeysCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apikeys",
		Aliases: []string{"apikey", "keys"},
		Short:   "Manage account API keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List API keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return root.run(cmd, func(ctx context.Context, s *session) error {
					keys, err := s.client.GetAPIKeys(ctx)
					if err != nil {
						return err
					}
					m := propertymap.APIKeyMap
					records := make([]map[string]any, 0, len(keys))
					for _, k := range keys {
						records = append(records, m.ToWire(k))
					}
					return s.print.records(m.WireKeys(), records)
				})
			},
		},
		&cobra.Command{
			Use:   "create",
			Short: "Create a new API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return root.run(cmd, func(ctx context.Context, s *session) error {
					key, err := s.client.CreateAPIKey(ctx)
					if err != nil {
						return err
					}
					return s.print.value(key)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <key>",
			Short: "Delete an API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return root.run(cmd, func(ctx context.Context, s *session) error {
					ok, err := s.client.DeleteAPIKey(ctx, args[0])
					if err != nil {
						return err
					}
					if !ok {
						return errors.New("api key not found")
					}
					return s.print.value(ok)
				})
			},
		},
	)
	return cmd
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/reportingcloud/internal/tui"
	"github.com/r9s-ai/reportingcloud/internal/version"
	"github.com/r9s-ai/reportingcloud/pkg/validator"
)

func newFontsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List fonts available for rendering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				fonts, err := s.client.GetFontList(ctx)
				if err != nil {
					return err
				}
				return s.print.list("font", fonts)
			})
		},
	}
}

// cultures needs no client; it prints the static list merge settings accept.
func newCulturesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cultures",
		Short: "List cultures accepted by merge settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newPrinter(cmd.OutOrStdout(), root.output).list("culture", validator.Cultures())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get())
			return err
		},
	}
}

func newTUICmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse stored templates interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				return tui.Run(ctx, s.client, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}

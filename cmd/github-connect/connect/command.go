package connect

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/seedora/github-connect/internal/business"
	"github.com/seedora/github-connect/internal/cmdutils"
	"github.com/seedora/github-connect/internal/config"
)

func Cmd(buildInfo string) *cobra.Command {
	var output string

	cmd := cmdutils.CobraCommand(
		"connect",
		"Connect a GitHub account",
		"Connect runs the GitHub OAuth popup handshake and prints the resulting access token",
		buildInfo,
		cmdutils.RunAsJob,
		func(ctx context.Context, cfg *config.Config) error {
			format, err := business.ParseOutputFormat(output)
			if err != nil {
				return err
			}

			return business.ConnectMain(ctx, cfg, format)
		},
	)

	cmd.Flags().StringVarP(&output, "output", "o", string(business.OutputText), "output format, text or yaml")

	return cmd
}

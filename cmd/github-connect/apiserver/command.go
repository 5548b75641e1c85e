package apiserver

import (
	"github.com/spf13/cobra"

	"github.com/seedora/github-connect/internal/business"
	"github.com/seedora/github-connect/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"GitHub Connect API server",
		"GitHub Connect API server exchanges GitHub authorization codes for access tokens",
		buildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c9s/smcchart/pkg/version"
)

func init() {
	RootCmd.AddCommand(VersionCmd)
}

var VersionCmd = &cobra.Command{
	Use:          "version",
	Short:        "show version name",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s (%s)\n", version.Version, version.GitRef)
	},
}

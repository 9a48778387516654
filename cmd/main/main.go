package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pysugar/hello/cmd/base"
	_ "github.com/pysugar/hello/cmd/subcmds"
)

var (
	versionCmd = &cobra.Command{
		Use:   `version`,
		Short: "Show current version of hello",
		Long:  `Version prints the build information for hello executables`,
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range base.VersionStatement() {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
		},
	}
)

func main() {
	base.AddSubCommands(versionCmd)

	base.Run()
}

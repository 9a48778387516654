package base

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hello",
	Short: "greeting server",
	Long: `
A tiny HTTP server answering GET / with a greeting.

Running hello without a sub-command is the same as: hello serve --port=3000
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func AddSubCommands(cmds ...*cobra.Command) {
	rootCmd.AddCommand(cmds...)
}

// SetDefaultRun is what the root command does when no sub-command is given.
func SetDefaultRun(run func(cmd *cobra.Command, args []string) error) {
	rootCmd.RunE = run
}

// Execute runs the command line in args with the given output streams.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func Run() {
	if err := Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

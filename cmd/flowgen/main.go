package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The root command compiles.
func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "flowgen [files...]",
		Short: "Translate TypeScript declarations into Flow declarations",
		Long: `flowgen reads TypeScript declaration files and writes equivalent Flow
declarations next to them as .js.flow files.

Without file arguments the inputs come from flowgen.toml or flowgen.json in
the current directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportError(cmd, runCompile(cmd, f, args))
		},
	}
	f.register(root)

	root.AddCommand(newWatchCmd(f))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the flowgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "flowgen", version)
		},
	}
}

var errorColor = color.New(color.FgRed, color.Bold)

// reportError prints err, with its hints, to the command's error stream.
func reportError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
	for _, hint := range hints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
	return err
}

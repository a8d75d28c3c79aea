// Command sandbox-runner is the ENTRYPOINT of the python-sandbox images.
//
// The host runs `docker run ... python-sandbox:<lang> --entrypoint /code/<file>`, so
// everything after the image name arrives here as flags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/tdd-playground/internal/runner"
)

func newRootCmd(exit func(int)) *cobra.Command {
	opts := runner.Options{
		Interpreter: runner.DefaultInterpreter,
		Timeout:     runner.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:           "sandbox-runner --entrypoint <file>",
		Short:         "Run one program inside the sandbox and exit with its code",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, _ []string) {
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			exit(runner.Run(cmd.Context(), opts))
		},
	}

	cmd.Flags().StringVar(&opts.Entrypoint, "entrypoint", "", "path of the file to run")
	cmd.Flags().StringVar(&opts.Interpreter, "interpreter", opts.Interpreter, "interpreter used to run the entry point")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout, "wall-clock limit for the program")
	_ = cmd.MarkFlagRequired("entrypoint")
	return cmd
}

func main() {
	if err := newRootCmd(os.Exit).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

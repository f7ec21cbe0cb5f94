package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// CallOptions holds flags for the call command.
type CallOptions struct {
	*RootOptions
	Trace bool
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions, boot Bootstrap) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "call <procedure> [args...]",
		Short: "Execute a procedure once and print its result",
		Long: `Execute a procedure once and print its result as JSON.

Arguments that parse as JSON are passed decoded, anything else as a string.

Example:
  rapidcontext call System.Procedure.Read System.Procedure.List
  rapidcontext call Item.Find 42 --trace`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), opts.RootOptions, boot, func(rt *Runtime) error {
				res, err := rt.Service.Call(cmd.Context(), args[0], parseArgs(args[1:]), opts.Trace)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the call trace to stderr")

	return cmd
}

// parseArgs decodes each argument as JSON, keeping it as a string when it
// is not valid JSON.
func parseArgs(raw []string) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
			args[i] = s
			continue
		}
		args[i] = v
	}
	return args
}

// printResult writes the result data to out and the trace to errOut. A
// failed call prints its stack and is returned as an error.
func printResult(out, errOut io.Writer, res *ports.CallResult) error {
	if res.Log != "" {
		fmt.Fprint(errOut, res.Log)
	}
	if res.Error != nil {
		for _, id := range res.Stack {
			fmt.Fprintf(errOut, "    at %s\n", id)
		}
		return res.Error
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Data)
}

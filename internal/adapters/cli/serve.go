package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions, boot Bootstrap) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP procedure service",
		Long: `Run the HTTP procedure service until interrupted.

Procedures are called with POST /rapidcontext/procedure/{name} and listed
with GET /rapidcontext/procedures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), opts, boot, func(rt *Runtime) error {
				if rt.Serve == nil {
					return errors.New("runtime cannot serve")
				}
				return rt.Serve(cmd.Context())
			})
		},
	}
}

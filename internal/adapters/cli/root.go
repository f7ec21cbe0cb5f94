// Package cli provides the inbound command-line adapter. It exposes the
// procedure service through cobra commands: serve runs the HTTP service,
// call executes a single procedure and list prints procedure names.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Profile   string
	ConfigDir string
}

// Runtime is the wired application a command runs against.
type Runtime struct {
	// Service executes and lists procedures.
	Service ports.ProcedureService

	// Serve runs the HTTP service until ctx is done, then shuts it down.
	Serve func(ctx context.Context) error

	// Close releases pools, storage and telemetry. Nil means nothing to
	// release.
	Close func(ctx context.Context) error
}

// Bootstrap loads configuration and wires a Runtime.
type Bootstrap func(ctx context.Context, opts *RootOptions) (*Runtime, error)

// NewRootCommand creates the root command for the rapidcontext CLI.
func NewRootCommand(boot Bootstrap) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rapidcontext",
		Short: "RapidContext procedure engine",
		Long:  "Runs and serves procedures defined in the procedure storage directory.",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if opts.Profile == "" {
				return errors.New("a profile is required: set --profile or APP_PROFILE (e.g. local, dev, qa, prod)")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", os.Getenv(config.EnvPrefix+"PROFILE"), "configuration profile")
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "configs", "directory holding the YAML configuration files")

	cmd.AddCommand(NewServeCommand(opts, boot))
	cmd.AddCommand(NewCallCommand(opts, boot))
	cmd.AddCommand(NewListCommand(opts, boot))

	return cmd
}

// withRuntime bootstraps a Runtime, runs fn and closes the runtime again.
func withRuntime(ctx context.Context, opts *RootOptions, boot Bootstrap, fn func(*Runtime) error) (err error) {
	rt, err := boot(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if rt.Close == nil {
			return
		}
		if cerr := rt.Close(context.WithoutCancel(ctx)); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(rt)
}

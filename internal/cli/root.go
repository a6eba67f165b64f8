// Package cli implements clegactl, the operator console for the C Legacy
// store.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"clegacy/internal/app"
	"clegacy/internal/config"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Env is what a command runs against.
type Env struct {
	Config *config.Config
	App    *app.App
}

// Opener builds the Env lazily, once a command actually needs the store.
type Opener func(ctx context.Context) (*Env, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string
	open   Opener
	env    *Env
}

// Env opens the environment on first use.
func (o *RootOptions) Env(ctx context.Context) (*Env, error) {
	if o.env != nil {
		return o.env, nil
	}
	env, err := o.open(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open store", err)
	}
	o.env = env
	return env, nil
}

// NewRootCommand creates the root command over the configured store.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(func(ctx context.Context) (*Env, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		a, err := app.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Env{Config: cfg, App: a}, nil
	})
}

// NewRootCommandWith creates the root command with a custom Opener.
func NewRootCommandWith(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "clegactl",
		Short: "clegactl - C Legacy operator console",
		Long:  "Inspect volunteers, projects, statistics and the access log of a C Legacy store, and check form data against the built-in rule sets.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.env != nil && opts.env.App != nil {
				return opts.env.App.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewProjectsCommand(opts))
	cmd.AddCommand(NewAccessCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

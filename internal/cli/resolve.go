package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/session"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var defaultLength float64

	cmd := &cobra.Command{
		Use:   "resolve <edit-file>",
		Short: "Load an edit and print its resolved form",
		Long: `Load an edit document into a session, resolve every timing symbol and
merge placeholder, and print the resolved document.

Without a media prober, "auto" lengths fall back to the default clip
length; use --default-length to change it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, args[0], defaultLength, cmd)
		},
	}
	cmd.Flags().Float64Var(&defaultLength, "default-length", session.DefaultClipLength,
		"fallback length in seconds for unprobable auto lengths")
	return cmd
}

func runResolve(opts *RootOptions, path string, defaultLength float64, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	raw, err := LoadEditFile(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		return err
	}

	s := session.New(session.WithDefaultClipLength(defaultLength))
	if err := s.Load(cmd.Context(), raw); err != nil {
		var invalid *session.InvalidEditError
		if errors.As(err, &invalid) {
			formatter.Error(ErrCodeInvalid, "edit is invalid", invalid.Errors)
			return NewExitError(ExitFailure, err.Error())
		}
		formatter.Error(ErrCodeLoad, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	formatter.VerboseLog("resolved %s: duration %gs", path, s.Duration())
	resolved := s.GetResolvedEdit()

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"duration": s.Duration(),
			"edit":     resolved,
		})
	}
	data, err := document.Encode(resolved)
	if err != nil {
		return err
	}
	fmt.Fprintln(formatter.Writer, string(data))
	fmt.Fprintf(formatter.Writer, "duration: %gs\n", s.Duration())
	return nil
}

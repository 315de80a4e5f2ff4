package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarlow/cutline/internal/document"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <edit-file>",
		Short: "Validate an edit file against the wire schema",
		Long: `Validate an edit document (JSON or YAML) against the wire-format schema.

All violations are collected and reported; nothing is resolved or loaded.
Exit code 0 when valid, 1 when invalid, 2 on read errors.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
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
		formatter.Error(ErrCodeUnreadable, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	formatter.VerboseLog("validating %s (%d bytes)", path, len(raw))
	result := document.Validate(raw)

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintln(formatter.Writer, "valid")
	} else {
		fmt.Fprintf(formatter.Writer, "invalid: %d error(s)\n", len(result.Errors))
		for _, ve := range result.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", ve.Error())
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is invalid", path))
	}
	return nil
}

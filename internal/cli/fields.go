package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarlow/cutline/internal/merge"
	"github.com/tarlow/cutline/internal/session"
)

// FieldInfo is one merge field with the document paths bound to it.
type FieldInfo struct {
	Name  string   `json:"name"`
	Value any      `json:"value"`
	Paths []string `json:"paths,omitempty"`
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "fields <edit-file>",
		Short:         "List merge fields with defaults and bound paths",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(rootOpts, args[0], cmd)
		},
	}
}

func runFields(opts *RootOptions, path string, cmd *cobra.Command) error {
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

	s := session.New()
	if err := s.Load(cmd.Context(), raw); err != nil {
		var invalid *session.InvalidEditError
		if errors.As(err, &invalid) {
			formatter.Error(ErrCodeInvalid, "edit is invalid", invalid.Errors)
			return NewExitError(ExitFailure, err.Error())
		}
		formatter.Error(ErrCodeLoad, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	infos := collectFields(s.Fields(), s.Bindings())

	if opts.Format == "json" {
		return formatter.Success(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "no merge fields")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%s = %v\n", info.Name, info.Value)
		for _, p := range info.Paths {
			fmt.Fprintf(formatter.Writer, "  bound: %s\n", p)
		}
	}
	return nil
}

func collectFields(fields []merge.Field, bindings []merge.Binding) []FieldInfo {
	infos := make([]FieldInfo, len(fields))
	for i, f := range fields {
		infos[i] = FieldInfo{Name: f.Name, Value: f.Value}
		for _, b := range bindings {
			if merge.ExtractFieldName(b.Placeholder) == f.Name {
				infos[i].Paths = append(infos[i].Paths, b.Path)
			}
		}
	}
	return infos
}

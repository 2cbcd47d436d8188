package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/lychee-technology/formbuilder"
	"github.com/lychee-technology/formbuilder/internal"
	"github.com/spf13/cobra"
)

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newJSONSchemaCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "json-schema",
		Short: "Print the JSON Schema of the answers a form accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadForm(file)
			if err != nil {
				return err
			}
			js, err := internal.BuildSubmissionSchema(schema)
			if err != nil {
				return err
			}
			return writeIndented(cmd.OutOrStdout(), js)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "form definition, .json or .yaml")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var file, answersFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a set of answers against a form",
		Long: `Check a set of answers against a form.

The answers file is an object keyed by field id. Missing required answers
are listed one per line; any other mismatch is reported as a single error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadForm(file)
			if err != nil {
				return err
			}
			var answers map[string]any
			if err := readDocument(answersFile, &answers); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = internal.ValidateSubmission(schema, answers)
			if err == nil {
				fmt.Fprintln(out, "valid")
				return nil
			}

			var verrs *formbuilder.ValidationErrors
			if errors.As(err, &verrs) {
				for _, e := range verrs.Errors {
					fmt.Fprintf(out, "missing: %s (%s)\n", e.Field, e.Message)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "form definition, .json or .yaml")
	cmd.Flags().StringVarP(&answersFile, "answers", "a", "", "answers, .json or .yaml")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var file, mode string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the edit or preview view model of a form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			viewMode, err := formbuilder.ParseViewMode(mode)
			if err != nil {
				return err
			}
			schema, err := loadForm(file)
			if err != nil {
				return err
			}
			view, err := internal.BuildView(schema, viewMode)
			if err != nil {
				return err
			}
			return writeIndented(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "form definition, .json or .yaml")
	cmd.Flags().StringVar(&mode, "mode", string(formbuilder.ViewModePreview), "edit or preview")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacentio/dynamodel/schema"
)

func newValidateCmd() *cobra.Command {
	var (
		schemaPath  string
		skipSetters bool
	)

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a document against a YAML schema",
		Long:  "Run a JSON or YAML document through the schema pipeline (defaults, transforms, validation, cleaning) and print the store-ready document.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("read schema %s: %w", schemaPath, err)
			}
			s, err := schema.ParseYAML(data)
			if err != nil {
				return err
			}

			doc, err := readDocument(cmd.InOrStdin(), argOrEmpty(args))
			if err != nil {
				return err
			}

			prepared, err := s.Prepare(s.Coerce(doc), !skipSetters)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), prepared)
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "path to the YAML schema (required)")
	cmd.Flags().BoolVar(&skipSetters, "skip-setters", false, "do not apply virtual setters")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

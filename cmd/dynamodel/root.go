package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/dynamodel/internal/config"
	logpkg "github.com/jacentio/dynamodel/internal/logger"
	"github.com/jacentio/dynamodel/internal/version"
)

type rootOptions struct {
	env      string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "dynamodel",
		Short:        "dynamodel CLI",
		Long:         "dynamodel compiles update, condition and projection DSL documents into DynamoDB expressions, validates documents against schemas and bootstraps tables.",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logpkg.NewLogger(opts.env, opts.logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(logpkg.ContextWithLogger(cmd.Context(), l))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			_ = logpkg.FromContext(cmd.Context()).Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "environment name (local, dev, prod)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newTableCmd(opts))
	return cmd
}

// readDocument decodes a JSON or YAML mapping from path, or from in when
// path is empty or "-".
func readDocument(in io.Reader, path string) (map[string]any, error) {
	data, err := readInput(in, path)
	if err != nil {
		return nil, err
	}
	return parseDocument(data)
}

func readInput(in io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func parseDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse document: expected a mapping")
	}
	return doc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

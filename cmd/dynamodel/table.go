package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacentio/dynamodel/internal/config"
	logpkg "github.com/jacentio/dynamodel/internal/logger"
	"github.com/jacentio/dynamodel/schema"
	"github.com/jacentio/dynamodel/store"
)

func newTableCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Table management",
	}
	cmd.AddCommand(newTableEnsureCmd(root))
	return cmd
}

func newTableEnsureCmd(root *rootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ensure [model...]",
		Short: "Create missing tables for the configured models",
		Long:  "Describe the table of every model listed under schemas in the config file, creating it from the schema's key definition when it does not exist. With arguments only the named models are bootstrapped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logpkg.FromContext(ctx)

			if configPath == "" {
				configPath = config.FindPath(root.env)
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			client, err := cfg.NewDynamoDB(ctx)
			if err != nil {
				return err
			}

			registry, err := loadModels(client, &cfg, filepath.Dir(configPath), args, logger)
			if err != nil {
				return err
			}

			for _, name := range registry.Names() {
				m, _ := registry.Model(name)
				desc, err := m.EnsureTable(ctx)
				if err != nil {
					return fmt.Errorf("ensure %s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, desc.TableStatus)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the config file (default: config/<env>.yaml)")
	return cmd
}

// loadModels builds a registry of the configured models. Relative schema
// paths are resolved against baseDir. A non-empty only limits it to the
// named models.
func loadModels(client store.API, cfg *config.Config, baseDir string, only []string, logger *zap.Logger) (*store.Registry, error) {
	names := only
	if len(names) == 0 {
		for name := range cfg.Schemas {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no schemas configured")
	}

	tables := store.NewTableCache()
	registry := store.NewRegistry()
	for _, name := range names {
		path, ok := cfg.Schemas[name]
		if !ok {
			return nil, fmt.Errorf("model %q is not configured", name)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", path, err)
		}
		s, err := schema.ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}

		m, err := store.NewModel(client, name, s,
			store.WithConfig(cfg.StoreConfig()),
			store.WithTableCache(tables),
			store.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(m); err != nil {
			return nil, err
		}
		logger.Debug("model loaded",
			zap.String("model", name),
			zap.String("schema", path),
			zap.String("partitionKey", aws.ToString(s.KeySchema()[0].AttributeName)),
		)
	}
	return registry, nil
}

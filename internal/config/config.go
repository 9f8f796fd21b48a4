// Package config loads the dynamodel CLI configuration.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/dynamodel/store"
)

// Config holds the CLI configuration.
type Config struct {
	AWS     AWSConfig         `yaml:"aws"`
	Logging LoggingConfig     `yaml:"logging"`
	Store   StoreConfig       `yaml:"store"`
	Schemas map[string]string `yaml:"schemas"` // model name -> schema file
}

// AWSConfig holds AWS client settings.
type AWSConfig struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // e.g. http://localhost:8000 for DynamoDB Local
	Profile  string `yaml:"profile"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// StoreConfig holds table bootstrap settings.
type StoreConfig struct {
	BillingMode     string `yaml:"billing_mode"` // PROVISIONED, PAY_PER_REQUEST
	ReadCapacity    int64  `yaml:"read_capacity"`
	WriteCapacity   int64  `yaml:"write_capacity"`
	ConsistentRead  bool   `yaml:"consistent_read"`
	CreateIfMissing *bool  `yaml:"create_if_missing"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML, substituting ${VAR} and
// ${VAR:-default} references first.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// FindPath returns the config file for env: ./config/<env>.yaml.
func FindPath(env string) string {
	return filepath.Join("config", env+".yaml")
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.AWS.Region == "" {
		c.AWS.Region = "us-east-1"
	}
	if c.Store.BillingMode == "" {
		c.Store.BillingMode = string(types.BillingModeProvisioned)
	}
	if c.Store.BillingMode == string(types.BillingModeProvisioned) {
		if c.Store.ReadCapacity <= 0 {
			c.Store.ReadCapacity = 1
		}
		if c.Store.WriteCapacity <= 0 {
			c.Store.WriteCapacity = 1
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch types.BillingMode(c.Store.BillingMode) {
	case types.BillingModeProvisioned, types.BillingModePayPerRequest:
	default:
		return fmt.Errorf("store.billing_mode must be %q or %q, got %q",
			types.BillingModeProvisioned, types.BillingModePayPerRequest, c.Store.BillingMode)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	for name, path := range c.Schemas {
		if path == "" {
			return fmt.Errorf("schemas.%s: path is required", name)
		}
	}
	return nil
}

// StoreConfig converts the store section into a store.Config.
func (c *Config) StoreConfig() store.Config {
	cfg := store.DefaultConfig()
	cfg.BillingMode = types.BillingMode(c.Store.BillingMode)
	cfg.ReadCapacityUnits = c.Store.ReadCapacity
	cfg.WriteCapacityUnits = c.Store.WriteCapacity
	cfg.ConsistentRead = c.Store.ConsistentRead
	if c.Store.CreateIfMissing != nil {
		cfg.CreateIfMissing = *c.Store.CreateIfMissing
	}
	return cfg
}

// NewDynamoDB builds a DynamoDB client from the default AWS credential chain
// and the aws section.
func (c *Config) NewDynamoDB(ctx context.Context) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.AWS.Region),
	}
	if c.AWS.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(c.AWS.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := c.AWS.Endpoint
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

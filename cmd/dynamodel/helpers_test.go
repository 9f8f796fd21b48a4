package main

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/jacentio/dynamodel/internal/config"
)

// nopClient satisfies store.API for tests that never reach DynamoDB.
type nopClient struct{ *dynamodb.Client }

func nopLogger() *zap.Logger { return zap.NewNop() }

func configWithSchemas(t *testing.T, schemas map[string]string) *config.Config {
	t.Helper()
	cfg := &config.Config{Schemas: schemas}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

package store

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

// Config holds configuration for a Model.
type Config struct {
	// BillingMode is used when the table is created.
	// Default: PROVISIONED
	BillingMode types.BillingMode

	// ReadCapacityUnits and WriteCapacityUnits set the provisioned
	// throughput of created tables. Ignored for PAY_PER_REQUEST.
	// Default: 1
	ReadCapacityUnits  int64
	WriteCapacityUnits int64

	// ConsistentRead requests strongly consistent reads on Get.
	ConsistentRead bool

	// CreateIfMissing lets EnsureTable create a table that does not exist.
	// Default: true
	CreateIfMissing bool
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		BillingMode:        types.BillingModeProvisioned,
		ReadCapacityUnits:  1,
		WriteCapacityUnits: 1,
		CreateIfMissing:    true,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.BillingMode == "" {
		c.BillingMode = types.BillingModeProvisioned
	}
	if c.BillingMode != types.BillingModeProvisioned {
		return
	}
	if c.ReadCapacityUnits < 1 {
		c.ReadCapacityUnits = 1
	}
	if c.WriteCapacityUnits < 1 {
		c.WriteCapacityUnits = 1
	}
}

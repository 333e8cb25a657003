// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the SmartNotes server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the REST API.
//   - EndpointAddrGRPC: bind address of the gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: session token lifetime.
//   - UnlockGrantValidityDuration: lifetime of a locked-partition grant.
//   - RequireUnlockGrant: make the server, not the client, enforce the PIN gate.
//   - S3*: object storage used by export. Export is disabled while S3Bucket is empty.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	UnlockGrantValidityDuration time.Duration
	RequireUnlockGrant          bool
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	S3AccessKey                 string
	S3SecretKey                 string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 7 * 24 * time.Hour
	c.UnlockGrantValidityDuration = 10 * time.Minute
	c.RequireUnlockGrant = false
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
}

// StorageEnabled reports whether export to object storage is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

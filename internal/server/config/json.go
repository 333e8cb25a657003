package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/smartnotes/internal/flagx"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept both strings
// such as "10m" and integer nanoseconds. Absent keys keep the value already
// in Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string        `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	UnlockGrantValidityDuration timex.Duration `json:"unlock_grant_validity_duration"`
	RequireUnlockGrant          *bool          `json:"require_unlock_grant"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
}

// parseJson loads configuration values from the file named by -c/-config
// into config. Nothing happens when neither flag is given. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.UnlockGrantValidityDuration.Duration > 0 {
		config.UnlockGrantValidityDuration = c.UnlockGrantValidityDuration.Duration
	}
	if c.RequireUnlockGrant != nil {
		config.RequireUnlockGrant = *c.RequireUnlockGrant
	}
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN, empty for in-memory storage
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-u int      unlock grant validity, minutes
//	-l          require an unlock grant for the locked partition
//	-b string   S3 bucket name
//	-r string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-k string   S3 access key
//	-p string   S3 secret key
//
// Duration flags are accepted as integers in minutes and then converted
// to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgsWithBools(os.Args[1:],
		[]string{"-a", "-g", "-d", "-s", "-t", "-u", "-b", "-r", "-e", "-k", "-p"},
		[]string{"-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	unlockGrantValidityDuration := fs.Int("u", int(config.UnlockGrantValidityDuration.Minutes()), "unlock_grant_validity_duration (in minutes)")

	fs.BoolVar(&config.RequireUnlockGrant, "l", config.RequireUnlockGrant, "require unlock grant for locked content")

	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "k", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.UnlockGrantValidityDuration = time.Duration(*unlockGrantValidityDuration) * time.Minute
}

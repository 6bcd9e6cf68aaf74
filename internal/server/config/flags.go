package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC health bind address (empty disables it)
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-m int      magic link validity, hours
//	-u string   public base URL used in decision links
//	-x string   Easit export directory
//	-b string   S3 bucket mirroring exports
//	-e string   S3 base endpoint
//	-l string   log level
//	-o string   comma-separated CORS origins
//	-strict     enforce status transition tables
//
// Duration flags are integers in the unit shown and are converted to
// time.Duration after parsing.
func parseFlags(config *Config) {
	args := filterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-t", "-r", "-m", "-u", "-x", "-b", "-e", "-l", "-o", "-strict"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port for the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	magicLinkValidity := fs.Int("m", int(config.MagicLinkValidityDuration.Hours()), "magic link validity (in hours)")

	fs.StringVar(&config.PublicBaseURL, "u", config.PublicBaseURL, "public base URL for decision links")
	fs.StringVar(&config.ExportDir, "x", config.ExportDir, "Easit export directory")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for export mirroring")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "comma-separated CORS origins")
	fs.BoolVar(&config.StrictTransitions, "strict", config.StrictTransitions, "enforce status transition tables")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
	config.MagicLinkValidityDuration = time.Duration(*magicLinkValidity) * time.Hour
	config.AllowedOrigins = splitList(*origins)
}

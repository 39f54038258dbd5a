package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address ("" disables)
//	-d string   PostgreSQL DSN ("" keeps state in memory)
//	-k string   server key file
//	-s string   JWT HMAC secret key
//	-t int      admin token validity, minutes
//	-o bool     open registration
//	-i int      slot interval, seconds
//	-w int      grace window, seconds
//	-z string   time zone
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Boolean flags need the "-o=false" form. The key passphrase is only read
// from the config file.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-d", "-k", "-s", "-t", "-o", "-i", "-w", "-z", "-l", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.EndpointAddrMetrics, "m", config.EndpointAddrMetrics, "address and port for metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ServerKeyFile, "k", config.ServerKeyFile, "server key file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	adminTokenValidity := fs.Int("t", int(config.AdminTokenValidityDuration.Minutes()), "admin token validity (in minutes)")
	fs.BoolVar(&config.OpenRegistration, "o", config.OpenRegistration, "allow registration without admin token")
	slotInterval := fs.Int("i", int(config.SlotInterval.Seconds()), "challenge slot interval (in seconds)")
	grace := fs.Int("w", int(config.Grace.Seconds()), "challenge grace window (in seconds)")

	fs.StringVar(&config.TimeZone, "z", config.TimeZone, "time zone of the attendance day")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Durations given in whole units only replace the current value when the
	// flag is present, so sub-unit values from the file survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AdminTokenValidityDuration = time.Duration(*adminTokenValidity) * time.Minute
		case "i":
			config.SlotInterval = time.Duration(*slotInterval) * time.Second
		case "w":
			config.Grace = time.Duration(*grace) * time.Second
		}
	})
}

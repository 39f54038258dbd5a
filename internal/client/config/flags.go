package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so subcommand flags pass through untouched.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-j", "-t", "-token"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.KeyFile, "k", cfg.KeyFile, "holder key file")
	fs.StringVar(&cfg.JournalDSN, "j", cfg.JournalDSN, "local journal database")
	fs.StringVar(&cfg.AccessToken, "token", cfg.AccessToken, "admin access token")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}

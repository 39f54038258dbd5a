// Package cli implements the gophattend holder and operator command line:
// one-shot subcommands or an interactive prompt when none is given.
package cli

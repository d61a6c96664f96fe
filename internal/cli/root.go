// Package cli implements httpc, a command-line HTTP client on top of the
// http-engine client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var version = "dev"

type flags struct {
	configPath  string
	headersFile string
	dataFile    string

	head bool
	put  bool
	del  bool

	connectTimeout  time.Duration
	transferTimeout time.Duration
	followRedirects bool
	maxRedirects    int

	verbose    bool
	save       bool
	output     string
	compressed bool
	insecure   bool
	stats      bool
}

// NewCommand builds the httpc command writing to stdout and stderr.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "httpc [flags] URL",
		Short: "Send an HTTP/1.1 request and print the response",
		Long: `httpc sends one HTTP/1.1 request and reports the response.

The request is a GET unless told otherwise: -I sends a HEAD, --delete a DELETE,
and a data file turns it into a form-urlencoded POST, or PUT with --put.

Defaults come from the config file given by --config, then HTTPC_ environment
variables, then flags.

Example:
  httpc -L https://example.com/
  httpc --headers-file headers.txt --data-file form.txt https://postman-echo.com/post
  httpc -O https://example.com/archive.tar.gz`,
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, f, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true

	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML configuration file")
	fs.StringVar(&f.headersFile, "headers-file", "", "File with one 'Key: Value' header per line")
	fs.StringVar(&f.dataFile, "data-file", "", "File with one 'key=value' form parameter per line")
	fs.BoolVarP(&f.head, "head", "I", false, "Send a HEAD request")
	fs.BoolVar(&f.put, "put", false, "Send form parameters with PUT instead of POST")
	fs.BoolVar(&f.del, "delete", false, "Send a DELETE request")
	fs.DurationVar(&f.connectTimeout, "connect-timeout", 0, "Connect timeout (0 disables it)")
	fs.DurationVar(&f.transferTimeout, "transfer-timeout", 0, "Transfer timeout (0 disables it)")
	fs.BoolVarP(&f.followRedirects, "follow-redirects", "L", false, "Follow redirects")
	fs.IntVar(&f.maxRedirects, "max-redirects", 0, "Maximum number of redirects to follow")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Print the request, status line and debug logs")
	fs.BoolVarP(&f.save, "save", "O", false, "Save the payload to a file named after the URL")
	fs.StringVarP(&f.output, "output", "o", "", "Save the payload to this file")
	fs.BoolVar(&f.compressed, "compressed", false, "Ask for a gzip encoded response")
	fs.BoolVar(&f.insecure, "insecure", false, "Skip verification of the server's certificate")
	fs.BoolVar(&f.stats, "stats", false, "Print client metrics after the request")

	return cmd
}

// Execute runs httpc with the process arguments and exits on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

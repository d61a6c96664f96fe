package cli

import (
	"context"
	"fmt"
	"http-engine/application/http"
	"http-engine/application/http/actor/client"
	"http-engine/application/http/form"
	"http-engine/internal/config"
	"http-engine/transport"
	"http-engine/transport/tcp"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const progressInterval = 100 * time.Millisecond

func run(ctx context.Context, cmd *cobra.Command, f *flags, url string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, cfg)

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	headers, params, err := readInputs(f)
	if err != nil {
		return err
	}
	verb := selectVerb(f, params)

	reg := prometheus.NewRegistry()
	clk := clock.New()

	dialerOpts := tcp.DialerOptions{}
	factory := transport.NewFactory(
		tcp.NewDialer(dialerOpts),
		tcp.NewTLSDialer(tcp.TLSOptions{
			DialerOptions:      dialerOpts,
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
		}),
		clk,
		cfg.SocketOptions(),
	)

	c := client.New(factory, logger, clk, client.Options{
		UserAgent: cfg.Request.UserAgent,
		Metrics:   client.NewMetrics(reg),
	})
	defer c.Close()

	args := cfg.RequestArgs(url, verb)
	args.ExtraHeaders = headers
	args.Verbose = f.verbose
	args.Logger = func(line string) { fmt.Fprintln(stdout, line) }

	var (
		progressed   bool
		sometimes    = rate.Sometimes{Interval: progressInterval}
		current, all int64
	)
	args.OnProgress = func(cur, total int64) bool {
		progressed = true
		current, all = cur, total
		sometimes.Do(func() {
			fmt.Fprintf(stderr, "\rDownloaded %d bytes out of %d", cur, total)
		})
		return true
	}

	if verb.HasBody() {
		args.Body = []byte(form.Serialize(params))
	}
	res := c.Do(ctx, args)

	if progressed {
		fmt.Fprintf(stderr, "\rDownloaded %d bytes out of %d\n", current, all)
	}

	printReport(stderr, res)

	if f.stats {
		if err := printStats(stderr, reg); err != nil {
			logger.Warn("cannot print stats", "error", err)
		}
	}

	if verb == http.HEAD || !res.OK() {
		return nil
	}

	return writePayload(f, url, res, stdout, stderr)
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("connect-timeout") {
		cfg.Request.ConnectTimeout = f.connectTimeout
	}
	if changed("transfer-timeout") {
		cfg.Request.TransferTimeout = f.transferTimeout
	}
	if changed("follow-redirects") {
		cfg.Request.FollowRedirects = f.followRedirects
	}
	if changed("max-redirects") {
		cfg.Request.MaxRedirects = f.maxRedirects
	}
	if changed("compressed") {
		cfg.Request.Compress = f.compressed
	}
	if changed("insecure") {
		cfg.TLS.InsecureSkipVerify = f.insecure
	}
}

func readInputs(f *flags) (http.Headers, form.Parameters, error) {
	var (
		headers http.Headers
		params  form.Parameters
	)

	if f.headersFile != "" {
		data, err := os.ReadFile(f.headersFile)
		if err != nil {
			return headers, params, errors.Wrap(err, "reading headers file")
		}
		headers = parseHeaders(string(data))
	}

	if f.dataFile != "" {
		data, err := os.ReadFile(f.dataFile)
		if err != nil {
			return headers, params, errors.Wrap(err, "reading data file")
		}
		params = parseParameters(string(data))
	}

	return headers, params, nil
}

func selectVerb(f *flags, params form.Parameters) http.Verb {
	switch {
	case f.head:
		return http.HEAD
	case f.del:
		return http.DELETE
	case params.Len() > 0 && f.put:
		return http.PUT
	case params.Len() > 0:
		return http.POST
	}
	return http.GET
}

func writePayload(f *flags, url string, res *http.Response, stdout, stderr io.Writer) error {
	if f.save || f.output != "" {
		filename := f.output
		if filename == "" {
			filename = extractFilename(url)
		}

		fmt.Fprintf(stdout, "Writing to disk: %s\n", filename)
		if err := os.WriteFile(filename, res.Payload, 0o644); err != nil {
			return errors.Wrap(err, "writing payload")
		}
		return nil
	}

	if isBinary(res) && isTerminal(stdout) {
		fmt.Fprintln(stderr, "Binary output can mess up your terminal.")
		fmt.Fprintln(stderr, "Use the -O flag to save the file to disk.")
		fmt.Fprintln(stderr, "You can also use the --output option to specify a filename.")
		return nil
	}

	_, err := stdout.Write(res.Payload)
	return errors.Wrap(err, "writing payload")
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/selimozcann/longurl/internal/config"
	"github.com/selimozcann/longurl/internal/httpclient"
	"github.com/selimozcann/longurl/internal/logging"
	"github.com/selimozcann/longurl/internal/output"
	"github.com/selimozcann/longurl/internal/resolve"
)

var version = "1.0.0"

// clientOptions are the request settings shared by every subcommand.
type clientOptions struct {
	cfg       resolve.Config
	browserUA bool
	proxy     string
	insecure  bool
	headers   []string
	debug     bool
}

func (o *clientOptions) logger(w io.Writer) *slog.Logger {
	return logging.New(w, logging.Level(o.debug))
}

// resolver builds a Resolver from the flags.
func (o *clientOptions) resolver(log *slog.Logger) (*resolve.Resolver, error) {
	headers, err := httpclient.ParseHeaders(o.headers)
	if err != nil {
		return nil, err
	}
	proxy, err := httpclient.ProxyFunc(o.proxy)
	if err != nil {
		return nil, err
	}
	cfg := o.cfg
	if o.browserUA {
		cfg.UserAgent = resolve.BrowserUserAgent
	}
	client := httpclient.New(httpclient.Config{
		Timeout:  cfg.Timeout,
		Proxy:    proxy,
		Headers:  headers,
		Insecure: o.insecure,
	})
	r, err := resolve.New(client, cfg)
	if err != nil {
		return nil, err
	}
	return r.WithLogger(log), nil
}

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(settings).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(settings config.Settings) *cobra.Command {
	opts := &clientOptions{cfg: settings.Resolve, proxy: settings.Proxy}
	ropts := &resolveOptions{columns: defaultColumns()}

	rootCmd := &cobra.Command{
		Use:   "longurl [url]",
		Short: "Follow a short URL to its final destination",
		Long: `longurl follows the chain of redirects from the starting URL. It prints the
start URL, then every redirect in the chain, following both Location headers
and HTML meta refresh tags. The "http://" prefix may be omitted.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runResolve(cmd, opts, ropts, args[0])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfg.UserAgent, "user-agent", opts.cfg.UserAgent, "User-Agent header sent on every hop")
	pf.BoolVar(&opts.browserUA, "browser-ua", false, "Send a desktop Firefox User-Agent")
	pf.IntVar(&opts.cfg.MaxHops, "max-hops", opts.cfg.MaxHops, "Stop after this many hops (0 = unlimited)")
	pf.Int64Var(&opts.cfg.MaxResponseBytes, "max-bytes", opts.cfg.MaxResponseBytes, "Bytes of a 200 body scanned for meta refresh")
	pf.BoolVar(&opts.cfg.ForcePercentDecode, "decode", opts.cfg.ForcePercentDecode, "Percent-decode every redirect target once")
	pf.DurationVar(&opts.cfg.Timeout, "timeout", opts.cfg.Timeout, "Per-hop timeout")
	pf.StringVar(&opts.proxy, "proxy", opts.proxy, "HTTP(S) proxy URL")
	pf.BoolVar(&opts.insecure, "insecure", false, "Skip TLS verification")
	pf.StringArrayVarP(&opts.headers, "header", "H", nil, "Extra HTTP header \"Key: Value\" (repeatable)")
	pf.BoolVarP(&opts.debug, "debug", "d", false, "Log every hop to stderr")
	rootCmd.MarkFlagsMutuallyExclusive("browser-ua", "user-agent")

	addResolveFlags(rootCmd, ropts)

	rootCmd.AddCommand(resolveCmd(opts))
	rootCmd.AddCommand(batchCmd(opts))
	rootCmd.AddCommand(serveCmd(opts, settings.Addr))
	return rootCmd
}

func defaultColumns() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return output.DefaultColumns
}

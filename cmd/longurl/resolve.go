package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selimozcann/longurl/internal/banner"
	"github.com/selimozcann/longurl/internal/detect"
	"github.com/selimozcann/longurl/internal/output"
	"github.com/selimozcann/longurl/internal/statuscolor"
)

type resolveOptions struct {
	columns int
	quiet   bool
	asJSON  bool
}

func addResolveFlags(cmd *cobra.Command, ropts *resolveOptions) {
	f := cmd.Flags()
	f.IntVar(&ropts.columns, "columns", ropts.columns, "Summary width; URLs are cut to fit")
	f.BoolVarP(&ropts.quiet, "quiet", "q", false, "Print only the URLs, one per hop")
	f.BoolVar(&ropts.asJSON, "json", false, "Print the chain as one JSON record")
	cmd.MarkFlagsMutuallyExclusive("quiet", "json")
}

func resolveCmd(opts *clientOptions) *cobra.Command {
	ropts := &resolveOptions{columns: defaultColumns()}
	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Follow one URL and print every hop",
		Example: `  longurl resolve bit.ly/abc
  longurl resolve -q --max-hops 5 http://t.co/xyz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts, ropts, args[0])
		},
	}
	addResolveFlags(cmd, ropts)
	return cmd
}

func runResolve(cmd *cobra.Command, opts *clientOptions, ropts *resolveOptions, target string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	r, err := opts.resolver(opts.logger(stderr))
	if err != nil {
		return err
	}

	if ropts.asJSON {
		chain, rerr := r.Resolve(cmd.Context(), target)
		chain.Findings = detect.Analyze(chain)
		enc := json.NewEncoder(stdout)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(output.BuildRecord(target, chain, rerr)); err != nil {
			return err
		}
		return rerr
	}

	if !ropts.quiet {
		banner.PrintBanner(stderr)
	}
	w := r.Walk(cmd.Context(), target)
	for hop := range w.All() {
		if ropts.quiet {
			fmt.Fprintln(stdout, hop.URL)
			continue
		}
		statuscolor.PrintHop(stdout, hop)
	}
	chain := w.Chain()
	if ropts.quiet {
		// Every requested URL gets a line, including the one that failed.
		last, ok := chain.Last()
		if w.Err() != nil && chain.FinalURL != "" && (!ok || last.URL != chain.FinalURL) {
			fmt.Fprintln(stdout, chain.FinalURL)
		}
		return w.Err()
	}
	chain.Findings = detect.Analyze(chain)
	output.WriteSummary(stdout, chain, w.Err(), ropts.columns)
	return w.Err()
}

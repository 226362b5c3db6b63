package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/selimozcann/longurl/internal/output"
	"github.com/selimozcann/longurl/internal/runner"
)

type batchOptions struct {
	file        string
	threads     int
	rate        float64
	outputJSONL string
	outputHTML  string
	silent      bool
}

func batchCmd(opts *clientOptions) *cobra.Command {
	bopts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch -f targets.txt",
		Short: "Resolve every URL listed in a file",
		Example: `  longurl batch -f links.txt --threads 20 --rate 5 -o chains.jsonl
  longurl batch -f links.txt --html report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, bopts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&bopts.file, "file", "f", "", "File with one URL per line")
	f.IntVarP(&bopts.threads, "threads", "t", 10, "Concurrent resolutions")
	f.Float64Var(&bopts.rate, "rate", 0, "Resolutions started per second (0 = unlimited)")
	f.StringVarP(&bopts.outputJSONL, "output", "o", "", "JSONL output file")
	f.StringVar(&bopts.outputHTML, "html", "", "HTML report output file")
	f.BoolVar(&bopts.silent, "silent", false, "Suppress per-target console output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runBatch(cmd *cobra.Command, opts *clientOptions, bopts *batchOptions) error {
	if bopts.threads <= 0 {
		return fmt.Errorf("--threads must be greater than zero (got %d)", bopts.threads)
	}
	if bopts.rate < 0 {
		return fmt.Errorf("--rate must be >= 0 (got %g)", bopts.rate)
	}
	targets, err := runner.LoadTargets(bopts.file)
	if err != nil {
		return fmt.Errorf("read targets: %w", err)
	}
	if len(targets) == 0 {
		return errors.New("no targets in " + bopts.file)
	}

	log := opts.logger(cmd.ErrOrStderr())
	r, err := opts.resolver(log)
	if err != nil {
		return err
	}

	var jsonl *output.JSONLWriter
	if bopts.outputJSONL != "" {
		f, err := createFile(bopts.outputJSONL)
		if err != nil {
			return fmt.Errorf("create JSONL file: %w", err)
		}
		defer f.Close()
		jsonl = output.NewJSONLWriter(f)
	}

	stdout := cmd.OutOrStdout()
	run := runner.New(runner.Config{Threads: bopts.threads, RateLimit: bopts.rate}, r, log)
	run.OnResult = func(res runner.Result) {
		if !bopts.silent {
			output.PrintResult(stdout, res.Target, res.Chain, res.Err)
		}
		if jsonl != nil {
			_ = jsonl.Add(res.Target, res.Chain, res.Err)
		}
	}

	log.Debug("batch starting", "targets", len(targets), "threads", bopts.threads, "rate", bopts.rate)
	results, runErr := run.Run(cmd.Context(), targets)

	if jsonl != nil {
		if err := jsonl.Close(); err != nil {
			return fmt.Errorf("write JSONL: %w", err)
		}
		log.Info("JSONL report written", "path", bopts.outputJSONL, "records", jsonl.Count())
	}

	if bopts.outputHTML != "" {
		views := make([]output.ResultView, 0, len(results))
		for i, res := range results {
			if res.Target == "" {
				continue
			}
			views = append(views, output.BuildResultView(i, res.Target, res.Chain, res.Err))
		}
		page := output.PageData{
			Title:       "longurl report",
			GeneratedAt: time.Now().UTC(),
			Params:      buildParamsMap(opts, bopts, len(targets)),
			Summary:     output.BuildSummary(views),
			Results:     views,
		}
		if err := writeHTMLFile(bopts.outputHTML, page); err != nil {
			return err
		}
		log.Info("HTML report written", "path", bopts.outputHTML)
	}
	return runErr
}

func buildParamsMap(opts *clientOptions, bopts *batchOptions, targetCount int) map[string]string {
	params := map[string]string{
		"input":       bopts.file,
		"targets":     strconv.Itoa(targetCount),
		"threads":     strconv.Itoa(bopts.threads),
		"rate":        strconv.FormatFloat(bopts.rate, 'g', -1, 64),
		"user_agent":  opts.cfg.UserAgent,
		"max_hops":    strconv.Itoa(opts.cfg.MaxHops),
		"max_bytes":   strconv.FormatInt(opts.cfg.MaxResponseBytes, 10),
		"timeout":     opts.cfg.Timeout.String(),
		"decode":      strconv.FormatBool(opts.cfg.ForcePercentDecode),
		"insecure":    strconv.FormatBool(opts.insecure),
		"output_html": bopts.outputHTML,
	}
	if opts.browserUA {
		params["user_agent"] = "browser"
	}
	if bopts.outputJSONL != "" {
		params["output_jsonl"] = bopts.outputJSONL
	}
	if opts.proxy != "" {
		params["proxy"] = opts.proxy
	}
	if len(opts.headers) > 0 {
		params["headers"] = strings.Join(opts.headers, "; ")
	}
	return params
}

func writeHTMLFile(path string, page output.PageData) error {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create HTML file: %w", err)
	}
	defer f.Close()
	if err := output.RenderHTML(f, page); err != nil {
		return fmt.Errorf("write HTML: %w", err)
	}
	return nil
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

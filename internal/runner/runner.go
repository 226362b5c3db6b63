package runner

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/selimozcann/longurl/internal/detect"
	"github.com/selimozcann/longurl/internal/model"
	"github.com/selimozcann/longurl/internal/resolve"
)

// Config holds settings for the runner.
type Config struct {
	Threads   int
	RateLimit float64 // resolutions started per second, 0 = unlimited
}

// Result is the outcome of resolving one target.
type Result struct {
	Target string
	Chain  model.Chain
	Err    error
}

// Runner resolves many targets concurrently.
type Runner struct {
	cfg      Config
	resolver *resolve.Resolver
	log      *slog.Logger

	// OnResult, when set, is called once per finished target from the
	// worker goroutine. Calls are serialized.
	OnResult func(Result)
}

// New creates a new Runner.
func New(cfg Config, resolver *resolve.Resolver, log *slog.Logger) *Runner {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{cfg: cfg, resolver: resolver, log: log}
}

// Run resolves targets and returns results in input order. A target that
// fails to resolve is reported in its Result; Run itself only fails when
// ctx is done before every target was started.
func (r *Runner) Run(ctx context.Context, targets []string) ([]Result, error) {
	out := make([]Result, len(targets))
	var limiter *rate.Limiter
	if r.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RateLimit), 1)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Threads)

	for i, target := range targets {
		if limiter != nil {
			if err := limiter.Wait(gctx); err != nil {
				break
			}
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := r.resolveOne(gctx, target)
			mu.Lock()
			out[i] = res
			if r.OnResult != nil {
				r.OnResult(res)
			}
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return out, ctx.Err()
}

func (r *Runner) resolveOne(ctx context.Context, target string) Result {
	started := time.Now()
	chain, err := r.resolver.Resolve(ctx, target)
	chain.Findings = detect.Analyze(chain)
	if err != nil {
		r.log.Warn("resolve failed", "target", target, "err", err)
	} else {
		r.log.Debug("resolved", "target", target, "final", chain.FinalURL, "hops", len(chain.Hops), "took", time.Since(started).Round(time.Millisecond))
	}
	return Result{Target: target, Chain: chain, Err: err}
}

// LoadTargets reads one target per line, skipping blank lines and lines
// starting with '#'.
func LoadTargets(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var targets []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	return targets, scanner.Err()
}

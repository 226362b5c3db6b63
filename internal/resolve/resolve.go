// Package resolve follows a chain of HTTP Location and HTML meta refresh
// redirects one hop at a time, recording each hop as it goes.
//
// A run is strictly sequential: every hop's URL comes out of the previous
// response. Failed hops are never retried, since shorteners often answer a
// repeated request differently from the first one.
package resolve

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/selimozcann/longurl/internal/httpclient"
	"github.com/selimozcann/longurl/internal/metarefresh"
	"github.com/selimozcann/longurl/internal/model"
	"github.com/selimozcann/longurl/internal/urlnorm"
)

// Doer issues a single HTTP request. Implementations must not follow
// redirects themselves.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Resolver performs manual redirect resolution.
type Resolver struct {
	client Doer
	cfg    Config
	log    *slog.Logger
}

// New creates a Resolver. A nil client is replaced by httpclient.New with
// the config's timeout.
func New(client Doer, cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	}
	return &Resolver{
		client: client,
		cfg:    cfg.applyDefaults(),
		log:    slog.New(slog.DiscardHandler),
	}, nil
}

// WithLogger returns a copy of r that logs every hop at debug level.
func (r *Resolver) WithLogger(l *slog.Logger) *Resolver {
	c := *r
	if l != nil {
		c.log = l
	}
	return &c
}

// Config returns the effective configuration.
func (r *Resolver) Config() Config { return r.cfg }

// Resolve follows redirects from start until the chain ends, the hop limit
// is hit or a terminal error occurs. The chain gathered so far is returned
// in every case.
func (r *Resolver) Resolve(ctx context.Context, start string) (model.Chain, error) {
	w := r.Walk(ctx, start)
	for w.Next() {
	}
	return w.Chain(), w.Err()
}

// Resolve is a shorthand for New(nil, cfg) followed by Resolve.
func Resolve(ctx context.Context, start string, cfg Config) (model.Chain, error) {
	r, err := New(nil, cfg)
	if err != nil {
		return model.Chain{}, err
	}
	return r.Resolve(ctx, start)
}

// State is the position of a Walker in the resolution state machine.
type State int

const (
	StateRequesting State = iota
	StateInspecting
	StateScanning
	StateRedirecting
	StateDone
	StateFailed
)

var stateNames = [...]string{"requesting", "inspecting", "scanning", "redirecting", "done", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Walker produces the hops of one resolution run on demand. Its use mirrors
// bufio.Scanner:
//
//	w := r.Walk(ctx, "bit.ly/abc")
//	for w.Next() {
//		fmt.Println(w.Hop().URL)
//	}
//	chain, err := w.Chain(), w.Err()
type Walker struct {
	r       *Resolver
	ctx     context.Context
	current string
	chain   model.Chain
	hop     model.Hop
	state   State
	err     error
}

// Walk prepares a lazy resolution run starting at start. No request is made
// until Next is called.
func (r *Resolver) Walk(ctx context.Context, start string) *Walker {
	w := &Walker{r: r, ctx: ctx, state: StateRequesting}
	w.chain.StartedAt = time.Now()
	if start == "" {
		w.fail(ErrEmptyURL)
		return w
	}
	w.current = urlnorm.EnsureScheme(start)
	w.chain.Start = w.current
	return w
}

// Next performs the next hop. It returns false once the chain is complete,
// truncated or failed; Err tells which.
func (w *Walker) Next() bool {
	if w.state == StateDone || w.state == StateFailed {
		return false
	}
	if limit := w.r.cfg.MaxHops; limit > 0 && len(w.chain.Hops) >= limit {
		w.chain.Truncated = true
		w.finish(StateDone)
		return false
	}
	if err := w.ctx.Err(); err != nil {
		w.fail(err)
		return false
	}

	hop, err := w.step()
	if err != nil {
		w.fail(err)
		return false
	}
	w.hop = hop
	w.chain.Hops = append(w.chain.Hops, hop)
	w.r.log.Debug("hop",
		"index", hop.Index,
		"url", hop.URL,
		"status", hop.Status,
		"kind", string(hop.Kind),
		"next", hop.Next,
		"time_ms", hop.TimeMs,
	)

	if hop.Redirected() {
		w.current = hop.Next
		w.state = StateRequesting
	} else {
		w.finish(StateDone)
	}
	return true
}

// Hop returns the hop produced by the latest successful call to Next.
func (w *Walker) Hop() model.Hop { return w.hop }

// Err returns the terminal error, or nil for a completed or truncated chain.
func (w *Walker) Err() error { return w.err }

// State returns the walker's current state.
func (w *Walker) State() State { return w.state }

// Chain returns the hops gathered so far. After Next has returned false the
// chain is final.
func (w *Walker) Chain() model.Chain {
	c := w.chain
	c.Hops = slices.Clone(w.chain.Hops)
	return c
}

// All yields the remaining hops.
func (w *Walker) All() iter.Seq[model.Hop] {
	return func(yield func(model.Hop) bool) {
		for w.Next() {
			if !yield(w.hop) {
				return
			}
		}
	}
}

func (w *Walker) fail(err error) {
	w.err = err
	w.finish(StateFailed)
}

func (w *Walker) finish(s State) {
	w.state = s
	w.chain.FinalURL = w.current
	w.chain.FinalDomain = urlnorm.FinalDomain(w.current)
	w.chain.RegisteredDomain = urlnorm.RegisteredDomain(w.current)
	w.chain.DurationMs = time.Since(w.chain.StartedAt).Milliseconds()
}

// step requests the current URL and works out where it points.
func (w *Walker) step() (model.Hop, error) {
	w.state = StateRequesting
	u, err := url.Parse(w.current)
	if err != nil {
		return model.Hop{}, &MalformedURLError{URL: w.current, Err: err}
	}
	if s := strings.ToLower(u.Scheme); s != "http" && s != "https" {
		return model.Hop{}, &UnsupportedSchemeError{URL: w.current, Scheme: u.Scheme}
	}
	if u.Host == "" {
		return model.Hop{}, &MalformedURLError{URL: w.current, Err: errors.New("missing host")}
	}

	ctx := w.ctx
	if w.r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.r.cfg.Timeout)
		defer cancel()
	}
	// The request line carries the path, "/" when empty, plus "?query".
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.current, nil)
	if err != nil {
		return model.Hop{}, &MalformedURLError{URL: w.current, Err: err}
	}
	req.Header.Set("User-Agent", w.r.cfg.UserAgent)

	start := time.Now()
	resp, err := w.r.client.Do(req)
	if err != nil {
		return model.Hop{}, &TransportError{URL: w.current, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	hop := model.Hop{
		Index:  len(w.chain.Hops),
		URL:    w.current,
		Status: resp.StatusCode,
		Reason: reasonPhrase(resp),
		Kind:   model.KindNone,
	}

	w.state = StateInspecting
	target, found := location(resp.Header)
	switch {
	case found:
		hop.Kind = model.KindHeader
	case resp.StatusCode == http.StatusOK:
		w.state = StateScanning
		target, found, err = metarefresh.FindReader(resp.Body, w.r.cfg.MaxResponseBytes)
		if err != nil {
			return model.Hop{}, &TransportError{URL: w.current, Err: err}
		}
		found = found && strings.TrimSpace(target) != ""
		if found {
			hop.Kind = model.KindMetaRefresh
		}
	default:
		return model.Hop{}, &UnexpectedStatusError{URL: w.current, Code: resp.StatusCode, Reason: hop.Reason}
	}
	hop.TimeMs = time.Since(start).Milliseconds()
	if !found {
		return hop, nil
	}

	w.state = StateRedirecting
	if err := w.r.follow(u, target, &hop); err != nil {
		return model.Hop{}, err
	}
	return hop, nil
}

// follow fills in the hop's target details and the normalized next URL.
func (r *Resolver) follow(base *url.URL, target string, hop *model.Hop) error {
	hop.Target = target
	t := strings.TrimSpace(target)
	if r.cfg.ForcePercentDecode || urlnorm.LooksEncoded(t) {
		decoded := urlnorm.Decode(t)
		hop.Encoded = decoded != t
		t = decoded
	}
	hop.Form = urlnorm.Classify(t)

	ref, err := url.Parse(t)
	if err != nil {
		return &MalformedURLError{URL: t, Err: err}
	}
	hop.Next = urlnorm.EscapeSpaces(base.ResolveReference(ref).String())
	return nil
}

// location returns the first Location header line. A blank value counts as
// no header at all.
func location(h http.Header) (string, bool) {
	v := h.Get("Location")
	return v, strings.TrimSpace(v) != ""
}

func reasonPhrase(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if r, ok := strings.CutPrefix(resp.Status, code+" "); ok {
		return r
	}
	if resp.Status != "" && resp.Status != code {
		return resp.Status
	}
	return http.StatusText(resp.StatusCode)
}

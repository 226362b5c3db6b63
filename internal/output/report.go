package output

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/selimozcann/longurl/internal/model"
	"github.com/selimozcann/longurl/internal/urlnorm"
)

// ResultType enumerates the classification of a resolved chain.
type ResultType string

const (
	ResultTypeDirect    ResultType = "direct"    // no redirect at all
	ResultTypeOnsite    ResultType = "onsite"    // ends on the start's registered domain
	ResultTypeOffsite   ResultType = "offsite"   // ends somewhere else
	ResultTypeTruncated ResultType = "truncated" // hop limit reached
	ResultTypeError     ResultType = "error"
)

// Record represents one line in the JSONL report.
type Record struct {
	ID            uuid.UUID       `json:"id"`
	Timestamp     string          `json:"timestamp"`
	InputURL      string          `json:"input_url"`
	FinalURL      string          `json:"final_url"`
	FinalDomain   string          `json:"final_domain"`
	Type          ResultType      `json:"type"`
	Redirects     int             `json:"redirects"`
	RedirectChain []string        `json:"redirect_chain"`
	Hops          []model.Hop     `json:"hops"`
	StatusCode    int             `json:"status_code"`
	DurationMs    int64           `json:"duration_ms"`
	Truncated     bool            `json:"truncated,omitempty"`
	Findings      []model.Finding `json:"findings,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Summary contains counters for the HTML summary section.
type Summary struct {
	TotalTargets int
	WithFindings int
	Offsite      int
	Errors       int
}

// ResultView is used by the HTML template with pre-computed fields.
type ResultView struct {
	Index      int
	Timestamp  time.Time
	InputURL   string
	FinalURL   string
	Type       ResultType
	StatusCode int
	Redirects  int
	DurationMs int64
	Truncated  bool
	Findings   []model.Finding
	Chain      []model.Hop
	Error      string
}

// PageData provides the full context for the HTML report.
type PageData struct {
	Title         string
	GeneratedAt   time.Time
	Params        map[string]string
	OrderedParams []Param
	Summary       Summary
	Results       []ResultView
}

// Param represents a rendered CLI argument/value pair.
type Param struct {
	Key   string
	Value string
}

func inputURL(target string, c model.Chain) string {
	if target != "" {
		return target
	}
	return c.Start
}

func lastStatus(c model.Chain) int {
	if last, ok := c.Last(); ok {
		return last.Status
	}
	return 0
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// BuildRecord converts a resolved chain and its error into a Record.
func BuildRecord(target string, c model.Chain, err error) Record {
	return Record{
		ID:            uuid.New(),
		Timestamp:     c.StartedAt.UTC().Format(time.RFC3339),
		InputURL:      inputURL(target, c),
		FinalURL:      c.FinalURL,
		FinalDomain:   c.FinalDomain,
		Type:          DetermineType(c, err),
		Redirects:     c.Redirects(),
		RedirectChain: c.URLs(),
		Hops:          append([]model.Hop(nil), c.Hops...),
		StatusCode:    lastStatus(c),
		DurationMs:    c.DurationMs,
		Truncated:     c.Truncated,
		Findings:      append([]model.Finding(nil), c.Findings...),
		Error:         errString(err),
	}
}

// BuildResultView converts a resolved chain into a ResultView for HTML
// rendering.
func BuildResultView(idx int, target string, c model.Chain, err error) ResultView {
	return ResultView{
		Index:      idx,
		Timestamp:  c.StartedAt,
		InputURL:   inputURL(target, c),
		FinalURL:   c.FinalURL,
		Type:       DetermineType(c, err),
		StatusCode: lastStatus(c),
		Redirects:  c.Redirects(),
		DurationMs: c.DurationMs,
		Truncated:  c.Truncated,
		Findings:   append([]model.Finding(nil), c.Findings...),
		Chain:      append([]model.Hop(nil), c.Hops...),
		Error:      errString(err),
	}
}

// BuildSummary derives high level counters from the views.
func BuildSummary(views []ResultView) Summary {
	sum := Summary{TotalTargets: len(views)}
	for _, v := range views {
		if len(v.Findings) > 0 {
			sum.WithFindings++
		}
		if v.Type == ResultTypeOffsite {
			sum.Offsite++
		}
		if v.Error != "" {
			sum.Errors++
		}
	}
	return sum
}

// DetermineType classifies a chain into one of the ResultType values.
func DetermineType(c model.Chain, err error) ResultType {
	switch {
	case err != nil:
		return ResultTypeError
	case c.Truncated:
		return ResultTypeTruncated
	case c.Redirects() == 0:
		return ResultTypeDirect
	}
	if sameSite(c.Start, c.FinalURL) {
		return ResultTypeOnsite
	}
	return ResultTypeOffsite
}

// sameSite compares registered domains, falling back to the bare host for
// IP literals and single-label hosts.
func sameSite(a, b string) bool {
	ra, rb := urlnorm.RegisteredDomain(a), urlnorm.RegisteredDomain(b)
	if ra != "" && rb != "" {
		return ra == rb
	}
	return urlnorm.Host(a) != "" && urlnorm.Host(a) == urlnorm.Host(b)
}

// WriteJSONL writes each record as a JSON line to w.
func WriteJSONL(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/selimozcann/longurl/internal/model"
	"github.com/selimozcann/longurl/internal/output"
)

func sampleChain(start time.Time) model.Chain {
	return model.Chain{
		Start: "http://sho.rt/abc",
		Hops: []model.Hop{
			{Index: 0, URL: "http://sho.rt/abc", Status: 301, Kind: model.KindHeader, Target: "/x", Form: model.FormAbsolute, Next: "http://sho.rt/x", TimeMs: 10},
			{Index: 1, URL: "http://sho.rt/x", Status: 200, Kind: model.KindMetaRefresh, Target: "http://www.example.com/end", Form: model.FormURL, Next: "http://www.example.com/end", TimeMs: 12},
			{Index: 2, URL: "http://www.example.com/end", Status: 200, Kind: model.KindNone, TimeMs: 25},
		},
		FinalURL:         "http://www.example.com/end",
		FinalDomain:      "example.com",
		RegisteredDomain: "example.com",
		Findings:         []model.Finding{{Type: "TOKEN_LEAK", AtHop: 1, Severity: "medium", Detail: "token in query"}},
		StartedAt:        start,
		DurationMs:       47,
	}
}

func TestWriteJSONL(t *testing.T) {
	baseTime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	record := output.BuildRecord("sho.rt/abc", sampleChain(baseTime), nil)

	var buf bytes.Buffer
	if err := output.WriteJSONL(&buf, []output.Record{record}); err != nil {
		t.Fatalf("WriteJSONL error: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "\n") {
		t.Fatalf("expected a single line, got %q", line)
	}
	var got output.Record
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("unexpected JSON decode error: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Fatal("expected a record id")
	}
	if got.Type != output.ResultTypeOffsite {
		t.Fatalf("expected type offsite, got %q", got.Type)
	}
	if got.InputURL != "sho.rt/abc" || got.FinalURL != "http://www.example.com/end" {
		t.Fatalf("unexpected urls: %s -> %s", got.InputURL, got.FinalURL)
	}
	if got.Redirects != 2 || len(got.RedirectChain) != 3 || got.StatusCode != 200 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.Timestamp != "2024-01-02T03:04:05Z" {
		t.Fatalf("unexpected timestamp %s", got.Timestamp)
	}
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewJSONLWriter(&buf)
	for i := 0; i < 3; i++ {
		if err := w.Add("", model.Chain{Start: "http://a.example/"}, errors.New("boom")); err != nil {
			t.Fatal(err)
		}
	}
	if buf.Len() != 0 {
		t.Fatal("expected output to be buffered until Close")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if w.Count() != 3 {
		t.Fatalf("expected 3 records, got %d", w.Count())
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	var rec output.Record
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Type != output.ResultTypeError || rec.Error != "boom" || rec.InputURL != "http://a.example/" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

type brokenWriter struct{ err error }

func (b brokenWriter) Write([]byte) (int, error) { return 0, b.err }

func TestJSONLWriterStickyError(t *testing.T) {
	diskFull := errors.New("no space left on device")
	w := output.NewJSONLWriter(brokenWriter{err: diskFull})
	big := model.Chain{Start: "http://a.example/" + strings.Repeat("x", 8192)}

	if err := w.Add("", big, nil); !errors.Is(err, diskFull) {
		t.Fatalf("expected the write error, got %v", err)
	}
	if err := w.Add("", model.Chain{}, nil); !errors.Is(err, diskFull) {
		t.Fatalf("expected the error to stick, got %v", err)
	}
	if err := w.Close(); !errors.Is(err, diskFull) {
		t.Fatalf("Close = %v", err)
	}
	if w.Count() != 0 {
		t.Fatalf("expected no records counted, got %d", w.Count())
	}
}

func TestDetermineType(t *testing.T) {
	hop := func(u string, k model.Kind) model.Hop { return model.Hop{URL: u, Kind: k} }
	tests := []struct {
		name  string
		chain model.Chain
		err   error
		want  output.ResultType
	}{
		{"error", model.Chain{}, errors.New("x"), output.ResultTypeError},
		{"truncated", model.Chain{Truncated: true, Hops: []model.Hop{hop("http://a.com/", model.KindHeader)}}, nil, output.ResultTypeTruncated},
		{"direct", model.Chain{Start: "http://a.com/", FinalURL: "http://a.com/", Hops: []model.Hop{hop("http://a.com/", model.KindNone)}}, nil, output.ResultTypeDirect},
		{"onsite", model.Chain{Start: "http://a.com/", FinalURL: "https://www.a.com/x", Hops: []model.Hop{hop("http://a.com/", model.KindHeader), hop("https://www.a.com/x", model.KindNone)}}, nil, output.ResultTypeOnsite},
		{"onsite ip", model.Chain{Start: "http://127.0.0.1:8080/", FinalURL: "http://127.0.0.1:8080/x", Hops: []model.Hop{hop("http://127.0.0.1:8080/", model.KindHeader), hop("http://127.0.0.1:8080/x", model.KindNone)}}, nil, output.ResultTypeOnsite},
		{"offsite", model.Chain{Start: "http://a.com/", FinalURL: "http://b.co.uk/", Hops: []model.Hop{hop("http://a.com/", model.KindHeader), hop("http://b.co.uk/", model.KindNone)}}, nil, output.ResultTypeOffsite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := output.DetermineType(tt.chain, tt.err); got != tt.want {
				t.Fatalf("DetermineType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	baseTime := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	views := []output.ResultView{
		output.BuildResultView(0, "sho.rt/abc", sampleChain(baseTime), nil),
		output.BuildResultView(1, "bad.example", model.Chain{Start: "http://bad.example"}, errors.New("refused <tcp>")),
	}
	page := output.PageData{
		Title:       "Test Report",
		GeneratedAt: baseTime,
		Params: map[string]string{
			"threads": "10",
			"input":   "targets.txt",
		},
		Summary: output.BuildSummary(views),
		Results: views,
	}
	if page.Summary != (output.Summary{TotalTargets: 2, WithFindings: 1, Offsite: 1, Errors: 1}) {
		t.Fatalf("unexpected summary %+v", page.Summary)
	}

	var buf bytes.Buffer
	if err := output.RenderHTML(&buf, page); err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}
	html := buf.String()

	mustContain := []string{
		"Test Report",
		"http://www.example.com/end",
		"<td>refresh</td>",
		"<td>absolute</td>",
		"TOKEN_LEAK at hop 1",
		"type-offsite",
		"Error: refused &lt;tcp&gt;",
	}
	for _, sub := range mustContain {
		if !strings.Contains(html, sub) {
			t.Fatalf("expected HTML to contain %q", sub)
		}
	}

	idxInput := strings.Index(html, "<dt>input</dt>")
	idxThreads := strings.Index(html, "<dt>threads</dt>")
	if idxInput == -1 || idxThreads == -1 {
		t.Fatalf("expected parameters to render")
	}
	if idxInput > idxThreads {
		t.Fatalf("expected parameters to be sorted alphabetically")
	}
}

func TestWriteSummary(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	c := sampleChain(time.Now())
	c.Hops = append([]model.Hop{
		{Index: 0, URL: "http://sho.rt/" + strings.Repeat("p", 80), Status: 302, Kind: model.KindHeader, Form: model.FormRelative},
		{Index: 0, URL: "http://sho.rt/full", Status: 302, Kind: model.KindHeader, Form: model.FormURL},
	}, c.Hops...)

	var buf bytes.Buffer
	output.WriteSummary(&buf, c, nil, 40)
	got := buf.String()

	want := "\n" +
		"relative path from http://sho.rt/ppppppp\n" +
		"absolute path from http://sho.rt/abc\n" +
		"meta refresh from  http://sho.rt/x\n" +
		"total redirects: 4\n" +
		"final domain: example.com\n" +
		"findings:\n" +
		"  [medium] TOKEN_LEAK at hop 1: token in query\n"
	if got != want {
		t.Fatalf("unexpected summary:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriteSummaryTruncated(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	c := model.Chain{
		Hops:      []model.Hop{{Index: 0, URL: "http://a.example/", Status: 301, Kind: model.KindHeader, Form: model.FormURL}},
		FinalURL:  "http://b.example/",
		Truncated: true,
	}
	var buf bytes.Buffer
	output.WriteSummary(&buf, c, nil, output.DefaultColumns)
	if !strings.Contains(buf.String(), "[!] hop limit reached after 1 hops; next would be http://b.example/") {
		t.Fatalf("missing truncation notice in %q", buf.String())
	}
	if !strings.HasPrefix(buf.String(), "\ntotal redirects: 1\n") {
		t.Fatalf("full URL targets should not get a summary line: %q", buf.String())
	}
}

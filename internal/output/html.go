package output

import (
	"html/template"
	"io"
	"sort"
	"time"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { color-scheme: light dark; }
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; background:#fafafa; color:#111; }
h1 { font-size: 26px; margin: 0 0 8px; }
h2 { font-size:20px; margin:0 0 12px; }
.section { border:1px solid #e5e7eb; border-radius:16px; padding:16px 20px; margin-bottom:18px; background:#fff; }
.summary-grid { display:grid; gap:12px; grid-template-columns: repeat(auto-fit,minmax(180px,1fr)); }
.summary-card { padding:12px; border-radius:12px; border:1px solid #cbd5f5; }
.summary-card .count { float:right; font-weight:600; }
.meta { color:#6b7280; font-size:12px; }
.type { display:inline-block; padding:2px 8px; border-radius:999px; background:#e5e7eb; font-size:12px; margin-left:6px; }
.type-offsite { background:#fde68a; }
.type-error { background:#fecaca; }
.table { width:100%; border-collapse:collapse; font-size:14px; }
.table th, .table td { border-bottom:1px solid #e5e7eb; padding:6px 8px; text-align:left; }
.url { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; word-break:break-all; }
@media (prefers-color-scheme: dark) {
        body { background:#0f172a; color:#e2e8f0; }
        .section { background:#1e293b; border-color:#334155; }
        .type { background:#475569; }
}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated at {{formatTime .GeneratedAt}}</p>
<section id="summary" class="section">
  <h2>Summary</h2>
  <div class="summary-grid">
    <div class="summary-card">Targets<span class="count">{{.Summary.TotalTargets}}</span></div>
    <div class="summary-card">Offsite<span class="count">{{.Summary.Offsite}}</span></div>
    <div class="summary-card">With Findings<span class="count">{{.Summary.WithFindings}}</span></div>
    <div class="summary-card">Errors<span class="count">{{.Summary.Errors}}</span></div>
  </div>
</section>
{{- if .OrderedParams }}
<section id="parameters" class="section">
  <h2>Parameters</h2>
  <dl>
  {{- range .OrderedParams }}
    <dt>{{.Key}}</dt>
    <dd class="url">{{.Value}}</dd>
  {{- end }}
  </dl>
</section>
{{- end }}
<section id="chains" class="section">
  <h2>Redirect Chains</h2>
  {{range .Results}}
    <details open>
      <summary><span class="url">{{.InputURL}}</span> &rarr; <span class="url">{{.FinalURL}}</span><span class="type type-{{.Type}}">{{.Type}}</span> <span class="meta">{{.Redirects}} redirects, {{.DurationMs}}ms</span></summary>
      {{if .Error}}<p class="meta">Error: {{.Error}}</p>{{end}}
      {{if .Truncated}}<p class="meta">Hop limit reached; chain truncated.</p>{{end}}
      <table class="table">
        <thead>
          <tr><th>#</th><th>URL</th><th>Status</th><th>Via</th><th>Time (ms)</th></tr>
        </thead>
        <tbody>
        {{range .Chain}}
          <tr>
            <td>{{.Index}}</td>
            <td class="url">{{.URL}}</td>
            <td>{{.Status}}{{if .Reason}} {{.Reason}}{{end}}</td>
            <td>{{.Tag}}</td>
            <td>{{.TimeMs}}</td>
          </tr>
        {{end}}
        </tbody>
      </table>
      {{if .Findings}}
      <ul>
        {{range .Findings}}
          <li><strong>{{.Severity}}</strong> {{.Type}} at hop {{.AtHop}}: {{.Detail}}</li>
        {{end}}
      </ul>
      {{end}}
    </details>
  {{end}}
</section>
</body>
</html>
`))

// RenderHTML renders the HTML report using the provided data.
func RenderHTML(w io.Writer, data PageData) error {
	if data.Params != nil {
		keys := make([]string, 0, len(data.Params))
		for k := range data.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]Param, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, Param{Key: k, Value: data.Params[k]})
		}
		data.OrderedParams = ordered
	}
	return htmlTemplate.Execute(w, data)
}

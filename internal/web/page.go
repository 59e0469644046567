package web

import (
	"net/http"
	"sort"

	"github.com/rcliao/reviewdesk/internal/corpus"
)

type pageData struct {
	Models  []string
	Summary []summaryRow
	Stats   []statRow
	Emails  []emailView
}

type summaryRow struct {
	Model  string
	Emails int
}

type statRow struct {
	Model string
	Count int
}

type emailView struct {
	Index    int
	ID       string
	Selected []string
	Columns  []columnView
}

type columnView struct {
	Model    string
	Selected bool
	Fields   []corpus.Field
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	selections, stats := s.svc.Snapshot(r.Context())

	data := pageData{Models: s.corpora.Names()}

	totals := s.corpora.Totals()
	for _, name := range data.Models {
		data.Summary = append(data.Summary, summaryRow{Model: name, Emails: totals[name]})
	}

	// Configured models first, then anything extra found in stats.
	seen := make(map[string]bool, len(data.Models))
	for _, name := range data.Models {
		data.Stats = append(data.Stats, statRow{Model: name, Count: stats[name]})
		seen[name] = true
	}
	var extra []string
	for name := range stats {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		data.Stats = append(data.Stats, statRow{Model: name, Count: stats[name]})
	}

	for i, id := range s.corpora.CommonIDs() {
		ev := emailView{
			Index:    i + 1,
			ID:       id,
			Selected: selections[id].SelectedModels,
		}
		for _, name := range data.Models {
			ev.Columns = append(ev.Columns, columnView{
				Model:    name,
				Selected: selections[id].Has(name),
				Fields:   s.corpora.Fields(name, id),
			})
		}
		data.Emails = append(data.Emails, ev)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Email Analysis Comparison</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.8rem; text-align: left; }
.email { border-top: 2px solid #333; padding-top: 1rem; margin-top: 1.5rem; }
.columns { display: flex; gap: 1rem; }
.column { flex: 1; border: 1px solid #ddd; padding: 0.5rem; }
.column.selected { border-color: #2a7; background: #f2fbf6; }
.field { margin: 0.4rem 0; }
.field b { display: block; font-size: 0.85rem; color: #555; }
.field pre { margin: 0.1rem 0; white-space: pre-wrap; background: #f7f7f7; padding: 0.3rem; }
.chosen { color: #2a7; font-weight: bold; }
button { cursor: pointer; }
</style>
</head>
<body>
<h1>Email Analysis Comparison</h1>

<h2>Analysis Summary</h2>
<table>
<tr><th>Model</th><th>Total Emails</th></tr>
{{range .Summary}}<tr><td>{{.Model}}</td><td>{{.Emails}}</td></tr>
{{end}}</table>

<h2>Model Selection Statistics</h2>
<table>
<tr><th>Model</th><th>Times Selected</th></tr>
{{range .Stats}}<tr><td>{{.Model}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Detailed Comparisons</h2>
{{range .Emails}}
<div class="email" id="email-{{.ID}}">
<h3>Email #{{.Index}} ({{.ID}})</h3>
{{if .Selected}}<p class="chosen">Selected models: {{range $i, $m := .Selected}}{{if $i}}, {{end}}{{$m}}{{end}}</p>{{end}}
<div class="columns">
{{$id := .ID}}
{{range .Columns}}
<div class="column{{if .Selected}} selected{{end}}">
<h4>{{.Model}}</h4>
<form method="post" action="/select">
<input type="hidden" name="item_id" value="{{$id}}">
<input type="hidden" name="model" value="{{.Model}}">
<button type="submit">{{if .Selected}}Selected ✓{{else}}Select {{.Model}}{{end}}</button>
</form>
{{range .Fields}}<div class="field"><b>{{.Name}}</b><pre>{{.Value}}</pre></div>
{{end}}</div>
{{end}}
</div>
</div>
{{end}}
</body>
</html>
`

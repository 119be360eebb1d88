package http

import (
	"html/template"

	"github.com/couchcryptid/flood-monitor/internal/domain"
)

type row struct {
	Region        string
	County        string
	RiverOrSea    string
	Description   string
	Severity      string
	SeverityClass string
	LastUpdated   string
}

type pageData struct {
	Lang    string
	Loading bool
	Error   string
	Rows    []row
}

func buildRows(records []domain.FloodRecord, f timeFormatter) []row {
	rows := make([]row, 0, len(records))
	for _, r := range records {
		rows = append(rows, row{
			Region:        r.EAAreaName,
			County:        r.FloodArea.County,
			RiverOrSea:    r.FloodArea.RiverOrSea,
			Description:   r.Description,
			Severity:      r.Severity,
			SeverityClass: domain.SeverityClass(r.SeverityLevel),
			LastUpdated:   f.format(r.TimeMessageChanged),
		})
	}
	return rows
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Flood Monitoring Data</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; margin: 2rem; color: #1f2328; }
  .loading, .error { padding: 1rem; font-size: 1.1rem; }
  .error { color: #b42318; }
  .flood-table { border-collapse: collapse; width: 100%; }
  .flood-table th, .flood-table td { border: 1px solid #d0d7de; padding: 0.5rem; text-align: left; }
  .flood-table th { background: #f6f8fa; }
  .severity-level-1 { color: #fff; background: #b42318; padding: 0.1rem 0.4rem; border-radius: 3px; }
  .severity-level-2 { color: #fff; background: #e36209; padding: 0.1rem 0.4rem; border-radius: 3px; }
  .severity-level-3 { color: #1f2328; background: #ffd33d; padding: 0.1rem 0.4rem; border-radius: 3px; }
  .severity-level-4 { color: #57606a; background: #eaeef2; padding: 0.1rem 0.4rem; border-radius: 3px; }
</style>
</head>
<body>
{{- if .Loading}}
<div class="loading">Loading flood data...</div>
{{- else if .Error}}
<div class="error">{{.Error}}</div>
{{- else}}
<div class="flood-container">
<h1>Flood Monitoring Data</h1>
<table class="flood-table">
<thead>
<tr>
<th>Region</th>
<th>County</th>
<th>River/Sea</th>
<th>Description</th>
<th>Severity</th>
<th>Last Updated</th>
</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
<td>{{.Region}}</td>
<td>{{.County}}</td>
<td>{{.RiverOrSea}}</td>
<td>{{.Description}}</td>
<td><span class="{{.SeverityClass}}">{{.Severity}}</span></td>
<td>{{.LastUpdated}}</td>
</tr>
{{- end}}
</tbody>
</table>
</div>
{{- end}}
</body>
</html>
`))

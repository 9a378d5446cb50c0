package render

import (
	"bytes"
	"html/template"
	"strings"

	"invoicedesk/internal/domain"
)

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}} {{metaValue .Meta 0}}</title>
  <style>
    body { margin: 0; padding: 32px; font-family: "Helvetica Neue", Arial, sans-serif; color: #111827; }
    .invoice { max-width: 820px; margin: 0 auto; }
    .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
    .modern .header { border-bottom: 2px solid #1f2937; padding-bottom: 16px; }
    .label { color: #6b7280; font-size: 11px; text-transform: uppercase; letter-spacing: 0.04em; }
    .section { margin-bottom: 24px; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    .totals { margin-left: auto; width: 320px; }
    .totals .grand { font-size: 18px; font-weight: bold; }
    .placeholder { color: #9ca3af; font-style: italic; }
    .footer { border-top: 1px solid #e5e7eb; padding-top: 16px; font-size: 12px; color: #6b7280; }
  </style>
</head>
<body>
  <div class="invoice {{templateClass .Template}}">
    <div class="header">
      <div>
        <h1>{{.Title}}</h1>
        {{template "party" .Issuer}}
      </div>
      <div class="meta">
        {{if .Meta.Heading}}<div class="label">{{.Meta.Heading}}</div>{{end}}
        {{range .Meta.Lines}}<div><span class="label">{{.Label}}</span> {{.Value}}</div>{{end}}
      </div>
    </div>

    <div class="section">{{template "party" .BillTo}}</div>

    <div class="section">
      <table>
        <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
        <tbody>
          {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
          {{end}}
        </tbody>
      </table>
    </div>

    <table class="totals">
      {{range .Totals}}<tr{{if .Emphasis}} class="grand"{{end}}><td>{{.Label}}</td><td>{{.Value}}</td></tr>
      {{end}}
    </table>

    {{if .Notes.Heading}}<div class="section">{{template "section" .Notes}}</div>{{end}}
    <div class="section">{{template "section" .Payment}}</div>

    <div class="footer">
      {{range .Footer}}<div>{{.}}</div>{{end}}
    </div>
  </div>
</body>
</html>
{{define "party"}}
{{if .Heading}}<div class="label">{{.Heading}}</div>{{end}}
{{if .Empty}}<div class="placeholder">{{.Placeholder}}</div>{{else}}
<div><strong>{{.Name}}</strong></div>
{{range .Lines}}<div>{{.}}</div>{{end}}{{end}}
{{end}}
{{define "section"}}
<div class="label">{{.Heading}}</div>
{{range .Lines}}<div>{{if .Label}}<span class="label">{{.Label}}</span> {{end}}{{.Value}}</div>{{end}}
{{end}}
`

var page = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"templateClass": func(id domain.TemplateID) string { return strings.ToLower(string(id)) },
	"metaValue": func(s Section, i int) string {
		if i < 0 || i >= len(s.Lines) {
			return ""
		}
		return s.Lines[i].Value
	},
}).Parse(pageTemplate))

// RenderHTML writes v as a standalone HTML page.
func RenderHTML(v View) (string, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

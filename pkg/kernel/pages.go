package kernel

import (
	"bytes"
	"encoding/base64"
	"html/template"

	"github.com/yuin/goldmark"
	gmext "github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

// markdown renders model output. Raw HTML in the source is dropped.
var markdown = goldmark.New(
	goldmark.WithExtensions(gmext.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// renderMarkdown converts a plan to HTML, falling back to escaped text.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}

// pageData feeds the single-page UI.
type pageData struct {
	Request   string
	Warning   string
	Result    *domain.PlanResult
	PDFHref   template.URL
	FinalHTML template.HTML // self-corrected plan rendered from markdown
}

func newPageData(raw string, result *domain.PlanResult) pageData {
	data := pageData{Request: raw, Result: result}
	if result == nil || !result.Success {
		return data
	}
	data.FinalHTML = renderMarkdown(result.Final)
	if len(result.Document) > 0 {
		data.PDFHref = template.URL("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(result.Document))
	}
	return data
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Autonomous Trip Planner</title>
<style>
body { font-family: sans-serif; max-width: 920px; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; }
pre { white-space: pre-wrap; background: #f6f8fa; padding: 1rem; border-radius: 6px; }
.grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: .5rem; }
.metric { border: 1px solid #ddd; border-radius: 6px; padding: .5rem; }
.plan { border-left: 3px solid #2b7a78; padding-left: 1rem; }
.error { color: #b00020; }
.warning { color: #8a6d00; }
</style>
</head>
<body>
<h1>Autonomous Trip Planner</h1>
<p>Describe your ideal trip and the assistant takes care of the rest.</p>
<form method="post" action="/plan">
<textarea name="request" rows="6" placeholder="e.g. Bali from 15 to 30 December with 2 adults and 1 child, medium budget, we like to move around">{{.Request}}</textarea>
<p><button type="submit">Generate my itinerary</button></p>
</form>
{{with .Warning}}<p class="warning">{{.}}</p>{{end}}
{{with .Result}}
{{if .Success}}
<h2>Trip summary</h2>
<div class="grid">
<div class="metric">Origin<br><strong>{{.Trip.Origin}}</strong></div>
<div class="metric">Destination<br><strong>{{.Trip.Destination}}</strong></div>
<div class="metric">Dates<br><strong>{{.Trip.Dates}}</strong></div>
<div class="metric">Adults<br><strong>{{.Trip.Travelers.Adults}}</strong></div>
<div class="metric">Children<br><strong>{{.Trip.Travelers.Children}}</strong></div>
<div class="metric">Style / budget<br><strong>{{.Trip.Preferences.Style}} / {{.Trip.Preferences.Budget}}</strong></div>
</div>
<h2>Reasoning pass</h2>
<pre>{{.Draft}}</pre>
<h2>Self-corrected plan</h2>
<div class="plan">{{$.FinalHTML}}</div>
{{else}}
<p class="error">Error: {{.Message}}</p>
<pre>{{.Error}}</pre>
{{end}}
{{end}}
{{with .PDFHref}}<p><a href="{{.}}" download="{{$.Result.FileName}}">Download the PDF</a></p>{{end}}
</body>
</html>
`))

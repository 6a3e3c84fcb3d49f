package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/htu-dlearn/courseboard/internal/course"
	applog "github.com/htu-dlearn/courseboard/internal/log"
)

var templateFuncs = template.FuncMap{
	"pct":      formatPercent,
	"pctf":     func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"bar":      barWidth,
	"donut":    donutDash,
	"check":    checkmark,
	"markdown": renderMarkdown,
}

// formatPercent shows absent as 0, the way the progress widgets do.
func formatPercent(p course.Percent, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, p.OrZero())
}

// barWidth truncates to a whole percent in [0, 100] for progress bars.
func barWidth(v any) int {
	var f float64
	switch t := v.(type) {
	case course.Percent:
		f = t.OrZero()
	case float64:
		f = t
	case int:
		f = float64(t)
	}
	n := int(f)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// donutDash is the stroke-dasharray of a circle with circumference 100.
func donutDash(p course.Percent) string {
	v := p.OrZero()
	return fmt.Sprintf("%.2f %.2f", v, 100-v)
}

func checkmark(done bool) string {
	if done {
		return "✅"
	}
	return "❌"
}

// renderMarkdown renders trusted config text; raw HTML in it is dropped.
func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.HrefTargetBlank})
	return template.HTML(markdown.ToHTML([]byte(src), p, r))
}

// render executes content inside the shared layout.
func (s *Server) render(w http.ResponseWriter, r *http.Request, content string, data map[string]any) {
	t := template.Must(s.layoutTpl.Clone())
	if _, err := t.New("content").Parse(content); err != nil {
		applog.Errorf("template parse: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	s.layoutData(r, data)
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		applog.Errorf("template execute: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

const homeTpl = `
<h1 class="center brand">{{.Title}}</h1>
<h2 class="center">{{.Subtitle}}</h2>
{{if .Readiness}}
<h3 class="center">University Snapshot</h3>
<div class="card wide">
  <div class="card-title">Overall Readiness</div>
  <div class="muted">{{.Overall.Ready}} of {{.Overall.Total}} courses ready</div>
  <div class="bar"><span style="width:{{bar .Overall.Percent}}%"></span></div>
  <div>Completion: {{pctf .Overall.Percent}}</div>
</div>
<div class="grid">
{{range .Readiness}}
  <div class="card">
    <div class="card-title">{{.School}}</div>
    <div class="muted">{{.Ready}} of {{.Total}} ready</div>
    <div class="bar"><span style="width:{{bar .Percent}}%"></span></div>
    <small>Progress: {{pctf .Percent}}</small>
  </div>
{{end}}
</div>
{{end}}
<h3>Course plans</h3>
<ul class="sources">
{{range .Sources}}
  <li><a href="/sources/{{.Key}}">{{.Label}}</a> · <a href="/sources/{{.Key}}/schools">Schools</a></li>
{{end}}
</ul>
<hr/>
<h3>📊 About This Dashboard</h3>
<div class="about">{{markdown .About}}</div>
`

const overviewTpl = `
<h3>{{.Source.Label}}</h3>
<h3>🎯 Course Progress by School</h3>
{{if not .Schools}}
  <div class="info">No schools found.</div>
{{else}}
<div class="grid">
{{range .Schools}}
  <div class="donut-cell">
    <p class="card-title">{{.School}}</p>
    <p class="muted">{{.Courses}} Courses</p>
    <svg viewBox="0 0 42 42" width="150" height="150" role="img" aria-label="{{.School}} {{pct .Mean 2}}">
      <circle cx="21" cy="21" r="15.91549430918954" fill="transparent" stroke="#2b2b2b" stroke-width="6"></circle>
      <circle cx="21" cy="21" r="15.91549430918954" fill="transparent" stroke="#d04546" stroke-width="6" stroke-dasharray="{{donut .Mean}}" stroke-dashoffset="25"></circle>
      <text x="21" y="22.5" text-anchor="middle" class="donut-label">{{pct .Mean 2}}</text>
    </svg>
  </div>
{{end}}
</div>
{{end}}
<h3>Overall University Progress</h3>
<div class="bar"><span style="width:{{bar .Overall}}%"></span></div>
<p><b>Overall Completion:</b> {{pct .Overall 2}}</p>
`

const schoolsTpl = `
<h3>{{.Source.Label}} – Schools</h3>
<form method="get" class="filters">
  <label>College
    <select name="school" onchange="this.form.submit()">
    {{range .SchoolOptions}}<option{{if eq . $.School}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Department
    <select name="department" onchange="this.form.submit()">
    {{range .DepartmentOptions}}<option{{if eq . $.Department}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Course
    <select name="course" onchange="this.form.submit()">
    {{range .CourseOptions}}<option{{if eq . $.Course}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <noscript><button type="submit">Show</button></noscript>
</form>
{{if not .Found}}
  <div class="info">No data</div>
{{else}}
{{with .Record}}
<h3>{{.CoursePathway}} - ({{.DevelopmentStage}} Stage)</h3>
<hr/>
<p><b>👨‍🏫 Dean:</b> {{.DepartmentHead}}</p>
<p><b>📝 SMEs:</b> {{.SubjectMatterExperts}}</p>
<p><b>🎯 Instructional Designer:</b> {{.InstructionalDesigner}}</p>
{{end}}
<table class="tasks">
  <thead><tr><th>Task</th><th style="width:120px;">Completion</th></tr></thead>
  <tbody>
  {{range .Tasks}}<tr><td>{{.Label}}</td><td>{{check .Done}}</td></tr>{{end}}
  </tbody>
</table>
<h3>Overall Course Progress</h3>
<div class="bar"><span style="width:{{bar .Record.Progress}}%"></span></div>
<p><b>Completion Percentage:</b> {{pct .Record.Progress 2}}</p>
{{end}}
`

package server

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/htu-dlearn/courseboard/internal/auth"
	"github.com/htu-dlearn/courseboard/internal/config"
	"github.com/htu-dlearn/courseboard/internal/course"
	applog "github.com/htu-dlearn/courseboard/internal/log"
	"github.com/htu-dlearn/courseboard/internal/sheet"
	"github.com/htu-dlearn/courseboard/internal/ui"
)

type Server struct {
	userStore auth.UserStore
	mux       *http.ServeMux
	layoutTpl *template.Template
	cfg       *config.Config
	store     *sheet.Store
	loads     *ui.LoadLogStore
	uiCfg     config.UIConfig
}

const faviconSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
  <rect rx="12" width="64" height="64" fill="#d04546"/>
  <circle cx="32" cy="32" r="18" fill="none" stroke="#2b2b2b" stroke-width="8"/>
  <path d="M32 14a18 18 0 0 1 18 18" fill="none" stroke="#fff" stroke-width="8"/>
</svg>`

func NewServer(userStore auth.UserStore) *Server {
	return NewServerWithConfig(userStore, config.Default())
}

func NewServerWithConfig(userStore auth.UserStore, cfg *config.Config) *Server {
	loads := ui.NewLoadLogStore(cfg.UI.LoadLogMax)
	return NewServerWithStore(userStore, cfg, sheet.NewStore(cfg, loads), loads)
}

// NewServerWithStore uses an existing store; loads is the log the store
// writes to and may be nil.
func NewServerWithStore(userStore auth.UserStore, cfg *config.Config, store *sheet.Store, loads *ui.LoadLogStore) *Server {
	s := &Server{userStore: userStore, cfg: cfg, uiCfg: cfg.UI, store: store, loads: loads}
	s.mux = http.NewServeMux()
	s.layoutTpl = template.Must(template.New("layout").Funcs(templateFuncs).Parse(layoutTpl))
	s.routes()
	return s
}

func (s *Server) Store() *sheet.Store { return s.store }

const layoutTpl = `<!doctype html><html><head><meta charset="utf-8"><title>{{.Title}} · {{.Subtitle}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="icon" href="/favicon.svg" type="image/svg+xml">
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,Helvetica,Arial,sans-serif;margin:0;background:#0e1117;color:#fafafa;display:flex;min-height:100vh}
a{color:#d04546}
nav{width:220px;background:#262730;padding:16px;border-right:2px solid #d04546}
nav a{display:block;padding:6px 10px;text-decoration:none;color:#fafafa;border-radius:4px}
nav a.active{background:#d04546;color:#fff}
nav .group{margin-top:12px;color:#cccccc;font-size:13px;text-transform:uppercase}
main{flex:1;padding:16px 32px}
.center{text-align:center}
.brand{color:#d04546}
.muted{color:#cccccc;font-size:14px;margin:0 0 8px 0}
.grid{display:flex;flex-wrap:wrap;gap:20px;justify-content:center}
.card{background:#2b2b2b;border-radius:16px;padding:16px;text-align:center;box-shadow:0 4px 10px rgba(0,0,0,0.25);min-width:200px}
.card.wide{max-width:520px;margin:0 auto 16px auto}
.card-title{font-size:20px;font-weight:700;margin:0 0 6px 0}
.donut-cell{text-align:center}
.donut-label{font-size:5px;font-weight:700;fill:#fff}
.bar{background:#2b2b2b;border-radius:6px;height:10px;overflow:hidden;margin:8px 0}
.bar span{display:block;height:100%;background:#d04546}
.info{background:#1c3a5e;padding:8px 12px;border-radius:6px}
.filters label{display:inline-block;margin-right:16px}
table{border-collapse:collapse;width:100%}
th,td{border-bottom:1px solid #333;padding:6px;text-align:left}
.loadlog{margin-top:24px;border-top:1px solid #333;padding-top:8px;font-size:12px;color:#aaa}
.loadlog .err{color:#f87171}
footer{margin-top:40px;padding:20px 0 10px 0;border-top:1px solid #ccc;text-align:center;color:#666}
</style>
</head><body>
<nav>
  <a href="/" class="{{if eq .Active "home"}}active{{end}}">🏠 Home</a>
  {{range .Sources}}
  <div class="group">{{.Label}}</div>
  <a href="/sources/{{.Key}}" class="{{if eq $.Active (print .Key ":overview")}}active{{end}}">Overview</a>
  <a href="/sources/{{.Key}}/schools" class="{{if eq $.Active (print .Key ":schools")}}active{{end}}">Schools</a>
  {{end}}
</nav>
<main>
{{template "content" .}}
{{if .ShowLoadLog}}
<div class="loadlog">
  <form method="post" action="/refresh" style="float:right">
    <input type="hidden" name="source" value="{{.RefreshSource}}"/>
    <input type="hidden" name="return" value="{{.ReturnURL}}"/>
    <button type="submit">Reload data</button>
  </form>
  <strong>Recent data loads</strong>
  {{if .Loads}}
  <ul>
  {{range .Loads}}<li{{if .Err}} class="err"{{end}}>{{.When.Format "15:04:05"}} {{.Summary}}</li>{{end}}
  </ul>
  {{else}}<p>No loads yet.</p>{{end}}
</div>
{{end}}
<footer>{{.Footer}}</footer>
</main>
</body></html>`

// layoutData fills the keys the layout needs; handler values win.
func (s *Server) layoutData(r *http.Request, data map[string]any) {
	set := func(k string, v any) {
		if _, ok := data[k]; !ok {
			data[k] = v
		}
	}
	set("Title", s.uiCfg.Title)
	set("Subtitle", s.uiCfg.Subtitle)
	set("Footer", s.uiCfg.Footer)
	set("Sources", s.store.Sources())
	set("Active", activeFromPath(r.URL.Path))
	set("ReturnURL", r.URL.RequestURI())
	set("RefreshSource", "")
	show := s.uiCfg.ShowLoadLog && s.loads != nil
	set("ShowLoadLog", show)
	if show {
		set("Loads", s.loads.List(5))
	}
}

func (s *Server) routes() {
	s.mux.HandleFunc("/favicon.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
		_, _ = w.Write([]byte(faviconSVG))
	})
	s.mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/favicon.svg", http.StatusMovedPermanently)
	})
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		readiness := make([]course.Readiness, 0, len(s.cfg.Readiness))
		for _, rc := range s.cfg.Readiness {
			readiness = append(readiness, course.Readiness{School: rc.School, Total: rc.Total, Ready: rc.Ready})
		}
		s.render(w, r, homeTpl, map[string]any{
			"Readiness": readiness,
			"Overall":   course.SummarizeReadiness(readiness),
			"About":     s.uiCfg.About,
		})
	})

	s.mux.HandleFunc("/sources/", func(w http.ResponseWriter, r *http.Request) {
		key, view, ok := splitSourcePath(strings.TrimPrefix(r.URL.Path, "/sources/"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		src, ds, ok := s.dataset(w, r, key)
		if !ok {
			return
		}
		switch view {
		case "":
			s.renderOverview(w, r, src, ds)
		case "schools":
			s.renderSchools(w, r, src, ds)
		default:
			http.NotFound(w, r)
		}
	})

	s.mux.HandleFunc("/api/sources/", func(w http.ResponseWriter, r *http.Request) {
		key, view, ok := splitSourcePath(strings.TrimPrefix(r.URL.Path, "/api/sources/"))
		if !ok || view != "summary" {
			http.NotFound(w, r)
			return
		}
		src, ds, ok := s.dataset(w, r, key)
		if !ok {
			return
		}
		type schoolJSON struct {
			School  string         `json:"school"`
			Courses int            `json:"courses"`
			Mean    course.Percent `json:"mean"`
		}
		aggs := course.AggregateBySchool(ds.Records)
		schools := make([]schoolJSON, 0, len(aggs))
		for _, a := range aggs {
			schools = append(schools, schoolJSON{School: a.School, Courses: a.Courses, Mean: a.Mean})
		}
		writeJSON(w, map[string]any{
			"source":    src.Key,
			"label":     src.Label,
			"fetchedAt": ds.FetchedAt,
			"courses":   len(ds.Records),
			"overall":   course.MeanProgress(ds.Records),
			"schools":   schools,
		})
	})

	s.mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		source := strings.TrimSpace(r.FormValue("source"))
		if err := s.store.Refresh(source); err != nil {
			if errors.Is(err, sheet.ErrUnknownSource) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		user, ok := auth.UsernameFromRequest(r)
		if !ok {
			user = "anonymous"
		}
		applog.Infof("refresh requested for %q by %s", source, user)
		http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
	})
}

// dataset loads key and writes the error response itself when it fails.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request, key string) (config.SourceConfig, *course.Dataset, bool) {
	src, ok := s.store.Source(key)
	if !ok {
		http.NotFound(w, r)
		return src, nil, false
	}
	ds, err := s.store.Dataset(r.Context(), key)
	if err != nil {
		if errors.Is(err, sheet.ErrUnknownSource) {
			http.NotFound(w, r)
			return src, nil, false
		}
		applog.Errorf("dataset %s: %v", key, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return src, nil, false
	}
	return src, ds, true
}

func (s *Server) renderOverview(w http.ResponseWriter, r *http.Request, src config.SourceConfig, ds *course.Dataset) {
	s.render(w, r, overviewTpl, map[string]any{
		"Source":        src,
		"Schools":       course.AggregateBySchool(ds.Records),
		"Overall":       course.MeanProgress(ds.Records),
		"RefreshSource": src.Key,
	})
}

func (s *Server) renderSchools(w http.ResponseWriter, r *http.Request, src config.SourceConfig, ds *course.Dataset) {
	q := r.URL.Query()
	schools := course.Schools(ds.Records)
	school := pick(q.Get("school"), schools)
	departments := course.Departments(ds.Records, school)
	department := pick(q.Get("department"), departments)
	courses := course.Courses(ds.Records, school, department)
	name := pick(q.Get("course"), courses)

	rec, found := course.FindCourse(ds.Records, school, department, name)
	var tasks []course.Task
	if found {
		tasks = ds.TaskTable(rec)
	}
	s.render(w, r, schoolsTpl, map[string]any{
		"Source":            src,
		"SchoolOptions":     schools,
		"DepartmentOptions": departments,
		"CourseOptions":     courses,
		"School":            school,
		"Department":        department,
		"Course":            name,
		"Found":             found,
		"Record":            rec,
		"Tasks":             tasks,
		"RefreshSource":     src.Key,
	})
}

func (s *Server) Handler() http.Handler {
	protected := auth.BasicAuthMiddleware(s.userStore, "courseboard", s.mux)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			s.mux.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	})
}

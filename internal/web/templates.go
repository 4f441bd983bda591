package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"
)

//go:embed templates
var templateFS embed.FS

// sessionTimeLayout is how session datetimes render everywhere on the site.
// Parsing happens once at the form boundary; templates only format.
const sessionTimeLayout = "02/01/2006 às 15:04"

func (s *Server) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"dataSessao": func(t time.Time) string {
			return t.Format(sessionTimeLayout)
		},
		"fotoURL": s.avatars.ResolveURL,
	}
}

// parseTemplates builds one template set per page, each sharing base.html.
func parseTemplates(funcs template.FuncMap) (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", page)
		if err != nil {
			return nil, err
		}
		templates[path.Base(page)] = tmpl
	}
	return templates, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	tmpl, ok := s.templates[page]
	if !ok {
		s.logger.Error("unknown template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Flash"] = popFlash(w, r)
	data["User"] = s.sessions.Current(r)

	// Render to a buffer first so a template error never emits a half page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.logger.Error("template render failed", "page", page, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

package api

import (
	"embed"
	"html/template"

	"github.com/hargabyte/chaos-web/internal/view"
	"github.com/hargabyte/chaos-web/pkg/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"formatDate": func(ts schema.Timestamp) string { return ts.Format("Jan 2, 2006") },
	"formatTime": func(ts schema.Timestamp) string {
		if ts.Time.IsZero() {
			return ""
		}
		return ts.Time.Format("3:04 PM")
	},
	"countLabel": view.CountLabel,
	"roles":      func() []schema.Role { return schema.Roles },
	"maxContent": func() int { return schema.MaxContentLength },
	"maxTags":    func() int { return schema.MaxTags },
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

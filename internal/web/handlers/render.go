package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer executes the embedded HTML views.
type Renderer struct {
	tpl *template.Template
	log zerolog.Logger
}

// NewRenderer parses the embedded templates. Parse failures are programmer
// errors and panic at startup.
func NewRenderer(log zerolog.Logger) *Renderer {
	funcs := template.FuncMap{
		"prev": func(page int) int { return page - 1 },
		"next": func(page int) int { return page + 1 },
	}
	tpl := template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
	return &Renderer{tpl: tpl, log: log}
}

// Render writes the named view. A render failure after the header is written
// can only be logged.
func (re *Renderer) Render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := re.tpl.ExecuteTemplate(w, name, data); err != nil {
		re.log.Error().Err(err).Str("view", name).Msg("render view")
	}
}

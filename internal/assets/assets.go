package assets

import (
	"embed"
	"html/template"
)

// Callback result pages
//
//go:embed templates
var Templates embed.FS

// CallbackTemplate is the name of the page rendered for every callback outcome.
const CallbackTemplate = "callback.html"

func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(Templates, "templates/*.html")
}

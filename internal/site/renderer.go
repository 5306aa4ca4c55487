package site

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
)

// RequiredTemplates lists the template files that must exist before any
// processing begins. Their absence is a precondition failure.
var RequiredTemplates = []string{
	"index.html",
	"photo.html",
	"photos.html",
	"albums.html",
	"album.html",
	"contacts.html",
}

// Renderer loads the site templates once and renders pages from them.
// Templates get the sprig function map on top of the html/template
// builtins.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses all required templates from dir. Every missing
// template is collected so the error names them all at once.
func NewRenderer(dir string) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(RequiredTemplates))
	var missing []string

	for _, name := range RequiredTemplates {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			missing = append(missing, name)
			continue
		}
		t, err := template.New(name).Funcs(sprig.HtmlFuncMap()).Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = t
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("the following template files are missing: %s", strings.Join(missing, ", "))
	}

	return &Renderer{templates: templates}, nil
}

// Render executes a template by name and returns the page text.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template: %s", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderToFile renders a template and writes the result to path.
func (r *Renderer) RenderToFile(path, name string, data any) error {
	content, err := r.Render(name, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

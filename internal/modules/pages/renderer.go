package pages

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/charts"
	"github.com/metiseon/landing/internal/modules/display"
)

// Template locations inside the assets tree
const (
	layoutTemplate     = "templates/layout.html"
	componentsTemplate = "templates/components.html"
	pagesDir           = "templates/pages"
)

// Renderer executes page templates inside the shared layout
type Renderer struct {
	pages map[string]*template.Template
	theme display.Theme
}

// NewRenderer parses the layout, the components and every route's page
// template from fsys
func NewRenderer(fsys fs.FS, theme display.Theme) (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcMap(theme)).ParseFS(fsys, layoutTemplate, componentsTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout templates: %w", err)
	}

	r := &Renderer{
		pages: make(map[string]*template.Template),
		theme: theme,
	}

	for _, route := range Routes() {
		if _, ok := r.pages[route.Template]; ok {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", route.Template, err)
		}
		file := path.Join(pagesDir, route.Template+".html")
		if _, err := t.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		r.pages[route.Template] = t
	}

	return r, nil
}

// Render writes the named page. Output is buffered so a template failure
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("no template for page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func funcMap(theme display.Theme) template.FuncMap {
	return template.FuncMap{
		"variantClass": func(v domain.Variant) string { return theme.VariantClass(v) },
		"accentClass":  func() string { return theme.AccentClass },
		"signalClass":  func() string { return theme.SignalClass },
		"mutedClass":   func() string { return theme.MutedClass },
		"sparkPath":    charts.SparkToPath,
	}
}

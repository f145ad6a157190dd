// Package publish exports the site as a static file set and uploads it to
// S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/modules/pages"
	"github.com/metiseon/landing/internal/utils"
)

// ManifestPath is where the build manifest lands in every export
const ManifestPath = "manifest.json"

// Asset directories copied verbatim into an export
var assetDirs = []string{"static", "charts", "logic"}

func init() {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".svg", "image/svg+xml")
	_ = mime.AddExtensionType(".json", "application/json")
}

// PageRenderer renders a site route
type PageRenderer interface {
	Render(ctx context.Context, w io.Writer, path string) error
}

// ChartRenderer renders the generated SVG charts
type ChartRenderer interface {
	Names() []string
	Render(name string) ([]byte, error)
}

// File is one exported object
type File struct {
	Path        string
	ContentType string
	Data        []byte
}

// ManifestFile describes one file in the manifest
type ManifestFile struct {
	Path        string `json:"path"`
	Size        int    `json:"size"`
	ContentType string `json:"content_type"`
}

// Manifest identifies a build and lists what it contains
type Manifest struct {
	BuildID   string         `json:"build_id"`
	CreatedAt time.Time      `json:"created_at"`
	Files     []ManifestFile `json:"files"`
}

// Bundle is a complete static export. The manifest is always the last file.
type Bundle struct {
	Manifest Manifest
	Files    []File
}

// Exporter renders every route and asset into a Bundle
type Exporter struct {
	pages  PageRenderer
	charts ChartRenderer
	assets fs.FS
	log    zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewExporter creates a new static exporter
func NewExporter(pages PageRenderer, charts ChartRenderer, assets fs.FS, log zerolog.Logger) *Exporter {
	return &Exporter{
		pages:  pages,
		charts: charts,
		assets: assets,
		log:    log.With().Str("component", "exporter").Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Export renders the full site
func (e *Exporter) Export(ctx context.Context) (*Bundle, error) {
	defer utils.OperationTimer("export", e.log)()

	var files []File

	for _, route := range pages.Routes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := e.pages.Render(ctx, &buf, route.Path); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", route.Path, err)
		}
		files = append(files, File{
			Path:        PageFile(route.Path),
			ContentType: "text/html; charset=utf-8",
			Data:        buf.Bytes(),
		})
	}

	generated := make(map[string]bool)
	for _, name := range e.charts.Names() {
		generated[name] = true
		svg, err := e.charts.Render(name)
		if err != nil {
			return nil, fmt.Errorf("failed to render chart %s: %w", name, err)
		}
		files = append(files, File{Path: name, ContentType: "image/svg+xml", Data: svg})
	}

	for _, dir := range assetDirs {
		assetFiles, err := e.collect(dir)
		if err != nil {
			return nil, err
		}
		for _, f := range assetFiles {
			// rendered charts take precedence over same-named asset files
			if !generated[f.Path] {
				files = append(files, f)
			}
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	manifest := Manifest{
		BuildID:   e.newID(),
		CreatedAt: e.now().UTC(),
		Files:     make([]ManifestFile, 0, len(files)),
	}
	for _, f := range files {
		manifest.Files = append(manifest.Files, ManifestFile{Path: f.Path, Size: len(f.Data), ContentType: f.ContentType})
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	files = append(files, File{Path: ManifestPath, ContentType: "application/json", Data: data})

	e.log.Info().
		Str("build_id", manifest.BuildID).
		Int("files", len(files)).
		Msg("Site exported")

	return &Bundle{Manifest: manifest, Files: files}, nil
}

func (e *Exporter) collect(dir string) ([]File, error) {
	var files []File
	err := fs.WalkDir(e.assets, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(e.assets, p)
		if err != nil {
			return err
		}
		files = append(files, File{Path: p, ContentType: ContentType(p), Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect %s: %w", dir, err)
	}
	return files, nil
}

// PageFile maps a route to the file that serves it from a static host
func PageFile(route string) string {
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		return "index.html"
	}
	return path.Join(trimmed, "index.html")
}

// ContentType guesses a file's media type from its extension
func ContentType(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ExportDir writes a bundle under dir
func ExportDir(b *Bundle, dir string) error {
	for _, f := range b.Files {
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(target, f.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	return nil
}

// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
	"io/fs"
)

// Files contains all files embedded in the Go binary:
//   - assets/templates - layout, component and page templates
//   - assets/static - stylesheet and the copy-control script
//   - assets/content - site.yaml with the page copy and sample tables
//   - assets/charts, assets/logic - the pre-baked JSON fixtures
//
//go:embed assets
var Files embed.FS

// Assets returns the embedded assets rooted at assets/, the same layout an
// ASSETS_DIR override must follow
func Assets() fs.FS {
	sub, err := fs.Sub(Files, "assets")
	if err != nil {
		// fs.Sub only fails on an invalid path literal
		panic(err)
	}
	return sub
}

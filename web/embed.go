// Package web embeds the browser page served by lookout serve.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// Static returns the page assets rooted at static/.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

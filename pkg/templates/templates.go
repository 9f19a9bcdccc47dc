// Package templates holds the static files bundled by the archive builder.
//
// The files are embedded into the binary at compile time and are written
// into the archive byte-for-byte.
package templates

import (
	_ "embed"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
)

// Package manifest for the minimal realtime service.
//
//go:embed files/package.json
var PackageJSON string

// Server entry point: health check listener plus WebSocket echo.
//
//go:embed files/server.js
var ServerJS string

// Container build file exposing the WebSocket and health ports.
//
//go:embed files/Dockerfile
var Dockerfile string

// Default returns the template set in archive order.
func Default() []domain.TemplateFile {
	return []domain.TemplateFile{
		{Name: "package.json", Content: PackageJSON},
		{Name: "server.js", Content: ServerJS},
		{Name: "Dockerfile", Content: Dockerfile},
	}
}

// Names returns the template names in archive order.
func Names() []string {
	files := Default()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

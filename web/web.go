// Package web bundles the HTML templates served by cmd/server.
package web

import "embed"

// Templates holds templates/*.html.
//
//go:embed templates/*.html
var Templates embed.FS

// Package ui embeds the HTML templates and static assets of the web server.
package ui

import "embed"

//go:embed "templates" "static"
var Files embed.FS

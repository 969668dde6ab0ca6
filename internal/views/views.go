// Package views embeds the HTML templates for production builds. In
// development the templates are parsed from disk instead so edits show up
// without a rebuild.
package views

import "embed"

//go:embed *.html
var FS embed.FS

// Package palette provides the embedded tile color palettes shared by the image
// exporter and the terminal previewer.
package palette

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS

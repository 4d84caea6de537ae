// Package web holds the HTML pages served by the dog walking service.
package web

import "embed"

// Pages contains index.html and the two role dashboards.
//
//go:embed *.html
var Pages embed.FS

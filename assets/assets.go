// Package assets embeds the e-mail and print templates.
package assets

import "embed"

//go:embed all:templates
var FS embed.FS

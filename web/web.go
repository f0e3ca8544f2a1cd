// Package web embeds the public page and block templates.
package web

import "embed"

//go:embed template
var Files embed.FS

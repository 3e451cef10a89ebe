// Package appfs embeds the static files shipped with the binaries:
// SQL migrations, email templates and locale files.
package appfs

import "embed"

//go:embed migrations all:templates locales
var FS embed.FS

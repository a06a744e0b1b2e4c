package appfs

import "embed"

// FS holds the assets compiled into the binaries.
//
//go:embed all:templates
var FS embed.FS

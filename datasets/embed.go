// Package datasets holds the dataset bundles compiled into the binary.
package datasets

import "embed"

// FS contains active.json and one directory per dataset.
//
//go:embed active.json */*.json
var FS embed.FS

// Package migrations embeds the schema migration files so both the server
// and the migrate command can apply them without a working directory.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var files embed.FS

// GetFS returns the embedded migration files.
func GetFS() fs.FS {
	return files
}

// Package assets embeds the default word lists and the SQL migrations so the
// binary runs without any files on disk.
package assets

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed wordlists/*.txt sql/*.sql
var FS embed.FS

// WordList opens the embedded list for a language ("english", "german").
func WordList(lang string) (fs.File, error) {
	return FS.Open(path.Join("wordlists", lang+".txt"))
}

// Migrations returns the embedded sql directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}

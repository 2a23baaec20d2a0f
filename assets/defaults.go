package assets

import (
	"embed"
	"io/fs"
)

// EditorConfig is the .editorconfig written by `format --editorconfig`.
//
//go:embed editorconfig
var EditorConfig []byte

//go:embed all:templates
var templatesFS embed.FS

// Templates exposes the builtin project templates, one directory per kind.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

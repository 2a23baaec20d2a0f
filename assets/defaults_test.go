package assets

import (
	"io/fs"
	"strings"
	"testing"
)

func TestTemplatesContainBuiltinKinds(t *testing.T) {
	for _, kind := range []string{"api", "web", "console"} {
		entries, err := fs.ReadDir(Templates(), kind)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if len(entries) == 0 {
			t.Fatalf("%s: no files", kind)
		}
	}
}

func TestDockerignoreIsEmbedded(t *testing.T) {
	if _, err := fs.Stat(Templates(), "api/.dockerignore.tmplt"); err != nil {
		t.Fatal(err)
	}
}

func TestEditorConfig(t *testing.T) {
	if !strings.HasPrefix(string(EditorConfig), "root = true") {
		t.Fatalf("unexpected payload: %q", EditorConfig[:20])
	}
}

// ABOUTME: Tests for corpus directory loading
// ABOUTME: Verifies extension filtering, nested walks, and skip behavior
package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCorpus_FiltersAndWalks(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "a.txt", "plain text doc")
	writeCorpusFile(t, dir, "b.md", "markdown doc")
	writeCorpusFile(t, dir, "nested/c.markdown", "nested doc")
	writeCorpusFile(t, dir, "ignored.json", `{"not": "loaded"}`)
	writeCorpusFile(t, dir, "empty.txt", "   \n\n  ")

	docs, err := LoadCorpus(dir, nil)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	got := map[string]string{}
	for _, d := range docs {
		got[d.Source] = d.Text
	}
	want := map[string]string{
		"a.txt":                            "plain text doc",
		"b.md":                             "markdown doc",
		filepath.Join("nested", "c.markdown"): "nested doc",
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d docs (%v), want %d", len(got), got, len(want))
	}
	for source, text := range want {
		if got[source] != text {
			t.Errorf("doc %q = %q, want %q", source, got[source], text)
		}
	}
}

func TestLoadCorpus_MissingRootErrors(t *testing.T) {
	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "absent"), nil); err == nil {
		t.Error("LoadCorpus() on a missing directory returned nil error")
	}
}

func TestLoadCorpus_BrokenFileSkipsAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "good.txt", "readable")
	// A malformed PDF fails extraction but must not abort the walk.
	writeCorpusFile(t, dir, "broken.pdf", "this is not a pdf")

	var skipped []string
	docs, err := LoadCorpus(dir, func(path string, _ error) {
		skipped = append(skipped, filepath.Base(path))
	})
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	if len(docs) != 1 || docs[0].Source != "good.txt" {
		t.Errorf("docs = %v, want only good.txt", docs)
	}
	if len(skipped) != 1 || skipped[0] != "broken.pdf" {
		t.Errorf("skipped = %v, want [broken.pdf]", skipped)
	}
}

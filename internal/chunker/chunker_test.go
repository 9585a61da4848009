// ABOUTME: Tests for paragraph-packing chunker
// ABOUTME: Verifies packing bounds, min-length filtering, and determinism
package chunker

import (
	"strings"
	"testing"
)

func TestSplit_Empty(t *testing.T) {
	c := New(100, 10)

	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "   \n\n \t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := c.Split(tt.text, "doc.txt")
			if len(chunks) != 0 {
				t.Errorf("Split() returned %d chunks, want 0", len(chunks))
			}
		})
	}
}

func TestSplit_SingleParagraph(t *testing.T) {
	c := New(100, 5)

	chunks := c.Split("Hello   world.\n", "doc.txt")
	if len(chunks) != 1 {
		t.Fatalf("Split() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Content != "Hello world." {
		t.Errorf("content = %q, want whitespace-normalized paragraph", chunks[0].Content)
	}
	if chunks[0].Source != "doc.txt" || chunks[0].Position != 0 {
		t.Errorf("metadata = (%s, %d), want (doc.txt, 0)", chunks[0].Source, chunks[0].Position)
	}
	if chunks[0].Length != len(chunks[0].Content) {
		t.Errorf("length = %d, want %d", chunks[0].Length, len(chunks[0].Content))
	}
}

func TestSplit_PacksParagraphsUpToMax(t *testing.T) {
	c := New(30, 1)

	// Each paragraph is 10 chars; two fit (10+2+10=22), three would overflow.
	text := strings.Join([]string{
		strings.Repeat("a", 10),
		strings.Repeat("b", 10),
		strings.Repeat("c", 10),
	}, "\n\n")

	chunks := c.Split(text, "s")
	if len(chunks) != 2 {
		t.Fatalf("Split() returned %d chunks, want 2", len(chunks))
	}
	if !strings.Contains(chunks[0].Content, "a") || !strings.Contains(chunks[0].Content, "b") {
		t.Errorf("first chunk should pack first two paragraphs, got %q", chunks[0].Content)
	}
	if chunks[1].Content != strings.Repeat("c", 10) {
		t.Errorf("second chunk = %q, want trailing paragraph", chunks[1].Content)
	}
}

func TestSplit_NeverSplitsParagraph(t *testing.T) {
	c := New(20, 1)

	long := strings.Repeat("x", 50)
	chunks := c.Split(long, "s")
	if len(chunks) != 1 {
		t.Fatalf("Split() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Content != long {
		t.Errorf("oversized paragraph must stay whole, got %d chars", len(chunks[0].Content))
	}
}

func TestSplit_KeepsTrailingShortChunk(t *testing.T) {
	c := New(100, 20)

	text := strings.Repeat("a", 98) + "\n\n" + "tail"
	chunks := c.Split(text, "s")
	if len(chunks) != 2 {
		t.Fatalf("Split() returned %d chunks, want 2", len(chunks))
	}
	if chunks[1].Content != "tail" {
		t.Errorf("trailing chunk = %q, want %q", chunks[1].Content, "tail")
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(80, 10)

	text := "First paragraph here.\n\nSecond paragraph follows.\n\nThird one closes."
	a := c.Split(text, "s")
	b := c.Split(text, "s")

	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_PositionsAreOrdered(t *testing.T) {
	c := New(25, 1)

	text := "one one one\n\ntwo two two\n\nthree three"
	chunks := c.Split(text, "s")
	for i, ch := range chunks {
		if ch.Position != i {
			t.Errorf("chunk %d has position %d", i, ch.Position)
		}
	}
}

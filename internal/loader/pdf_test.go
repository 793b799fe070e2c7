package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPDFChunkerMissingFile(t *testing.T) {
	c := NewPDFChunker(nil)
	if _, err := c.Chunks(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPDFChunkerCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewPDFChunker(nil)
	if _, err := c.Chunks(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

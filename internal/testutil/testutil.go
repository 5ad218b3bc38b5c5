// Package testutil provides in-process fixtures for annotator tests: text
// images, minimal PDFs, Textract blocks and input directory trees.
package testutil

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// DirExists checks if a directory exists.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return !os.IsNotExist(err) && info.IsDir()
}

// SampleTree lists the files created by CreateSampleTree, relative to its root.
var SampleTree = struct {
	Supported       []string
	NestedSupported []string
	Skipped         []string
}{
	Supported:       []string{"invoice.pdf", "receipt.png", "scan.JPG"},
	NestedSupported: []string{"sub/letter.tiff"},
	Skipped:         []string{"receipt.annotated.png", "notes.txt", "sub/old.annotated.pdf"},
}

// CreateSampleTree writes an input directory with supported documents,
// previous outputs and unrelated files, and returns its root.
func CreateSampleTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	img := CreateTestImage(32, 16, color.White)
	pdf := MinimalPDF(1, 200, 100)

	WriteFile(t, root, "invoice.pdf", pdf)
	WriteFile(t, root, "receipt.png", EncodeImage(t, img, imaging.PNG))
	WriteFile(t, root, "scan.JPG", EncodeImage(t, img, imaging.JPEG))
	WriteFile(t, root, "sub/letter.tiff", EncodeImage(t, img, imaging.TIFF))
	WriteFile(t, root, "receipt.annotated.png", EncodeImage(t, img, imaging.PNG))
	WriteFile(t, root, "notes.txt", []byte("not a document"))
	WriteFile(t, root, "sub/old.annotated.pdf", pdf)

	return filepath.Clean(root)
}

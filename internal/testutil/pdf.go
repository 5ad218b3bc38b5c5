package testutil

import (
	"bytes"
	"fmt"
	"strings"
)

// PDFPage describes one blank page written by BuildPDF. CropBox is omitted
// when it is the zero value.
type PDFPage struct {
	MediaBox [4]float64
	CropBox  [4]float64
	Rotate   int
}

// MinimalPDF builds an uncompressed PDF with the given number of blank pages,
// each with a MediaBox of width x height points. Cross-reference offsets are
// computed so strict readers accept the file.
func MinimalPDF(pages int, width, height float64) []byte {
	list := make([]PDFPage, pages)
	for i := range list {
		list[i] = PDFPage{MediaBox: [4]float64{0, 0, width, height}}
	}
	return BuildPDF(list...)
}

// BuildPDF builds an uncompressed PDF with one blank page per entry.
func BuildPDF(pages ...PDFPage) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	for _, p := range pages {
		var extra strings.Builder
		if p.CropBox != [4]float64{} {
			fmt.Fprintf(&extra, " /CropBox %s", pdfArray(p.CropBox))
		}
		if p.Rotate != 0 {
			fmt.Fprintf(&extra, " /Rotate %d", p.Rotate)
		}
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox %s%s /Resources << >> >>", pdfArray(p.MediaBox), extra.String()))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func pdfArray(r [4]float64) string {
	return fmt.Sprintf("[%g %g %g %g]", r[0], r[1], r[2], r[3])
}

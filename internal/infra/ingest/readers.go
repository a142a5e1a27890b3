// File: internal/infra/ingest/readers.go
package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

func readFile(path, ext string) (string, error) {
	switch ext {
	case ".txt":
		return readText(path)
	case ".pdf":
		return readPDF(path)
	case ".docx":
		return readDocx(path)
	}
	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// readText decodes a plain-text file with a best-effort sniffed encoding,
// falling back to UTF-8 and tolerating invalid bytes.
func readText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	enc := detectEncoding(raw)
	if enc == nil {
		return strings.ToValidUTF8(string(raw), ""), nil
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), ""), nil
	}
	return string(decoded), nil
}

// detectEncoding sniffs the charset from the first 4KB. A nil result means
// "treat as UTF-8".
func detectEncoding(raw []byte) encoding.Encoding {
	sample := raw
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || result.Charset == "" {
		return nil
	}
	enc, err := htmlindex.Get(strings.ToLower(result.Charset))
	if err != nil {
		return nil
	}
	return enc
}

// readPDF concatenates per-page extracted text with newline separators.
// A page with no extractable text contributes nothing.
func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// treat an unextractable page as empty, not fatal
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// readDocx concatenates paragraph text in document order.
func readDocx(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", err
	}

	doc, err := docx.Parse(f, fi.Size())
	if err != nil {
		return "", err
	}
	var paras []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paras = append(paras, p.String())
		}
	}
	return strings.Join(paras, "\n"), nil
}

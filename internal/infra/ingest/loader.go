// File: internal/infra/ingest/loader.go
package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"kb-pipeline/internal/domain"
	"kb-pipeline/internal/domain/model"
	"kb-pipeline/internal/infra/metrics"
)

var supportedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".docx": true,
}

// Loader walks an input directory and turns every supported, non-empty
// file into a normalized Document. Per-file failures are logged and
// skipped; they never abort the scan.
type Loader struct {
	log *zerolog.Logger
}

func NewLoader(logger *zerolog.Logger) *Loader {
	return &Loader{log: logger}
}

// Load recursively scans inputDir and returns one Document per supported,
// successfully parsed, non-empty file, in walk order. A zero-document
// result is valid; an invalid input directory is not.
func (l *Loader) Load(inputDir string) ([]model.Document, error) {
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: input directory does not exist or is not a directory: %s", domain.ErrInvalidArgument, inputDir)
	}

	l.log.Info().Str("dir", inputDir).Msg("scanning directory for documents")

	var docs []model.Document
	walkErr := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.log.Warn().Err(err).Str("path", path).Msg("walk error, skipping")
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !supportedExtensions[ext] {
			l.log.Debug().Str("path", path).Msg("skipping unsupported file")
			metrics.IncDocumentSkipped("unsupported")
			return nil
		}

		text, err := readFile(path, ext)
		if err != nil {
			l.log.Warn().Err(err).Str("path", path).Msg("failed to read file, skipping")
			metrics.IncDocumentSkipped("parse_error")
			return nil
		}
		if strings.TrimSpace(text) == "" {
			l.log.Debug().Str("path", path).Msg("empty text in file, skipping")
			metrics.IncDocumentSkipped("empty")
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		var created *time.Time
		var size int64
		if fi, err := d.Info(); err == nil {
			t := fi.ModTime()
			created = &t
			size = fi.Size()
		}

		docs = append(docs, model.Document{
			ID:           fmt.Sprintf("doc_%d", len(docs)),
			URI:          abs,
			Title:        titleFromFilename(d.Name()),
			Text:         text,
			CreationDate: created,
			SourceType:   "file",
			Metadata: model.DocumentMetadata{
				Ext:       ext,
				SizeBytes: size,
				RootDir:   inputDir,
			},
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan %s: %w", inputDir, walkErr)
	}

	if len(docs) == 0 {
		l.log.Warn().Str("dir", inputDir).Msg("no supported documents found")
	}
	l.log.Info().Int("count", len(docs)).Str("dir", inputDir).Msg("loaded documents")
	metrics.AddDocumentsLoaded(len(docs))
	return docs, nil
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}

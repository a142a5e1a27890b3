// File: internal/infra/ingest/chunker.go
package ingest

import (
	"fmt"

	"kb-pipeline/internal/domain"
	"kb-pipeline/internal/domain/model"
	"kb-pipeline/internal/infra/metrics"
)

// Compose deterministically splits each document's text into consecutive,
// non-overlapping windows of exactly maxChars characters, except the final
// window which may be shorter. Order is the zero-based window index within
// the owning document; IDs are globally monotonic across all documents in
// composition order.
//
// Invariant: concatenating a document's chunks in Order sequence reproduces
// its original text exactly. A document with empty text yields zero units.
func Compose(docs []model.Document, maxChars int) ([]model.TextUnit, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("%w: max_chars must be positive, got %d", domain.ErrInvalidArgument, maxChars)
	}

	var units []model.TextUnit
	for _, doc := range docs {
		meta := model.TextUnitMetadata{
			DocumentURI:   doc.URI,
			DocumentTitle: doc.Title,
			SourceType:    doc.SourceType,
			RootDir:       doc.Metadata.RootDir,
		}
		// Window by runes so multi-byte text never splits mid-character.
		text := []rune(doc.Text)
		for start, order := 0, 0; start < len(text); start, order = start+maxChars, order+1 {
			end := start + maxChars
			if end > len(text) {
				end = len(text)
			}
			units = append(units, model.TextUnit{
				ID:         fmt.Sprintf("tu_%d", len(units)),
				DocumentID: doc.ID,
				Text:       string(text[start:end]),
				Order:      order,
				Metadata:   meta,
			})
		}
	}
	metrics.AddTextUnits(len(units))
	return units, nil
}

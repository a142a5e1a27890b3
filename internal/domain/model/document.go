package model

import "time"

// DocumentMetadata carries provenance recorded at load time.
type DocumentMetadata struct {
	Ext       string `json:"ext"`
	SizeBytes int64  `json:"size_bytes"`
	RootDir   string `json:"root_dir"`
}

// Document is one normalized source file produced by the loader.
// Records are read-only after the load stage.
type Document struct {
	ID           string           `json:"id"` // "doc_N", monotonic per run
	URI          string           `json:"uri"`
	Title        string           `json:"title"`
	Text         string           `json:"text"`
	CreationDate *time.Time       `json:"creation_date,omitempty"`
	SourceType   string           `json:"source_type"`
	Metadata     DocumentMetadata `json:"metadata"`
}

// TextUnitMetadata is document provenance copied onto each chunk.
type TextUnitMetadata struct {
	DocumentURI   string `json:"document_uri"`
	DocumentTitle string `json:"document_title"`
	SourceType    string `json:"source_type"`
	RootDir       string `json:"root_dir"`
}

// TextUnit is a bounded-length, ordered slice of a document's text, the
// atomic unit consumed by downstream enrichment stages.
type TextUnit struct {
	ID         string           `json:"id"` // "tu_N", monotonic per run
	DocumentID string           `json:"document_id"`
	Text       string           `json:"text"`
	Order      int              `json:"order"` // zero-based within the document
	Metadata   TextUnitMetadata `json:"metadata"`
}

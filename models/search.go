package models

import (
	"time"
)

// SearchDocumentFile is the indexed projection of one paste file, including
// its full content for full-text search.
type SearchDocumentFile struct {
	Filename    string `json:"filename" bson:"filename"`
	ContentType string `json:"content_type" bson:"content_type"`
	Content     string `json:"content" bson:"content"`
}

// SearchDocument is a denormalized, replaceable projection of a paste for
// the search backend. It has no independent lifecycle: it is created or
// fully replaced whenever the paste is indexed, never partially updated.
// Rank is the paste creation time as a Unix timestamp, so default result
// ordering reflects recency.
type SearchDocument struct {
	ID          string               `json:"id" bson:"_id"`
	Author      string               `json:"author" bson:"author"`
	Description string               `json:"description" bson:"description"`
	Created     time.Time            `json:"created" bson:"created"`
	Rank        int64                `json:"rank" bson:"rank"`
	Files       []SearchDocumentFile `json:"files" bson:"files"`
}

// NewSearchDocument builds the metadata portion of a paste's search
// document. File fields are appended by the indexer, which owns reading
// content from the object store.
func NewSearchDocument(p *Paste) *SearchDocument {
	return &SearchDocument{
		ID:          p.ID,
		Author:      p.Author,
		Description: p.Description,
		Created:     p.Created,
		Rank:        p.Created.Unix(),
		Files:       make([]SearchDocumentFile, 0, len(p.Files)),
	}
}

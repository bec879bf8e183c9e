package models

import (
	"time"
)

// Star is a per-author bookmark of a paste. Its identity is the composite
// key author + "/" + paste ID, which makes re-starring idempotent: the same
// author starring the same paste always maps to the same record. PasteID is
// a weak reference and may dangle after the paste is removed.
type Star struct {
	ID      string    `json:"id" bson:"_id" dynamodbav:"id"`
	Created time.Time `json:"created" bson:"created" dynamodbav:"created"`
	Author  string    `json:"author" bson:"author" dynamodbav:"author"`
	PasteID string    `json:"paste_id" bson:"paste_id" dynamodbav:"paste_id"`
}

// StarID returns the composite key for an (author, paste) pair.
func StarID(author, pasteID string) string {
	return author + "/" + pasteID
}

// NewStar builds a star record keyed by StarID.
func NewStar(author, pasteID string, created time.Time) *Star {
	return &Star{
		ID:      StarID(author, pasteID),
		Created: created,
		Author:  author,
		PasteID: pasteID,
	}
}

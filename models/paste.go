package models

import (
	"time"
)

// PasteFile is one file within a paste. Content bytes live in the object
// store under StoragePath; the record here is metadata only. A file is owned
// by exactly one paste and is never rewritten in place.
type PasteFile struct {
	Created      time.Time `json:"created" bson:"created" dynamodbav:"created"`
	Filename     string    `json:"filename" bson:"filename" dynamodbav:"filename"`
	StoragePath  string    `json:"path" bson:"storage_path" dynamodbav:"storage_path"`
	RelativePath string    `json:"relative_path" bson:"relative_path" dynamodbav:"relative_path"`
	NumLines     int64     `json:"num_lines" bson:"num_lines" dynamodbav:"num_lines"`
	ContentType  string    `json:"content_type" bson:"content_type" dynamodbav:"content_type"`
}

// Paste is a user-submitted bundle of one or more named text files sharing
// metadata. Filename and Preview are set from the first file ever added and
// never recomputed after subsequent additions.
type Paste struct {
	ID          string      `json:"id" bson:"_id" dynamodbav:"id"`
	Created     time.Time   `json:"created" bson:"created" dynamodbav:"created"`
	Author      string      `json:"author" bson:"author" dynamodbav:"author"`
	Filename    string      `json:"filename" bson:"filename" dynamodbav:"filename"`
	Description string      `json:"description" bson:"description" dynamodbav:"description"`
	ForkOf      string      `json:"fork_of,omitempty" bson:"fork_of,omitempty" dynamodbav:"fork_of,omitempty"`
	Preview     string      `json:"preview" bson:"preview" dynamodbav:"preview"`
	NumFiles    int64       `json:"num_files" bson:"num_files" dynamodbav:"num_files"`
	NumLines    int64       `json:"num_lines" bson:"num_lines" dynamodbav:"num_lines"`
	Files       []PasteFile `json:"files" bson:"files" dynamodbav:"files"`
}

// RecomputeStats refreshes the derived NumFiles/NumLines counters from the
// owned file records. Call after every file addition.
func (p *Paste) RecomputeStats() {
	p.NumFiles = int64(len(p.Files))

	var lines int64
	for _, f := range p.Files {
		lines += f.NumLines
	}
	p.NumLines = lines
}

// DisplayName returns "author / filename" with fallbacks for anonymous
// pastes and pastes without a filename.
func (p *Paste) DisplayName() string {
	author := p.Author
	if author == "" {
		author = "anonymous"
	}
	name := p.Filename
	if name == "" {
		name = p.ID
	}
	return author + " / " + name
}

// PublicFile is the flat JSON representation of a PasteFile, with the
// resolved raw-serving URL.
type PublicFile struct {
	Created      time.Time `json:"created"`
	Filename     string    `json:"filename"`
	Path         string    `json:"path"`
	RelativePath string    `json:"relative_path"`
	NumLines     int64     `json:"num_lines"`
	ContentType  string    `json:"content_type"`
	Link         string    `json:"link"`
}

// PublicPaste is the flat JSON representation of a Paste offered to the API
// and view layers.
type PublicPaste struct {
	ID          string       `json:"id"`
	Created     time.Time    `json:"created"`
	Author      string       `json:"author"`
	Filename    string       `json:"filename"`
	Description string       `json:"description"`
	ForkOf      string       `json:"fork_of,omitempty"`
	Preview     string       `json:"preview"`
	NumFiles    int64        `json:"num_files"`
	NumLines    int64        `json:"num_lines"`
	Files       []PublicFile `json:"files"`
}

// Public returns the paste's public representation. rawBase is the URL
// prefix for raw file links, e.g. "http://host/raw".
func (p *Paste) Public(rawBase string) PublicPaste {
	pub := PublicPaste{
		ID:          p.ID,
		Created:     p.Created,
		Author:      p.Author,
		Filename:    p.Filename,
		Description: p.Description,
		ForkOf:      p.ForkOf,
		Preview:     p.Preview,
		NumFiles:    p.NumFiles,
		NumLines:    p.NumLines,
		Files:       make([]PublicFile, 0, len(p.Files)),
	}

	for _, f := range p.Files {
		pub.Files = append(pub.Files, PublicFile{
			Created:      f.Created,
			Filename:     f.Filename,
			Path:         f.StoragePath,
			RelativePath: f.RelativePath,
			NumLines:     f.NumLines,
			ContentType:  f.ContentType,
			Link:         rawBase + "/" + p.ID + "/" + f.RelativePath,
		})
	}

	return pub
}

package services

import (
	"context"
	"log"

	"github.com/davidwtbuxton/captain-pasty/internal/metrics"
	"github.com/davidwtbuxton/captain-pasty/internal/pathname"
	"github.com/davidwtbuxton/captain-pasty/models"
	"github.com/davidwtbuxton/captain-pasty/search"
	"github.com/davidwtbuxton/captain-pasty/storage"
)

// ResaveTask walks every paste record, normalizes fields that older or
// partially-written records may be missing, and re-indexes each paste. It is
// the self-heal path for records left behind by failed multi-file creates and
// for index drift. Safe to run repeatedly.
type ResaveTask struct {
	store storage.PasteStore
	index *search.Index
}

// NewResaveTask creates a re-save task over the canonical store and the
// search index.
func NewResaveTask(store storage.PasteStore, index *search.Index) *ResaveTask {
	return &ResaveTask{store: store, index: index}
}

// ResaveResult summarizes one task run.
type ResaveResult struct {
	Seen    int `json:"seen"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Run processes every paste. A failure on one record is logged and counted;
// it never stops the walk.
func (t *ResaveTask) Run(ctx context.Context) (*ResaveResult, error) {
	result := &ResaveResult{}

	err := t.store.ForEachPaste(ctx, func(paste *models.Paste) error {
		result.Seen++

		if err := t.resaveOne(ctx, paste, result); err != nil {
			log.Printf("[ERROR] resave: paste %s: %v", paste.ID, err)
			result.Failed++
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	log.Printf("[INFO] resave: %d seen, %d updated, %d failed", result.Seen, result.Updated, result.Failed)
	return result, nil
}

func (t *ResaveTask) resaveOne(ctx context.Context, paste *models.Paste, result *ResaveResult) error {
	if normalizePaste(paste) {
		if err := t.store.PutPaste(ctx, paste); err != nil {
			return err
		}
		metrics.ResavedPastes.Inc()
		result.Updated++
	}

	// Indexing is idempotent, so every record is re-indexed whether or not
	// its fields changed.
	return t.index.IndexPaste(ctx, paste)
}

// normalizePaste backfills derived fields and reports whether the record
// changed.
func normalizePaste(paste *models.Paste) bool {
	dirty := false

	if len(paste.Files) > 0 && paste.Filename == "" {
		paste.Filename = paste.Files[0].Filename
		dirty = true
	}

	for i := range paste.Files {
		f := &paste.Files[i]
		if f.RelativePath != "" || f.StoragePath == "" {
			continue
		}
		relative, err := pathname.MakeRelativePath(f.StoragePath)
		if err != nil {
			log.Printf("[WARN] resave: paste %s has malformed path %q: %v", paste.ID, f.StoragePath, err)
			continue
		}
		f.RelativePath = relative
		dirty = true
	}

	numFiles, numLines := paste.NumFiles, paste.NumLines
	paste.RecomputeStats()
	if paste.NumFiles != numFiles || paste.NumLines != numLines {
		dirty = true
	}

	return dirty
}

// Package services holds the business logic between the HTTP handlers and
// the stores: paste creation and forking, star bookkeeping, and the admin
// re-save task.
package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/davidwtbuxton/captain-pasty/highlight"
	"github.com/davidwtbuxton/captain-pasty/internal/metrics"
	"github.com/davidwtbuxton/captain-pasty/internal/pathname"
	"github.com/davidwtbuxton/captain-pasty/models"
	"github.com/davidwtbuxton/captain-pasty/storage"
	"github.com/davidwtbuxton/captain-pasty/utils"
)

// PasteService handles paste business logic
type PasteService struct {
	store     storage.PasteStore
	objects   storage.ObjectStore
	hl        highlight.Highlighter
	overrides map[string]string

	// Injection points for deterministic tests.
	now   func() time.Time
	newID func() string
}

// NewPasteService creates a new paste service. overrides extends lexer
// selection per filename extension and may be nil.
func NewPasteService(store storage.PasteStore, objects storage.ObjectStore, hl highlight.Highlighter, overrides map[string]string) *PasteService {
	return &PasteService{
		store:     store,
		objects:   objects,
		hl:        hl,
		overrides: overrides,
		now:       time.Now,
		newID:     func() string { return ulid.Make().String() },
	}
}

// FileInput is one file submitted for a new paste. Filename may be empty, in
// which case a name is synthesized from the detected language.
type FileInput struct {
	Filename string
	Content  []byte
}

// CreateWithFiles creates a paste and stores each file's content. The record
// is persisted first as a placeholder so the ID is reserved, then re-persisted
// with the file metadata attached. There is no rollback: a failure partway
// leaves the record with the files written so far, and the re-save task
// normalizes such records later.
func (s *PasteService) CreateWithFiles(ctx context.Context, author, description, forkOf string, files []FileInput) (*models.Paste, error) {
	if len(files) == 0 {
		return nil, &models.ValidationError{Reason: "a paste needs at least one file"}
	}

	paste := &models.Paste{
		ID:          s.newID(),
		Created:     s.now().UTC(),
		Author:      author,
		Description: description,
		ForkOf:      forkOf,
	}

	if err := s.store.PutPaste(ctx, paste); err != nil {
		return nil, fmt.Errorf("failed to create paste record: %w", err)
	}

	for _, input := range files {
		if err := s.AppendFile(ctx, paste, input); err != nil {
			return nil, err
		}
	}

	paste.RecomputeStats()
	if err := s.store.PutPaste(ctx, paste); err != nil {
		return nil, fmt.Errorf("failed to save paste %s: %w", paste.ID, err)
	}

	metrics.PastesCreated.Inc()
	return paste, nil
}

// AppendFile stores one file's content and attaches its metadata to the
// paste. The first file also sets the paste's display filename and its
// highlighted preview. The caller persists the paste afterwards.
func (s *PasteService) AppendFile(ctx context.Context, paste *models.Paste, input FileInput) error {
	filename := input.Filename
	if filename == "" {
		language, _ := s.hl.Highlight(input.Content, "", s.overrides)
		filename = "untitled" + highlight.ExtensionForLanguage(language)
	}
	filename = pathname.SanitizeFilename(filename)

	seq := len(paste.Files) + 1
	path := pathname.MakePath(paste.ID, paste.Created, seq, filename)

	if err := s.objects.Put(ctx, path, input.Content); err != nil {
		return fmt.Errorf("failed to store content for paste %s: %w", paste.ID, err)
	}

	relative, err := pathname.MakeRelativePath(path)
	if err != nil {
		return err
	}

	paste.Files = append(paste.Files, models.PasteFile{
		Created:      paste.Created,
		Filename:     filename,
		StoragePath:  path,
		RelativePath: relative,
		NumLines:     countLines(input.Content),
		ContentType:  utils.DetectContentType(filename),
	})

	if seq == 1 {
		paste.Filename = filename
		_, markup := s.hl.Highlight([]byte(highlight.PreviewSource(input.Content)), filename, s.overrides)
		paste.Preview = markup
	}

	metrics.FilesWritten.Inc()
	return nil
}

// GetOrNotFound retrieves a paste or returns a NotFoundError
func (s *PasteService) GetOrNotFound(ctx context.Context, id string) (*models.Paste, error) {
	paste, err := s.store.GetPaste(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve paste %s: %w", id, err)
	}
	if paste == nil {
		return nil, &models.NotFoundError{Kind: "paste", ID: id}
	}
	return paste, nil
}

// GetFileContent reads the content of one of a paste's files by its
// relative path ("1/setup.py")
func (s *PasteService) GetFileContent(ctx context.Context, paste *models.Paste, relativePath string) (*models.PasteFile, []byte, error) {
	for i := range paste.Files {
		f := &paste.Files[i]
		if f.RelativePath != relativePath {
			continue
		}
		content, err := s.objects.Get(ctx, f.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return f, content, nil
	}
	return nil, nil, &models.NotFoundError{Kind: "file", ID: paste.ID + "/" + relativePath}
}

// Fork creates a new paste owned by author with copies of every file in the
// original. ForkOf records the original's ID as a plain reference; it is
// never re-checked afterwards, so the original may be deleted later.
func (s *PasteService) Fork(ctx context.Context, author, originalID string) (*models.Paste, error) {
	original, err := s.GetOrNotFound(ctx, originalID)
	if err != nil {
		return nil, err
	}

	files := make([]FileInput, 0, len(original.Files))
	for _, f := range original.Files {
		content, err := s.objects.Get(ctx, f.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s for fork: %w", f.StoragePath, err)
		}
		files = append(files, FileInput{Filename: f.Filename, Content: content})
	}

	return s.CreateWithFiles(ctx, author, original.Description, original.ID, files)
}

// countLines counts newline-delimited segments. A trailing partial line
// counts; empty content has zero lines.
func countLines(content []byte) int64 {
	if len(content) == 0 {
		return 0
	}
	n := int64(bytes.Count(content, []byte("\n")))
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

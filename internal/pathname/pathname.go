// Package pathname generates and parses object store keys for paste files.
//
// Keys follow the layout
//
//	pasty/<year>/<month>/<day>/<paste_id>/<sequence>/<filename>
//
// with the date taken from the paste's creation time, not the clock, so keys
// stay stable under re-save. The sequence number starts at 1 and is always
// part of the key, which guarantees distinct keys for identically-named
// files within one paste. The layout is part of the durable contract: object
// keys are externally visible and changing the scheme breaks old links.
package pathname

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/davidwtbuxton/captain-pasty/models"
)

// Namespace is the fixed prefix for all paste file keys.
const Namespace = "pasty"

var relativePattern = regexp.MustCompile(`^` + Namespace + `/\d{4}/\d{2}/\d{2}/[^/]+/([1-9]\d*/.+)$`)

// MakePath returns the object store key for one file of a paste. seq is the
// file's 1-based position within the paste.
func MakePath(pasteID string, created time.Time, seq int, filename string) string {
	dt := created.UTC()

	return fmt.Sprintf("%s/%04d/%02d/%02d/%s/%d/%s",
		Namespace, dt.Year(), int(dt.Month()), dt.Day(), pasteID, seq, SanitizeFilename(filename))
}

// MakeRelativePath strips the namespace/date/paste-id prefix from a full
// key, returning "<sequence>/<filename>" for raw-serving URLs. Keys that do
// not match the expected layout yield an InvalidPathError.
func MakeRelativePath(fullPath string) (string, error) {
	m := relativePattern.FindStringSubmatch(fullPath)
	if m == nil {
		return "", &models.InvalidPathError{Path: fullPath}
	}
	return m[1], nil
}

// SanitizeFilename reduces a submitted filename to a safe basename: path
// traversal segments are discarded and characters that are invalid in object
// keys or common filesystems are replaced with underscores. The original
// basename is otherwise preserved.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(path.Clean("/" + name))
	if name == "/" || name == "." || name == ".." || name == "" {
		return "untitled.txt"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(`/:*?"<>|`, r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

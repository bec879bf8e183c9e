package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

// extraTypes overrides the platform MIME table for extensions that common
// deployments classify unhelpfully (e.g. .json as text/plain).
var extraTypes = map[string]string{
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".json": "application/json",
	".js":   "application/javascript",
}

// DetectContentType returns the MIME type for a paste file, derived from the
// filename extension only. Unknown or missing extensions fall back to
// text/plain: paste content is assumed to be text.
func DetectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "text/plain"
	}

	if mimeType, ok := extraTypes[ext]; ok {
		return mimeType
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		// Strip parameters like "; charset=utf-8" so the value is usable as
		// a search facet.
		if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
			return mt
		}
		return mimeType
	}

	return "text/plain"
}

// IsTextContent returns true if the content type renders as text inline.
func IsTextContent(contentType string) bool {
	textTypes := []string{
		"text/",
		"application/json",
		"application/xml",
		"application/javascript",
		"application/x-sh",
		"application/x-yaml",
	}

	contentType = strings.ToLower(contentType)
	for _, textType := range textTypes {
		if strings.HasPrefix(contentType, textType) {
			return true
		}
	}

	return false
}

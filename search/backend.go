package search

import (
	"context"
	"strings"

	"github.com/davidwtbuxton/captain-pasty/models"
)

// Backend is the external index contract. Implementations own their own
// query syntax interpretation and pagination cursors; cursors are opaque,
// web-safe strings that this package forwards without interpreting.
type Backend interface {
	// Put stores doc, replacing any existing document with the same ID.
	Put(ctx context.Context, doc *models.SearchDocument) error

	// Delete removes the documents with the given IDs. Missing IDs are
	// ignored.
	Delete(ctx context.Context, ids []string) error

	// Query runs a query and returns a page of document IDs ranked most
	// recent first, plus the cursor for the next page.
	Query(ctx context.Context, query, cursor string, limit int) (ids []string, next string, hasMore bool, err error)
}

// parsedQuery is the backend-side interpretation of a query string built by
// BuildQuery: quoted field terms plus free text.
type parsedQuery struct {
	Author      string
	ContentType string
	Filename    string
	FreeText    []string
}

// parseQuery tokenizes a query string of the form
//
//	author:"jeff@example.com" filename:"setup.py" free words
//
// Unrecognized field names are treated as free text.
func parseQuery(query string) parsedQuery {
	var parsed parsedQuery

	rest := strings.TrimSpace(query)
	for rest != "" {
		var token string
		token, rest = nextToken(rest)
		if token == "" {
			continue
		}

		field, value, ok := splitFieldTerm(token)
		if !ok {
			parsed.FreeText = append(parsed.FreeText, strings.Trim(token, `"`))
			continue
		}

		switch field {
		case "author":
			parsed.Author = value
		case "content_type":
			parsed.ContentType = value
		case "filename":
			parsed.Filename = value
		default:
			parsed.FreeText = append(parsed.FreeText, value)
		}
	}

	return parsed
}

// nextToken splits off the leading token, keeping quoted sections intact.
// Escaped quotes do not close a quoted section.
func nextToken(s string) (token, rest string) {
	inQuotes := false
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			return s[:i], strings.TrimSpace(s[i+1:])
		}
	}
	return s, ""
}

// splitFieldTerm splits `field:"value"` into its parts.
func splitFieldTerm(token string) (field, value string, ok bool) {
	i := strings.Index(token, `:"`)
	if i < 1 || !strings.HasSuffix(token, `"`) {
		return "", "", false
	}
	value = token[i+2 : len(token)-1]
	value = strings.ReplaceAll(value, `\"`, `"`)
	return token[:i], value, true
}

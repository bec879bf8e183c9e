package highlight

import (
	"bytes"
	"encoding/json"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle matches the style the views ship CSS for.
const DefaultStyle = "autumn"

// Engine is the chroma-backed Highlighter. Lexer selection order: explicit
// extension override, then filename match, then content analysis, then the
// plain-text fallback.
type Engine struct {
	styleName string
}

// NewEngine returns an Engine rendering with the named chroma style.
// An empty name selects DefaultStyle.
func NewEngine(styleName string) *Engine {
	if styleName == "" {
		styleName = DefaultStyle
	}
	return &Engine{styleName: styleName}
}

// Highlight implements Highlighter.
func (e *Engine) Highlight(content []byte, filenameHint string, overrides map[string]string) (string, string) {
	text := string(content)
	lexer := selectLexer(text, filenameHint, overrides)

	language := lexer.Config().Name
	if language == "fallback" {
		language = PlainLanguage
	}

	style := styles.Get(e.styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		log.Printf("[WARN] highlight: tokenise failed for %q: %v", filenameHint, err)
		return PlainLanguage, plainMarkup(text)
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		log.Printf("[WARN] highlight: format failed for %q: %v", filenameHint, err)
		return PlainLanguage, plainMarkup(text)
	}

	return language, buf.String()
}

func selectLexer(text, filenameHint string, overrides map[string]string) chroma.Lexer {
	var lexer chroma.Lexer

	if filenameHint != "" {
		ext := strings.ToLower(filepath.Ext(filenameHint))
		if language, ok := overrides[ext]; ok {
			lexer = lexers.Get(language)
		}
		if lexer == nil {
			lexer = lexers.Match(filepath.Base(filenameHint))
		}
	}

	if lexer == nil {
		lexer = analyseContent(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	return chroma.Coalesce(lexer)
}

// analyseContent guesses a language from content alone. chroma's own
// analysers mostly cover scripting languages with recognizable headers; the
// probes below cover declarative formats whose lexers ship without an
// analyser.
func analyseContent(text string) chroma.Lexer {
	if lexer := lexers.Analyse(text); lexer != nil {
		return lexer
	}
	for _, p := range contentProbes {
		if p.match(text) {
			return lexers.Get(p.language)
		}
	}
	return nil
}

// contentProbes are checked in order; the first match wins. JSON runs before
// CSS because both are brace-heavy.
var contentProbes = []struct {
	language string
	match    func(string) bool
}{
	{"JSON", func(s string) bool {
		s = strings.TrimSpace(s)
		return s != "" && (s[0] == '{' || s[0] == '[') && json.Valid([]byte(s))
	}},
	{"Diff", diffPattern.MatchString},
	{"HTML", htmlPattern.MatchString},
	{"CSS", cssPattern.MatchString},
}

var (
	diffPattern = regexp.MustCompile(`(?m)^--- .*\n\+\+\+ |^@@ -\d+`)
	htmlPattern = regexp.MustCompile(`(?i)^\s*(<!DOCTYPE\s+html|<html)`)

	// A selector followed by a property:value block, e.g. "body { color: red }".
	cssPattern = regexp.MustCompile(`(?s)^\s*[^{}]+\{\s*[\w-]+\s*:[^{}]*\}`)
)

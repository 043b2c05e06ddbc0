// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract converts file bytes into plain text for indexing.
//
// Dispatch is by lower-cased file extension. Extraction is best-effort:
// any failure degrades to an empty string so a broken file can still be
// indexed by metadata and never aborts a scan.
package extract

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// extractorFunc converts raw file bytes into plain text.
type extractorFunc func(content []byte) string

// Service dispatches extraction by file extension.
type Service struct {
	extractors map[string]extractorFunc
}

// New creates a Service with the default extractor set.
func New() *Service {
	s := &Service{extractors: make(map[string]extractorFunc)}

	plain := []string{
		".txt", ".md", ".log",
		".js", ".ts", ".jsx", ".tsx", ".py", ".java", ".cpp", ".c", ".h",
		".css", ".scss", ".yaml", ".yml",
		".php", ".rb", ".go", ".rs", ".swift", ".kt", ".dart",
		".conf", ".config", ".env",
	}
	for _, ext := range plain {
		s.extractors[ext] = extractPlainText
	}
	s.extractors[".html"] = extractHTML
	s.extractors[".xml"] = extractXML
	s.extractors[".json"] = extractJSON
	s.extractors[".rtf"] = extractRTF
	s.extractors[".ini"] = extractINI

	return s
}

// Extract reads the file and returns its plain-text content. Unsupported
// extensions and all errors yield an empty string.
func (s *Service) Extract(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	fn, ok := s.extractors[ext]
	if !ok {
		return ""
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return ""
	}
	return norm.NFC.String(fn(content))
}

// IsSupported reports whether a text extractor is registered for the
// file's extension.
func (s *Service) IsSupported(filePath string) bool {
	_, ok := s.extractors[strings.ToLower(filepath.Ext(filePath))]
	return ok
}

// SupportedExtensions returns the registered extensions.
func (s *Service) SupportedExtensions() []string {
	exts := make([]string, 0, len(s.extractors))
	for ext := range s.extractors {
		exts = append(exts, ext)
	}
	return exts
}

// =============================================================================
// PLAIN TEXT
// =============================================================================

func extractPlainText(content []byte) string {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "  ")
	return strings.TrimSpace(text)
}

// =============================================================================
// HTML / XML
// =============================================================================

var (
	reScript     = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reTag        = regexp.MustCompile(`<[^>]*>`)
	reXMLDecl    = regexp.MustCompile(`<\?xml[^>]*\?>`)
	reXMLComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

var htmlEntities = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

func extractHTML(content []byte) string {
	text := reScript.ReplaceAllString(string(content), "")
	text = reStyle.ReplaceAllString(text, "")
	text = reTag.ReplaceAllString(text, " ")
	text = htmlEntities.Replace(text)
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

func extractXML(content []byte) string {
	text := reXMLDecl.ReplaceAllString(string(content), "")
	text = reXMLComment.ReplaceAllString(text, "")
	text = reTag.ReplaceAllString(text, " ")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

// =============================================================================
// JSON
// =============================================================================

// extractJSON flattens every string, number and boolean leaf into a
// space-joined string in document order. A token-stream walk keeps
// object key order as written, unlike unmarshaling into a map. On parse
// failure the raw bytes are returned so the file still gets indexed.
func extractJSON(content []byte) string {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var leaves []string
	if err := walkJSONValue(dec, &leaves); err != nil {
		return strings.TrimSpace(string(content))
	}
	return strings.TrimSpace(strings.Join(leaves, " "))
}

func walkJSONValue(dec *json.Decoder, out *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			for dec.More() {
				if _, err := dec.Token(); err != nil { // key
					return err
				}
				if err := walkJSONValue(dec, out); err != nil {
					return err
				}
			}
			_, err := dec.Token() // closing brace
			return err
		case '[':
			for dec.More() {
				if err := walkJSONValue(dec, out); err != nil {
					return err
				}
			}
			_, err := dec.Token() // closing bracket
			return err
		}
	case string:
		*out = append(*out, v)
	case json.Number:
		*out = append(*out, v.String())
	case bool:
		*out = append(*out, strconv.FormatBool(v))
	}
	return nil
}

// =============================================================================
// RTF
// =============================================================================

var (
	reRTFGroup   = regexp.MustCompile(`\{\\[^}]*\}`)
	reRTFControl = regexp.MustCompile(`\\[a-zA-Z]+\d*`)
	reRTFEscape  = regexp.MustCompile(`\\[^a-zA-Z]`)
)

func extractRTF(content []byte) string {
	text := reRTFGroup.ReplaceAllString(string(content), "")
	text = reRTFControl.ReplaceAllString(text, "")
	text = reRTFEscape.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "{", "")
	text = strings.ReplaceAll(text, "}", "")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

// =============================================================================
// INI / PROPERTIES
// =============================================================================

// extractINI keeps only the values after the first `=` of assignment
// lines; comments and section headers carry no searchable content.
func extractINI(content []byte) string {
	var values []string
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" ||
			strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, ";") ||
			strings.HasPrefix(trimmed, "[") {
			continue
		}
		if idx := strings.Index(trimmed, "="); idx >= 0 {
			if value := strings.TrimSpace(trimmed[idx+1:]); value != "" {
				values = append(values, value)
			}
		}
	}
	return strings.Join(values, " ")
}

// Package parse implements the trusted parse pipeline: every gate between a
// raw ingested document and its schema-validated structured output.
package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-project/custodia/pkg/model"
	"github.com/custodia-project/custodia/pkg/textutil"
)

// Converted is the raw conversion product before provenance stamping and
// schema validation. PlainText is the concatenated textual content used for
// the PII scan.
type Converted struct {
	Elements  []model.Element
	PlainText string
}

// Converter turns a document file into structured elements. Implementations
// must label every element's location; when no structural label can be
// derived they use the UNKNOWN_STRUCTURE sentinel rather than guessing.
type Converter interface {
	// IsAvailable reports whether the converter can run on this host.
	IsAvailable() bool
	// Convert reads and converts the document at path.
	Convert(path string) (*Converted, error)
}

// TextConverter handles plain-text and markdown documents. It tracks the
// running section heading so each element's location names the heading it
// falls under; content before any heading is UNKNOWN_STRUCTURE.
type TextConverter struct{}

// NewTextConverter creates the built-in text converter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// IsAvailable always reports true; the text converter has no external tool.
func (c *TextConverter) IsAvailable() bool {
	return true
}

var textExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".markdown": {}, ".text": {}, ".log": {},
	".csv": {}, ".json": {},
}

// Supports reports whether the converter handles the file's extension.
// Unknown extensions are still convertible as opaque text.
func (c *TextConverter) Supports(path string) bool {
	_, ok := textExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Convert splits the document into paragraph elements. Markdown headings
// become heading elements and set the section location for everything that
// follows them.
func (c *TextConverter) Convert(path string) (*Converted, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	text := textutil.Sanitize(raw)

	out := &Converted{PlainText: text}
	section := model.UnknownStructure

	for _, block := range splitBlocks(text) {
		if title, level, ok := heading(block); ok {
			section = fmt.Sprintf("heading/%d/%s", level, title)
			out.Elements = append(out.Elements, model.Element{
				Type:     "heading",
				Location: section,
				Content:  title,
			})
			continue
		}
		out.Elements = append(out.Elements, model.Element{
			Type:     "paragraph",
			Location: section,
			Content:  block,
		})
	}

	if len(out.Elements) == 0 {
		// An empty document still yields one element so the output schema's
		// minimum holds and the emptiness is recorded, not hidden.
		out.Elements = append(out.Elements, model.Element{
			Type:     "paragraph",
			Location: model.UnknownStructure,
			Content:  "",
		})
	}
	return out, nil
}

// splitBlocks splits text into blank-line-separated blocks, trimmed, with
// empty blocks dropped.
func splitBlocks(text string) []string {
	var blocks []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, strings.TrimRight(line, " \t\r"))
	}
	flush()
	return blocks
}

// heading parses a markdown ATX heading block, returning its title and level.
func heading(block string) (string, int, bool) {
	if strings.Contains(block, "\n") || !strings.HasPrefix(block, "#") {
		return "", 0, false
	}
	level := 0
	for level < len(block) && block[level] == '#' {
		level++
	}
	if level > 6 || level == len(block) || block[level] != ' ' {
		return "", 0, false
	}
	title := strings.TrimSpace(block[level:])
	if title == "" {
		return "", 0, false
	}
	return title, level, true
}

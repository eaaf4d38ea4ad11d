// Package contentparser holds the lenient side of content handling: Markdown
// posts with YAML frontmatter, draft repair and the content health check.
package contentparser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DeafMist/dept-site/backend/internal/processing"
)

const (
	fence = "---"

	excerptWords = 30
)

var ErrNoFrontmatter = errors.New("missing frontmatter")

// Document is a Markdown file split into its frontmatter fields and body.
type Document struct {
	Fields map[string]any
	Body   string
}

// ParseMarkdown splits a leading "---" delimited YAML block from the body.
func ParseMarkdown(data []byte) (Document, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")
	if !strings.HasPrefix(text, fence+"\n") {
		return Document{}, ErrNoFrontmatter
	}

	lines := strings.SplitAfter(text[len(fence)+1:], "\n")
	closing := -1
	for i, line := range lines {
		if strings.TrimRight(line, "\n") == fence {
			closing = i
			break
		}
	}
	if closing < 0 {
		return Document{}, errors.New("parse frontmatter: unterminated block")
	}
	head := strings.Join(lines[:closing], "")
	body := strings.Join(lines[closing+1:], "")

	fields := map[string]any{}
	if strings.TrimSpace(head) != "" {
		if err := yaml.Unmarshal([]byte(head), &fields); err != nil {
			return Document{}, fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	return Document{Fields: fields, Body: strings.TrimSpace(body)}, nil
}

// NewsRecord turns a Markdown post into a raw news record. The body becomes
// the content unless the frontmatter sets one; slug and id default to the
// file name, the excerpt to the opening of the body.
func NewsRecord(path string, data []byte) (map[string]any, error) {
	doc, err := ParseMarkdown(data)
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", filepath.Base(path), err)
	}
	rec := doc.Fields

	if blank(rec["content"]) && doc.Body != "" {
		rec["content"] = doc.Body
	}
	if blank(rec["slug"]) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		rec["slug"] = processing.Slugify(name)
	}
	if blank(rec["id"]) {
		rec["id"] = rec["slug"]
	}
	if content, ok := rec["content"].(string); ok && blank(rec["excerpt"]) {
		rec["excerpt"] = processing.GenerateExcerpt(plainText(content), excerptWords)
	}
	return rec, nil
}

// plainText drops heading and quote markers from Markdown lines.
func plainText(md string) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(strings.TrimSpace(line), "#> ")
	}
	return strings.Join(lines, "\n")
}

// IsMarkdown reports whether path names a Markdown or MDX post.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

func blank(v any) bool {
	s, ok := v.(string)
	return !ok || strings.TrimSpace(s) == ""
}

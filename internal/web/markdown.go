package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Task content is one short line, so only inline extensions are enabled.
// Raw HTML is never passed through (no html.WithUnsafe).
var taskMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// renderMarkdownHTML renders a task's content as inline HTML for the list page.
// The single wrapping paragraph is removed so the content sits inside the row.
func renderMarkdownHTML(content string) template.HTML {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	var b bytes.Buffer
	if err := taskMarkdown.Convert([]byte(content), &b); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	out := strings.TrimSpace(b.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}

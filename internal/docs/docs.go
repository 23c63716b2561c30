// Package docs embeds the markdown topics printed by `todo docs`.
package docs

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one embedded page. Title is the page's first "# " heading.
type Topic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Body  string `json:"-"`
}

// Topics lists every page sorted by name, without bodies.
func Topics() []Topic {
	entries, _ := fs.Glob(contentFS, "content/*.md")
	out := make([]Topic, 0, len(entries))
	for _, p := range entries {
		name := strings.TrimSuffix(path.Base(p), ".md")
		if t, ok := Get(name); ok {
			t.Body = ""
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get looks a page up by name, case-insensitively. Names containing path
// separators or dots never match.
func Get(name string) (Topic, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, "/\\.") {
		return Topic{}, false
	}
	b, err := contentFS.ReadFile("content/" + name + ".md")
	if err != nil {
		return Topic{}, false
	}
	body := string(b)
	return Topic{Name: name, Title: title(body, name), Body: body}, true
}

func title(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		if h, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(h)
		}
	}
	return fallback
}

package book

import (
	"encoding/json"
	"fmt"

	"github.com/spacycoder/mdbook-insigno/internal/directive"
)

// Context is the first element of a preprocessor request.
type Context struct {
	Root          string         `json:"root"`
	Config        map[string]any `json:"config"`
	Renderer      string         `json:"renderer"`
	MdbookVersion string         `json:"mdbook_version"`
}

// PreprocessorTable returns the book.toml table [preprocessor.<name>], or nil.
func (c *Context) PreprocessorTable(name string) map[string]any {
	pre, ok := c.Config["preprocessor"].(map[string]any)
	if !ok {
		return nil
	}
	table, _ := pre[name].(map[string]any)
	return table
}

// Setting returns a top-level book.toml value as a string, or "".
func (c *Context) Setting(key string) string {
	s, _ := c.Config[key].(string)
	return s
}

// Book is the second element of a preprocessor request.
type Book struct {
	Sections []*Item
	fields   map[string]json.RawMessage
}

// UnmarshalJSON decodes a book, keeping unknown fields.
func (b *Book) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &b.fields); err != nil {
		return err
	}
	if raw, ok := b.fields["sections"]; ok {
		if err := json.Unmarshal(raw, &b.Sections); err != nil {
			return fmt.Errorf("decoding sections: %w", err)
		}
	}
	return nil
}

// MarshalJSON encodes the book with its sections and preserved fields.
func (b *Book) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.fields)+1)
	for k, v := range b.fields {
		out[k] = v
	}
	sections := b.Sections
	if sections == nil {
		sections = []*Item{}
	}
	out["sections"] = sections
	return json.Marshal(out)
}

// Text is always empty: a book has no content of its own.
func (b *Book) Text() string { return "" }

// SetText is a no-op.
func (b *Book) SetText(string) {}

// Children returns the top-level chapters.
func (b *Book) Children() []directive.Node { return chapters(b.Sections) }

// Chapters returns every chapter in the book, depth first.
func (b *Book) Chapters() []*Chapter {
	var out []*Chapter
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			if it.Chapter == nil {
				continue
			}
			out = append(out, it.Chapter)
			walk(it.Chapter.SubItems)
		}
	}
	walk(b.Sections)
	return out
}

// Item is a book entry: a chapter, or a separator or part title kept
// verbatim.
type Item struct {
	Chapter *Chapter
	raw     json.RawMessage
}

// UnmarshalJSON decodes {"Chapter": {...}} and stores anything else as is.
func (it *Item) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err == nil {
		if raw, ok := tagged["Chapter"]; ok {
			it.Chapter = &Chapter{}
			return json.Unmarshal(raw, it.Chapter)
		}
	}
	it.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-encodes the item in mdbook's externally tagged form.
func (it *Item) MarshalJSON() ([]byte, error) {
	if it.Chapter != nil {
		return json.Marshal(map[string]*Chapter{"Chapter": it.Chapter})
	}
	if it.raw == nil {
		return []byte("null"), nil
	}
	return it.raw, nil
}

// Chapter is an mdbook chapter. Only name, content and sub_items are
// interpreted.
type Chapter struct {
	Name     string
	Content  string
	SubItems []*Item
	fields   map[string]json.RawMessage
}

// UnmarshalJSON decodes a chapter, keeping unknown fields.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &c.fields); err != nil {
		return err
	}
	for key, dst := range map[string]any{
		"name":      &c.Name,
		"content":   &c.Content,
		"sub_items": &c.SubItems,
	} {
		raw, ok := c.fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("decoding chapter %s: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON encodes the chapter with its preserved fields.
func (c *Chapter) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.fields)+3)
	for k, v := range c.fields {
		out[k] = v
	}
	out["name"] = c.Name
	out["content"] = c.Content
	subItems := c.SubItems
	if subItems == nil {
		subItems = []*Item{}
	}
	out["sub_items"] = subItems
	return json.Marshal(out)
}

// Text returns the chapter's Markdown content.
func (c *Chapter) Text() string { return c.Content }

// SetText replaces the chapter's Markdown content.
func (c *Chapter) SetText(text string) { c.Content = text }

// Children returns the nested chapters, skipping separators and part titles.
func (c *Chapter) Children() []directive.Node { return chapters(c.SubItems) }

func chapters(items []*Item) []directive.Node {
	nodes := make([]directive.Node, 0, len(items))
	for _, it := range items {
		if it.Chapter != nil {
			nodes = append(nodes, it.Chapter)
		}
	}
	return nodes
}

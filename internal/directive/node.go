package directive

// Node is a text-bearing element of a document tree. The engine rewrites a
// node's text but never adds, removes or reorders nodes.
type Node interface {
	Text() string
	SetText(string)
	Children() []Node
}

// Section is an in-memory Node.
type Section struct {
	Content  string
	Sections []*Section
}

// Text returns the section's content.
func (s *Section) Text() string { return s.Content }

// SetText replaces the section's content.
func (s *Section) SetText(text string) { s.Content = text }

// Children returns the nested sections.
func (s *Section) Children() []Node {
	nodes := make([]Node, len(s.Sections))
	for i, child := range s.Sections {
		nodes[i] = child
	}
	return nodes
}

package doctree

// DocTree is the root of a parsed document.
type DocTree struct {
	Title         string     // Document title (from metadata or filename)
	TitleDeclared bool       // Title came from document metadata
	Source        string     // Name of the source the tree was parsed from
	Tags          []string   // Document-wide tags, applied to every entry
	IDPrefix      string     // Prefix for identifiers derived from question text
	Children      []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	ID       string     // Explicit identifier, if the source carried one
	Tags     []string   // Tags attached to the heading
	Text     string     // Text content of this node (may be empty for container nodes)
	Level    int        // Heading level (0 for headingless text)
	Line     int        // Source line/paragraph (0 if N/A)
	Children []*DocNode // Subsections
}

// HeadingStack builds a DocTree from a flat run of headings by nesting each
// heading under the nearest preceding heading of a lower level.
type HeadingStack struct {
	root  *DocNode
	stack []*DocNode
}

// NewHeadingStack returns a stack rooted at a level-0 container node.
func NewHeadingStack() *HeadingStack {
	root := &DocNode{}
	return &HeadingStack{root: root, stack: []*DocNode{root}}
}

// Push opens a new heading node and returns it.
func (s *HeadingStack) Push(node *DocNode) *DocNode {
	// Pop stack until we find a parent with lower level.
	for len(s.stack) > 1 && s.stack[len(s.stack)-1].Level >= node.Level {
		s.stack = s.stack[:len(s.stack)-1]
	}
	parent := s.stack[len(s.stack)-1]
	parent.Children = append(parent.Children, node)
	s.stack = append(s.stack, node)
	return node
}

// AddText appends a text block to the currently open node.
func (s *HeadingStack) AddText(text string, line int) {
	if text == "" {
		return
	}
	top := s.stack[len(s.stack)-1]
	if top == s.root {
		// Headingless text before the first heading keeps its own node so
		// callers can report where it started.
		if n := len(s.root.Children); n > 0 && s.root.Children[n-1].Level == 0 {
			s.root.Children[n-1].Text += "\n\n" + text
			return
		}
		s.root.Children = append(s.root.Children, &DocNode{Text: text, Line: line})
		return
	}
	if top.Text != "" {
		top.Text += "\n\n" + text
	} else {
		top.Text = text
	}
}

// Children returns the top-level nodes collected so far.
func (s *HeadingStack) Children() []*DocNode {
	return s.root.Children
}

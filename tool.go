package dotedit

// Tool selects what a gesture draws.
type Tool int

const (
	// Pencil sets single pixels as the pointer moves.
	Pencil Tool = iota
	// Fill flood fills the region under the pointer.
	Fill
	// Line draws a line from the press point to the pointer.
	Line
	// Rect draws a rectangle outline with corners at the press point and
	// the pointer.
	Rect
	// Ellipse draws an ellipse centred on the press point.
	Ellipse
)

var toolNames = [...]string{
	Pencil:  "pencil",
	Fill:    "fill",
	Line:    "line",
	Rect:    "rect",
	Ellipse: "ellipse",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool returns the tool with the given name.
func ParseTool(s string) (Tool, bool) {
	for i, name := range toolNames {
		if name == s {
			return Tool(i), true
		}
	}
	return 0, false
}

// Button identifies which of the two selected colors a gesture uses.
type Button int

const (
	// NoButton means no gesture is in progress.
	NoButton Button = iota - 1
	// Primary draws with the primary color.
	Primary
	// Secondary draws with the secondary color.
	Secondary
)

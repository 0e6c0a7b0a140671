package renderer

import (
	"fmt"

	"github.com/dshills/markpad/internal/renderer/core"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine renders the bottom row: position and undo depth, a transient
// message, or an input prompt for a dialog.
type StatusLine struct {
	line, col  int
	undo, redo bool
	depth      int
	title      string

	promptActive bool
	promptLabel  string
	promptInput  string
	promptCursor int

	message     string
	messageType MessageType
}

// NewStatusLine creates an empty status line.
func NewStatusLine() *StatusLine {
	return &StatusLine{}
}

// SetPosition updates the caret position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = line
	s.col = col
}

// SetHistory updates the undo indicators.
func (s *StatusLine) SetHistory(canUndo, canRedo bool, depth int) {
	s.undo = canUndo
	s.redo = canRedo
	s.depth = depth
}

// SetTitle updates the document title shown on the left.
func (s *StatusLine) SetTitle(title string) {
	s.title = title
}

// SetPrompt shows an input prompt. The cursor is a column within input.
func (s *StatusLine) SetPrompt(label, input string, cursor int) {
	s.promptActive = true
	s.promptLabel = label
	s.promptInput = input
	s.promptCursor = cursor
}

// ClearPrompt hides the prompt.
func (s *StatusLine) ClearPrompt() {
	s.promptActive = false
	s.promptLabel = ""
	s.promptInput = ""
	s.promptCursor = 0
}

// PromptActive reports whether a prompt is shown.
func (s *StatusLine) PromptActive() bool {
	return s.promptActive
}

// SetMessage displays a status message until it is cleared.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Render draws the status line at row. When a prompt is active it
// returns the cursor column and true.
func (s *StatusLine) Render(b cellSetter, row, width int, theme Theme) (int, bool) {
	fill(b, core.Rect{Top: row, Bottom: row + 1, Left: 0, Right: width}, theme.Status)

	if s.promptActive {
		x := drawLine(b, 0, row, width, core.CellsFromString(" "+s.promptLabel+": ", theme.Status.Bold()))
		start := x
		drawLine(b, x, row, width, core.CellsFromString(s.promptInput, theme.Status))
		cx := start + s.promptCursor
		if cx >= width {
			cx = width - 1
		}
		return cx, true
	}

	left := " " + s.title
	style := theme.Status
	switch s.messageType {
	case MessageError:
		left, style = " "+s.message, theme.StatusError
	case MessageWarning:
		left, style = " "+s.message, theme.StatusWarning
	case MessageInfo:
		left = " " + s.message
	}

	right := s.formatPosition()
	rightCells := core.CellsFromString(right, theme.Status)
	rightStart := width - len(rightCells) - 1
	end := width
	if rightStart > 0 {
		end = rightStart - 1
	}
	drawLine(b, 0, row, end, core.CellsFromString(left, style))
	if rightStart > 0 {
		drawLine(b, rightStart, row, width, rightCells)
	}
	return 0, false
}

// formatPosition formats the right side, e.g. "Ln 3, Col 7 | undo 4".
func (s *StatusLine) formatPosition() string {
	line, col := s.line, s.col
	if line == 0 {
		line = 1
	}
	if col == 0 {
		col = 1
	}
	result := fmt.Sprintf("Ln %d, Col %d", line, col)
	switch {
	case s.undo && s.redo:
		result += fmt.Sprintf(" | undo %d | redo", s.depth)
	case s.undo:
		result += fmt.Sprintf(" | undo %d", s.depth)
	case s.redo:
		result += " | redo"
	}
	return result
}

package bubbletea

import (
	counsel "github.com/mlevan/counsel"
	"github.com/mlevan/counsel/markdown"
)

var _ MessageBlock = (*AssistantBlock)(nil)

// AssistantBlock renders a model reply with markdown formatting. Rendering
// is cached per width because the viewport re-renders all blocks on every
// update and resize.
type AssistantBlock struct {
	text    string
	theme   counsel.Theme
	byWidth map[int]string
}

// NewAssistantBlock creates a block for a completed model reply.
func NewAssistantBlock(text string, theme counsel.Theme) *AssistantBlock {
	return &AssistantBlock{
		text:    text,
		theme:   theme,
		byWidth: make(map[int]string),
	}
}

func (b *AssistantBlock) View(width int) string {
	if width <= 0 {
		return b.text
	}
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	rendered := markdown.Render(b.text, width, b.theme)
	b.byWidth[width] = rendered
	return rendered
}

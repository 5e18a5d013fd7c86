package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
	counsel "github.com/mlevan/counsel"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type ansiRenderer struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	accent    lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

func newRenderer(theme counsel.Theme) *ansiRenderer {
	return &ansiRenderer{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		accent:    lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *ansiRenderer) render(source []byte, width int) string {
	p := goldmark.DefaultParser()
	doc := p.Parse(text.NewReader(source))

	var buf bytes.Buffer
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, &buf)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (r *ansiRenderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph:
		buf.WriteString(wrap(r.collectInline(n, source), width))
		buf.WriteString("\n")
		blockGap(n, buf)

	case *ast.Heading:
		buf.WriteString(wrap(r.accent.Render(r.collectInline(n, source)), width))
		buf.WriteString("\n")
		blockGap(n, buf)

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" {
			buf.WriteString(r.muted.Render(lang))
			buf.WriteString("\n")
		}
		r.renderCodeLines(n, source, buf)
		blockGap(n, buf)

	case *ast.CodeBlock:
		r.renderCodeLines(n, source, buf)
		blockGap(n, buf)

	case *ast.List:
		r.renderList(n, source, width, buf, 0)
		blockGap(n, buf)

	case *ast.Blockquote:
		var inner bytes.Buffer
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderBlock(c, source, width-2, &inner)
		}
		gutter := r.muted.Render("│") + " "
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			buf.WriteString(gutter + line + "\n")
		}
		blockGap(n, buf)

	case *ast.ThematicBreak:
		buf.WriteString(r.muted.Render(strings.Repeat("─", min(width, 20))))
		buf.WriteString("\n")
		blockGap(n, buf)

	default:
		// Unhandled block kinds fall back to their inline text.
		if s := r.collectInline(node, source); s != "" {
			buf.WriteString(wrap(s, width))
			buf.WriteString("\n")
			blockGap(node, buf)
		}
	}
}

func (r *ansiRenderer) renderCodeLines(n ast.Node, source []byte, buf *bytes.Buffer) {
	gutter := r.muted.Render("│") + " "
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.WriteString(gutter + strings.TrimRight(string(line.Value(source)), "\n"))
		buf.WriteString("\n")
	}
}

func (r *ansiRenderer) renderList(list *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	index := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}
		hang := indent + strings.Repeat(" ", runewidth.StringWidth(marker))

		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if nested, ok := c.(*ast.List); ok {
				r.renderList(nested, source, width, buf, depth+1)
				continue
			}
			content := wrap(r.collectInline(c, source), width-runewidth.StringWidth(hang))
			for _, line := range strings.Split(content, "\n") {
				if first {
					buf.WriteString(indent + marker + line + "\n")
					first = false
				} else {
					buf.WriteString(hang + line + "\n")
				}
			}
		}
	}
}

// collectInline flattens a block's inline children to a styled string.
func (r *ansiRenderer) collectInline(node ast.Node, source []byte) string {
	var b strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &b)
	}
	return b.String()
}

func (r *ansiRenderer) renderInline(node ast.Node, source []byte, b *strings.Builder) {
	switch n := node.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			b.WriteString(" ")
		}
		if n.HardLineBreak() {
			b.WriteString("\n")
		}

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		if n.Level >= 2 {
			b.WriteString(r.bold.Render(inner))
		} else {
			b.WriteString(r.italic.Render(inner))
		}

	case *ast.CodeSpan:
		b.WriteString(r.muted.Render(r.collectInline(n, source)))

	case *ast.Link:
		b.WriteString(r.underline.Render(r.collectInline(n, source)))
		b.WriteString(r.muted.Render(" (" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		b.WriteString(r.underline.Render(string(n.URL(source))))

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, b)
		}
	}
}

// wrap word-wraps styled text to width. lipgloss wrapping is ANSI-aware,
// so styled spans survive the reflow.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

// blockGap writes the blank line separating top-level blocks.
func blockGap(n ast.Node, buf *bytes.Buffer) {
	if n.NextSibling() != nil {
		buf.WriteString("\n")
	}
}

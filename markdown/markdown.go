// Package markdown renders markdown text to ANSI-styled terminal
// output using goldmark for parsing and lipgloss for styling. It is
// used to present final answers, which are usually short prose with
// the occasional list or code fence.
package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mwielosz/quest"
)

// Render parses markdown source and returns ANSI-styled terminal
// output word-wrapped to width. Code blocks keep their original line
// breaks.
func Render(source string, width int, theme quest.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := renderer{
		bold:   lipgloss.NewStyle().Bold(true),
		italic: lipgloss.NewStyle().Italic(true),
		code:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)),
		head:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		link:   lipgloss.NewStyle().Underline(true),
		width:  width,
	}

	doc := goldmark.DefaultParser().Parse(text.NewReader([]byte(source)))
	var buf bytes.Buffer
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c, []byte(source), &buf)
		if c.NextSibling() != nil {
			buf.WriteByte('\n')
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

type renderer struct {
	bold   lipgloss.Style
	italic lipgloss.Style
	code   lipgloss.Style
	head   lipgloss.Style
	muted  lipgloss.Style
	link   lipgloss.Style
	width  int
}

func (r *renderer) block(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Heading:
		styled := r.head.Render(r.inline(n, source))
		buf.WriteString(lipgloss.NewStyle().Width(r.width).Render(styled))
		buf.WriteByte('\n')

	case *ast.Paragraph, *ast.TextBlock:
		buf.WriteString(lipgloss.NewStyle().Width(r.width).Render(r.inline(n, source)))
		buf.WriteByte('\n')

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" {
			buf.WriteString(r.muted.Render(lang))
			buf.WriteByte('\n')
		}
		r.codeLines(n, source, buf)

	case *ast.CodeBlock:
		r.codeLines(n, source, buf)

	case *ast.List:
		r.list(n, source, buf, "")

	case *ast.ThematicBreak:
		buf.WriteString(r.muted.Render(strings.Repeat("─", min(r.width, 40))))
		buf.WriteByte('\n')

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.block(c, source, buf)
		}
	}
}

// codeLines emits a code block verbatim behind a muted gutter.
func (r *renderer) codeLines(node ast.Node, source []byte, buf *bytes.Buffer) {
	gutter := r.muted.Render("│") + " "
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		content := strings.TrimRight(string(line.Value(source)), "\n")
		buf.WriteString(gutter)
		buf.WriteString(r.code.Render(content))
		buf.WriteByte('\n')
	}
}

func (r *renderer) list(node *ast.List, source []byte, buf *bytes.Buffer, indent string) {
	num := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if nested, ok := ic.(*ast.List); ok {
				r.list(nested, source, buf, indent+"  ")
				continue
			}
			wrapped := lipgloss.NewStyle().
				Width(max(r.width-len(indent)-len(marker), 10)).
				Render(r.inline(ic, source))
			pad := strings.Repeat(" ", len(marker))
			for i, line := range strings.Split(wrapped, "\n") {
				if i == 0 {
					buf.WriteString(indent + marker + line + "\n")
				} else {
					buf.WriteString(indent + pad + line + "\n")
				}
			}
			marker = pad
		}
	}
}

// inline collects the styled text of a node's inline children.
func (r *renderer) inline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.inlineNode(c, source, &buf)
	}
	return buf.String()
}

func (r *renderer) inlineNode(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			buf.WriteByte(' ')
		}
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.inline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.code.Render(r.inline(n, source)))

	case *ast.Link:
		buf.WriteString(r.link.Render(r.inline(n, source)))
		buf.WriteString(r.muted.Render(" (" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		buf.WriteString(r.link.Render(string(n.URL(source))))

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.inlineNode(c, source, buf)
		}
	}
}

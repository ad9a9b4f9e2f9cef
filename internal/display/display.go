// Package display renders the conversation on a terminal: role-styled
// messages, result tables, and the blocking input prompt.
package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bitavt/tablechat/internal/engine"
	"github.com/bitavt/tablechat/internal/provider"
)

// maxCellWidth caps a single table cell before truncation.
const maxCellWidth = 40

// Console reads input lines and writes styled conversation output.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	promptStyle    lipgloss.Style
	systemStyle    lipgloss.Style
	assistantStyle lipgloss.Style
	headerStyle    lipgloss.Style
}

// NewConsole creates a console over the given reader and writer.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:             bufio.NewReader(in),
		out:            out,
		promptStyle:    lipgloss.NewStyle().Bold(true),
		systemStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
		assistantStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		headerStyle:    lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

// ReadLine prints the prompt and blocks for one line of input. A bare
// EOF is returned as io.EOF; an EOF after partial input still yields
// the line.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, c.promptStyle.Render(prompt))
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Message prints one conversation message styled by role. User input
// is already on screen (the user typed it), so it prints nothing.
func (c *Console) Message(role provider.Role, text string) {
	switch role {
	case provider.RoleSystem:
		fmt.Fprintln(c.out, c.systemStyle.Render(text))
	case provider.RoleAssistant:
		fmt.Fprintln(c.out, c.assistantStyle.Render(text))
	}
}

// Table prints a query result as an aligned table. Cell widths are
// measured with runewidth so wide runes line up; long cells truncate.
func (c *Console) Table(res *engine.Result) {
	if res == nil || len(res.Columns) == 0 {
		return
	}

	widths := make([]int, len(res.Columns))
	for i, col := range res.Columns {
		widths[i] = cellWidth(col)
	}
	for _, row := range res.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := cellWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var header strings.Builder
	for i, col := range res.Columns {
		if i > 0 {
			header.WriteString("  ")
		}
		header.WriteString(pad(col, widths[i]))
	}
	fmt.Fprintln(c.out, c.headerStyle.Render(header.String()))

	for _, row := range res.Rows {
		var line strings.Builder
		for i := range res.Columns {
			if i > 0 {
				line.WriteString("  ")
			}
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			line.WriteString(pad(cell, widths[i]))
		}
		fmt.Fprintln(c.out, line.String())
	}
	fmt.Fprintf(c.out, "(%d rows)\n", len(res.Rows))
}

func cellWidth(s string) int {
	w := runewidth.StringWidth(s)
	if w > maxCellWidth {
		return maxCellWidth
	}
	return w
}

func pad(s string, width int) string {
	s = runewidth.Truncate(s, maxCellWidth, "…")
	return runewidth.FillRight(s, width)
}

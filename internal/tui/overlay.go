package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var popupStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorAccent).
	Padding(1, 2)

// renderPopup draws popup in a bordered card centred over base. Rows of base
// outside the card are kept as they are.
func renderPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	canvas := canvasLines(base, width, height)
	card := strings.Split(popupStyle.Render(popup), "\n")
	cardWidth := 0
	for _, line := range card {
		cardWidth = max(cardWidth, ansi.StringWidth(line))
	}
	if cardWidth == 0 {
		return strings.Join(canvas, "\n")
	}
	x := max(0, (width-cardWidth)/2)
	y := max(0, (height-len(card))/2)
	for i, line := range card {
		row := y + i
		if row >= height {
			break
		}
		canvas[row] = spliceLine(canvas[row], line, x, cardWidth, width)
	}
	return strings.Join(canvas, "\n")
}

// spliceLine replaces columns [x, x+w) of line with seg.
func spliceLine(line, seg string, x, w, width int) string {
	left := padANSI(ansi.Truncate(line, x, ""), x)
	mid := padANSI(seg, w)
	right := ansi.TruncateLeft(line, x+w, "")
	return padANSI(left+mid+right, width)
}

func canvasLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padANSI(lines[i], width)
	}
	return lines
}

func padANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/kanban/internal/board"
)

// cardHeight is the rendered height of one card: two text rows plus border.
const cardHeight = 4

type cardView struct {
	issue  board.Issue
	ghost  bool
	cursor bool
}

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	bodyHeight := max(1, a.height-2)
	body := lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		a.renderBoard(bodyHeight-2),
	)
	if a.form != nil {
		popupWidth := min(72, max(40, a.width-8))
		body = renderPopup(body, a.form.view(a.session, popupWidth), a.width, bodyHeight)
	} else {
		body = strings.Join(canvasLines(body, a.width, bodyHeight), "\n")
	}
	return body + "\n" + a.renderStatus() + "\n" + a.renderFooter()
}

func (a *App) renderHeader() string {
	title := titleStyle.Render("Project Board")
	count := mutedStyle.Render(fmt.Sprintf("  %d issues", a.board.Total()))
	return title + count + "\n"
}

func (a *App) renderBoard(height int) string {
	snap := a.board.Snapshot()
	cols := make([]string, 0, len(board.Columns()))
	for _, col := range board.Columns() {
		cols = append(cols, a.renderColumn(col, a.cardsFor(col, snap.Columns[col]), height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// cardsFor lays out one column. While dragging, the grabbed card leaves its
// column and a ghost marks where it would land.
func (a *App) cardsFor(col board.Column, issues []board.Issue) []cardView {
	out := make([]cardView, 0, len(issues)+1)
	if a.drag == nil {
		for i, issue := range issues {
			out = append(out, cardView{issue: issue, cursor: col == a.cursor.Column && i == a.cursor.Index})
		}
		return out
	}
	src := a.drag.source
	grabbed, _ := a.board.Issue(src.Column, src.Index)
	for i, issue := range issues {
		if col == src.Column && i == src.Index {
			continue
		}
		out = append(out, cardView{issue: issue})
	}
	if col == a.drag.target.Column {
		idx := min(a.drag.target.Index, len(out))
		out = append(out[:idx], append([]cardView{{issue: grabbed, ghost: true}}, out[idx:]...)...)
	}
	return out
}

func (a *App) renderColumn(col board.Column, cards []cardView, height int) string {
	width := a.cfg.UI.ColumnWidth
	inner := width - 4
	focused := col == a.cursor.Column
	if a.drag != nil {
		focused = col == a.drag.target.Column
	}

	name := lipgloss.NewStyle().Foreground(columnColors[string(col)]).Bold(true).Render(string(col))
	count := mutedStyle.Render(fmt.Sprintf(" %d", a.board.Len(col)))
	lines := []string{name + count, ""}

	capacity := max(1, (height-4)/cardHeight)
	focus := -1
	for i, c := range cards {
		if c.cursor || c.ghost {
			focus = i
		}
	}
	start, end := visibleWindow(len(cards), focus, capacity)
	if start > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for _, c := range cards[start:end] {
		lines = append(lines, a.renderCard(c, inner))
	}
	if end < len(cards) {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("↓ %d more", len(cards)-end)))
	}
	if len(cards) == 0 {
		lines = append(lines, mutedStyle.Render("empty"))
	}

	style := columnStyle
	if focused {
		style = columnFocusStyle
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a *App) renderCard(c cardView, width int) string {
	text := ansi.Truncate(strings.ReplaceAll(c.issue.Content, "\n", " "), width-2, "…")
	if text == "" {
		text = mutedStyle.Render("(no content)")
	}
	meta := c.issue.Assignee.Label()
	if c.issue.HasImage() {
		meta += " · img"
	}
	if !c.issue.EndDate.IsZero() {
		meta += " · " + c.issue.EndDate.In(a.tz).Format("01-02")
	}
	meta = mutedStyle.Render(ansi.Truncate(meta, width-2, "…"))

	style := cardStyle
	switch {
	case c.ghost:
		style = ghostStyle
	case c.cursor:
		style = cardCursorStyle
	}
	return style.Width(width - 2).Render(text + "\n" + meta)
}

// visibleWindow picks the slice [start, end) of n items that fits capacity
// and keeps focus in view.
func visibleWindow(n, focus, capacity int) (int, int) {
	if n <= capacity {
		return 0, n
	}
	start := 0
	if focus >= capacity {
		start = focus - capacity + 1
	}
	return start, min(n, start+capacity)
}

func (a *App) renderStatus() string {
	if a.find != nil {
		return padANSI(statusBarStyle.Render(a.find.View()), a.width)
	}
	style := statusBarStyle
	if a.statusErr {
		style = statusErrBarStyle
	}
	msg := ansi.Truncate(" "+a.status, a.width, "…")
	return style.Width(a.width).Render(msg)
}

func newHelp() help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = focusStyle
	h.Styles.ShortDesc = mutedStyle
	h.Styles.ShortSeparator = mutedStyle
	h.Styles.Ellipsis = mutedStyle
	return h
}

func (a *App) renderFooter() string {
	a.help.Width = max(0, a.width-1)
	line := " " + a.help.ShortHelpView(a.keys.Help(a.scope()))
	return footerStyle.Width(a.width).Render(ansi.Truncate(line, a.width, "…"))
}

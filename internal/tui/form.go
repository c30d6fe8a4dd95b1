package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/kanban/internal/attach"
	"github.com/jask/kanban/internal/editor"
)

type formField int

const (
	fieldContent formField = iota
	fieldStatus
	fieldAttach
	fieldAssignee
	fieldStart
	fieldEnd
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldContent:  "Content",
	fieldStatus:   "Status",
	fieldAttach:   "File",
	fieldAssignee: "Assignee",
	fieldStart:    "Start",
	fieldEnd:      "Due",
}

// issueForm is the on-screen half of an editor session: text inputs for the
// free-form fields, while choice fields and the preview are read straight
// from the session draft.
type issueForm struct {
	focus   formField
	content textinput.Model
	file    textinput.Model
	start   textinput.Model
	end     textinput.Model
	layout  string
	loc     *time.Location
}

func newIssueForm(d editor.Draft, layout string, loc *time.Location) *issueForm {
	f := &issueForm{
		content: newInput("what needs doing"),
		file:    newInput("path to an image"),
		start:   newInput(layout),
		end:     newInput(layout),
		layout:  layout,
		loc:     loc,
	}
	f.content.SetValue(d.Content)
	f.file.SetValue(d.FilePath)
	f.start.SetValue(formatDate(d.StartDate, layout, loc))
	f.end.SetValue(formatDate(d.EndDate, layout, loc))
	f.setFocus(fieldContent)
	return f
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 512
	return in
}

func (f *issueForm) input(field formField) *textinput.Model {
	switch field {
	case fieldContent:
		return &f.content
	case fieldAttach:
		return &f.file
	case fieldStart:
		return &f.start
	case fieldEnd:
		return &f.end
	}
	return nil
}

func (f *issueForm) setFocus(field formField) {
	if in := f.input(f.focus); in != nil {
		in.Blur()
	}
	f.focus = (field + fieldCount) % fieldCount
	if in := f.input(f.focus); in != nil {
		in.Focus()
	}
}

func (f *issueForm) next() { f.setFocus(f.focus + 1) }
func (f *issueForm) prev() { f.setFocus(f.focus - 1) }

// update routes a key to the focused field and mirrors the result into the
// session draft.
func (f *issueForm) update(msg tea.KeyMsg, s *editor.Session) tea.Cmd {
	switch f.focus {
	case fieldStatus:
		d := s.Draft()
		switch msg.Type {
		case tea.KeyLeft:
			s.SetStatus(d.Status.Prev())
		case tea.KeyRight, tea.KeySpace:
			s.SetStatus(d.Status.Next())
		}
		return nil
	case fieldAssignee:
		d := s.Draft()
		switch msg.Type {
		case tea.KeyLeft:
			s.SetAssignee(d.Assignee.Prev())
		case tea.KeyRight, tea.KeySpace:
			s.SetAssignee(d.Assignee.Next())
		}
		return nil
	}
	in := f.input(f.focus)
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if f.focus == fieldContent {
		s.SetContent(f.content.Value())
	}
	return cmd
}

// commitDates parses both date inputs into the draft. Text that still shows
// the draft's own value is left alone so sub-minute precision survives. On
// error the draft is left as it was.
func (f *issueForm) commitDates(s *editor.Session) error {
	d := s.Draft()
	start, err := f.dateValue(f.start.Value(), d.StartDate)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	end, err := f.dateValue(f.end.Value(), d.EndDate)
	if err != nil {
		return fmt.Errorf("due date: %w", err)
	}
	s.SetStartDate(start)
	s.SetEndDate(end)
	return nil
}

func (f *issueForm) dateValue(text string, current time.Time) (time.Time, error) {
	if !current.IsZero() && strings.TrimSpace(text) == formatDate(current, f.layout, f.loc) {
		return current, nil
	}
	return parseDate(text, f.layout, f.loc)
}

func (f *issueForm) filePath() string {
	return strings.TrimSpace(f.file.Value())
}

func (f *issueForm) view(s *editor.Session, width int) string {
	d := s.Draft()
	title := "Create issue"
	if s.State() == editor.EditingIssue {
		title = "Edit issue"
	}
	inputWidth := max(16, width-16)
	for _, in := range []*textinput.Model{&f.content, &f.file, &f.start, &f.end} {
		in.Width = inputWidth
	}

	preview := mutedStyle.Render("(none)")
	if d.ImageDataURL != "" {
		preview = attach.Describe(d.ImageDataURL)
	}

	rows := []string{titleStyle.Render(title), ""}
	rows = append(rows,
		f.row(fieldContent, f.content.View()),
		f.row(fieldStatus, choice(string(d.Status))),
		f.row(fieldAttach, f.file.View()),
		plainRow("Preview", preview),
		f.row(fieldAssignee, choice(d.Assignee.Label())),
		plainRow("Reporter", s.Reporter()),
		f.row(fieldStart, f.start.View()),
		f.row(fieldEnd, f.end.View()),
	)
	return strings.Join(rows, "\n")
}

func (f *issueForm) row(field formField, value string) string {
	marker := "  "
	label := labelStyle.Render(fieldLabels[field])
	if f.focus == field {
		marker = focusStyle.Render("▶ ")
		label = labelStyle.Foreground(colorAccent).Render(fieldLabels[field])
	}
	return marker + label + value
}

func plainRow(label, value string) string {
	return "  " + labelStyle.Render(label) + value
}

func choice(v string) string {
	return "‹ " + v + " ›"
}

func formatDate(t time.Time, layout string, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(layout)
}

func parseDate(v, layout string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("required (%s)", layout)
	}
	t, err := time.ParseInLocation(layout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("want %s", layout)
	}
	return t, nil
}

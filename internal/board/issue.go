package board

import "time"

// Column is one of the fixed kanban stages.
type Column string

const (
	ColumnTodo       Column = "TO DO"
	ColumnInProgress Column = "IN PROGRESS"
	ColumnDone       Column = "DONE"
	ColumnEmergency  Column = "EMERGENCY"
)

var columnOrder = []Column{ColumnTodo, ColumnInProgress, ColumnDone, ColumnEmergency}

// Columns returns the columns in display order.
func Columns() []Column {
	return append([]Column(nil), columnOrder...)
}

// ParseColumn resolves a column by its exact name.
func ParseColumn(name string) (Column, bool) {
	for _, c := range columnOrder {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of the fixed columns.
func (c Column) Valid() bool {
	_, ok := ParseColumn(string(c))
	return ok
}

// Next returns the column after c in display order, wrapping around.
func (c Column) Next() Column { return c.offset(1) }

// Prev returns the column before c in display order, wrapping around.
func (c Column) Prev() Column { return c.offset(-1) }

func (c Column) offset(d int) Column {
	for i, col := range columnOrder {
		if col == c {
			return columnOrder[(i+d+len(columnOrder))%len(columnOrder)]
		}
	}
	return ColumnTodo
}

// Assignee is a member of the fixed roster.
type Assignee string

const (
	Unassigned Assignee = "할당되지 않음"
	SeungilHan Assignee = "한승일"
	JiminLee   Assignee = "이지민"
)

var roster = []Assignee{Unassigned, SeungilHan, JiminLee}

// Roster returns the assignable people, unassigned first.
func Roster() []Assignee {
	return append([]Assignee(nil), roster...)
}

// Label is the display name; the sentinel renders in English.
func (a Assignee) Label() string {
	if a == Unassigned || a == "" {
		return "Unassigned"
	}
	return string(a)
}

// Next cycles through the roster.
func (a Assignee) Next() Assignee {
	for i, r := range roster {
		if r == a {
			return roster[(i+1)%len(roster)]
		}
	}
	return Unassigned
}

// Prev cycles backwards through the roster.
func (a Assignee) Prev() Assignee {
	for i, r := range roster {
		if r == a {
			return roster[(i-1+len(roster))%len(roster)]
		}
	}
	return Unassigned
}

// DefaultReporter is the session reporter when none is configured.
const DefaultReporter = string(SeungilHan)

// Issue is one kanban card.
type Issue struct {
	ID           string
	Content      string
	Status       Column
	ImageDataURL string // empty when no image is attached
	Assignee     Assignee
	Reporter     string
	StartDate    time.Time
	EndDate      time.Time
}

// HasImage reports whether an inline image is attached.
func (i Issue) HasImage() bool {
	return i.ImageDataURL != ""
}

// IssueFields is the caller-supplied payload for create and update.
type IssueFields struct {
	Content      string
	Status       Column
	ImageDataURL string
	Assignee     Assignee
	Reporter     string
	StartDate    time.Time
	EndDate      time.Time
}

// Location addresses one slot in a column.
type Location struct {
	Column Column
	Index  int
}

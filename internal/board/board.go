package board

import (
	"time"

	"go.uber.org/zap"
)

// Selection is the issue (or column, for create) the editor is routed to.
type Selection struct {
	Column   Column
	Index    int
	HasIndex bool
}

// Snapshot is a read-only copy of the board handed to the presentation layer.
type Snapshot struct {
	Columns   map[Column][]Issue
	Selection *Selection
}

// Total counts issues across all columns.
func (s Snapshot) Total() int {
	n := 0
	for _, issues := range s.Columns {
		n += len(issues)
	}
	return n
}

// Board owns the partition of issues into columns. It is the sole mutator of
// that partition and is not safe for concurrent use.
type Board struct {
	columns   map[Column][]Issue
	selection *Selection
	ids       *IDSource
	now       func() time.Time
	log       *zap.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithClock sets the clock used for default dates and ids.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger routes store events to log.
func WithLogger(log *zap.Logger) Option {
	return func(b *Board) {
		if log != nil {
			b.log = log
		}
	}
}

// New returns an empty board with all four columns present.
func New(opts ...Option) *Board {
	b := &Board{
		columns: make(map[Column][]Issue, len(columnOrder)),
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, c := range columnOrder {
		b.columns[c] = []Issue{}
	}
	b.ids = NewIDSource(b.now)
	return b
}

// CreateIssue appends a new issue to the end of its status column. Zero
// dates default to now. Unknown statuses are ignored.
func (b *Board) CreateIssue(f IssueFields) (Issue, bool) {
	if !f.Status.Valid() {
		b.log.Debug("create ignored", zap.String("status", string(f.Status)))
		return Issue{}, false
	}
	now := b.now()
	if f.StartDate.IsZero() {
		f.StartDate = now
	}
	if f.EndDate.IsZero() {
		f.EndDate = now
	}
	if f.Assignee == "" {
		f.Assignee = Unassigned
	}
	issue := Issue{
		ID:           b.ids.Next(f.Status),
		Content:      f.Content,
		Status:       f.Status,
		ImageDataURL: f.ImageDataURL,
		Assignee:     f.Assignee,
		Reporter:     f.Reporter,
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
	}
	b.columns[f.Status] = append(b.columns[f.Status], issue)
	b.log.Debug("issue created", zap.String("id", issue.ID), zap.String("column", string(issue.Status)))
	return issue, true
}

// MoveIssue relocates one issue. For a same-column move dstIdx is the
// position after removal; for a cross-column move it is the insertion
// position in the destination before insertion. A cross-column move
// rewrites Status to dst. Invalid addresses leave the board unchanged.
func (b *Board) MoveIssue(src Column, srcIdx int, dst Column, dstIdx int) bool {
	if !src.Valid() || !dst.Valid() {
		b.log.Debug("move ignored: unknown column", zap.String("src", string(src)), zap.String("dst", string(dst)))
		return false
	}
	from := b.columns[src]
	if srcIdx < 0 || srcIdx >= len(from) {
		b.log.Debug("move ignored: source index", zap.String("src", string(src)), zap.Int("index", srcIdx))
		return false
	}

	if src == dst {
		if dstIdx < 0 || dstIdx > len(from)-1 {
			b.log.Debug("move ignored: destination index", zap.String("dst", string(dst)), zap.Int("index", dstIdx))
			return false
		}
		moved := from[srcIdx]
		next := make([]Issue, 0, len(from))
		next = append(next, from[:srcIdx]...)
		next = append(next, from[srcIdx+1:]...)
		b.columns[src] = insertAt(next, dstIdx, moved)
		b.log.Debug("issue reordered", zap.String("id", moved.ID), zap.Int("from", srcIdx), zap.Int("to", dstIdx))
		return true
	}

	to := b.columns[dst]
	if dstIdx < 0 || dstIdx > len(to) {
		b.log.Debug("move ignored: destination index", zap.String("dst", string(dst)), zap.Int("index", dstIdx))
		return false
	}
	moved := from[srcIdx]
	moved.Status = dst

	rest := make([]Issue, 0, len(from)-1)
	rest = append(rest, from[:srcIdx]...)
	rest = append(rest, from[srcIdx+1:]...)
	b.columns[src] = rest
	b.columns[dst] = insertAt(append([]Issue(nil), to...), dstIdx, moved)
	b.log.Debug("issue moved", zap.String("id", moved.ID), zap.String("from", string(src)), zap.String("to", string(dst)), zap.Int("index", dstIdx))
	return true
}

// UpdateIssue replaces the fields of an existing issue, keeping its id. A
// status change moves the issue to the end of the new column.
func (b *Board) UpdateIssue(col Column, idx int, f IssueFields) (Issue, bool) {
	current, ok := b.Issue(col, idx)
	if !ok || !f.Status.Valid() {
		b.log.Debug("update ignored", zap.String("column", string(col)), zap.Int("index", idx))
		return Issue{}, false
	}
	if f.Assignee == "" {
		f.Assignee = Unassigned
	}
	updated := Issue{
		ID:           current.ID,
		Content:      f.Content,
		Status:       f.Status,
		ImageDataURL: f.ImageDataURL,
		Assignee:     f.Assignee,
		Reporter:     f.Reporter,
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
	}
	if f.Status == col {
		next := append([]Issue(nil), b.columns[col]...)
		next[idx] = updated
		b.columns[col] = next
	} else {
		from := b.columns[col]
		rest := make([]Issue, 0, len(from)-1)
		rest = append(rest, from[:idx]...)
		rest = append(rest, from[idx+1:]...)
		b.columns[col] = rest
		b.columns[f.Status] = append(append([]Issue(nil), b.columns[f.Status]...), updated)
	}
	b.log.Debug("issue updated", zap.String("id", updated.ID), zap.String("column", string(updated.Status)))
	return updated, true
}

// SelectIssue routes the editor to an existing issue.
func (b *Board) SelectIssue(col Column, idx int) bool {
	if _, ok := b.Issue(col, idx); !ok {
		return false
	}
	b.selection = &Selection{Column: col, Index: idx, HasIndex: true}
	return true
}

// SelectNewIssue routes the editor to create mode for col.
func (b *Board) SelectNewIssue(col Column) bool {
	if !col.Valid() {
		return false
	}
	b.selection = &Selection{Column: col}
	return true
}

// ClearSelection drops any editor routing.
func (b *Board) ClearSelection() {
	b.selection = nil
}

// Selection reports where the editor is routed, if anywhere.
func (b *Board) Selection() (Selection, bool) {
	if b.selection == nil {
		return Selection{}, false
	}
	return *b.selection, true
}

// Issue returns a copy of the issue at col[idx].
func (b *Board) Issue(col Column, idx int) (Issue, bool) {
	issues, ok := b.columns[col]
	if !ok || idx < 0 || idx >= len(issues) {
		return Issue{}, false
	}
	return issues[idx], true
}

// Len is the number of issues in col.
func (b *Board) Len(col Column) int {
	return len(b.columns[col])
}

// Total counts issues across all columns.
func (b *Board) Total() int {
	n := 0
	for _, issues := range b.columns {
		n += len(issues)
	}
	return n
}

// Snapshot deep-copies the current state.
func (b *Board) Snapshot() Snapshot {
	cols := make(map[Column][]Issue, len(b.columns))
	for c, issues := range b.columns {
		cols[c] = append([]Issue{}, issues...)
	}
	s := Snapshot{Columns: cols}
	if b.selection != nil {
		sel := *b.selection
		s.Selection = &sel
	}
	return s
}

func insertAt(issues []Issue, idx int, issue Issue) []Issue {
	issues = append(issues, Issue{})
	copy(issues[idx+1:], issues[idx:])
	issues[idx] = issue
	return issues
}

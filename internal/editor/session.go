// Package editor implements the issue create/edit modal session: a small
// state machine that stages a draft and hands it to the board on submit.
package editor

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/kanban/internal/board"
)

// State is the editor mode.
type State int

const (
	Closed State = iota
	CreatingFor
	EditingIssue
)

func (s State) String() string {
	switch s {
	case CreatingFor:
		return "creating"
	case EditingIssue:
		return "editing"
	default:
		return "closed"
	}
}

// Draft is the uncommitted form state of one session.
type Draft struct {
	Content      string
	Status       board.Column
	ImageDataURL string
	Assignee     board.Assignee
	StartDate    time.Time
	EndDate      time.Time
	FilePath     string // only used to derive the preview
}

// Sink receives submitted drafts. *board.Board satisfies it.
type Sink interface {
	CreateIssue(f board.IssueFields) (board.Issue, bool)
	UpdateIssue(col board.Column, idx int, f board.IssueFields) (board.Issue, bool)
}

// Lookup resolves the issue an edit session is opened on.
type Lookup interface {
	Issue(col board.Column, idx int) (board.Issue, bool)
}

// Options configures a Session.
type Options struct {
	Reporter string
	Now      func() time.Time
	// UpdateInPlace routes an edit-mode submit to Sink.UpdateIssue instead
	// of creating a new issue.
	UpdateInPlace bool
	Logger        *zap.Logger
}

// Session is the modal editor. It is not safe for concurrent use.
type Session struct {
	state         State
	target        board.Location
	draft         Draft
	token         string
	attachSeq     int
	reporter      string
	updateInPlace bool
	now           func() time.Time
	newToken      func() string
	log           *zap.Logger
}

// NewSession returns a closed session.
func NewSession(opts Options) *Session {
	s := &Session{
		reporter:      opts.Reporter,
		updateInPlace: opts.UpdateInPlace,
		now:           opts.Now,
		newToken:      uuid.NewString,
		log:           opts.Logger,
	}
	if s.reporter == "" {
		s.reporter = board.DefaultReporter
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.draft = s.defaultDraft(board.ColumnTodo)
	return s
}

func (s *Session) State() State { return s.state }

// Active reports whether the modal is open.
func (s *Session) Active() bool { return s.state != Closed }

// Target is the column (and, when editing, index) the session was opened for.
func (s *Session) Target() board.Location { return s.target }

// Token identifies the current session; it changes on every open.
func (s *Session) Token() string { return s.token }

// Reporter is the fixed reporter of this program session.
func (s *Session) Reporter() string { return s.reporter }

func (s *Session) Draft() Draft { return s.draft }

// Open routes a board selection to create or edit mode.
func (s *Session) Open(sel board.Selection, lookup Lookup) bool {
	if sel.HasIndex {
		return s.OpenEdit(sel.Column, sel.Index, lookup)
	}
	return s.OpenCreate(sel.Column)
}

// OpenCreate starts a blank draft for col.
func (s *Session) OpenCreate(col board.Column) bool {
	if s.state != Closed || !col.Valid() {
		return false
	}
	s.begin(CreatingFor, board.Location{Column: col}, s.defaultDraft(col))
	return true
}

// OpenEdit stages a copy of the addressed issue. An address that does not
// resolve leaves the session closed.
func (s *Session) OpenEdit(col board.Column, idx int, lookup Lookup) bool {
	if s.state != Closed || lookup == nil {
		return false
	}
	issue, ok := lookup.Issue(col, idx)
	if !ok {
		s.log.Debug("edit ignored: no such issue", zap.String("column", string(col)), zap.Int("index", idx))
		return false
	}
	s.begin(EditingIssue, board.Location{Column: col, Index: idx}, Draft{
		Content:      issue.Content,
		Status:       issue.Status,
		ImageDataURL: issue.ImageDataURL,
		Assignee:     issue.Assignee,
		StartDate:    issue.StartDate,
		EndDate:      issue.EndDate,
	})
	return true
}

func (s *Session) begin(state State, target board.Location, d Draft) {
	s.state = state
	s.target = target
	s.draft = d
	s.token = s.newToken()
	s.log.Debug("editor opened", zap.Stringer("state", state), zap.String("column", string(target.Column)), zap.String("session", s.token))
}

func (s *Session) SetContent(v string) {
	if s.Active() {
		s.draft.Content = v
	}
}

// SetStatus ignores columns that do not exist.
func (s *Session) SetStatus(c board.Column) {
	if s.Active() && c.Valid() {
		s.draft.Status = c
	}
}

func (s *Session) SetAssignee(a board.Assignee) {
	if s.Active() {
		s.draft.Assignee = a
	}
}

func (s *Session) SetStartDate(t time.Time) {
	if s.Active() {
		s.draft.StartDate = t
	}
}

func (s *Session) SetEndDate(t time.Time) {
	if s.Active() {
		s.draft.EndDate = t
	}
}

// Cancel discards the draft. The board is not touched.
func (s *Session) Cancel() {
	if !s.Active() {
		return
	}
	s.log.Debug("editor cancelled", zap.String("session", s.token))
	s.close()
}

// Submit hands the draft to sink and closes the session.
func (s *Session) Submit(sink Sink) (board.Issue, bool) {
	if !s.Active() || sink == nil {
		return board.Issue{}, false
	}
	issue, ok := s.commit(sink, s.stage())
	s.log.Debug("editor submitted", zap.String("session", s.token), zap.Bool("applied", ok), zap.String("id", issue.ID))
	s.close()
	return issue, ok
}

// commit is the single place that decides between creating and updating.
// An edit session creates a new issue unless UpdateInPlace is set.
func (s *Session) commit(sink Sink, f board.IssueFields) (board.Issue, bool) {
	if s.state == EditingIssue && s.updateInPlace {
		return sink.UpdateIssue(s.target.Column, s.target.Index, f)
	}
	return sink.CreateIssue(f)
}

func (s *Session) stage() board.IssueFields {
	f := board.IssueFields{
		Content:      s.draft.Content,
		Status:       s.draft.Status,
		ImageDataURL: s.draft.ImageDataURL,
		Assignee:     s.draft.Assignee,
		StartDate:    s.draft.StartDate,
		EndDate:      s.draft.EndDate,
	}
	s.stageReporter(&f)
	return f
}

// stageReporter always writes the session reporter, so an edited issue
// never keeps its original reporter.
func (s *Session) stageReporter(f *board.IssueFields) {
	f.Reporter = s.reporter
}

func (s *Session) close() {
	s.state = Closed
	s.target = board.Location{}
	s.token = ""
	s.draft = s.defaultDraft(board.ColumnTodo)
}

func (s *Session) defaultDraft(col board.Column) Draft {
	now := s.now()
	return Draft{
		Status:    col,
		Assignee:  board.Unassigned,
		StartDate: now,
		EndDate:   now,
	}
}

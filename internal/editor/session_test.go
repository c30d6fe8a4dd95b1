package editor

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/kanban/internal/board"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	s := NewSession(opts)
	n := 0
	s.newToken = func() string {
		n++
		return "session-" + strconv.Itoa(n)
	}
	return s
}

func newTestBoard() *board.Board {
	clock := testNow
	return board.New(board.WithClock(func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}))
}

func TestOpenCreateDefaults(t *testing.T) {
	s := newTestSession(t, Options{})
	require.Equal(t, Closed, s.State())

	require.True(t, s.OpenCreate(board.ColumnDone))
	require.Equal(t, CreatingFor, s.State())
	require.Equal(t, board.Location{Column: board.ColumnDone}, s.Target())
	d := s.Draft()
	require.Equal(t, Draft{
		Status:    board.ColumnDone,
		Assignee:  board.Unassigned,
		StartDate: testNow,
		EndDate:   testNow,
	}, d)
	require.NotEmpty(t, s.Token())
}

func TestOpenRequiresClosedSession(t *testing.T) {
	s := newTestSession(t, Options{})
	require.True(t, s.OpenCreate(board.ColumnTodo))
	require.False(t, s.OpenCreate(board.ColumnDone))
	require.Equal(t, board.ColumnTodo, s.Target().Column)
}

func TestOpenCreateUnknownColumn(t *testing.T) {
	s := newTestSession(t, Options{})
	require.False(t, s.OpenCreate("BACKLOG"))
	require.Equal(t, Closed, s.State())
}

func TestOpenEditCopiesIssue(t *testing.T) {
	b := newTestBoard()
	start := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	_, ok := b.CreateIssue(board.IssueFields{
		Content:      "ship it",
		Status:       board.ColumnInProgress,
		ImageDataURL: "data:image/png;base64,AAAA",
		Assignee:     board.JiminLee,
		Reporter:     "someone else",
		StartDate:    start,
		EndDate:      end,
	})
	require.True(t, ok)

	s := newTestSession(t, Options{})
	require.True(t, s.OpenEdit(board.ColumnInProgress, 0, b))
	require.Equal(t, EditingIssue, s.State())
	require.Equal(t, Draft{
		Content:      "ship it",
		Status:       board.ColumnInProgress,
		ImageDataURL: "data:image/png;base64,AAAA",
		Assignee:     board.JiminLee,
		StartDate:    start,
		EndDate:      end,
	}, s.Draft())
}

func TestOpenEditMissingIssueStaysClosed(t *testing.T) {
	s := newTestSession(t, Options{})
	require.False(t, s.OpenEdit(board.ColumnTodo, 0, newTestBoard()))
	require.False(t, s.OpenEdit(board.ColumnTodo, 0, nil))
	require.Equal(t, Closed, s.State())
}

func TestOpenRoutesSelection(t *testing.T) {
	b := newTestBoard()
	b.CreateIssue(board.IssueFields{Content: "a", Status: board.ColumnTodo})

	s := newTestSession(t, Options{})
	require.True(t, s.Open(board.Selection{Column: board.ColumnTodo, Index: 0, HasIndex: true}, b))
	require.Equal(t, EditingIssue, s.State())
	s.Cancel()

	require.True(t, s.Open(board.Selection{Column: board.ColumnEmergency}, b))
	require.Equal(t, CreatingFor, s.State())
}

func TestDraftEditsAreStaged(t *testing.T) {
	b := newTestBoard()
	b.CreateIssue(board.IssueFields{Content: "original", Status: board.ColumnTodo})

	s := newTestSession(t, Options{})
	require.True(t, s.OpenEdit(board.ColumnTodo, 0, b))
	s.SetContent("changed")
	s.SetAssignee(board.SeungilHan)

	issue, _ := b.Issue(board.ColumnTodo, 0)
	require.Equal(t, "original", issue.Content)
	require.Equal(t, board.Unassigned, issue.Assignee)
}

func TestSettersIgnoredWhenClosed(t *testing.T) {
	s := newTestSession(t, Options{})
	s.SetContent("x")
	s.SetStatus(board.ColumnDone)
	s.SetAssignee(board.JiminLee)
	require.Equal(t, "", s.Draft().Content)
	require.Equal(t, board.ColumnTodo, s.Draft().Status)
	require.Equal(t, board.Unassigned, s.Draft().Assignee)
}

func TestSetStatusRejectsUnknownColumn(t *testing.T) {
	s := newTestSession(t, Options{})
	s.OpenCreate(board.ColumnTodo)
	s.SetStatus("BACKLOG")
	require.Equal(t, board.ColumnTodo, s.Draft().Status)
	s.SetStatus(board.ColumnEmergency)
	require.Equal(t, board.ColumnEmergency, s.Draft().Status)
}

func TestSubmitCreateAddsIssueAndCloses(t *testing.T) {
	b := newTestBoard()
	s := newTestSession(t, Options{Reporter: "tester"})
	require.True(t, s.OpenCreate(board.ColumnTodo))
	s.SetContent("fix bug")

	issue, ok := s.Submit(b)
	require.True(t, ok)
	require.Equal(t, "fix bug", issue.Content)
	require.Equal(t, board.ColumnTodo, issue.Status)
	require.Equal(t, board.Unassigned, issue.Assignee)
	require.Equal(t, "tester", issue.Reporter)
	require.Equal(t, 1, b.Len(board.ColumnTodo))

	require.Equal(t, Closed, s.State())
	require.Empty(t, s.Token())
	require.Equal(t, "", s.Draft().Content)
}

func TestSubmitUsesDraftStatus(t *testing.T) {
	b := newTestBoard()
	s := newTestSession(t, Options{})
	s.OpenCreate(board.ColumnTodo)
	s.SetStatus(board.ColumnEmergency)
	_, ok := s.Submit(b)
	require.True(t, ok)
	require.Equal(t, 0, b.Len(board.ColumnTodo))
	require.Equal(t, 1, b.Len(board.ColumnEmergency))
}

func TestSubmitInEditModeCreatesNewIssue(t *testing.T) {
	b := newTestBoard()
	original, _ := b.CreateIssue(board.IssueFields{Content: "a", Status: board.ColumnTodo, Reporter: "someone else"})

	s := newTestSession(t, Options{Reporter: "me"})
	require.True(t, s.OpenEdit(board.ColumnTodo, 0, b))
	s.SetContent("a edited")
	created, ok := s.Submit(b)
	require.True(t, ok)

	require.Equal(t, 2, b.Len(board.ColumnTodo))
	require.NotEqual(t, original.ID, created.ID)
	first, _ := b.Issue(board.ColumnTodo, 0)
	require.Equal(t, original, first)
	second, _ := b.Issue(board.ColumnTodo, 1)
	require.Equal(t, "a edited", second.Content)
	require.Equal(t, "me", second.Reporter)
}

func TestSubmitInEditModeUpdatesWhenEnabled(t *testing.T) {
	b := newTestBoard()
	original, _ := b.CreateIssue(board.IssueFields{Content: "a", Status: board.ColumnTodo, Reporter: "someone else"})

	s := newTestSession(t, Options{Reporter: "me", UpdateInPlace: true})
	require.True(t, s.OpenEdit(board.ColumnTodo, 0, b))
	s.SetContent("a edited")
	updated, ok := s.Submit(b)
	require.True(t, ok)

	require.Equal(t, 1, b.Len(board.ColumnTodo))
	require.Equal(t, original.ID, updated.ID)
	require.Equal(t, "a edited", updated.Content)
}

func TestEditReassignsReporterToSessionReporter(t *testing.T) {
	b := newTestBoard()
	b.CreateIssue(board.IssueFields{Content: "a", Status: board.ColumnDone, Reporter: "original reporter"})

	s := newTestSession(t, Options{Reporter: "current user", UpdateInPlace: true})
	require.True(t, s.OpenEdit(board.ColumnDone, 0, b))
	updated, ok := s.Submit(b)
	require.True(t, ok)
	require.Equal(t, "current user", updated.Reporter)
}

func TestSubmitWithoutSink(t *testing.T) {
	s := newTestSession(t, Options{})
	s.OpenCreate(board.ColumnTodo)
	_, ok := s.Submit(nil)
	require.False(t, ok)
	require.Equal(t, CreatingFor, s.State())
}

func TestSubmitWhenClosed(t *testing.T) {
	b := newTestBoard()
	s := newTestSession(t, Options{})
	_, ok := s.Submit(b)
	require.False(t, ok)
	require.Equal(t, 0, b.Total())
}

func TestCancelEditLeavesBoardUnchanged(t *testing.T) {
	b := newTestBoard()
	b.CreateIssue(board.IssueFields{Content: "a", Status: board.ColumnTodo})
	b.CreateIssue(board.IssueFields{Content: "b", Status: board.ColumnDone})
	before := b.Snapshot()

	s := newTestSession(t, Options{})
	require.True(t, s.OpenEdit(board.ColumnTodo, 0, b))
	s.SetContent("discarded")
	s.Cancel()

	require.Equal(t, Closed, s.State())
	require.Equal(t, before, b.Snapshot())
}

func TestAttachKeepsPreviewUntilDecoded(t *testing.T) {
	b := newTestBoard()
	b.CreateIssue(board.IssueFields{Status: board.ColumnTodo, ImageDataURL: "data:image/gif;base64,OLD"})

	s := newTestSession(t, Options{})
	require.True(t, s.OpenEdit(board.ColumnTodo, 0, b))
	req, ok := s.AttachFile("/tmp/new.png")
	require.True(t, ok)
	require.Equal(t, s.Token(), req.Token)
	require.Equal(t, "/tmp/new.png", req.Path)
	require.Equal(t, "data:image/gif;base64,OLD", s.Draft().ImageDataURL)

	require.True(t, s.ApplyDecoded(DecodeResult{Token: req.Token, Seq: req.Seq, DataURL: "data:image/png;base64,NEW"}))
	require.Equal(t, "data:image/png;base64,NEW", s.Draft().ImageDataURL)
}

func TestAttachRequiresOpenSession(t *testing.T) {
	s := newTestSession(t, Options{})
	_, ok := s.AttachFile("/tmp/a.png")
	require.False(t, ok)
	s.OpenCreate(board.ColumnTodo)
	_, ok = s.AttachFile("")
	require.False(t, ok)
}

func TestStaleDecodeIsIgnored(t *testing.T) {
	s := newTestSession(t, Options{})
	s.OpenCreate(board.ColumnTodo)
	req, _ := s.AttachFile("/tmp/a.png")
	s.Cancel()

	require.False(t, s.ApplyDecoded(DecodeResult{Token: req.Token, Seq: req.Seq, DataURL: "data:image/png;base64,AAAA"}))
	require.Empty(t, s.Draft().ImageDataURL)

	s.OpenCreate(board.ColumnDone)
	require.False(t, s.ApplyDecoded(DecodeResult{Token: req.Token, Seq: req.Seq, DataURL: "data:image/png;base64,AAAA"}))
	require.Empty(t, s.Draft().ImageDataURL)
}

func TestLatestAttachWins(t *testing.T) {
	s := newTestSession(t, Options{})
	s.OpenCreate(board.ColumnTodo)
	first, _ := s.AttachFile("/tmp/a.png")
	second, _ := s.AttachFile("/tmp/b.png")
	require.NotEqual(t, first.Seq, second.Seq)

	require.True(t, s.ApplyDecoded(DecodeResult{Token: second.Token, Seq: second.Seq, DataURL: "data:image/png;base64,BBBB"}))
	require.False(t, s.ApplyDecoded(DecodeResult{Token: first.Token, Seq: first.Seq, DataURL: "data:image/png;base64,AAAA"}))
	require.Equal(t, "/tmp/b.png", s.Draft().FilePath)
	require.Equal(t, "data:image/png;base64,BBBB", s.Draft().ImageDataURL)
}

func TestSupersededFailureKeepsLatestPath(t *testing.T) {
	s := newTestSession(t, Options{})
	s.OpenCreate(board.ColumnTodo)
	first, _ := s.AttachFile("/tmp/missing.png")
	s.AttachFile("/tmp/b.png")

	require.False(t, s.ApplyDecoded(DecodeResult{Token: first.Token, Seq: first.Seq, Err: errors.New("open: no such file")}))
	require.Equal(t, "/tmp/b.png", s.Draft().FilePath)
}

func TestDecodeFailureClearsPreview(t *testing.T) {
	s := newTestSession(t, Options{})
	s.OpenCreate(board.ColumnTodo)
	req, _ := s.AttachFile("/tmp/a.png")
	require.True(t, s.ApplyDecoded(DecodeResult{Token: req.Token, Seq: req.Seq, DataURL: "data:image/png;base64,AAAA"}))

	req, _ = s.AttachFile("/tmp/missing.png")
	require.True(t, s.ApplyDecoded(DecodeResult{Token: req.Token, Seq: req.Seq, Err: errors.New("open: no such file")}))
	require.Empty(t, s.Draft().ImageDataURL)
	require.Empty(t, s.Draft().FilePath)
}

func TestSubmittedImageReachesBoard(t *testing.T) {
	b := newTestBoard()
	s := newTestSession(t, Options{})
	s.OpenCreate(board.ColumnTodo)
	req, _ := s.AttachFile("/tmp/a.png")
	s.ApplyDecoded(DecodeResult{Token: req.Token, Seq: req.Seq, DataURL: "data:image/png;base64,AAAA"})
	issue, ok := s.Submit(b)
	require.True(t, ok)
	require.True(t, issue.HasImage())
}

package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/kanban/internal/board"
)

func testSnapshot(t *testing.T) board.Snapshot {
	t.Helper()
	b := board.New()
	for _, f := range []board.IssueFields{
		{Content: "fix login bug", Status: board.ColumnTodo},
		{Content: "write release notes", Status: board.ColumnTodo},
		{Content: "database migration", Status: board.ColumnInProgress},
		{Content: "outage in payments", Status: board.ColumnEmergency},
	} {
		_, ok := b.CreateIssue(f)
		require.True(t, ok)
	}
	return b.Snapshot()
}

func TestFindFuzzy(t *testing.T) {
	hits := Find(testSnapshot(t), "login")
	require.NotEmpty(t, hits)
	require.Equal(t, "fix login bug", hits[0].Issue.Content)
	require.Equal(t, board.Location{Column: board.ColumnTodo, Index: 0}, hits[0].Location)
}

func TestFindIsCaseInsensitive(t *testing.T) {
	hits := Find(testSnapshot(t), "OUTAGE")
	require.Len(t, hits, 1)
	require.Equal(t, board.ColumnEmergency, hits[0].Location.Column)
}

func TestFindTypoFallback(t *testing.T) {
	hits := Find(testSnapshot(t), "databsae")
	require.Len(t, hits, 1)
	require.Equal(t, "database migration", hits[0].Issue.Content)
	require.Equal(t, board.Location{Column: board.ColumnInProgress, Index: 0}, hits[0].Location)
}

func TestFindEmpty(t *testing.T) {
	require.Nil(t, Find(testSnapshot(t), "   "))
	require.Nil(t, Find(board.New().Snapshot(), "anything"))
	require.Empty(t, Find(testSnapshot(t), "zzzzzzzzzz"))
}

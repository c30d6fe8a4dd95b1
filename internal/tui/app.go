package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/kanban/internal/attach"
	"github.com/jask/kanban/internal/board"
	"github.com/jask/kanban/internal/config"
	"github.com/jask/kanban/internal/editor"
	"github.com/jask/kanban/internal/search"
)

// Decoder turns a file path into an inline data URL.
type Decoder interface {
	Decode(ctx context.Context, path string) (string, error)
}

// Deps are the collaborators App drives. Nil fields get defaults.
type Deps struct {
	Board   *board.Board
	Session *editor.Session
	Decoder Decoder
	Keys    *KeyRegistry
	Logger  *zap.Logger
}

// App is the board screen plus the issue modal.
type App struct {
	ctx     context.Context
	cfg     config.Config
	board   *board.Board
	session *editor.Session
	decoder Decoder
	keys    *KeyRegistry
	help    help.Model
	log     *zap.Logger
	tz      *time.Location

	width     int
	height    int
	cursor    board.Location
	drag      *dragState
	form      *issueForm
	find      *textinput.Model
	status    string
	statusErr bool
}

// dragState is an in-flight keyboard drag. target is expressed the way
// board.MoveIssue wants it: a post-removal index in the source column, an
// insertion index anywhere else.
type dragState struct {
	source board.Location
	target board.Location
}

type imageDecodedMsg struct {
	result editor.DecodeResult
}

// New builds the board screen.
func New(ctx context.Context, cfg config.Config, deps Deps, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	a := &App{
		ctx:     ctx,
		cfg:     cfg,
		board:   deps.Board,
		session: deps.Session,
		decoder: deps.Decoder,
		keys:    deps.Keys,
		log:     deps.Logger,
		help:    newHelp(),
		tz:      tz,
		width:   100,
		height:  32,
		cursor:  board.Location{Column: board.ColumnTodo},
		status:  "Ready",
	}
	if a.board == nil {
		a.board = board.New()
	}
	if a.session == nil {
		a.session = editor.NewSession(editor.Options{Reporter: cfg.Session.Reporter, UpdateInPlace: cfg.Editor.UpdateInPlace})
	}
	if a.decoder == nil {
		a.decoder = attach.NewDecoder(cfg.Attach.MaxBytes)
	}
	if a.keys == nil {
		a.keys = DefaultKeyRegistry()
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.cfg.UI.DateTimeFormat == "" {
		a.cfg.UI.DateTimeFormat = "2006-01-02 15:04"
	}
	if a.cfg.UI.ColumnWidth <= 0 {
		a.cfg.UI.ColumnWidth = 28
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		switch a.scope() {
		case scopeModal:
			return a, a.handleModalKey(m)
		case scopeDrag:
			return a, a.handleDragKey(m)
		case scopeFind:
			return a, a.handleFindKey(m)
		default:
			return a, a.handleBoardKey(m)
		}
	case imageDecodedMsg:
		a.applyDecoded(m.result)
	}
	return a, nil
}

func (a *App) scope() string {
	switch {
	case a.form != nil:
		return scopeModal
	case a.drag != nil:
		return scopeDrag
	case a.find != nil:
		return scopeFind
	}
	return scopeBoard
}

func (a *App) handleBoardKey(m tea.KeyMsg) tea.Cmd {
	k, scope := a.keys, scopeBoard
	switch {
	case k.IsAction(m, actionQuit, scope):
		return tea.Quit
	case k.IsAction(m, actionLeft, scope):
		a.cursor.Column = a.cursor.Column.Prev()
		a.clampCursor()
	case k.IsAction(m, actionRight, scope):
		a.cursor.Column = a.cursor.Column.Next()
		a.clampCursor()
	case k.IsAction(m, actionUp, scope):
		if a.cursor.Index > 0 {
			a.cursor.Index--
		}
	case k.IsAction(m, actionDown, scope):
		if a.cursor.Index < a.board.Len(a.cursor.Column)-1 {
			a.cursor.Index++
		}
	case k.IsAction(m, actionOpen, scope):
		if !a.board.SelectIssue(a.cursor.Column, a.cursor.Index) {
			a.setStatus("no issue here, press n to create one")
			return nil
		}
		return a.openEditor()
	case k.IsAction(m, actionNew, scope):
		a.board.SelectNewIssue(a.cursor.Column)
		return a.openEditor()
	case k.IsAction(m, actionGrab, scope):
		if _, ok := a.board.Issue(a.cursor.Column, a.cursor.Index); !ok {
			a.setStatus("nothing to move")
			return nil
		}
		a.drag = &dragState{source: a.cursor, target: a.cursor}
		a.setStatus("moving: h/l column, j/k position, enter to drop, esc to cancel")
	case k.IsAction(m, actionFind, scope):
		in := textinput.New()
		in.Prompt = "/"
		in.Placeholder = "find issue"
		in.Focus()
		a.find = &in
	}
	return nil
}

func (a *App) openEditor() tea.Cmd {
	sel, ok := a.board.Selection()
	if !ok || !a.session.Open(sel, a.board) {
		a.board.ClearSelection()
		a.setError(fmt.Errorf("cannot open editor"))
		return nil
	}
	a.form = newIssueForm(a.session.Draft(), a.cfg.UI.DateTimeFormat, a.tz)
	a.setStatus("")
	return textinput.Blink
}

func (a *App) closeEditor() {
	a.form = nil
	a.board.ClearSelection()
}

func (a *App) handleModalKey(m tea.KeyMsg) tea.Cmd {
	k, scope := a.keys, scopeModal
	switch {
	case k.IsAction(m, actionQuit, scope):
		return tea.Quit
	case k.IsAction(m, actionCancel, scope):
		a.session.Cancel()
		a.closeEditor()
		a.setStatus("discarded")
	case k.IsAction(m, actionNextField, scope):
		a.form.next()
	case k.IsAction(m, actionPrevField, scope):
		a.form.prev()
	case k.IsAction(m, actionAttach, scope), m.Type == tea.KeyEnter && a.form.focus == fieldAttach:
		return a.startAttach()
	case k.IsAction(m, actionSubmit, scope):
		if err := a.form.commitDates(a.session); err != nil {
			a.setError(err)
			return nil
		}
		a.submit()
	default:
		return a.form.update(m, a.session)
	}
	return nil
}

func (a *App) startAttach() tea.Cmd {
	req, ok := a.session.AttachFile(a.form.filePath())
	if !ok {
		a.setError(fmt.Errorf("enter a file path first"))
		return nil
	}
	a.setStatus("loading " + req.Path)
	dec, ctx := a.decoder, a.ctx
	return func() tea.Msg {
		url, err := dec.Decode(ctx, req.Path)
		return imageDecodedMsg{result: editor.DecodeResult{Token: req.Token, Seq: req.Seq, DataURL: url, Err: err}}
	}
}

func (a *App) applyDecoded(r editor.DecodeResult) {
	if !a.session.ApplyDecoded(r) {
		return
	}
	if r.Err != nil {
		a.log.Warn("attachment unreadable", zap.Error(r.Err))
		if a.form != nil {
			a.form.file.SetValue("")
		}
		a.setError(fmt.Errorf("attachment unreadable: %w", r.Err))
		return
	}
	a.setStatus("attached " + attach.Describe(r.DataURL))
}

func (a *App) submit() {
	editing := a.session.State() == editor.EditingIssue
	issue, ok := a.session.Submit(a.board)
	a.closeEditor()
	if !ok {
		a.setError(fmt.Errorf("issue was not saved"))
		return
	}
	if loc, found := a.locate(issue.ID); found {
		a.cursor = loc
	}
	verb := "created"
	if editing && a.cfg.Editor.UpdateInPlace {
		verb = "updated"
	}
	a.log.Info("issue "+verb, zap.String("id", issue.ID), zap.String("status", string(issue.Status)), zap.String("assignee", string(issue.Assignee)))
	a.setStatus(fmt.Sprintf("%s %s", verb, issue.ID))
}

func (a *App) handleDragKey(m tea.KeyMsg) tea.Cmd {
	k, scope := a.keys, scopeDrag
	d := a.drag
	switch {
	case k.IsAction(m, actionQuit, scope):
		return tea.Quit
	case k.IsAction(m, actionCancel, scope):
		a.board.HandleDragEnd(board.DragResult{Source: d.source})
		a.drag = nil
		a.setStatus("move cancelled")
	case k.IsAction(m, actionDrop, scope):
		dst := d.target
		moved := a.board.HandleDragEnd(board.DragResult{Source: d.source, Destination: &dst})
		a.drag = nil
		if !moved {
			a.setError(fmt.Errorf("move rejected"))
			return nil
		}
		a.cursor = dst
		if issue, ok := a.board.Issue(dst.Column, dst.Index); ok {
			a.log.Info("issue moved", zap.String("id", issue.ID), zap.String("from", string(d.source.Column)), zap.String("to", string(dst.Column)), zap.Int("index", dst.Index))
		}
		a.setStatus(fmt.Sprintf("moved to %s #%d", dst.Column, dst.Index+1))
	case k.IsAction(m, actionLeft, scope):
		d.target.Column = d.target.Column.Prev()
		d.target.Index = min(d.target.Index, a.dropMax(d.target.Column))
	case k.IsAction(m, actionRight, scope):
		d.target.Column = d.target.Column.Next()
		d.target.Index = min(d.target.Index, a.dropMax(d.target.Column))
	case k.IsAction(m, actionUp, scope):
		if d.target.Index > 0 {
			d.target.Index--
		}
	case k.IsAction(m, actionDown, scope):
		if d.target.Index < a.dropMax(d.target.Column) {
			d.target.Index++
		}
	}
	return nil
}

// dropMax is the largest valid drop index in col for the current drag.
func (a *App) dropMax(col board.Column) int {
	n := a.board.Len(col)
	if a.drag != nil && col == a.drag.source.Column {
		return n - 1
	}
	return n
}

func (a *App) handleFindKey(m tea.KeyMsg) tea.Cmd {
	k, scope := a.keys, scopeFind
	switch {
	case k.IsAction(m, actionQuit, scope):
		return tea.Quit
	case k.IsAction(m, actionCancel, scope):
		a.find = nil
	case k.IsAction(m, actionJump, scope):
		query := a.find.Value()
		a.find = nil
		hits := search.Find(a.board.Snapshot(), query)
		if len(hits) == 0 {
			a.setError(fmt.Errorf("no issue matches %q", query))
			return nil
		}
		a.cursor = hits[0].Location
		a.setStatus(fmt.Sprintf("%d match(es), showing %s", len(hits), hits[0].Issue.ID))
	default:
		var cmd tea.Cmd
		*a.find, cmd = a.find.Update(m)
		return cmd
	}
	return nil
}

func (a *App) clampCursor() {
	n := a.board.Len(a.cursor.Column)
	switch {
	case n == 0:
		a.cursor.Index = 0
	case a.cursor.Index >= n:
		a.cursor.Index = n - 1
	case a.cursor.Index < 0:
		a.cursor.Index = 0
	}
}

func (a *App) locate(id string) (board.Location, bool) {
	snap := a.board.Snapshot()
	for _, col := range board.Columns() {
		for i, issue := range snap.Columns[col] {
			if issue.ID == id {
				return board.Location{Column: col, Index: i}, true
			}
		}
	}
	return board.Location{}, false
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusErr = false
}

func (a *App) setError(err error) {
	if err == nil {
		a.setStatus("")
		return
	}
	a.status = err.Error()
	a.statusErr = true
}

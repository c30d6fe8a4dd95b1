package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	scopeBoard = "board"
	scopeDrag  = "drag"
	scopeModal = "modal"
	scopeFind  = "find"
)

const (
	actionLeft      = "left"
	actionRight     = "right"
	actionUp        = "up"
	actionDown      = "down"
	actionOpen      = "open"
	actionNew       = "new"
	actionGrab      = "grab"
	actionDrop      = "drop"
	actionCancel    = "cancel"
	actionFind      = "find"
	actionQuit      = "quit"
	actionNextField = "next_field"
	actionPrevField = "prev_field"
	actionSubmit    = "submit"
	actionAttach    = "attach"
	actionJump      = "jump"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
	Hidden      bool // matched but left out of the footer
}

// KeyRegistry maps key presses to actions per scope.
type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

// DefaultKeyRegistry holds the board, drag, modal and find bindings.
func DefaultKeyRegistry() *KeyRegistry {
	return NewKeyRegistry([]KeyBinding{
		{Keys: []string{"h", "left"}, Action: actionLeft, Description: "column", Scopes: []string{scopeBoard, scopeDrag}},
		{Keys: []string{"l", "right"}, Action: actionRight, Description: "column", Scopes: []string{scopeBoard, scopeDrag}, Hidden: true},
		{Keys: []string{"k", "up"}, Action: actionUp, Description: "card", Scopes: []string{scopeBoard, scopeDrag}},
		{Keys: []string{"j", "down"}, Action: actionDown, Description: "card", Scopes: []string{scopeBoard, scopeDrag}, Hidden: true},
		{Keys: []string{"enter"}, Action: actionOpen, Description: "open", Scopes: []string{scopeBoard}},
		{Keys: []string{"n"}, Action: actionNew, Description: "new issue", Scopes: []string{scopeBoard}},
		{Keys: []string{"space", " "}, Action: actionGrab, Description: "grab", Scopes: []string{scopeBoard}},
		{Keys: []string{"/"}, Action: actionFind, Description: "find", Scopes: []string{scopeBoard}},
		{Keys: []string{"enter", "space", " "}, Action: actionDrop, Description: "drop", Scopes: []string{scopeDrag}},
		{Keys: []string{"tab"}, Action: actionNextField, Description: "next field", Scopes: []string{scopeModal}},
		{Keys: []string{"shift+tab"}, Action: actionPrevField, Description: "prev field", Scopes: []string{scopeModal}},
		{Keys: []string{"ctrl+o"}, Action: actionAttach, Description: "load attachment", Scopes: []string{scopeModal}},
		{Keys: []string{"ctrl+s"}, Action: actionSubmit, Description: "create issue", Scopes: []string{scopeModal}},
		{Keys: []string{"enter"}, Action: actionJump, Description: "jump", Scopes: []string{scopeFind}},
		{Keys: []string{"esc"}, Action: actionCancel, Description: "cancel", Scopes: []string{scopeDrag, scopeModal, scopeFind}},
		{Keys: []string{"q", "ctrl+c"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeBoard}},
		{Keys: []string{"ctrl+c"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeDrag, scopeModal, scopeFind}, Hidden: true},
	})
}

func (r *KeyRegistry) Register(binding KeyBinding) {
	r.bindings = append(r.bindings, binding)
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// IsAction reports whether msg triggers action in scope.
func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

// Help returns footer entries for scope as bubbles key bindings.
func (r *KeyRegistry) Help(scope string) []key.Binding {
	var out []key.Binding
	for _, b := range r.BindingsForScope(scope) {
		if b.Hidden || len(b.Keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(helpKey(b), b.Description)))
	}
	return out
}

func helpKey(b KeyBinding) string {
	switch b.Action {
	case actionLeft:
		return "h/l"
	case actionUp:
		return "j/k"
	}
	return b.Keys[0]
}

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	if k == " " {
		return "space"
	}
	return strings.TrimSpace(k)
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

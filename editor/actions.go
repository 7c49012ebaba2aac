package editor

import (
	"strings"

	"github.com/meikuraledutech/flow"
)

// ActionKind is a discrete user intent from the context menu or toolbar.
type ActionKind string

const (
	ActionDeleteNode    ActionKind = "delete_node"
	ActionEditNode      ActionKind = "edit_node"
	ActionDuplicateNode ActionKind = "duplicate_node"
	ActionDeleteEdge    ActionKind = "delete_edge"
	ActionAddNode       ActionKind = "add_node"
	ActionUndo          ActionKind = "undo"
	ActionRedo          ActionKind = "redo"
	ActionAutoArrange   ActionKind = "auto_arrange"
)

// Action is a user intent with its target.
type Action struct {
	Kind     ActionKind    `json:"kind"`
	NodeID   string        `json:"nodeId,omitempty"`
	EdgeID   string        `json:"edgeId,omitempty"`
	Position flow.Position `json:"position"`
}

// Dispatch performs a. It reports false when the action had nothing to act
// on or no host handler was installed for it.
func (e *Editor) Dispatch(a Action) bool {
	switch a.Kind {
	case ActionDeleteNode:
		return e.DeleteNode(a.NodeID)
	case ActionDeleteEdge:
		return e.DeleteEdge(a.EdgeID)
	case ActionEditNode:
		return e.forwardNode(a.NodeID, e.callbacks.OnNodeEdit)
	case ActionDuplicateNode:
		return e.forwardNode(a.NodeID, e.callbacks.OnNodeDuplicate)
	case ActionAddNode:
		if e.callbacks.OnAddNodeRequest == nil {
			return false
		}
		e.callbacks.OnAddNodeRequest(a.Position)
		return true
	case ActionUndo:
		return e.Undo()
	case ActionRedo:
		return e.Redo()
	case ActionAutoArrange:
		e.AutoArrange()
		return true
	default:
		e.log.Warn().Str("kind", string(a.Kind)).Msg("unknown action")
		return false
	}
}

func (e *Editor) forwardNode(id string, fn func(flow.Node)) bool {
	if fn == nil {
		return false
	}
	n, ok := e.history.Present().Node(id)
	if !ok {
		return false
	}
	fn(n.Clone())
	return true
}

// Selection is the set of items the host has selected.
type Selection struct {
	Nodes []string `json:"nodes,omitempty"`
	Edges []string `json:"edges,omitempty"`
}

// DeleteSelection removes the selected nodes and edges as one undoable step.
func (e *Editor) DeleteSelection(sel Selection) bool {
	if len(sel.Nodes) == 0 && len(sel.Edges) == 0 {
		return false
	}

	var removedNodes []string
	removed := 0
	err := e.history.Mutate(func(g flow.Graph) (flow.Graph, error) {
		for _, id := range sel.Edges {
			if next, err := g.RemoveEdge(id); err == nil {
				g = next
				removed++
			}
		}
		for _, id := range sel.Nodes {
			if next, err := g.RemoveNode(id); err == nil {
				g = next
				removedNodes = append(removedNodes, id)
				removed++
			}
		}
		if removed == 0 {
			return g, flow.ErrNotFound
		}
		return g, nil
	})
	if err != nil {
		return false
	}

	e.endDragOf(removedNodes)
	for _, id := range removedNodes {
		e.dropConnectionsFrom(id)
		if e.callbacks.OnNodeDelete != nil {
			e.callbacks.OnNodeDelete(id)
		}
	}
	e.log.Debug().Int("removed", removed).Msg("selection deleted")
	e.emit()
	return true
}

// Shortcut is a key press with its modifiers. Modifier state is supplied by
// the host with every event.
type Shortcut struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	Shift bool   `json:"shift,omitempty"`
}

// HandleShortcut maps Ctrl/Cmd+Z to undo, Ctrl/Cmd+Shift+Z and Ctrl/Cmd+Y to
// redo, and Delete/Backspace to deleting sel. It reports whether the key was
// handled.
func (e *Editor) HandleShortcut(s Shortcut, sel Selection) bool {
	mod := s.Ctrl || s.Meta
	switch key := strings.ToLower(s.Key); {
	case mod && key == "z" && !s.Shift:
		return e.Undo()
	case mod && key == "z" && s.Shift, mod && key == "y":
		return e.Redo()
	case !mod && (key == "delete" || key == "backspace"):
		return e.DeleteSelection(sel)
	}
	return false
}

package editor

import (
	"errors"

	"github.com/meikuraledutech/flow"
)

// ChangeType is the kind of a canvas change event.
type ChangeType string

const (
	ChangePosition ChangeType = "position"
	ChangeRemove   ChangeType = "remove"
	ChangeSelect   ChangeType = "select"
)

// NodeChange is one node event emitted by the canvas. Dragging is true while
// a move gesture is still in progress.
type NodeChange struct {
	Type     ChangeType     `json:"type"`
	ID       string         `json:"id"`
	Position *flow.Position `json:"position,omitempty"`
	Dragging bool           `json:"dragging,omitempty"`
}

// EdgeChange is one edge event emitted by the canvas.
type EdgeChange struct {
	Type ChangeType `json:"type"`
	ID   string     `json:"id"`
}

// Dragging reports whether a node move gesture is in progress.
func (e *Editor) Dragging() bool {
	return e.dragging
}

// ApplyNodeChanges applies a batch of canvas node events.
//
// The first position change flagged Dragging opens a gesture: one snapshot is
// taken and every move of that gesture bypasses history, so a single undo
// reverts the whole drag. A position change without the flag closes the
// gesture and notifies OnChange. Moves outside a gesture are recorded one
// batch at a time. Removals in the batch form one undoable step.
func (e *Editor) ApplyNodeChanges(changes []NodeChange) {
	present := e.history.Present()

	var moves []NodeChange
	var removals []string
	for _, c := range changes {
		switch c.Type {
		case ChangePosition:
			if c.Position == nil {
				continue
			}
			// A drag end still closes the gesture when its node is gone.
			if _, ok := present.Node(c.ID); ok || (e.dragging && !c.Dragging) {
				moves = append(moves, c)
			}
		case ChangeRemove:
			removals = append(removals, c.ID)
		}
	}

	if len(moves) > 0 {
		e.applyMoves(moves)
	}
	if len(removals) > 0 {
		e.deleteNodes(removals)
	}
}

func (e *Editor) applyMoves(moves []NodeChange) {
	inProgress := false
	for _, m := range moves {
		if m.Dragging {
			inProgress = true
			break
		}
	}

	move := func(g flow.Graph) (flow.Graph, error) {
		for _, m := range moves {
			next, err := g.UpdateNodePosition(m.ID, *m.Position)
			if errors.Is(err, flow.ErrNotFound) {
				continue
			}
			if err != nil {
				return g, err
			}
			g = next
		}
		return g, nil
	}

	if inProgress && !e.dragging {
		e.history.Snapshot()
		e.dragging = true
		e.dragged = make(map[string]bool)
		e.log.Debug().Str("node", moves[0].ID).Msg("drag started")
	}

	if !e.dragging {
		_ = e.history.Mutate(move)
		e.emit()
		return
	}

	_ = e.history.MutateWithoutHistory(move)
	if !inProgress {
		e.endDrag()
		e.log.Debug().Str("node", moves[0].ID).Msg("drag finished")
		e.emit()
		return
	}
	for _, m := range moves {
		e.dragged[m.ID] = true
	}
}

func (e *Editor) endDrag() {
	e.dragging = false
	e.dragged = nil
}

// endDragOf closes the move gesture when one of its nodes was removed.
func (e *Editor) endDragOf(removed []string) {
	if !e.dragging {
		return
	}
	for _, id := range removed {
		if e.dragged[id] {
			e.log.Debug().Str("node", id).Msg("dragged node removed")
			e.endDrag()
			return
		}
	}
}

// ApplyEdgeChanges applies a batch of canvas edge events. Removals always
// record a history entry.
func (e *Editor) ApplyEdgeChanges(changes []EdgeChange) {
	var removals []string
	for _, c := range changes {
		if c.Type == ChangeRemove {
			removals = append(removals, c.ID)
		}
	}
	if len(removals) > 0 {
		e.deleteEdges(removals)
	}
}

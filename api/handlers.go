package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/connect"
	"github.com/meikuraledutech/flow/editor"
)

type handlers struct {
	hub *Hub
}

// State is the session snapshot returned by most routes.
type State struct {
	Graph   flow.Graph       `json:"graph"`
	CanUndo bool             `json:"canUndo"`
	CanRedo bool             `json:"canRedo"`
	Dirty   bool             `json:"dirty"`
	Pending *connect.Pending `json:"pending,omitempty"`
}

func stateOf(s *Session, e *editor.Editor) State {
	st := State{
		Graph:   e.Graph(),
		CanUndo: e.CanUndo(),
		CanRedo: e.CanRedo(),
		Dirty:   s.dirty,
	}
	if p, ok := e.PendingConnection(); ok {
		st.Pending = &p
	}
	return st
}

type result struct {
	code int
	body any
}

func ok(body any) (result, error)      { return result{fiber.StatusOK, body}, nil }
func created(body any) (result, error) { return result{fiber.StatusCreated, body}, nil }
func noContent() (result, error)       { return result{code: fiber.StatusNoContent}, nil }

// run opens the workflow session, calls fn while holding the session lock
// and writes fn's result.
func (h *handlers) run(c fiber.Ctx, fn func(*Session, *editor.Editor) (result, error)) error {
	s, err := h.hub.Open(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var res result
	if err := s.Do(func(e *editor.Editor) error {
		var err error
		res, err = fn(s, e)
		return err
	}); err != nil {
		return err
	}

	if res.body == nil {
		return c.SendStatus(res.code)
	}
	return c.Status(res.code).JSON(res.body)
}

func bind(c fiber.Ctx, v any) error {
	if err := c.Bind().JSON(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	return nil
}

// ── Workflow ──────────────────────────────────────────────────────────

func (h *handlers) getWorkflow(c fiber.Ctx) error {
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		return ok(stateOf(s, e))
	})
}

func (h *handlers) loadWorkflow(c fiber.Ctx) error {
	var g flow.Graph
	if err := bind(c, &g); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		e.Load(g)
		s.dirty = true
		return ok(stateOf(s, e))
	})
}

// saveWorkflow answers 404 for a workflow that was never opened.
func (h *handlers) saveWorkflow(c fiber.Ctx) error {
	if err := h.hub.Save(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteWorkflow(c fiber.Ctx) error {
	if err := h.hub.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) view(c fiber.Ctx) error {
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		return ok(e.View())
	})
}

// ── History / layout ──────────────────────────────────────────────────

func (h *handlers) undo(c fiber.Ctx) error {
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		e.Undo()
		return ok(stateOf(s, e))
	})
}

func (h *handlers) redo(c fiber.Ctx) error {
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		e.Redo()
		return ok(stateOf(s, e))
	})
}

func (h *handlers) arrange(c fiber.Ctx) error {
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		e.AutoArrange()
		return ok(stateOf(s, e))
	})
}

func (h *handlers) dispatch(c fiber.Ctx) error {
	var a editor.Action
	if err := bind(c, &a); err != nil {
		return err
	}
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		handled := e.Dispatch(a)
		return ok(fiber.Map{"handled": handled, "state": stateOf(s, e)})
	})
}

type shortcutRequest struct {
	Shortcut  editor.Shortcut  `json:"shortcut"`
	Selection editor.Selection `json:"selection"`
}

func (h *handlers) shortcut(c fiber.Ctx) error {
	var req shortcutRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		handled := e.HandleShortcut(req.Shortcut, req.Selection)
		return ok(fiber.Map{"handled": handled, "state": stateOf(s, e)})
	})
}

// ── Nodes ─────────────────────────────────────────────────────────────

func (h *handlers) addNode(c fiber.Ctx) error {
	var n flow.Node
	if err := bind(c, &n); err != nil {
		return err
	}
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		added, err := e.AddNode(n)
		if err != nil {
			return result{}, err
		}
		return created(added)
	})
}

func (h *handlers) updateNode(c fiber.Ctx) error {
	var patch flow.NodePatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	nodeID := c.Params("nodeId")
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		n, err := e.UpdateNode(nodeID, patch)
		if err != nil {
			return result{}, err
		}
		return ok(n)
	})
}

// deleteNode is a no-op when the node does not exist.
func (h *handlers) deleteNode(c fiber.Ctx) error {
	nodeID := c.Params("nodeId")
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		e.DeleteNode(nodeID)
		return noContent()
	})
}

func (h *handlers) nodeChanges(c fiber.Ctx) error {
	var changes []editor.NodeChange
	if err := bind(c, &changes); err != nil {
		return err
	}
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		e.ApplyNodeChanges(changes)
		return ok(stateOf(s, e))
	})
}

// ── Edges ─────────────────────────────────────────────────────────────

func (h *handlers) connect(c fiber.Ctx) error {
	var conn flow.Connection
	if err := bind(c, &conn); err != nil {
		return err
	}
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		edge, err := e.Connect(conn)
		if err != nil {
			return result{}, err
		}
		return created(edge)
	})
}

func (h *handlers) edgeChanges(c fiber.Ctx) error {
	var changes []editor.EdgeChange
	if err := bind(c, &changes); err != nil {
		return err
	}
	return h.run(c, func(s *Session, e *editor.Editor) (result, error) {
		e.ApplyEdgeChanges(changes)
		return ok(stateOf(s, e))
	})
}

// deleteEdge is a no-op when the edge does not exist.
func (h *handlers) deleteEdge(c fiber.Ctx) error {
	edgeID := c.Params("edgeId")
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		e.DeleteEdge(edgeID)
		return noContent()
	})
}

// ── Connections ───────────────────────────────────────────────────────

type startRequest struct {
	NodeID     string             `json:"nodeId"`
	Handle     string             `json:"handle,omitempty"`
	HandleType connect.HandleType `json:"handleType,omitempty"`
}

func (h *handlers) startConnection(c fiber.Ctx) error {
	var req startRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		if err := e.StartConnection(req.NodeID, req.Handle, req.HandleType); err != nil {
			return result{}, err
		}
		return noContent()
	})
}

// dropRequest ends a drag: on a node when NodeID is set, otherwise on the
// canvas at Position.
type dropRequest struct {
	NodeID   string        `json:"nodeId,omitempty"`
	Handle   string        `json:"handle,omitempty"`
	Position flow.Position `json:"position"`
}

func (h *handlers) dropConnection(c fiber.Ctx) error {
	var req dropRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		if req.NodeID != "" {
			edge, err := e.EndConnectionOnNode(req.NodeID, req.Handle)
			if err != nil {
				return result{}, err
			}
			return created(edge)
		}
		p, err := e.EndConnectionOnCanvas(req.Position)
		if err != nil {
			return result{}, err
		}
		return result{fiber.StatusAccepted, p}, nil
	})
}

func (h *handlers) abortConnection(c fiber.Ctx) error {
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		e.AbortConnection()
		return noContent()
	})
}

func (h *handlers) getPending(c fiber.Ctx) error {
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		p, found := e.PendingConnection()
		if !found {
			return result{}, connect.ErrNoPending
		}
		return ok(p)
	})
}

func (h *handlers) completePending(c fiber.Ctx) error {
	var req editor.Completion
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		node, edge, err := e.CompletePendingConnection(req)
		if err != nil {
			return result{}, err
		}
		return created(fiber.Map{"node": node, "edge": edge})
	})
}

func (h *handlers) cancelPending(c fiber.Ctx) error {
	return h.run(c, func(_ *Session, e *editor.Editor) (result, error) {
		e.CancelPendingConnection()
		return noContent()
	})
}

// Package api exposes editor sessions over HTTP so a browser canvas can
// drive them.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/connect"
	"github.com/meikuraledutech/flow/editor"
)

// New builds the fiber app serving the workflow editor routes.
func New(hub *Hub) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(hub.log)})
	h := &handlers{hub: hub}

	w := app.Group("/workflows/:id")

	// ── Workflow ──────────────────────────────────────────────────────
	w.Get("", h.getWorkflow)
	w.Put("", h.loadWorkflow)
	w.Delete("", h.deleteWorkflow)
	w.Post("/save", h.saveWorkflow)
	w.Get("/view", h.view)

	// ── History / layout ──────────────────────────────────────────────
	w.Post("/undo", h.undo)
	w.Post("/redo", h.redo)
	w.Post("/arrange", h.arrange)
	w.Post("/actions", h.dispatch)
	w.Post("/shortcuts", h.shortcut)

	// ── Nodes ─────────────────────────────────────────────────────────
	w.Post("/nodes", h.addNode)
	w.Post("/nodes/changes", h.nodeChanges)
	w.Patch("/nodes/:nodeId", h.updateNode)
	w.Delete("/nodes/:nodeId", h.deleteNode)

	// ── Edges ─────────────────────────────────────────────────────────
	w.Post("/edges", h.connect)
	w.Post("/edges/changes", h.edgeChanges)
	w.Delete("/edges/:edgeId", h.deleteEdge)

	// ── Connections ───────────────────────────────────────────────────
	w.Post("/connections/start", h.startConnection)
	w.Post("/connections/drop", h.dropConnection)
	w.Post("/connections/abort", h.abortConnection)
	w.Get("/pending", h.getPending)
	w.Post("/pending/complete", h.completePending)
	w.Delete("/pending", h.cancelPending)

	return app
}

// status maps engine errors to HTTP status codes.
func status(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, flow.ErrNotFound),
		errors.Is(err, flow.ErrWorkflowNotFound),
		errors.Is(err, connect.ErrNoPending):
		return fiber.StatusNotFound
	case errors.Is(err, flow.ErrDuplicateID),
		errors.Is(err, connect.ErrInvalidTransition),
		errors.Is(err, connect.ErrSuperseded):
		return fiber.StatusConflict
	case errors.Is(err, flow.ErrValidationRejected),
		errors.Is(err, flow.ErrDanglingEdge):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := status(err)
		body := fiber.Map{"error": err.Error()}

		var rejected *editor.RejectedError
		if errors.As(err, &rejected) {
			body["reason"] = rejected.Reason
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}
		return c.Status(code).JSON(body)
	}
}

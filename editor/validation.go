package editor

import (
	"fmt"

	"github.com/meikuraledutech/flow"
)

// EdgeValidation is the policy applied before any edge is created.
type EdgeValidation struct {
	AllowSelfConnections bool
	AllowDuplicateEdges  bool
	// Validate may veto a connection. It sees the graph the edge would be
	// added to.
	Validate func(g flow.Graph, c flow.Connection) bool
}

// RejectReason names the rule that refused a connection.
type RejectReason string

const (
	RejectSelfConnection RejectReason = "self_connection"
	RejectDuplicateEdge  RejectReason = "duplicate_edge"
	RejectCustomRule     RejectReason = "custom_rule"
)

func (v EdgeValidation) check(g flow.Graph, c flow.Connection) RejectReason {
	if !v.AllowSelfConnections && c.Source == c.Target {
		return RejectSelfConnection
	}
	if !v.AllowDuplicateEdges && g.HasEdge(c) {
		return RejectDuplicateEdge
	}
	if v.Validate != nil && !v.Validate(g.Clone(), c) {
		return RejectCustomRule
	}
	return ""
}

// RejectedError reports a connection refused by the validation policy.
// The graph is left as it was.
type RejectedError struct {
	Reason     RejectReason
	Connection flow.Connection
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("flow: connection %s -> %s rejected: %s", e.Connection.Source, e.Connection.Target, e.Reason)
}

func (e *RejectedError) Unwrap() error { return flow.ErrValidationRejected }

// Warning is a non-blocking notice for the user.
type Warning struct {
	Message    string          `json:"message"`
	Reason     RejectReason    `json:"reason,omitempty"`
	Connection flow.Connection `json:"connection"`
}

var reasonMessages = map[RejectReason]string{
	RejectSelfConnection: "A node cannot be connected to itself",
	RejectDuplicateEdge:  "These nodes are already connected",
	RejectCustomRule:     "This connection is not allowed",
}

func (e *Editor) reject(c flow.Connection, reason RejectReason) error {
	e.log.Warn().
		Str("source", c.Source).
		Str("target", c.Target).
		Str("reason", string(reason)).
		Msg("connection rejected")
	if e.callbacks.OnWarning != nil {
		e.callbacks.OnWarning(Warning{
			Message:    reasonMessages[reason],
			Reason:     reason,
			Connection: c,
		})
	}
	return &RejectedError{Reason: reason, Connection: c}
}

// CanConnect reports whether c would pass the validation policy against the
// current graph.
func (e *Editor) CanConnect(c flow.Connection) bool {
	return e.validation.check(e.history.Present(), c) == ""
}

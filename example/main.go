package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/connect"
	"github.com/meikuraledutech/flow/editor"
	"github.com/meikuraledutech/flow/memory"
)

func main() {
	ctx := context.Background()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var store flow.Store = memory.New()

	onboarding := flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: "trigger", Data: flow.NodeData{"label": "Form submitted"}},
			{ID: "role", Type: "branch", Data: flow.NodeData{"label": "Which role?"}},
			{ID: "dev", Type: "action", Data: flow.NodeData{"label": "Send developer guide"}},
		},
		Edges: []flow.Edge{
			{ID: "e1", Source: "start", Target: "role"},
			{ID: "e2", Source: "role", Target: "dev", SourceHandle: "developer"},
		},
	}

	e := editor.New(onboarding,
		editor.WithLogger(log),
		editor.WithCallbacks(editor.Callbacks{
			OnChange: func(g flow.Graph) {
				fmt.Printf("changed: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
			},
			OnWarning: func(w editor.Warning) {
				fmt.Printf("warning: %s\n", w.Message)
			},
			// Leave dropped connections pending so the walkthrough resolves them below.
			OnConnectionDropped: func(p connect.Pending) {
				fmt.Printf("dropped from %s, waiting for a node type\n", p.SourceNodeID)
			},
		}),
	)

	// ── Auto-arrange ──────────────────────────────────────────────────
	e.AutoArrange()
	printJSON(e.Graph().Nodes)

	// ── Rejected connection ───────────────────────────────────────────
	if _, err := e.Connect(flow.Connection{Source: "role", Target: "role"}); err != nil {
		fmt.Println("connect:", err)
	}

	// ── Drag a connection onto the canvas and resolve it ──────────────
	if err := e.StartConnection("role", "designer", connect.SourceHandle); err != nil {
		log.Fatal().Err(err).Msg("start connection")
	}
	p, err := e.EndConnectionOnCanvas(flow.Position{X: 500, Y: 110})
	if err != nil {
		log.Fatal().Err(err).Msg("drop connection")
	}
	node, edge, err := e.CompletePendingConnection(editor.Completion{
		PendingID: p.ID,
		Type:      "action",
		Data:      flow.NodeData{"label": "Send design kit"},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("complete connection")
	}
	fmt.Printf("created %s via %s\n", node.ID, edge.ID)

	// ── Drag a node: one undo step ────────────────────────────────────
	for x := 10.0; x <= 50; x += 10 {
		e.ApplyNodeChanges([]editor.NodeChange{{
			Type: editor.ChangePosition, ID: "dev", Position: &flow.Position{X: x, Y: 0}, Dragging: true,
		}})
	}
	e.ApplyNodeChanges([]editor.NodeChange{{
		Type: editor.ChangePosition, ID: "dev", Position: &flow.Position{X: 60, Y: 0},
	}})
	e.Undo()
	dev, _ := e.Graph().Node("dev")
	fmt.Printf("dev after undo: %+v\n", dev.Position)

	// ── Persist ───────────────────────────────────────────────────────
	if err := store.SaveWorkflow(ctx, "onboarding", e.Graph()); err != nil {
		log.Fatal().Err(err).Msg("save")
	}
	saved, err := store.GetWorkflow(ctx, "onboarding")
	if err != nil {
		log.Fatal().Err(err).Msg("get")
	}
	fmt.Println("\nsaved workflow:")
	printJSON(saved)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}

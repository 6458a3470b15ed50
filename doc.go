/*
Package graphwalker generates test paths by walking a behavioral model until a stop condition is met.

A model is a finite state machine of vertices and edges. A walker keeps a real position on the model
and asks a chain of path generators which edge to take next. Each generator is bounded by a stop
condition that measures progress as a fulfilment between 0 and 1.

# Generators

  - a_star: searches for a complete path to a fulfilling state, then follows it edge by edge.
  - random: picks a random outgoing edge, honouring explicit edge weights.

Generators are chained into phases. When one phase is done, the next takes over from the current position.

# Usage

	model, err := dsl.New("login").
		Edge("e_open", "v_start", "v_form").
		Edge("e_submit", "v_form", "v_home", dsl.Weight(0.8)).
		Edge("e_cancel", "v_form", "v_start").
		Edge("e_logout", "v_home", "v_start").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	w, err := graphwalker.New(model, graphwalker.WithStrategy(strategy.Spec{
		Phases: []strategy.Phase{
			{Generator: "a_star", StopCondition: condition.Spec{Type: "reached_vertex", Params: map[string]any{"name": "v_home"}}},
			{Generator: "random", StopCondition: condition.Spec{Type: "edge_coverage"}},
		},
	}))
	if err != nil {
		log.Fatal(err)
	}

	err = w.Run(ctx, func(s domain.Step) error {
		fmt.Println(s.Edge, "->", s.Vertex)
		return nil
	})

Models can also be read from YAML/JSON files (pkg/adapters/file), from a Loam repository of
Markdown vertices (pkg/adapters/loam), or served to remote test drivers over HTTP and MCP.
*/
package graphwalker

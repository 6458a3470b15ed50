/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing models.

It allows developers to define vertices and edges using a fluent builder instead of relying on
external YAML or JSON files. This is particularly useful for unit testing and for generating
models from code.

Example usage:

	model, err := dsl.New("login").
		Vertex("v_start", "Start").
		Vertex("v_form", "Login/empty").
		Edge("e_open", "v_start", "v_form", dsl.Label("Open")).
		Edge("e_submit", "v_form", "v_start", dsl.Weight(0.7)).
		Edge("e_cancel", "v_form", "v_start").
		Build()
	if err != nil {
		// ...
	}

	// The resulting model can be walked with graphwalker.New(model, ...).
*/
package dsl

// Package pkg provides the core libraries for forcegraph movie-graph
// visualization.
//
// # Overview
//
// forcegraph draws a dataset of movies, people and tags as a force-directed
// node-link diagram. Nodes repel each other, links pull their endpoints
// together and a centering force keeps the graph in view while the
// simulation cools. The same code drives the interactive terminal view and
// headless export.
//
// # Architecture
//
// The typical data flow:
//
//	Dataset file (JSON / YAML)
//	         ↓
//	    [graph] package (decode, validate, filter, bind links to nodes)
//	         ↓
//	    [simulation] package (forces, alpha cooling, Barnes–Hut charge)
//	         ↓
//	    [scene] package (circles, lines, labels, legend)
//	         ↓
//	    [render] package (SVG, JSON, DOT, PNG, PDF, terminal raster)
//
// [visualization] ties these together behind Init, Render, Clear and
// UpdateDimensions, with [interaction] handling drag, pan and zoom and
// [eventloop] supplying the frame clock.
//
// # Quick Start
//
// Render a dataset file headlessly:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "movies.json",
//	    Formats: []render.Format{render.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("movies.svg", res.Artifacts[render.FormatSVG], 0o644)
//
// Drive a controller yourself:
//
//	host := visualization.NewHeadless()
//	host.Add("#graph", 960, 600)
//	loop := eventloop.New()
//	ctrl := visualization.New(host, loop)
//	_ = ctrl.Init("#graph")
//	_ = ctrl.Render(ds, scene.Options{ShowLabels: true, NodeSize: scene.SizeMedium})
//	loop.Drain(600)
//
// # Main Packages
//
// [graph] - Dataset wire format, categories, the year filter and link
// binding. Links with unknown endpoints are dropped and reported.
//
// [simulation] - Velocity Verlet integrator with link, many-body and center
// forces. Seeded jiggle keeps layouts reproducible.
//
// [scene] - Visual mapping: radius and colour per category, stroke per
// relation, label placement and the fixed legend.
//
// [render] - Encoders for the settled scene and the terminal rasterizer.
//
// [visualization] - Controller lifecycle and pointer input over an abstract
// container.
//
// [pipeline] - Load → filter → settle → export, shared by the CLI and tests.
//
// [cache] - Settled layouts and artifacts keyed by dataset hash.
//
// [settings] - The persisted query and visual options.
//
// [observability] and [metrics] - Hook interfaces and their Prometheus
// implementation.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/simulation/...         # Specific package
//	go test -run Example ./pkg/...       # Examples only
package pkg

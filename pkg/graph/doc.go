// Package graph provides the dataset wire format for forcegraph.
//
// A dataset is a node-link document describing movies, the people who rated
// them and the tags or ratings connecting the two:
//
//	{
//	  "nodes": [
//	    {"id": "m1", "labels": ["Movie"], "properties": {"title": "Heat", "year": 1995}},
//	    {"id": "Tom_Hanks", "labels": ["Person"]}
//	  ],
//	  "links": [{"source": "Tom_Hanks", "target": "m1", "type": "Rating"}]
//	}
//
// # Core Types
//
//   - [Dataset], [Node], [Link]: the document as received
//   - [Category], [Relation]: closed enums derived from labels and link types
//   - [Bound]: a validated dataset whose links are resolved to node indices
//   - [Layout]: the serialized form of a settled diagram
//
// # Binding
//
// [Bind] resolves each link's endpoint ids to node positions. Links whose
// endpoints are unknown are dropped and reported in [Bound.Dropped] instead of
// failing the whole dataset. Duplicate node ids are rejected.
//
// # Filtering
//
// [Filter] narrows a dataset the way the settings panel does: keep links
// touching a movie whose year satisfies an [Operator] comparison, up to a
// limit.
//
// # Files
//
// Datasets are read from JSON or YAML, chosen by file extension:
//
//	ds, _ := graph.ReadDatasetFile("movies.json")
//	ds, _ := graph.ReadDatasetFile("movies.yaml")
//	graph.WriteDatasetFile(ds, "filtered.json")
package graph

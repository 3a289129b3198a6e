// Package parser provides the OpenAPI 3.x document model, YAML/JSON loading,
// and component reference resolution for castr.
//
// The model covers OAS 3.0.x and 3.1.x documents. Sections whose declaration
// order is semantically visible downstream (component schemas and object
// properties) decode into insertion-ordered maps so that order survives the
// parse → IR → regenerate round trip.
//
// # Loading
//
// Load a document using functional options:
//
//	result, err := parser.LoadWithOptions(
//		parser.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("OpenAPI %s: %s\n", result.Version, result.Document.Info.Title)
//
// The loader expects a bundled document: internal $refs resolve within the
// same components section, and external refs must already have been inlined
// into the namespaced x-ext components area by an upstream bundler.
//
// # Reference Resolution
//
// Resolve validates and chases a single $ref against the document:
//
//	schema, err := parser.ResolveSchemaRef(doc, "#/components/schemas/Pet")
//	if errors.Is(err, castrerrors.ErrNestedRef) {
//		// The target is itself a bare $ref; the document must be re-bundled.
//	}
//
// Nested references are never silently chased and unresolved references are
// never silently dropped: both invalidate the dependency-graph and ordering
// guarantees the rest of the pipeline relies on, so resolution fails fast.
package parser

// Package ir defines the canonical intermediate representation of an OpenAPI
// document and the builder that produces it.
//
// The IR (CastrDocument) is the single source of truth for all code
// generation: once built, downstream consumers never re-read the raw OpenAPI
// document. Conversion is lossless: $ref nodes are preserved verbatim as
// reference leaves, property order survives, and every schema carries a
// metadata node recording required-ness, nullability, dependency info, and
// circular-reference participation.
//
// Build runs two passes. Pass 1 converts every named component schema and
// extracts operations from paths. Pass 2 runs circular-reference detection
// over the full component set and attaches the document-level dependency
// graph keyed by schema name.
package ir

// Package valid is the runtime validation DSL targeted by generated code.
//
// Schemas are built from constructors (String, Object, Array, ...) refined by
// chain methods (Min, Pattern, Optional, ...), mirroring the declarations the
// writer emits:
//
//	var User = valid.Object(
//	    valid.Field("id", valid.Integer()),
//	    valid.Field("name", valid.String().Min(1)),
//	    valid.Field("tag", valid.String().Optional()),
//	)
//
// Recursive schemas reference each other through a name registry: generated
// files register every top-level schema in an init function, and
// valid.Ref("Name") defers the lookup to validation time. Lazy wraps a
// closure for hand-written self-referential schemas.
//
// Validate interprets a schema against decoded JSON-style values (map, slice,
// string, float64, int, bool, nil).
package valid

/*
Package attrs implements the declarative field framework for entities.

An Attribute is a stateless descriptor for one typed field: it supplies the
default, validates and finalizes writes, observes changes, and converts
values to and from their stored form.  A Spec is a named table of attributes
and nested sub-specs; it is composed once per entity type at registration
time, with subclass declarations overriding same-named ancestor declarations.

Instantiating a Spec produces a Blob, the per-entity field tree.  Writes
through a Blob run the full validate → finalize → store → changed-hook →
reindex pipeline and mark the owning entity dirty.  Serialization flattens
the tree into a single map, using each sub-blob's field name as a dotted
path segment, and preserves unset attributes as the literal "unset" marker.

Declaring fields:

	spec := attrs.NewSpec()
	spec.RegisterAttr("name", attrs.StringAttr{MaxLen: 64})
	spec.RegisterAttr("level", attrs.IntAttr{Def: 1})

	stats := attrs.NewSpec()
	stats.RegisterAttr("health", attrs.IntAttr{Def: 100})
	spec.RegisterBlob("stats", stats)

Mutable attributes (ListAttr, MapAttr, SetAttr) ignore direct writes and are
mutated through bound proxy containers instead; proxy mutations mark the
owner dirty exactly like direct writes.
*/
package attrs

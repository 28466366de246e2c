/*
Package entity implements game objects with durable identity: typed,
field-bearing records that live in memory, persist through the datastore
layer, and resolve back to the same in-memory object for as long as they
are held live.

Types are declared against a Registry with a name, a UID code, a field
spec, and a backing store, and may extend a parent type whose fields and
store they inherit:

	reg := entity.NewRegistry()
	base, err := reg.RegisterType(entity.TypeConfig{
		Name:  "character",
		Code:  "C",
		Spec:  characterSpec,
		Store: store,
	})
	players, err := reg.RegisterType(entity.TypeConfig{
		Name:   "player",
		Code:   "C",
		Parent: base,
		Spec:   playerSpec,
	})

Entities mint UIDs of the form "C-6jQZ4zvH" from a process-wide monotonic
time code, so identity survives serialization and server restarts.  Every
field, flag, and tag write marks the entity dirty; Save serializes it onto
its type's store transaction and Registry.SaveDirty sweeps the whole live
population.

Each type keeps a bounded LRU cache per looked-up attribute (always one
over "uid").  Entities falling off the UID cache are saved if dirty and
released from the live tables, which bounds resident entities without ever
losing writes.  Find and Get unify the live tables with the backing store:
live objects match on current in-memory state, stored records reconstruct
through the registry's type discriminator, and a UID never yields two
objects at once.
*/
package entity

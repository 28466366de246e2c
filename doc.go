/*
Package mudstore is the persistence and object-identity core of a
multiplayer text-game server.

It is organized in three layers, each usable on its own:

  - attrs declares fields: stateless attribute descriptors with defaults,
    validation, and change triggers, composed into nestable field trees.
  - entity turns field trees into game objects with durable UIDs, dirty
    tracking, bounded identity caches, and cache/store-unified lookup.
  - datastore persists flat records through pluggable backends (in-memory,
    JSON files on disk, DynamoDB) behind an ordered transaction with
    equality and uniqueness indexes.

This package ties the store layer together: a Storage manager that
registers every DataStore in the server, opens and indexes them at
startup, and commits or aborts their pending transactions as a group at
the end of each game pulse.

	storage := mudstore.NewStorageManager()
	storage.RegisterDataStore("players", players)
	storage.RegisterDataStore("rooms", rooms)
	if err := storage.Initialize(); err != nil {
		...
	}
	// each pulse, after entity saves:
	storage.Commit()

The handoff package rides on the same store layer to pass server state
across live reloads, and settings/logging carry the ambient configuration
and structured logging the rest of the module uses.
*/
package mudstore

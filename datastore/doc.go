/*
Package datastore provides the transactional, indexable key-value store each
entity type persists through.

A DataStore layers two things over a minimal Backend (Has/Get/Put/Delete/
Keys): an ordered transaction of pending puts and deletes, and equality
secondary indexes that may be declared unique.  Reads overlay the pending
transaction atop the backend, so a key queued for deletion is already
invisible before commit.  Commit updates the indexes first (surfacing unique
constraint violations before any backend mutation for that key) and then
applies the queued operations in insertion order.

	store := datastore.New("players", memory.New())
	store.AddIndex("name", false)
	store.AddIndex("email", true)

	store.Put(uid, rec)
	keys, _ := store.Find(datastore.Match{"name": "Alice"})
	err := store.Commit()

Indexes are always rebuildable from the backend of record via BuildIndexes,
which is also the recovery path after a crash between an index update and
its backend write.

Backend implementations:
  - memory: mutex-guarded in-memory map, also used as the test double
  - jsonfile: one JSON document per key under a directory
  - ddb: AWS DynamoDB table
*/
package datastore

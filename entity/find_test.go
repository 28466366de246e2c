/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package entity

import (
	stderrors "errors"
	"testing"

	"github.com/graymoor/mudstore/attrs"
	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/errors"
)

func TestFindUnifiesCacheAndStore(t *testing.T) {
	w := newTestWorld(t)

	// One entity lives only in memory, one only in the store.
	live, _ := w.characters.New(nil)
	if err := live.SetField("name", "Alice"); err != nil {
		t.Fatalf("set name: %v", err)
	}

	stored, _ := w.characters.New(nil)
	if err := stored.SetField("name", "Alice"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	storedUID := stored.UID()
	if err := stored.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)
	stored.Release()

	found, err := w.characters.Find(datastore.Match{"name": "Alice"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches across cache and store, got %d", len(found))
	}
	uids := map[string]bool{}
	for _, e := range found {
		if uids[e.UID()] {
			t.Fatalf("duplicate match for %q", e.UID())
		}
		uids[e.UID()] = true
	}
	if !uids[live.UID()] || !uids[storedUID] {
		t.Errorf("expected both entities, got %v", uids)
	}
}

func TestFindLiveStateWins(t *testing.T) {
	w := newTestWorld(t)

	e, _ := w.characters.New(nil)
	if err := e.SetField("name", "Alice"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)

	// Renamed in memory but not yet saved: the stored record still says
	// "Alice", the live object says "Betty".
	if err := e.SetField("name", "Betty"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	found, err := w.characters.Find(datastore.Match{"name": "Betty"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 1 || found[0] != e {
		t.Fatalf("expected the live object under its current name, got %v", found)
	}

	found, err = w.characters.Find(datastore.Match{"name": "Alice"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("stale stored state must not shadow the live object, got %d matches",
			len(found))
	}
}

func TestFindRequiresALayer(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.characters.Find(datastore.Match{"name": "Alice"},
		WithoutCache(), WithoutStore())
	if !stderrors.Is(err, errors.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestFindWithoutStore(t *testing.T) {
	w := newTestWorld(t)
	stored, _ := w.characters.New(nil)
	stored.SetField("name", "Alice")
	if err := stored.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)
	stored.Release()

	found, err := w.characters.Find(datastore.Match{"name": "Alice"}, WithoutStore())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("cache-only find must not touch the store, got %d matches", len(found))
	}
}

func TestGetAmbiguous(t *testing.T) {
	w := newTestWorld(t)
	a, _ := w.characters.New(nil)
	a.SetField("name", "Alice")
	b, _ := w.characters.New(nil)
	b.SetField("name", "Alice")

	_, err := w.characters.Get(datastore.Match{"name": "Alice"})
	if !errors.IsAmbiguous(err) {
		t.Fatalf("expected ambiguous error, got %v", err)
	}

	got, err := w.characters.Get(datastore.Match{"name": "Nobody"})
	if err != nil {
		t.Fatalf("get with no match must not error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for no match, got %v", got)
	}
}

func TestGetByKeyReturnsLiveInstance(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	e.SetField("name", "Alice")
	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)

	got, err := w.characters.GetByKey(e.UID())
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if got != e {
		t.Fatal("a uid held live must resolve to the same object, not a reload")
	}
}

func TestFindSubtypes(t *testing.T) {
	w := newTestWorld(t)
	players, err := w.reg.RegisterType(TypeConfig{
		Name:   "player",
		Code:   "C",
		Parent: w.characters,
	})
	if err != nil {
		t.Fatalf("register player type: %v", err)
	}

	c, _ := w.characters.New(nil)
	c.SetField("name", "Alice")
	p, _ := players.New(nil)
	p.SetField("name", "Alice")

	found, err := w.characters.Find(datastore.Match{"name": "Alice"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected parent and subtype matches, got %d", len(found))
	}

	found, err = w.characters.Find(datastore.Match{"name": "Alice"}, WithoutSubtypes())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 1 || found[0] != c {
		t.Fatalf("subtype-free find must only see the parent type, got %v", found)
	}
}

func TestUniqueNameEnforcedAtCommit(t *testing.T) {
	// The usual player-name setup: a dedicated store with a unique index
	// over the serialized "name" field.
	spec := attrs.NewSpec()
	if err := spec.RegisterAttr("name", attrs.StringAttr{}); err != nil {
		t.Fatalf("register name: %v", err)
	}
	w := newTestWorld(t)
	unique := datastore.New("players", w.backend)
	unique.AddIndex("name", true)
	if err := unique.BuildIndexes(); err != nil {
		t.Fatalf("build indexes: %v", err)
	}
	players, err := w.reg.RegisterType(TypeConfig{
		Name:  "uniquePlayer",
		Code:  "P",
		Spec:  spec,
		Store: unique,
	})
	if err != nil {
		t.Fatalf("register type: %v", err)
	}

	alice, _ := players.New(nil)
	if err := alice.SetField("name", "Alice"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := alice.Save(); err != nil {
		t.Fatalf("save alice: %v", err)
	}
	if err := unique.Commit(); err != nil {
		t.Fatalf("commit alice: %v", err)
	}

	// A second record claiming the taken name must fail at commit, and
	// the first claimant keeps the name.
	imposter, _ := players.New(nil)
	if err := imposter.SetField("name", "Alice"); err != nil {
		t.Fatalf("set imposter name: %v", err)
	}
	if err := imposter.Save(); err != nil {
		t.Fatalf("save imposter: %v", err)
	}
	if err := unique.Commit(); !errors.IsConstraint(err) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

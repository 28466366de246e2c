/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package entity

import (
	"strings"
	"testing"

	"github.com/graymoor/mudstore/attrs"
	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/datastore/memory"
	"github.com/graymoor/mudstore/errors"
)

// testWorld bundles the moving parts most entity tests need: a registry, a
// character type over an in-memory store, and the backend behind it.
type testWorld struct {
	reg        *Registry
	characters *Type
	store      *datastore.DataStore
	backend    *memory.Store
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()

	spec := attrs.NewSpec()
	stats := attrs.NewSpec()
	if err := stats.RegisterAttr("health", attrs.IntAttr{Def: 10}); err != nil {
		t.Fatalf("register health: %v", err)
	}
	if err := spec.RegisterAttr("name", attrs.StringAttr{}); err != nil {
		t.Fatalf("register name: %v", err)
	}
	if err := spec.RegisterAttr("title", attrs.StringAttr{Def: "citizen"}); err != nil {
		t.Fatalf("register title: %v", err)
	}
	if err := spec.RegisterBlob("stats", stats); err != nil {
		t.Fatalf("register stats: %v", err)
	}

	backend := memory.New()
	store := datastore.New("characters", backend)
	store.AddIndex("name", false)
	if err := store.BuildIndexes(); err != nil {
		t.Fatalf("build indexes: %v", err)
	}

	reg := NewRegistry()
	characters, err := reg.RegisterType(TypeConfig{
		Name:  "character",
		Code:  "C",
		Spec:  spec,
		Store: store,
	})
	if err != nil {
		t.Fatalf("register character type: %v", err)
	}
	return &testWorld{reg: reg, characters: characters, store: store, backend: backend}
}

func (w *testWorld) commit(t *testing.T) {
	t.Helper()
	if err := w.store.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestRegisterTypeDuplicate(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.reg.RegisterType(TypeConfig{Name: "character", Code: "C"})
	if !errors.IsAlreadyExists(err) {
		t.Fatalf("expected already-exists error, got %v", err)
	}
}

func TestNewEntityDefaults(t *testing.T) {
	w := newTestWorld(t)
	e, err := w.characters.New(nil)
	if err != nil {
		t.Fatalf("new entity: %v", err)
	}

	if !strings.HasPrefix(e.UID(), "C-") {
		t.Errorf("expected type-coded uid, got %q", e.UID())
	}
	if e.Field("title") != "citizen" {
		t.Errorf("expected default title, got %v", e.Field("title"))
	}
	if e.Field("version") != 1 {
		t.Errorf("expected version 1 on a root type, got %v", e.Field("version"))
	}
	if e.Field("stats.health") != 10 {
		t.Errorf("expected nested default, got %v", e.Field("stats.health"))
	}
	if e.IsDirty() {
		t.Error("fresh entity must not be dirty")
	}
	if !e.IsSavable() {
		t.Error("entity of a stored type must be savable")
	}
	if got, ok := w.reg.Live(e.UID()); !ok || got != e {
		t.Error("new entity must be registered in the live table")
	}
}

func TestEntitySetFieldMarksDirty(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)

	if err := e.SetField("name", "Alice"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if !e.IsDirty() {
		t.Error("field write must dirty the entity")
	}
	if err := e.SetField("stats.health", 42); err != nil {
		t.Fatalf("set nested field: %v", err)
	}
	if e.Field("stats.health") != 42 {
		t.Errorf("expected nested write to land, got %v", e.Field("stats.health"))
	}
	if err := e.SetField("stats.missing", 1); !errors.IsNotFound(err) {
		t.Errorf("expected not-found for unknown nested field, got %v", err)
	}
}

func TestEntitySaveAndCommit(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	if err := e.SetField("name", "Alice"); err != nil {
		t.Fatalf("set name: %v", err)
	}

	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if e.IsDirty() {
		t.Error("save must clear the dirty bit")
	}
	if w.store.PendingOps() != 1 {
		t.Fatalf("expected 1 pending op, got %d", w.store.PendingOps())
	}
	if w.backend.Count() != 0 {
		t.Error("save must not touch the backend before commit")
	}

	w.commit(t)

	rec, err := w.backend.Get(e.UID())
	if err != nil {
		t.Fatalf("backend get: %v", err)
	}
	if rec["name"] != "Alice" || rec["type"] != "character" || rec["uid"] != e.UID() {
		t.Errorf("unexpected stored record: %v", rec)
	}
	if _, flat := rec["stats.health"]; !flat {
		t.Errorf("expected flat nested key in stored record: %v", rec)
	}
}

func TestEntitySaveUnsavable(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	e.SetField("name", "Ghost")
	e.SetSavable(false)

	if err := e.Save(); err != nil {
		t.Fatalf("save of unsavable entity must be a no-op, got %v", err)
	}
	if w.store.PendingOps() != 0 {
		t.Error("unsavable entity must not queue a store operation")
	}
	if !e.IsDirty() {
		t.Error("skipped save must leave the dirty bit alone")
	}
}

func TestEntitySaveDropsOldKey(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	e.SetField("name", "Alice")
	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)

	// A caller that rekeyed the entity leaves the stale key in a tag; the
	// next save removes the old record.
	staleKey := e.UID()
	e.setUID(MakeUID("C"))
	e.Tags().Set("_old_key", staleKey)
	if err := e.Save(); err != nil {
		t.Fatalf("save after rekey: %v", err)
	}
	w.commit(t)

	if has, _ := w.backend.Has(staleKey); has {
		t.Error("stale record must be deleted on the next save")
	}
	if has, _ := w.backend.Has(e.UID()); !has {
		t.Error("record must exist under the new key")
	}
	if e.Tags().Has("_old_key") {
		t.Error("the old-key tag must be consumed by the save")
	}
}

func TestEntityRevert(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	e.SetField("name", "Alice")
	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)

	e.SetField("name", "Mallory")
	e.Flags().Add("shady")
	if err := e.Revert(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if e.Field("name") != "Alice" {
		t.Errorf("expected reverted name, got %v", e.Field("name"))
	}
	if e.Flags().Has("shady") {
		t.Error("revert must restore stored flags")
	}
	if e.IsDirty() {
		t.Error("revert must leave the entity clean")
	}
}

func TestEntityRevertUIDMismatch(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	e.SetField("name", "Alice")
	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)

	// Corrupt the stored record so it claims to be someone else.
	rec, _ := w.backend.Get(e.UID())
	rec["uid"] = "C-imposter"
	if err := w.backend.Put(e.UID(), rec); err != nil {
		t.Fatalf("backend put: %v", err)
	}

	if err := e.Revert(); !errors.IsUIDMismatch(err) {
		t.Fatalf("expected uid mismatch error, got %v", err)
	}
}

func TestEntityClone(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	e.SetField("name", "Alice")
	e.Flags().Add("veteran")

	clone, err := e.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if clone.UID() == e.UID() {
		t.Error("clone must mint its own uid")
	}
	if clone.Field("name") != "Alice" {
		t.Errorf("clone must copy field values, got %v", clone.Field("name"))
	}
	if !clone.Flags().Has("veteran") {
		t.Error("clone must copy flags")
	}
	if err := clone.SetField("name", "Alys"); err != nil {
		t.Fatalf("set clone name: %v", err)
	}
	if e.Field("name") != "Alice" {
		t.Error("writes to the clone must not touch the original")
	}
}

func TestEntityDelete(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	e.SetField("name", "Alice")
	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)
	uid := e.UID()

	if err := e.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	w.commit(t)

	if _, ok := w.reg.Live(uid); ok {
		t.Error("deleted entity must leave the live table")
	}
	if has, _ := w.backend.Has(uid); has {
		t.Error("deleted entity's record must leave the backend")
	}
	got, err := w.characters.GetByKey(uid)
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if got != nil {
		t.Errorf("deleted uid must resolve to nothing, got %v", got)
	}
}

func TestFlagsAndTagsPersist(t *testing.T) {
	w := newTestWorld(t)
	e, _ := w.characters.New(nil)
	e.SetField("name", "Alice")
	e.Flags().Add("immortal", "builder")
	e.Flags().Drop("builder")
	e.Tags().Set("last_login", "yesterday")
	uid := e.UID()

	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.commit(t)
	e.Release()
	if _, ok := w.reg.Live(uid); ok {
		t.Fatal("released entity must leave the live table")
	}

	loaded, err := w.characters.GetByKey(uid)
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if loaded == nil {
		t.Fatal("stored entity must reload")
	}
	if loaded == e {
		t.Fatal("reload after release must build a new object")
	}
	if !loaded.Flags().Has("immortal") || loaded.Flags().Has("builder") {
		t.Errorf("flags did not round-trip: %v", loaded.Flags().AsList())
	}
	if v, _ := loaded.Tags().Get("last_login"); v != "yesterday" {
		t.Errorf("tags did not round-trip: %v", v)
	}
	if loaded.IsDirty() {
		t.Error("reloaded entity must start clean")
	}
}

func TestReconstructSubtype(t *testing.T) {
	w := newTestWorld(t)
	playerSpec := attrs.NewSpec()
	if err := playerSpec.RegisterAttr("account", attrs.StringAttr{}); err != nil {
		t.Fatalf("register account: %v", err)
	}
	players, err := w.reg.RegisterType(TypeConfig{
		Name:   "player",
		Code:   "C",
		Parent: w.characters,
		Spec:   playerSpec,
	})
	if err != nil {
		t.Fatalf("register player type: %v", err)
	}
	if players.Store() != w.store {
		t.Fatal("subtype must inherit its parent's store")
	}

	p, _ := players.New(nil)
	p.SetField("name", "Alice")
	p.SetField("account", "alice@example.com")
	uid := p.UID()
	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	w.store.Commit()
	p.Release()

	// Loading through the parent type must come back as the subtype.
	loaded, err := w.characters.GetByKey(uid)
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if loaded == nil {
		t.Fatal("stored subtype entity must reload through the parent")
	}
	if loaded.Type() != players {
		t.Errorf("expected player type, got %q", loaded.Type().Name())
	}
	if loaded.Field("account") != "alice@example.com" {
		t.Errorf("subtype field did not round-trip: %v", loaded.Field("account"))
	}
	if loaded.Field("title") != "citizen" {
		t.Errorf("inherited default missing: %v", loaded.Field("title"))
	}
}

func TestAllActive(t *testing.T) {
	w := newTestWorld(t)
	a, _ := w.characters.New(nil)
	b, _ := w.characters.New(nil)
	_, _ = w.characters.New(nil)
	a.SetActive(true)
	b.SetActive(true)
	b.SetActive(false)

	active := w.characters.AllActive()
	if len(active) != 1 || active[0] != a {
		t.Fatalf("expected only the active entity, got %v", active)
	}
}

func TestSaveDirtySweep(t *testing.T) {
	w := newTestWorld(t)
	a, _ := w.characters.New(nil)
	b, _ := w.characters.New(nil)
	c, _ := w.characters.New(nil)
	a.SetField("name", "Alice")
	b.SetField("name", "Bob")
	c.SetSavable(false)
	c.SetField("name", "Ghost")

	saved, err := w.reg.SaveDirty()
	if err != nil {
		t.Fatalf("save dirty: %v", err)
	}
	if saved != 2 {
		t.Fatalf("expected 2 saves, got %d", saved)
	}
	if a.IsDirty() || b.IsDirty() {
		t.Error("swept entities must come out clean")
	}
	if !c.IsDirty() {
		t.Error("unsavable entity must be skipped by the sweep")
	}
	if w.store.PendingOps() != 2 {
		t.Errorf("expected 2 pending ops, got %d", w.store.PendingOps())
	}
}

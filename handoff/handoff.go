/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

// Package handoff passes server state across a live reload.  The outgoing
// process drops a state record into a well-known slot of a dedicated
// store; the incoming process picks it up and clears the slot.  Writes
// commit immediately since the processes never share a transaction.
package handoff

import (
	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/logging"
)

var log = logging.Get("handoff")

// stateKey is the slot the reload state record lives under.
const stateKey = "state"

// Mailbox is a single-slot drop box over a dedicated store.
type Mailbox struct {
	store *datastore.DataStore
}

// New returns a mailbox over the given store.  The store should not be
// shared with entity data.
func New(store *datastore.DataStore) *Mailbox {
	return &Mailbox{store: store}
}

// Has reports whether a state record is waiting.
func (m *Mailbox) Has() bool {
	return m.store.Has(stateKey)
}

// Put deposits a state record and commits it.
func (m *Mailbox) Put(state datastore.Record) error {
	m.store.Put(stateKey, state)
	if err := m.store.Commit(); err != nil {
		return err
	}
	log.Debugw("handoff state deposited", "store", m.store.Name())
	return nil
}

// Get returns the waiting state record without clearing it.
func (m *Mailbox) Get() (datastore.Record, error) {
	return m.store.Get(stateKey)
}

// Clear removes the waiting state record and commits the removal.
func (m *Mailbox) Clear() error {
	if err := m.store.Delete(stateKey); err != nil {
		return err
	}
	return m.store.Commit()
}

//go:build integration
// +build integration

/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

package ddb_test

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/datastore/ddb"
	"github.com/graymoor/mudstore/errors"
)

// Requires a real table; run with:
//
//	AWS_REGION=... AWS_ACCESS_KEY_ID=... AWS_SECRET_ACCESS_KEY=... \
//	MUD_DDB_TABLE=... go test -tags integration ./datastore/ddb
func newIntegrationStore(t *testing.T) *ddb.Store {
	t.Helper()
	region := os.Getenv("AWS_REGION")
	access := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	table := os.Getenv("MUD_DDB_TABLE")
	if region == "" || access == "" || secret == "" || table == "" {
		t.Skip("DynamoDB integration environment not configured")
	}
	store, err := ddb.NewWithCredentials(access, secret, region, table)
	if err != nil {
		t.Fatalf("failed to build DynamoDB store: %v", err)
	}
	return store
}

func TestDynamoDBRoundTrip(t *testing.T) {
	store := newIntegrationStore(t)
	key := fmt.Sprintf("itest-%d", time.Now().UnixNano())
	defer store.Delete(key)

	rec := datastore.Record{
		"type":         "character",
		"name":         "Integration Alice",
		"stats.health": 42,
	}
	if err := store.Put(key, rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	has, err := store.Has(key)
	if err != nil || !has {
		t.Fatalf("expected stored key, got has=%v err=%v", has, err)
	}

	got, err := store.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["name"] != "Integration Alice" {
		t.Errorf("unexpected record: %v", got)
	}
	if _, leaked := got["K"]; leaked {
		t.Error("partition key attribute must not leak into records")
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	found := false
	for _, k := range keys {
		if k == key {
			found = true
		}
	}
	if !found {
		t.Errorf("scan did not return %q", key)
	}

	if err := store.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(key); !errors.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}

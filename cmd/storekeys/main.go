/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

// Command storekeys inspects a JSON-file entity store on disk: it lists
// stored keys and optionally dumps the records behind them.  Useful for
// poking at a server's data directory while the server is down.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/graymoor/mudstore"
	"github.com/graymoor/mudstore/datastore"
	"github.com/graymoor/mudstore/datastore/jsonfile"
	"github.com/graymoor/mudstore/settings"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	configFlag  = flag.String("config", "", "Settings file to read the data directory from")
	storeFlag   = flag.String("store", "", "Store name (subdirectory of the data directory)")
	dumpFlag    = flag.Bool("dump", false, "Dump each record as JSON instead of listing keys")
)

func main() {
	flag.Parse()

	if *versionFlag {
		info := mudstore.GetVersionInfo()
		fmt.Printf("mudstore storekeys version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		os.Exit(0)
	}

	cfg, err := settings.Load(*configFlag)
	if err != nil {
		fail("failed to load settings: %v", err)
	}
	if *storeFlag == "" {
		fail("missing required -store flag")
	}

	backend, err := jsonfile.New(filepath.Join(cfg.DataDir, *storeFlag))
	if err != nil {
		fail("failed to open store directory: %v", err)
	}
	store := datastore.New(*storeFlag, backend)

	keys, err := store.Keys()
	if err != nil {
		fail("failed to list keys: %v", err)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !*dumpFlag {
			fmt.Println(key)
			continue
		}
		rec, err := store.Get(key)
		if err != nil {
			fail("failed to read %q: %v", key, err)
		}
		raw, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			fail("failed to render %q: %v", key, err)
		}
		fmt.Printf("%s:\n%s\n", key, raw)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

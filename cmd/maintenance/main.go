// Command maintenance wipes every chat table. It lives outside the
// service boundary on purpose: nothing in a normal request path can
// reach it, it has to be run by hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	BlugeFilepath  string `envconfig:"BLUGE_FILEPATH"`
}

func main() {
	confirmed := flag.Bool("yes", false, "actually wipe the store, without this flag nothing happens")
	flag.Parse()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if !*confirmed {
		fmt.Println("Refusing to wipe without -yes")
		os.Exit(1)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Children first, then their parents, so an interrupted wipe never
	// leaves a message whose room is already gone.
	prefixes := [][]byte{
		[]byte("msg:"),
		[]byte("member:"),
		[]byte("room:"),
		[]byte("user:"),
		[]byte("idx:"),
	}
	for _, prefix := range prefixes {
		if err := db.DropPrefix(prefix); err != nil {
			log.Fatalf("Failed to drop %q: %v", prefix, err)
		}
		fmt.Printf("Dropped %s*\n", prefix)
	}

	if config.BlugeFilepath != "" {
		if err := os.RemoveAll(config.BlugeFilepath); err != nil {
			log.Fatalf("Failed to remove search index: %v", err)
		}
		fmt.Println("Search index removed")
	}

	fmt.Println("Database cleared successfully")
}

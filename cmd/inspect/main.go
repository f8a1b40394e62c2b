// Command inspect dumps the chat tables from a read-only store handle,
// one table per run. Safe to point at a live chatd: the lock guard is
// bypassed and nothing is written.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

var tables = map[string][]string{
	"user:":   {"Key", "Name", "Email", "Online", "Last Seen"},
	"room:":   {"Key", "Name", "Kind", "Participants", "Last Message"},
	"msg:":    {"Key", "Sender", "Kind", "Content"},
	"member:": {"Key", "Role", "Joined", "Last Read"},
}

func main() {
	dbPath := flag.String("db", "", "Path to badger DB")
	prefix := flag.String("prefix", "room:", "Table prefix to scan (user:, room:, msg:, member:)")
	flag.Parse()

	headers, known := tables[*prefix]
	if !known {
		log.Fatalf("Unknown prefix %q", *prefix)
	}

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	color.Bold.Printf("== %s table ==\n", *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var fields map[string]any
				if err := cbor.Unmarshal(v, &fields); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", item.Key(), err)
					return nil
				}
				table.Append(row(*prefix, string(item.Key()), fields))
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	table.Render()
	color.Green.Printf("%d rows\n", count)
}

func row(prefix, key string, fields map[string]any) []string {
	// Keys are long; the first 24 characters are enough to tell rows apart.
	displayKey := key
	if len(displayKey) > 24 {
		displayKey = displayKey[:24] + "…"
	}
	switch prefix {
	case "user:":
		return []string{displayKey, str(fields["name"]), str(fields["email"]),
			fmt.Sprintf("%v", fields["online"]), stamp(fields["last_seen"])}
	case "room:":
		return []string{displayKey, str(fields["name"]), str(fields["kind"]),
			fmt.Sprintf("%v", fields["participants"]), str(fields["last_message"])}
	case "msg:":
		return []string{displayKey, str(fields["sender_id"]), str(fields["kind"]), str(fields["content"])}
	default:
		return []string{displayKey, str(fields["role"]), stamp(fields["joined_at"]), stamp(fields["last_read_at"])}
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func stamp(v any) string {
	nanos, ok := v.(uint64)
	if !ok || nanos == 0 {
		return "never"
	}
	return time.Unix(0, int64(nanos)).UTC().Format(time.RFC822)
}

// Command replay reapplies an action log against fresh stores and
// verifies that every recorded digest is reproduced.
package main

import (
	"flag"
	"fmt"
	"os"

	"framecraft.app/internal/docs"
	"framecraft.app/internal/persistence/actionlog"
)

func main() {
	var (
		logsDir = flag.String("logs", "data/actions", "action log directory")
		prefix  = flag.String("prefix", "actions", "log file prefix")
		docID   = flag.String("doc", "", "replay only this document id")
		from    = flag.Uint64("from", 0, "skip entries with seq below this")
		to      = flag.Uint64("to", 0, "stop after this seq (0: no limit)")
	)
	flag.Parse()

	files, err := actionlog.ListFiles(*logsDir, *prefix)
	if err != nil {
		fatalf("list logs: %v", err)
	}
	if len(files) == 0 {
		fatalf("no log files under %s", *logsDir)
	}

	reg := docs.NewRegistry(nil, nil)
	var checked, skipped int

	for _, path := range files {
		err := actionlog.ReadFile(path, func(e actionlog.Entry) error {
			if e.Seq < *from || (*to > 0 && e.Seq > *to) {
				skipped++
				return nil
			}
			if *docID != "" && e.DocID != *docID {
				skipped++
				return nil
			}
			d, err := reg.Open(e.DocID, e.Module)
			if err != nil {
				return fmt.Errorf("seq %d: open %s: %w", e.Seq, e.DocID, err)
			}
			rev, _, code, err := d.ApplyWire(e.Action)
			if err != nil {
				return fmt.Errorf("seq %d: apply %s: %s %w", e.Seq, e.Kind, code, err)
			}
			if rev != e.Rev {
				return fmt.Errorf("seq %d: rev mismatch: got %d want %d", e.Seq, rev, e.Rev)
			}
			if got := d.Digest(); got != e.Digest {
				return fmt.Errorf("seq %d: digest mismatch on doc %s after %s: got %s want %s",
					e.Seq, e.DocID, e.Kind, got, e.Digest)
			}
			checked++
			return nil
		})
		if err != nil {
			fatalf("%s: %v", path, err)
		}
	}

	fmt.Printf("replay ok: files=%d checked=%d skipped=%d\n", len(files), checked, skipped)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "replay: "+format+"\n", args...)
	os.Exit(1)
}

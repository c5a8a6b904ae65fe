package metrics

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

type Snapshot struct {
	DurationMs  int64
	Total       int64
	Processed   int64
	OK          int64
	Mismatches  int64
	NotFound    int64
	ReadErrors  int64
	Unlisted    int64
	Warnings    int64
	BytesHashed int64
}

// Failures counts every outcome that fails a verification run.
func (s Snapshot) Failures() int64 {
	return s.Mismatches + s.NotFound + s.ReadErrors + s.Unlisted
}

func (s *Stats) Snapshot() Snapshot {
	dur := s.Duration()

	return Snapshot{
		DurationMs:  dur.Milliseconds(),
		Total:       atomic.LoadInt64(&s.Total),
		Processed:   atomic.LoadInt64(&s.Processed),
		OK:          atomic.LoadInt64(&s.OK),
		Mismatches:  atomic.LoadInt64(&s.Mismatches),
		NotFound:    atomic.LoadInt64(&s.NotFound),
		ReadErrors:  atomic.LoadInt64(&s.ReadErrors),
		Unlisted:    atomic.LoadInt64(&s.Unlisted),
		Warnings:    atomic.LoadInt64(&s.Warnings),
		BytesHashed: atomic.LoadInt64(&s.BytesHashed),
	}
}

func Print(w io.Writer, s *Stats) {
	snap := s.Snapshot()

	fmt.Fprintln(w, "--- stats ---")
	fmt.Fprintln(w, "duration_ms:", snap.DurationMs)
	fmt.Fprintln(w, "processed:", snap.Processed)
	fmt.Fprintln(w, "ok:", snap.OK)
	fmt.Fprintln(w, "failed:", snap.Mismatches)
	fmt.Fprintln(w, "not_found:", snap.NotFound)
	fmt.Fprintln(w, "read_errors:", snap.ReadErrors)
	fmt.Fprintln(w, "not_in_manifest:", snap.Unlisted)
	fmt.Fprintln(w, "invalid_lines:", snap.Warnings)
	fmt.Fprintln(w, "bytes_hashed:", humanize.Bytes(uint64(snap.BytesHashed)))

	if snap.DurationMs > 0 {
		secs := float64(snap.DurationMs) / 1000.0
		bps := float64(snap.BytesHashed) / secs
		fmt.Fprintf(w, "throughput: %s/s\n", humanize.Bytes(uint64(bps)))
	}
}

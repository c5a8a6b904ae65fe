package metrics

import (
	"sync/atomic"
	"time"
)

type Stats struct {
	Total      int64
	Processed  int64
	OK         int64
	Mismatches int64
	NotFound   int64
	ReadErrors int64
	Unlisted   int64
	Warnings   int64

	BytesHashed int64
	Started     time.Time
	Finished    time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Started.IsZero() {
		return 0
	}
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

// AddBytes is shaped to be passed straight to digest.File as onProgress.
func (s *Stats) AddBytes(n int64) { atomic.AddInt64(&s.BytesHashed, n) }

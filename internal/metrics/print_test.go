package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Failures(t *testing.T) {
	s := &Stats{OK: 4, Mismatches: 1, NotFound: 2, ReadErrors: 3, Unlisted: 4, Warnings: 9}
	assert.Equal(t, int64(10), s.Snapshot().Failures())
}

func TestDuration(t *testing.T) {
	var s Stats
	assert.Zero(t, s.Duration())

	s.Started = time.Now().Add(-2 * time.Second)
	s.Finished = s.Started.Add(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, s.Duration())
}

func TestPrint(t *testing.T) {
	s := &Stats{Processed: 2, OK: 1, Mismatches: 1, BytesHashed: 2_000_000}
	s.Started = time.Now().Add(-time.Second)
	s.Finished = s.Started.Add(time.Second)

	var out bytes.Buffer
	Print(&out, s)

	assert.Contains(t, out.String(), "processed: 2\n")
	assert.Contains(t, out.String(), "failed: 1\n")
	assert.Contains(t, out.String(), "bytes_hashed: 2.0 MB\n")
	assert.Contains(t, out.String(), "throughput: 2.0 MB/s\n")
}

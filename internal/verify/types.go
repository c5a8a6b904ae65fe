package verify

import (
	"errors"

	"github.com/sirupsen/logrus"

	"hashsum/internal/digest"
	"hashsum/internal/manifest"
	"hashsum/internal/metrics"
)

var (
	// ErrManifestUnreadable wraps failures to open or read the manifest.
	ErrManifestUnreadable = errors.New("failed to read checksum file")
	// ErrVerificationFailed is returned by Result.Err when any outcome
	// was not OK.
	ErrVerificationFailed = errors.New("checksum verification failed")
)

type Status int

const (
	StatusOK Status = iota
	StatusFailed
	StatusNotFound
	StatusReadError
	// StatusNotInManifest marks a requested file that no manifest line named.
	StatusNotInManifest
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusFailed:
		return "FAILED"
	case StatusNotFound:
		return "NOT FOUND"
	case StatusReadError:
		return "FAILED open or read"
	case StatusNotInManifest:
		return "NOT FOUND in checksum file"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result for one checked manifest entry, or for one
// requested file that had no entry.
type Outcome struct {
	// Label is the name reported to the user: the manifest's declared
	// filename, or the requested file's base name for StatusNotInManifest.
	Label string
	// Path is the file that was hashed. Empty for StatusNotInManifest.
	Path     string
	Line     int
	Status   Status
	Expected string
	Computed string
	Err      error
}

func (o Outcome) Ok() bool { return o.Status == StatusOK }

type Result struct {
	Outcomes []Outcome
	Failed   bool
	Warnings int
}

func (r *Result) Err() error {
	if r.Failed {
		return ErrVerificationFailed
	}
	return nil
}

type Request struct {
	Manifest  string
	Files     []string
	Algorithm digest.Algorithm
	Format    manifest.Format
}

type Options struct {
	// Workers bounds parallel hashing. 1 hashes one file at a time; <= 0
	// uses one worker per CPU.
	Workers int
	Stats   *metrics.Stats
	// OnBytes receives hashed byte counts, e.g. a progress bar.
	OnBytes func(n int64)
	Logger  logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

func (o Options) onBytes() func(int64) {
	switch {
	case o.Stats == nil:
		return o.OnBytes
	case o.OnBytes == nil:
		return o.Stats.AddBytes
	default:
		return func(n int64) {
			o.Stats.AddBytes(n)
			o.OnBytes(n)
		}
	}
}

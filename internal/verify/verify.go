package verify

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"hashsum/internal/digest"
	"hashsum/internal/manifest"
	"hashsum/internal/metrics"
	"hashsum/internal/pool"
)

type job struct {
	line  int
	entry manifest.Entry
	path  string
}

// Verify checks files against the manifest at req.Manifest.
//
// With no req.Files every entry is checked, resolved against the manifest's
// directory. Otherwise only entries whose final path component matches a
// requested file are checked, hashing the requested path, and requested
// files that no entry named are reported as StatusNotInManifest at the end.
//
// emit, if non-nil, sees each outcome as soon as it is known, in manifest
// order. An unsupported format or an unreadable manifest is returned as an
// error; per-file failures only set Result.Failed.
func Verify(ctx context.Context, req Request, opts Options, emit func(Outcome) error) (*Result, error) {
	if err := manifest.CheckFormat(req.Format); err != nil {
		return nil, err
	}

	f, err := os.Open(req.Manifest) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrManifestUnreadable, req.Manifest, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if opts.Stats == nil {
		opts.Stats = &metrics.Stats{}
	}
	stats := opts.Stats
	log := opts.logger().WithField("manifest", req.Manifest)
	onBytes := opts.onBytes()

	dir := filepath.Dir(req.Manifest)
	filtered := len(req.Files) > 0
	verified := make(map[string]bool, len(req.Files))

	var (
		scanErr  error
		warnings int
	)
	jobs := func(yield func(job) bool) {
		for l, err := range manifest.Parse(f) {
			if err != nil {
				scanErr = err
				return
			}
			if !l.Ok() {
				warnings++
				atomic.AddInt64(&stats.Warnings, 1)
				log.WithField("line", l.Number).Warnf("invalid line format: %s", l.Warning.Text)
				continue
			}

			j := job{line: l.Number, entry: l.Entry}
			if filtered {
				match, ok := findRequested(req.Files, l.Entry.Filename)
				if !ok {
					continue
				}
				verified[match] = true
				j.path = match
			} else {
				j.path = resolve(dir, l.Entry.Filename)
			}

			atomic.AddInt64(&stats.Total, 1)
			if !yield(j) {
				return
			}
		}
	}

	res := &Result{}
	record := func(o Outcome) error {
		atomic.AddInt64(&stats.Processed, 1)
		switch o.Status {
		case StatusOK:
			atomic.AddInt64(&stats.OK, 1)
		case StatusFailed:
			atomic.AddInt64(&stats.Mismatches, 1)
		case StatusNotFound:
			atomic.AddInt64(&stats.NotFound, 1)
		case StatusReadError:
			atomic.AddInt64(&stats.ReadErrors, 1)
		case StatusNotInManifest:
			atomic.AddInt64(&stats.Unlisted, 1)
		}
		if !o.Ok() {
			res.Failed = true
		}
		res.Outcomes = append(res.Outcomes, o)
		if emit != nil {
			return emit(o)
		}
		return nil
	}

	err = pool.Ordered(ctx, opts.Workers, iter.Seq[job](jobs),
		func(_ context.Context, j job) (Outcome, error) {
			return check(j, req.Algorithm, onBytes), nil
		},
		func(_ job, o Outcome) error {
			return record(o)
		},
	)
	res.Warnings = warnings
	if err != nil {
		return res, err
	}
	if scanErr != nil {
		return res, fmt.Errorf("%w %s: %w", ErrManifestUnreadable, req.Manifest, scanErr)
	}

	if filtered {
		for _, file := range req.Files {
			if verified[file] {
				continue
			}
			label := manifest.BaseName(file)
			if label == "" {
				label = file
			}
			if err := record(Outcome{Label: label, Status: StatusNotInManifest}); err != nil {
				return res, err
			}
		}
	}

	log.WithFields(logrus.Fields{
		"checked":  len(res.Outcomes),
		"warnings": res.Warnings,
		"failed":   res.Failed,
	}).Debug("verification finished")

	return res, nil
}

func check(j job, alg digest.Algorithm, onBytes func(int64)) Outcome {
	o := Outcome{
		Label:    j.entry.Filename,
		Path:     j.path,
		Line:     j.line,
		Expected: j.entry.Digest,
	}

	computed, err := digest.File(j.path, alg, onBytes)
	switch {
	case err != nil && digest.IsNotFound(err):
		o.Status = StatusNotFound
		o.Err = err
	case err != nil:
		o.Status = StatusReadError
		o.Err = err
	case strings.EqualFold(computed, j.entry.Digest):
		o.Status = StatusOK
		o.Computed = computed
	default:
		o.Status = StatusFailed
		o.Computed = computed
	}
	return o
}

// findRequested returns the first requested path whose final component
// matches the declared manifest filename.
func findRequested(files []string, declared string) (string, bool) {
	want := manifest.BaseName(declared)
	if want == "" {
		return "", false
	}
	for _, f := range files {
		if manifest.BaseName(f) == want {
			return f, true
		}
	}
	return "", false
}

func resolve(dir, declared string) string {
	p := filepath.FromSlash(declared)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

package digest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const chunkSize = 1 << 20 // 1 MiB

// ErrNotFound matches a *ReadError for a file that does not exist.
var ErrNotFound = fs.ErrNotExist

// ReadError reports a file that could not be opened or read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the file is physically absent, as
// opposed to any other open or read failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Compute streams r through the algorithm and returns the lowercase hex
// digest. onProgress, when non-nil, receives byte counts as they are hashed.
func Compute(r io.Reader, a Algorithm, onProgress func(n int64)) (string, error) {
	h, err := newHasher(a)
	if err != nil {
		return "", err
	}

	buf := make([]byte, chunkSize)
	var pending int64
	flush := func() {
		if pending > 0 && onProgress != nil {
			onProgress(pending)
			pending = 0
		}
	}

	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return "", werr
			}
			pending += int64(n)
			if pending >= chunkSize {
				flush()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}
	flush()

	return hex.EncodeToString(h.Sum(nil)), nil
}

// File hashes the file at path. Open and read failures come back as
// *ReadError; use IsNotFound to tell a missing file from other faults.
func File(path string, a Algorithm, onProgress func(n int64)) (sum string, retErr error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = &ReadError{Path: path, Err: cerr}
		}
	}()

	sum, err = Compute(f, a, onProgress)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return sum, nil
}

// Bytes hashes an in-memory buffer.
func Bytes(data []byte, a Algorithm) (string, error) {
	h, err := newHasher(a)
	if err != nil {
		return "", err
	}
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

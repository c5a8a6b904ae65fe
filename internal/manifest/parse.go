package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"path"
	"strings"
)

const maxLineSize = 1 << 20

// Format names a checksum line layout.
type Format string

const (
	// FormatGNU is "<hex>  <filename>", as written by sha256sum and friends.
	FormatGNU Format = "gnu"
	// FormatBSD is "ALG (filename) = <hex>". Recognized, not supported.
	FormatBSD Format = "bsd"
)

var ErrUnsupportedFormat = errors.New("unsupported checksum format")

// CheckFormat fails for any layout Parse cannot read. Call it before opening
// the manifest so the caller never sees a misparse.
func CheckFormat(f Format) error {
	switch f {
	case FormatGNU, "":
		return nil
	case FormatBSD:
		return fmt.Errorf("%w: BSD formatted checksum verification not yet implemented", ErrUnsupportedFormat)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// Parse lazily reads manifest lines from r. Blank lines and lines starting
// with '#' are skipped. Every other line yields either an Entry or a
// Warning. A read failure yields a non-nil error once and ends the sequence.
//
// The filename is taken literally; a leading '*' binary marker is kept.
func Parse(r io.Reader) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		n := 0
		for sc.Scan() {
			n++
			text := sc.Text()
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}

			l := Line{Number: n}
			digest, filename, ok := strings.Cut(text, Separator)
			if ok {
				l.Entry = Entry{Digest: digest, Filename: filename}
			} else {
				l.Warning = &Warning{Line: n, Text: text}
			}
			if !yield(l, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Line{}, fmt.Errorf("reading manifest line %d: %w", n+1, err))
		}
	}
}

// BaseName is the final path component of p with both '/' and '\' treated
// as separators, so manifests written on Windows match on any host.
func BaseName(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.TrimRight(p, "/") == "" {
		return ""
	}
	return path.Base(p)
}

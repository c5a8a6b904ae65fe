// Package report renders digests and verification outcomes for the CLI.
package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"hashsum/internal/digest"
	"hashsum/internal/manifest"
	"hashsum/internal/verify"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Text, "":
		return Text, nil
	case JSON:
		return JSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Writer prints one line per digest or outcome.
type Writer struct {
	out    io.Writer
	format Format
	quiet  bool
	log    logrus.FieldLogger
}

// New returns a Writer. quiet drops OK outcomes from text output.
func New(out io.Writer, format Format, quiet bool, log logrus.FieldLogger) *Writer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Writer{out: out, format: format, quiet: quiet, log: log}
}

type digestRecord struct {
	File      string `json:"file"`
	Digest    string `json:"digest"`
	Algorithm string `json:"algorithm"`
}

type outcomeRecord struct {
	File     string `json:"file"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
	Status   string `json:"status"`
	Expected string `json:"expected,omitempty"`
	Computed string `json:"computed,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

func (w *Writer) Digest(e manifest.Entry, alg digest.Algorithm) error {
	if w.format == JSON {
		return w.writeJSON(digestRecord{File: e.Filename, Digest: e.Digest, Algorithm: alg.String()})
	}
	_, err := fmt.Fprintln(w.out, e.String())
	return err
}

func (w *Writer) Outcome(o verify.Outcome) error {
	if o.Err != nil && o.Status == verify.StatusReadError {
		w.log.WithError(o.Err).WithField("file", o.Label).Error("failed open or read")
	}

	if w.format == JSON {
		rec := outcomeRecord{
			File:     o.Label,
			Path:     o.Path,
			Line:     o.Line,
			Status:   o.Status.String(),
			Expected: o.Expected,
			Computed: o.Computed,
		}
		if o.Err != nil {
			rec.Detail = o.Err.Error()
		}
		return w.writeJSON(rec)
	}

	if w.quiet && o.Ok() {
		return nil
	}
	_, err := fmt.Fprintln(w.out, TextLine(o))
	return err
}

// TextLine formats an outcome the way coreutils' --check does.
func TextLine(o verify.Outcome) string {
	if o.Status == verify.StatusOK {
		return o.Label + ":  OK"
	}
	return o.Label + ": " + o.Status.String()
}

func (w *Writer) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding report line: %w", err)
	}
	b = append(b, '\n')
	_, err = w.out.Write(b)
	return err
}

package manifest

import "fmt"

// Separator splits the digest from the filename on a manifest line.
const Separator = "  "

type Entry struct {
	Digest   string
	Filename string
}

// String renders the entry as a manifest line without the newline.
func (e Entry) String() string {
	return e.Digest + Separator + e.Filename
}

// Warning describes a line that is neither blank, a comment, nor a valid
// entry. It never stops parsing.
type Warning struct {
	Line int
	Text string
}

func (w *Warning) Error() string {
	return fmt.Sprintf("invalid line format at line %d: %s", w.Line, w.Text)
}

// Line is one non-skipped manifest line: either an Entry or a Warning.
type Line struct {
	Number  int
	Entry   Entry
	Warning *Warning
}

func (l Line) Ok() bool { return l.Warning == nil }

// Package checksum reads and writes checksum lines in the formats used by the
// coreutils *sum tools:
//
//	<digest>  <name>             text mode
//	<digest> *<name>             binary mode
//	<ALGO> (<name>) = <digest>   BSD tag style
package checksum

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Style selects the line layout used by Format.
type Style int

const (
	Text Style = iota
	Binary
	Tag
)

// ErrMalformed is returned for lines that match none of the layouts.
var ErrMalformed = errors.New("improperly formatted checksum line")

// Entry is one parsed checksum line.
type Entry struct {
	Digest    string // as written, not validated
	Name      string
	Binary    bool
	Algorithm string // set for tag lines only
}

// Format renders one checksum line without the trailing newline. algorithm is
// only used by the Tag style.
func Format(style Style, algorithm, digest, name string) string {
	switch style {
	case Binary:
		return digest + " *" + name
	case Tag:
		return fmt.Sprintf("%s (%s) = %s", algorithm, name, digest)
	default:
		return digest + "  " + name
	}
}

// ParseLine parses a single checksum line. Surrounding whitespace is ignored.
func ParseLine(line string) (Entry, error) {
	line = strings.TrimSpace(line)
	if e, ok := parseTag(line); ok {
		return e, nil
	}
	digest, rest, ok := strings.Cut(line, " ")
	if !ok || digest == "" {
		return Entry{}, ErrMalformed
	}
	e := Entry{Digest: digest}
	if strings.HasPrefix(rest, "*") {
		e.Binary = true
		e.Name = rest[1:]
	} else {
		e.Name = strings.TrimLeft(rest, " ")
	}
	if e.Name == "" {
		return Entry{}, ErrMalformed
	}
	return e, nil
}

func parseTag(line string) (Entry, bool) {
	open := strings.Index(line, " (")
	end := strings.LastIndex(line, ") = ")
	if open <= 0 || end <= open+2 {
		return Entry{}, false
	}
	algo := line[:open]
	if strings.ContainsRune(algo, ' ') {
		return Entry{}, false
	}
	digest := line[end+len(") = "):]
	if digest == "" || strings.ContainsRune(digest, ' ') {
		return Entry{}, false
	}
	return Entry{
		Algorithm: algo,
		Name:      line[open+2 : end],
		Digest:    digest,
	}, true
}

// Line is an Entry with its position in the source, or the error that made
// the line unusable.
type Line struct {
	Number int
	Entry  Entry
	Err    error
}

// Scanner iterates over the checksum lines of a reader, skipping blank lines
// and '#' comments.
type Scanner struct {
	s    *bufio.Scanner
	n    int
	line Line
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{s: bufio.NewScanner(r)}
}

// Scan advances to the next non-blank, non-comment line.
func (s *Scanner) Scan() bool {
	for s.s.Scan() {
		s.n++
		text := strings.TrimSpace(s.s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		e, err := ParseLine(text)
		s.line = Line{Number: s.n, Entry: e, Err: err}
		return true
	}
	return false
}

// Line returns the line read by the last Scan.
func (s *Scanner) Line() Line { return s.line }

// Err returns the first read error, if any.
func (s *Scanner) Err() error { return s.s.Err() }

// Package parser turns gitconfig-style text into an ordered list of events,
// one per key/value directive, with the enclosing section header applied.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

var bom = []byte("\xef\xbb\xbf")

// Event is a single directive read from a file.
type Event struct {
	Section       string
	Subsection    string
	HasSubsection bool
	Name          string
	Value         string
	// Implicit is set for the flag form ("name" without "="). Value is
	// empty in that case.
	Implicit bool
	Line     int
}

// Key returns the normalized dotted key of the event.
func (e Event) Key() string {
	if e.HasSubsection {
		return e.Section + "." + e.Subsection + "." + e.Name
	}
	return e.Section + "." + e.Name
}

// ParseError reports a syntax error in a config file.
type ParseError struct {
	File   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad config line %d in file %s: %s", e.Line, e.File, e.Reason)
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	return Parse(path, f)
}

// Parse reads all of r and parses it. The name is used in errors only.
func Parse(name string, r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	s := &scanner{
		name: name,
		data: bytes.TrimPrefix(data, bom),
		line: 1,
	}
	return s.scan()
}

type scanner struct {
	name string
	data []byte
	pos  int
	line int
	// eol is set once a newline has been consumed; line is bumped when
	// the next byte is read so that errors point at the line being read.
	eol bool

	section       string
	subsection    string
	hasSubsection bool
	inSection     bool
}

func (s *scanner) errorf(format string, args ...interface{}) error {
	return &ParseError{File: s.name, Line: s.line, Reason: fmt.Sprintf(format, args...)}
}

// peek returns the next byte without consuming it. CRLF reads as LF.
func (s *scanner) peek() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	c := s.data[s.pos]
	if c == '\r' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '\n' {
		return '\n', true
	}
	return c, true
}

func (s *scanner) next() (byte, bool) {
	c, ok := s.peek()
	if !ok {
		return 0, false
	}
	if s.eol {
		s.line++
		s.eol = false
	}
	if c == '\n' && s.data[s.pos] == '\r' {
		s.pos++
	}
	s.pos++
	if c == '\n' {
		s.eol = true
	}
	return c, true
}

// skipLine consumes everything up to, but not including, the next newline.
func (s *scanner) skipLine() {
	for {
		c, ok := s.peek()
		if !ok || c == '\n' {
			return
		}
		s.next()
	}
}

func (s *scanner) scan() ([]Event, error) {
	var events []Event
	for {
		c, ok := s.next()
		if !ok {
			return events, nil
		}
		switch {
		case c == '\n' || isSpace(c):
			continue
		case c == '#' || c == ';':
			s.skipLine()
			continue
		case c == '[':
			if err := s.parseHeader(); err != nil {
				return nil, err
			}
			continue
		case !isAlpha(c):
			return nil, s.errorf("invalid character %q at start of key", c)
		case !s.inSection:
			return nil, s.errorf("key outside of any section")
		}

		line := s.line
		ev, err := s.parseDirective(c)
		if err != nil {
			return nil, err
		}
		ev.Line = line
		events = append(events, ev)
	}
}

func (s *scanner) parseHeader() error {
	var b strings.Builder
	for {
		c, ok := s.next()
		if !ok {
			return s.errorf("unexpected end of file in section header")
		}
		if c == ']' {
			break
		}
		if isSpace(c) {
			return s.parseSubsection(b.String())
		}
		if !isKeyChar(c) && c != '.' {
			return s.errorf("invalid character %q in section name", c)
		}
		b.WriteByte(toLower(c))
	}
	if b.Len() == 0 {
		return s.errorf("empty section name")
	}

	s.section, s.subsection, s.hasSubsection, s.inSection = b.String(), "", false, true
	return nil
}

// parseSubsection handles the `[section "subsection"]` form. The section
// name has already been read.
func (s *scanner) parseSubsection(section string) error {
	if section == "" {
		return s.errorf("empty section name")
	}

	c, ok := s.next()
	for ok && isSpace(c) {
		c, ok = s.next()
	}
	if !ok || c != '"' {
		return s.errorf("expected quoted subsection name")
	}

	var b strings.Builder
	for {
		c, ok = s.next()
		if !ok || c == '\n' {
			return s.errorf("unterminated subsection name")
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			c, ok = s.next()
			if !ok || c == '\n' {
				return s.errorf("unterminated subsection name")
			}
		}
		b.WriteByte(c)
	}
	if c, ok = s.next(); !ok || c != ']' {
		return s.errorf("expected ']' after subsection name")
	}

	sub := b.String()
	if !utf8.ValidString(sub) {
		return s.errorf("subsection name is not valid UTF-8")
	}
	s.section, s.subsection, s.hasSubsection, s.inSection = section, sub, true, true
	return nil
}

func (s *scanner) parseDirective(first byte) (Event, error) {
	ev := Event{
		Section:       s.section,
		Subsection:    s.subsection,
		HasSubsection: s.hasSubsection,
	}

	var b strings.Builder
	b.WriteByte(toLower(first))
	for {
		c, ok := s.peek()
		if !ok || !isKeyChar(c) {
			break
		}
		s.next()
		b.WriteByte(toLower(c))
	}
	ev.Name = b.String()

	c, ok := s.peek()
	for ok && isSpace(c) {
		s.next()
		c, ok = s.peek()
	}
	switch {
	case !ok || c == '\n' || c == '#' || c == ';':
		ev.Implicit = true
		return ev, nil
	case c != '=':
		return ev, s.errorf("invalid character %q in key %q", c, ev.Name)
	}
	s.next()

	value, err := s.parseValue()
	if err != nil {
		return ev, err
	}
	if !utf8.ValidString(value) {
		return ev, s.errorf("value of %q is not valid UTF-8", ev.Name)
	}
	ev.Value = value
	return ev, nil
}

func (s *scanner) parseValue() (string, error) {
	var (
		value   []byte
		pending []byte
		quoted  bool
	)
	for {
		c, ok := s.peek()
		if !ok {
			if quoted {
				return "", s.errorf("unterminated quote at end of file")
			}
			break
		}
		if c == '\n' {
			if quoted {
				return "", s.errorf("unterminated quote")
			}
			break
		}
		s.next()

		if !quoted {
			if c == '#' || c == ';' {
				s.skipLine()
				break
			}
			if isSpace(c) {
				if len(value) > 0 {
					pending = append(pending, c)
				}
				continue
			}
		}
		value = append(value, pending...)
		pending = pending[:0]

		switch c {
		case '\\':
			c, ok = s.next()
			if !ok {
				return "", s.errorf("backslash at end of file")
			}
			switch c {
			case '\n':
				continue
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'n':
				c = '\n'
			case '\\', '"':
			default:
				return "", s.errorf("unknown escape sequence \\%c", c)
			}
			value = append(value, c)
		case '"':
			quoted = !quoted
		default:
			value = append(value, c)
		}
	}
	return string(value), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKeyChar(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9') || c == '-'
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

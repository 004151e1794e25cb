package tags

import (
	"bytes"
	"errors"
	"fmt"
	"html"
)

// DefaultMaxTagLen bounds how many bytes of an unterminated tag are buffered
// before the tag is dropped as malformed
const DefaultMaxTagLen = 1 << 20

// maxRecordedAnomalies caps the anomaly list; the counter keeps going
const maxRecordedAnomalies = 100

// ErrNoElements is returned by Close when the input held no element at all
var ErrNoElements = errors.New("no elements found")

var (
	commentStart = []byte("<!--")
	commentEnd   = []byte("-->")
	cdataStart   = []byte("<![CDATA[")
	cdataEnd     = []byte("]]>")
	piEnd        = []byte("?>")
)

// Anomaly is a recoverable irregularity met while walking
type Anomaly struct {
	Offset int64 // byte offset of the offending construct
	Reason string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("offset %d: %s", a.Offset, a.Reason)
}

// Walker turns a byte stream of tag-structured text into open/close events.
// It is fed incrementally through Write and keeps only the tail of the input
// whose meaning is not decided yet.
type Walker struct {
	handler   Handler
	MaxTagLen int

	buf    []byte
	offset int64 // input offset of buf[0]
	path   Path
	names  map[string]string

	// progress on the construct at buf[0] while more input is awaited
	searched  int // bytes of the construct already searched for its terminator
	declDepth int
	declQuote byte

	elements     int
	anomalies    []Anomaly
	anomalyCount int
	closed       bool
}

// NewWalker creates a walker delivering events to h
func NewWalker(h Handler) *Walker {
	return &Walker{
		handler:   h,
		MaxTagLen: DefaultMaxTagLen,
		names:     make(map[string]string),
	}
}

// Write feeds the next chunk of input. It never fails on malformed input;
// irregularities are recorded as anomalies.
func (w *Walker) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errors.New("write on closed walker")
	}
	w.buf = append(w.buf, p...)
	w.scan(false)
	return len(p), nil
}

// Close processes whatever is still buffered and ends the walk.
// It returns ErrNoElements when no element was seen.
func (w *Walker) Close() error {
	if w.closed {
		return nil
	}
	w.scan(true)
	w.closed = true
	if len(w.buf) > 0 {
		w.anomaly(w.offset, "truncated markup at end of input")
		w.offset += int64(len(w.buf))
		w.buf = nil
	}
	if len(w.path) > 0 {
		w.anomaly(w.offset, fmt.Sprintf("%d unclosed elements at end of input", len(w.path)))
	}
	if w.elements == 0 {
		return ErrNoElements
	}
	return nil
}

// Elements returns the number of elements opened so far
func (w *Walker) Elements() int {
	return w.elements
}

// Offset returns the number of input bytes fully consumed
func (w *Walker) Offset() int64 {
	return w.offset
}

// Buffered returns the size of the undecided tail
func (w *Walker) Buffered() int {
	return len(w.buf)
}

// Depth returns the number of currently open elements
func (w *Walker) Depth() int {
	return len(w.path)
}

// Anomalies returns the first recorded anomalies
func (w *Walker) Anomalies() []Anomaly {
	return w.anomalies
}

// AnomalyCount returns the total number of anomalies, recorded or not
func (w *Walker) AnomalyCount() int {
	return w.anomalyCount
}

func (w *Walker) anomaly(offset int64, reason string) {
	w.anomalyCount++
	if len(w.anomalies) < maxRecordedAnomalies {
		w.anomalies = append(w.anomalies, Anomaly{Offset: offset, Reason: reason})
	}
}

// scan consumes every complete construct in buf. With final set, constructs
// that cannot be completed any more are resolved instead of waited on.
func (w *Walker) scan(final bool) {
	buf := w.buf
	pos := 0
	for pos < len(buf) {
		lt := bytes.IndexByte(buf[pos:], '<')
		if lt < 0 {
			pos = len(buf)
			break
		}
		pos += lt
		next, ok := w.step(buf, pos, final)
		if !ok {
			break
		}
		w.searched, w.declDepth, w.declQuote = 0, 0, 0
		pos = next
	}

	// keep only the undecided tail
	n := copy(buf, buf[pos:])
	w.buf = buf[:n]
	w.offset += int64(pos)
}

// step handles the construct starting with '<' at pos. It returns the
// position to continue from, or false when more input is needed.
func (w *Walker) step(buf []byte, pos int, final bool) (int, bool) {
	rest := buf[pos:]
	if len(rest) < 2 {
		if final {
			return len(buf), true
		}
		return pos, false
	}

	switch rest[1] {
	case '?':
		return w.skipUntil(buf, pos, 2, piEnd, final)
	case '!':
		switch {
		case bytes.HasPrefix(rest, commentStart):
			return w.skipUntil(buf, pos, len(commentStart), commentEnd, final)
		case bytes.HasPrefix(rest, cdataStart):
			return w.skipUntil(buf, pos, len(cdataStart), cdataEnd, final)
		case !final && isPrefixOf(rest, commentStart, cdataStart):
			return pos, false
		default:
			return w.skipDeclaration(buf, pos, final)
		}
	}

	end, resume := findTagEnd(rest)
	switch {
	case resume > 0:
		w.anomaly(w.offset+int64(pos), "unterminated tag")
		return pos + resume, true
	case end < 0:
		if final || len(rest) > w.MaxTagLen {
			w.anomaly(w.offset+int64(pos), "unterminated tag")
			return pos + 1, true
		}
		return pos, false
	}

	w.tag(rest[1:end], w.offset+int64(pos))
	return pos + end + 1, true
}

// skipUntil skips a construct closed by terminator. A construct that stays
// unterminated past MaxTagLen, or at the end of input, is dropped and
// scanning resumes right after its opening '<'.
func (w *Walker) skipUntil(buf []byte, pos, from int, terminator []byte, final bool) (int, bool) {
	rest := buf[pos:]
	start := from
	if s := w.searched - len(terminator) + 1; s > start {
		start = s
	}
	if i := bytes.Index(rest[start:], terminator); i >= 0 {
		return pos + start + i + len(terminator), true
	}
	if final || len(rest) > w.MaxTagLen {
		w.anomaly(w.offset+int64(pos), "unterminated markup declaration")
		return pos + 1, true
	}
	w.searched = len(rest)
	return pos, false
}

// skipDeclaration skips <!DOCTYPE ...> and friends, honouring an internal
// subset in square brackets and quoted literals
func (w *Walker) skipDeclaration(buf []byte, pos int, final bool) (int, bool) {
	rest := buf[pos:]
	depth, quote := w.declDepth, w.declQuote
	i := 2
	if w.searched > i {
		i = w.searched
	}
	for ; i < len(rest); i++ {
		c := rest[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			if depth > 0 {
				depth--
			}
		case c == '>' && depth == 0:
			return pos + i + 1, true
		}
	}
	if final || len(rest) > w.MaxTagLen {
		w.anomaly(w.offset+int64(pos), "unterminated declaration")
		return pos + 1, true
	}
	w.searched, w.declDepth, w.declQuote = len(rest), depth, quote
	return pos, false
}

// findTagEnd finds the '>' closing the tag at the start of b, skipping quoted
// attribute values. When an unquoted '<' shows up first the tag is broken and
// resume is the index of that '<'.
func findTagEnd(b []byte) (end, resume int) {
	var quote byte
	for i := 1; i < len(b); i++ {
		c := b[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i, 0
		case c == '<':
			return -1, i
		}
	}
	return -1, 0
}

func isPrefixOf(b []byte, candidates ...[]byte) bool {
	for _, c := range candidates {
		if len(b) < len(c) && bytes.HasPrefix(c, b) {
			return true
		}
	}
	return false
}

// tag handles the bytes between '<' and '>'
func (w *Walker) tag(b []byte, offset int64) {
	if len(b) > 0 && b[0] == '/' {
		name := b[1:]
		n := nameLen(name)
		if n == 0 {
			w.anomaly(offset, "close tag without name")
			return
		}
		w.closeTag(name[:n], offset)
		return
	}

	selfClosing := false
	if t := bytes.TrimRight(b, " \t\r\n"); len(t) > 0 && t[len(t)-1] == '/' {
		selfClosing = true
		b = t[:len(t)-1]
	}

	n := nameLen(b)
	if n == 0 {
		w.anomaly(offset, "tag without name")
		return
	}

	el := &Element{
		Name:  w.intern(b[:n]),
		Attrs: w.parseAttrs(b[n:]),
	}
	w.path = append(w.path, el)
	w.elements++
	w.handler.OpenElement(w.path)

	if selfClosing {
		w.pop()
	}
}

func (w *Walker) closeTag(name []byte, offset int64) {
	for i := len(w.path) - 1; i >= 0; i-- {
		if w.path[i].Name != string(name) {
			continue
		}
		if skipped := len(w.path) - 1 - i; skipped > 0 {
			w.anomaly(offset, fmt.Sprintf("close tag </%s> also closes %d unclosed elements", name, skipped))
		}
		for len(w.path) > i {
			w.pop()
		}
		return
	}
	w.anomaly(offset, fmt.Sprintf("unexpected close tag </%s>", name))
}

func (w *Walker) pop() {
	w.handler.CloseElement(w.path)
	last := len(w.path) - 1
	w.path[last] = nil
	w.path = w.path[:last]
}

func (w *Walker) intern(b []byte) string {
	if s, ok := w.names[string(b)]; ok {
		return s
	}
	s := string(b)
	w.names[s] = s
	return s
}

// parseAttrs reads name="value" pairs. Anything that does not look like an
// attribute is skipped.
func (w *Walker) parseAttrs(b []byte) []Attr {
	var attrs []Attr
	i := 0
	for i < len(b) {
		for i < len(b) && isSpace(b[i]) {
			i++
		}
		n := nameLen(b[i:])
		if n == 0 {
			i++
			continue
		}
		name := b[i : i+n]
		i += n
		for i < len(b) && isSpace(b[i]) {
			i++
		}
		if i >= len(b) || b[i] != '=' {
			continue
		}
		i++
		for i < len(b) && isSpace(b[i]) {
			i++
		}
		if i >= len(b) {
			break
		}

		var value []byte
		if q := b[i]; q == '"' || q == '\'' {
			j := bytes.IndexByte(b[i+1:], q)
			if j < 0 {
				value = b[i+1:]
				i = len(b)
			} else {
				value = b[i+1 : i+1+j]
				i += j + 2
			}
		} else {
			j := i
			for j < len(b) && !isSpace(b[j]) {
				j++
			}
			value = b[i:j]
			i = j
		}
		attrs = append(attrs, Attr{Name: w.intern(name), Value: unescape(value)})
	}
	return attrs
}

func unescape(b []byte) string {
	if bytes.IndexByte(b, '&') < 0 {
		return string(b)
	}
	return html.UnescapeString(string(b))
}

func nameLen(b []byte) int {
	n := 0
	for n < len(b) && isNameByte(b[n]) {
		n++
	}
	return n
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '-' || c == ':' || c == '.' || c >= 0x80
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

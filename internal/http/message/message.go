package message

import (
	"bytes"
	"fmt"
	"regexp"

	"relay_pls/internal/http/header"
)

// DELIMITER is the blank line separating the header block from the body.
var DELIMITER = []byte{0x0D, 0x0A, 0x0D, 0x0A}

var headerLine = regexp.MustCompile(`^([A-Za-z0-9-]+):[ \t]*(.*)$`)

const DefaultMaxHeaderSize = 64 * 1024

var (
	ErrMalformedHeaderLine = fmt.Errorf("malformed header line")
	ErrOrphanContinuation  = fmt.Errorf("continuation line with no preceding header")
	ErrHeaderTooLarge      = fmt.Errorf("header block exceeds maximum size")
)

// Message accumulates an HTTP/1.x message from arbitrarily fragmented
// chunks. The header block is parsed exactly once, the first time the
// buffer contains the CRLFCRLF terminator; after that the buffer holds
// body bytes only and further feeds append to it without re-parsing.
type Message struct {
	buf           []byte
	headersRead   bool
	startLine     string
	headers       *header.Fields
	maxHeaderSize int

	// set by the Request/Response specialization, invoked once when the
	// header terminator is found.
	parseStartLine func(line string) error
}

func newMessage(maxHeaderSize int) Message {
	if maxHeaderSize <= 0 {
		maxHeaderSize = DefaultMaxHeaderSize
	}
	return Message{
		headers:       header.New(),
		maxHeaderSize: maxHeaderSize,
	}
}

// Feed appends a chunk to the message. It reports whether the header block
// is complete. Chunks fed after completion extend the body and always
// report true. Parse errors are fatal for the message.
func (m *Message) Feed(chunk []byte) (bool, error) {
	if m.headersRead {
		m.buf = append(m.buf, chunk...)
		return true, nil
	}

	m.buf = append(m.buf, chunk...)

	end := bytes.Index(m.buf, DELIMITER)
	if end == -1 {
		if len(m.buf) > m.maxHeaderSize {
			return false, ErrHeaderTooLarge
		}
		return false, nil
	}
	if end > m.maxHeaderSize {
		return false, ErrHeaderTooLarge
	}

	head := m.buf[:end]

	// Hand the residual bytes off into a fresh body buffer; the header
	// terminator is consumed and never reappears.
	rest := m.buf[end+len(DELIMITER):]
	body := make([]byte, len(rest))
	copy(body, rest)

	if err := m.parseHead(head); err != nil {
		return false, err
	}

	m.buf = body
	m.headersRead = true
	return true, nil
}

func (m *Message) parseHead(head []byte) error {
	lines := bytes.Split(head, []byte("\r\n"))

	m.startLine = string(lines[0])
	if m.parseStartLine != nil {
		if err := m.parseStartLine(m.startLine); err != nil {
			return err
		}
	}

	for _, raw := range lines[1:] {
		line := string(raw)

		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			last := m.headers.Last()
			if last == nil {
				return ErrOrphanContinuation
			}
			last.Value += trimWS(line)
			continue
		}

		match := headerLine.FindStringSubmatch(line)
		if match == nil {
			return fmt.Errorf("%w: %q", ErrMalformedHeaderLine, line)
		}
		m.headers.Add(match[1], trimWS(match[2]))
	}

	return nil
}

func trimWS(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// HeadersRead reports whether the one-shot header transition has fired.
func (m *Message) HeadersRead() bool {
	return m.headersRead
}

func (m *Message) Headers() *header.Fields {
	return m.headers
}

func (m *Message) StartLine() string {
	return m.startLine
}

// Body returns the body bytes received so far. Before the header
// transition it is empty.
func (m *Message) Body() []byte {
	if !m.headersRead {
		return nil
	}
	return m.buf
}

// Serialize emits the canonical wire form: start-line, header block,
// blank line, then any body bytes already buffered. This is the form
// forwarded after rewrite hooks have run.
func (m *Message) Serialize() []byte {
	headerBlock := m.headers.Serialize()

	buf := make([]byte, 0, len(m.startLine)+2+len(headerBlock)+2+len(m.buf))
	buf = append(buf, m.startLine...)
	buf = append(buf, '\r', '\n')
	buf = append(buf, headerBlock...)
	buf = append(buf, '\r', '\n')
	if m.headersRead {
		buf = append(buf, m.buf...)
	}
	return buf
}

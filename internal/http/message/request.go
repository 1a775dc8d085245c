package message

import (
	"fmt"
	"regexp"
	"strings"
)

var requestVersion = regexp.MustCompile(`^1\.\d$`)

var ErrMalformedRequestLine = fmt.Errorf("malformed request line")

// Request layers the request-line grammar on the incremental parser:
// METHOD SP URI SP PROTOCOL/VERSION, where the version must be 1.<digit>.
// The parser never rewrites the URI; only a rewrite hook may change it.
type Request struct {
	Message

	method   string
	uri      string
	protocol string
	version  string
}

func NewRequest() *Request {
	return NewRequestSize(0)
}

func NewRequestSize(maxHeaderSize int) *Request {
	req := &Request{Message: newMessage(maxHeaderSize)}
	req.parseStartLine = req.parseRequestLine
	return req
}

func (req *Request) parseRequestLine(line string) error {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	proto, ver, ok := strings.Cut(parts[2], "/")
	if !ok || proto == "" || !requestVersion.MatchString(ver) {
		return fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	req.method = parts[0]
	req.uri = parts[1]
	req.protocol = proto
	req.version = ver
	return nil
}

func (req *Request) Method() string   { return req.method }
func (req *Request) URI() string      { return req.uri }
func (req *Request) Protocol() string { return req.protocol }
func (req *Request) Version() string  { return req.version }

func (req *Request) SetMethod(method string) {
	req.method = method
	req.regenerateStartLine()
}

func (req *Request) SetURI(uri string) {
	req.uri = uri
	req.regenerateStartLine()
}

func (req *Request) SetProtocol(protocol string) {
	req.protocol = protocol
	req.regenerateStartLine()
}

func (req *Request) SetVersion(version string) {
	req.version = version
	req.regenerateStartLine()
}

// regenerateStartLine keeps the serialized start-line consistent with the
// parsed parts after any setter runs.
func (req *Request) regenerateStartLine() {
	req.startLine = req.method + " " + req.uri + " " + req.protocol + "/" + req.version
}

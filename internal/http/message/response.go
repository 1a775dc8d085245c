package message

import (
	"fmt"
	"strings"
)

var ErrMalformedStatusLine = fmt.Errorf("malformed status line")

// Response layers the status-line grammar on the incremental parser:
// PROTOCOL/VERSION SP CODE SP REASON. The reason phrase may contain
// spaces and may be empty.
type Response struct {
	Message

	protocol string
	version  string
	status   string
	reason   string
}

func NewResponse() *Response {
	return NewResponseSize(0)
}

func NewResponseSize(maxHeaderSize int) *Response {
	resp := &Response{Message: newMessage(maxHeaderSize)}
	resp.parseStartLine = resp.parseStatusLine
	return resp
}

func (resp *Response) parseStatusLine(line string) error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}

	proto, ver, ok := strings.Cut(parts[0], "/")
	if !ok || proto == "" || ver == "" {
		return fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}

	status := parts[1]
	if len(status) != 3 || !isDigits(status) {
		return fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}

	resp.protocol = proto
	resp.version = ver
	resp.status = status
	if len(parts) == 3 {
		resp.reason = parts[2]
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (resp *Response) Protocol() string { return resp.protocol }
func (resp *Response) Version() string  { return resp.version }
func (resp *Response) Status() string   { return resp.status }
func (resp *Response) Reason() string   { return resp.reason }

func (resp *Response) SetProtocol(protocol string) {
	resp.protocol = protocol
	resp.regenerateStartLine()
}

func (resp *Response) SetVersion(version string) {
	resp.version = version
	resp.regenerateStartLine()
}

func (resp *Response) SetStatus(status string) {
	resp.status = status
	resp.regenerateStartLine()
}

func (resp *Response) SetReason(reason string) {
	resp.reason = reason
	resp.regenerateStartLine()
}

func (resp *Response) regenerateStartLine() {
	resp.startLine = resp.protocol + "/" + resp.version + " " + resp.status + " " + resp.reason
}

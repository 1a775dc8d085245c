package relay

import (
	"net"

	"relay_pls/internal/http/message"
)

// Rewriter is the strategy injected into a relay. Each hook runs exactly
// once per exchange, before any bytes reflecting its effect are forwarded.
// Custom strategies compose the base behavior by calling it explicitly.
type Rewriter interface {
	RewriteRequest(req *message.Request) error
	RewriteResponse(resp *message.Response) error
}

// HostRewriter is the base strategy: it points Host at the relay target
// and forces Connection: close on both sides, since the engine supports a
// single exchange per connection.
type HostRewriter struct {
	host string
}

func NewHostRewriter(host string) *HostRewriter {
	return &HostRewriter{host: host}
}

func (hr *HostRewriter) RewriteRequest(req *message.Request) error {
	req.Headers().Replace("Host", hr.host)
	req.Headers().Replace("Connection", "close")
	return nil
}

func (hr *HostRewriter) RewriteResponse(resp *message.Response) error {
	resp.Headers().Replace("Connection", "close")
	return nil
}

// ForwardedRewriter decorates another strategy and records the client
// address in X-Forwarded-For before the request leaves for the target.
type ForwardedRewriter struct {
	next Rewriter
	addr net.Addr
}

func NewForwardedRewriter(next Rewriter, addr net.Addr) *ForwardedRewriter {
	return &ForwardedRewriter{next: next, addr: addr}
}

func (fr *ForwardedRewriter) RewriteRequest(req *message.Request) error {
	if err := fr.next.RewriteRequest(req); err != nil {
		return err
	}
	host, _, err := net.SplitHostPort(fr.addr.String())
	if err != nil {
		return err
	}
	req.Headers().Replace("X-Forwarded-For", host)
	return nil
}

func (fr *ForwardedRewriter) RewriteResponse(resp *message.Response) error {
	return fr.next.RewriteResponse(resp)
}

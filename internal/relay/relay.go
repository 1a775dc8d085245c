package relay

import (
	"errors"
	"io"
	"net"
	"sync/atomic"

	"relay_pls/internal/http/message"
)

const defaultBufferSize = 32 * 1024

// Relay drives one request/response exchange between a client connection
// and a target connection. The already-parsed request is rewritten and
// sent first; after that both sockets are pumped concurrently, with
// target bytes held inside a response parser until its headers complete
// and the response rewrite has been applied. Everything after the header
// phase passes through untouched in both directions.
type Relay interface {
	Run(req *message.Request) error
	BytesToTarget() int64
	BytesToClient() int64
}

type source int

const (
	fromClient source = iota
	fromTarget
)

// event is one completed read from either socket. Both pumps send into a
// single unbuffered channel, so the engine consumes events in arrival
// order (first-ready-wins, no priority) and each side holds at most one
// chunk in flight.
type event struct {
	src  source
	data []byte
	err  error
}

type relay struct {
	client net.Conn
	target net.Conn

	rewriter      Rewriter
	bufferSize    int
	maxHeaderSize int

	bytesToTarget atomic.Int64
	bytesToClient atomic.Int64
}

func New(client, target net.Conn, rewriter Rewriter, bufferSize, maxHeaderSize int) Relay {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &relay{
		client:        client,
		target:        target,
		rewriter:      rewriter,
		bufferSize:    bufferSize,
		maxHeaderSize: maxHeaderSize,
	}
}

func (r *relay) BytesToTarget() int64 {
	return r.bytesToTarget.Load()
}

func (r *relay) BytesToClient() int64 {
	return r.bytesToClient.Load()
}

// Run relays the exchange until either side closes or errors. The target
// connection is closed on every exit path; closing the client connection
// is the accepting layer's responsibility.
func (r *relay) Run(req *message.Request) error {
	defer func() {
		_ = r.target.Close()
	}()

	if err := r.rewriter.RewriteRequest(req); err != nil {
		return err
	}

	n, err := r.target.Write(req.Serialize())
	r.bytesToTarget.Add(int64(n))
	if err != nil {
		return err
	}

	events := make(chan event)
	done := make(chan struct{})
	defer close(done)

	go r.pump(fromClient, r.client, events, done)
	go r.pump(fromTarget, r.target, events, done)

	resp := message.NewResponseSize(r.maxHeaderSize)

	for ev := range events {
		var err error
		switch ev.src {
		case fromClient:
			err = r.forwardToTarget(ev.data)
		case fromTarget:
			err = r.forwardToClient(resp, ev.data)
		}
		if err != nil {
			return err
		}

		if ev.err != nil {
			if peerClosed(ev.err) {
				return nil
			}
			return ev.err
		}
	}
	return nil
}

// pump reads one socket and delivers each chunk as an event. It stops
// when the read fails (delivering the error first) or when the engine
// has returned.
func (r *relay) pump(src source, conn io.Reader, events chan<- event, done <-chan struct{}) {
	buf := make([]byte, r.bufferSize)
	for {
		n, err := conn.Read(buf)
		var data []byte
		if n > 0 {
			// The engine may still be writing the previous chunk when the
			// next read lands, so the event owns its own copy.
			data = make([]byte, n)
			copy(data, buf[:n])
		}

		select {
		case events <- event{src: src, data: data, err: err}:
		case <-done:
			return
		}

		if err != nil {
			return
		}
	}
}

// Bytes from the client after the initial request are opaque to the
// engine; they are forwarded without parsing.
func (r *relay) forwardToTarget(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := r.target.Write(data)
	r.bytesToTarget.Add(int64(n))
	return err
}

func (r *relay) forwardToClient(resp *message.Response, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	if resp.HeadersRead() {
		n, err := r.client.Write(data)
		r.bytesToClient.Add(int64(n))
		return err
	}

	// Header phase: the chunk stays inside the parser until the
	// terminator arrives, then the whole message-so-far is re-emitted in
	// canonical form so the forwarded bytes match the rewritten headers.
	complete, err := resp.Feed(data)
	if err != nil {
		return err
	}
	if !complete {
		return nil
	}

	if err = r.rewriter.RewriteResponse(resp); err != nil {
		return err
	}

	n, err := r.client.Write(resp.Serialize())
	r.bytesToClient.Add(int64(n))
	return err
}

// peerClosed reports whether a read error is a normal terminal
// transition of the relay loop rather than a failure.
func peerClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

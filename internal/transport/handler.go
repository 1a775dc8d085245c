package transport

import (
	"errors"
	"io"
	"log"
	"net"

	"relay_pls/internal/config"
	"relay_pls/internal/http/message"
	"relay_pls/internal/metrics"
)

type connHandler struct {
	config  config.Config
	router  *Router
	metrics *metrics.Metrics
}

func newConnHandler(cfg config.Config, router *Router, m *metrics.Metrics) *connHandler {
	return &connHandler{
		config:  cfg,
		router:  router,
		metrics: m,
	}
}

// Handler reads the client stream until the request head is complete,
// then dispatches through the prefix router. Parse failures end the
// connection; they never affect other connections.
func (ch *connHandler) Handler(conn net.Conn, isTLS bool) {
	defer ch.closeConnection(conn)

	scheme := "http"
	if isTLS {
		scheme = "https"
	}

	req, err := ch.readRequest(conn)
	if err != nil {
		if !peerClosed(err) {
			ch.metrics.RecordParseError()
			log.Printf("Error reading %s request from %s: %v", scheme, conn.RemoteAddr(), err)
			_, _ = conn.Write(badRequestResponse)
		}
		return
	}

	handler, ok := ch.router.Match(requestPath(req.URI()))
	if !ok {
		_, _ = conn.Write(notFoundResponse)
		return
	}

	if err = handler.Serve(conn, req); err != nil {
		log.Printf("Error serving %s %s %s: %v", scheme, req.Method(), req.URI(), err)
	}
}

func (ch *connHandler) readRequest(conn net.Conn) (*message.Request, error) {
	req := message.NewRequestSize(ch.config.MaxHeaderSize())
	buf := make([]byte, ch.config.BufferSize())

	for !req.HeadersRead() {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, perr := req.Feed(buf[:n]); perr != nil {
				return nil, perr
			}
		}
		if err != nil {
			// Data and EOF may arrive in the same read; a head completed
			// by that read is still served.
			if req.HeadersRead() {
				break
			}
			return nil, err
		}
	}
	return req, nil
}

func (ch *connHandler) closeConnection(conn net.Conn) {
	err := conn.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		log.Printf("Error closing connection: %v", err)
	}
}

func peerClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

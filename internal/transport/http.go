package transport

import (
	"errors"
	"log"
	"net"

	"relay_pls/internal/config"
	"relay_pls/internal/metrics"
)

type httpServer struct {
	handler *connHandler
	port    string
}

func NewHTTPServer(cfg config.Config, router *Router, m *metrics.Metrics) Transport {
	return &httpServer{
		handler: newConnHandler(cfg, router, m),
		port:    cfg.HTTPPort(),
	}
}

func (ht *httpServer) Listen() (net.Listener, error) {
	return net.Listen("tcp", ":"+ht.port)
}

func (ht *httpServer) Serve(listener net.Listener) error {
	log.Printf("HTTP server is starting on port %s", ht.port)
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Printf("Error accepting connection: %v", err)
			continue
		}

		go ht.handler.Handler(conn, false)
	}
}

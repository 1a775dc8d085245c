package transport

import (
	"crypto/tls"
	"errors"
	"log"
	"net"

	"relay_pls/internal/config"
	"relay_pls/internal/metrics"
)

type httpsServer struct {
	handler   *connHandler
	tlsConfig *tls.Config
	port      string
}

func NewHTTPSServer(cfg config.Config, router *Router, m *metrics.Metrics, tlsConfig *tls.Config) Transport {
	return &httpsServer{
		handler:   newConnHandler(cfg, router, m),
		tlsConfig: tlsConfig,
		port:      cfg.HTTPSPort(),
	}
}

func (ht *httpsServer) Listen() (net.Listener, error) {
	return tls.Listen("tcp", ":"+ht.port, ht.tlsConfig)
}

func (ht *httpsServer) Serve(listener net.Listener) error {
	log.Printf("HTTPS server is starting on port %s", ht.port)
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Printf("Error accepting connection: %v", err)
			continue
		}

		go ht.handler.Handler(conn, true)
	}
}

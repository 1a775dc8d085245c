package transport

import (
	"fmt"
	"net"
	"time"

	"relay_pls/internal/config"
	"relay_pls/internal/http/message"
	"relay_pls/internal/metrics"
	"relay_pls/internal/registry"
	"relay_pls/internal/relay"

	"github.com/google/uuid"
)

// ProxyHandler hands a parsed request to the relay engine over a fresh
// target connection.
type ProxyHandler struct {
	dialer   relay.Dialer
	rewriter relay.Rewriter

	targetHost string
	targetPort string

	bufferSize    int
	maxHeaderSize int

	registry registry.Registry
	metrics  *metrics.Metrics
}

func NewProxyHandler(cfg config.Config, reg registry.Registry, m *metrics.Metrics) *ProxyHandler {
	dialer := relay.TCPDialer()
	if cfg.TargetTLS() {
		dialer = relay.TLSDialer(cfg.TargetTLSInsecure())
	}

	return &ProxyHandler{
		dialer:        dialer,
		rewriter:      relay.NewHostRewriter(cfg.TargetHost()),
		targetHost:    cfg.TargetHost(),
		targetPort:    cfg.TargetPort(),
		bufferSize:    cfg.BufferSize(),
		maxHeaderSize: cfg.MaxHeaderSize(),
		registry:      reg,
		metrics:       m,
	}
}

func (p *ProxyHandler) Serve(conn net.Conn, req *message.Request) error {
	p.metrics.RecordConnection("proxy")

	target, err := p.dialer(p.targetHost, p.targetPort)
	if err != nil {
		_, _ = conn.Write(badGatewayResponse)
		return fmt.Errorf("dial target %s:%s: %w", p.targetHost, p.targetPort, err)
	}

	rewriter := relay.NewForwardedRewriter(p.rewriter, conn.RemoteAddr())
	rl := relay.New(conn, target, rewriter, p.bufferSize, p.maxHeaderSize)

	id := uuid.New()
	p.registry.Register(registry.Entry{
		ID:         id,
		RemoteAddr: conn.RemoteAddr().String(),
		Path:       req.URI(),
		StartedAt:  time.Now(),
		Counters:   rl,
	})
	p.metrics.RelayStarted()

	defer func() {
		p.registry.Remove(id)
		p.metrics.RelayFinished()
		p.metrics.RecordExchange(rl.BytesToTarget(), rl.BytesToClient())
	}()

	return rl.Run(req)
}

package bootstrap

import (
	"fmt"
	"log"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"relay_pls/internal/config"
	"relay_pls/internal/dashboard"
	"relay_pls/internal/metrics"
	"relay_pls/internal/registry"
	"relay_pls/internal/transport"
	"relay_pls/internal/version"
)

type Bootstrap struct {
	Config     config.Config
	Registry   registry.Registry
	Metrics    *metrics.Metrics
	ErrChan    chan error
	SignalChan chan os.Signal
}

func New(cfg config.Config) *Bootstrap {
	return &Bootstrap{
		Config:     cfg,
		Registry:   registry.NewRegistry(),
		Metrics:    metrics.New(),
		ErrChan:    make(chan error, 5),
		SignalChan: make(chan os.Signal, 1),
	}
}

// newRouter wires the handler table: an optional static mount first,
// then the relay catching everything else. Registration order is match
// order.
func newRouter(cfg config.Config, reg registry.Registry, m *metrics.Metrics) *transport.Router {
	router := transport.NewRouter()

	if cfg.StaticPrefix() != "" {
		router.Register(cfg.StaticPrefix(), transport.NewStaticHandler(cfg.StaticDir(), m))
	}
	router.Register("/", transport.NewProxyHandler(cfg, reg, m))

	return router
}

func startHTTPServer(cfg config.Config, router *transport.Router, m *metrics.Metrics, errChan chan<- error) {
	httpServer := transport.NewHTTPServer(cfg, router, m)
	ln, err := httpServer.Listen()
	if err != nil {
		errChan <- fmt.Errorf("failed to start http server: %w", err)
		return
	}
	if err = httpServer.Serve(ln); err != nil {
		errChan <- fmt.Errorf("error when serving http server: %w", err)
	}
}

func startHTTPSServer(cfg config.Config, router *transport.Router, m *metrics.Metrics, errChan chan<- error) {
	tlsCfg, err := transport.NewTLSConfig(cfg)
	if err != nil {
		errChan <- fmt.Errorf("failed to create TLS config: %w", err)
		return
	}
	httpsServer := transport.NewHTTPSServer(cfg, router, m, tlsCfg)
	ln, err := httpsServer.Listen()
	if err != nil {
		errChan <- fmt.Errorf("failed to start https server: %w", err)
		return
	}
	if err = httpsServer.Serve(ln); err != nil {
		errChan <- fmt.Errorf("error when serving https server: %w", err)
	}
}

func startMetricsServer(cfg config.Config, m *metrics.Metrics, errChan chan<- error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	addr := net.JoinHostPort("", cfg.MetricsPort())
	log.Printf("Metrics server is starting on port %s", cfg.MetricsPort())
	if err := http.ListenAndServe(addr, mux); err != nil {
		errChan <- fmt.Errorf("metrics server error: %w", err)
	}
}

func startPprof(pprofPort string, errChan chan<- error) {
	pprofAddr := fmt.Sprintf("localhost:%s", pprofPort)
	log.Printf("Starting pprof server on http://%s/debug/pprof/", pprofAddr)
	if err := http.ListenAndServe(pprofAddr, nil); err != nil {
		errChan <- fmt.Errorf("pprof server error: %v", err)
	}
}

func (b *Bootstrap) Run() error {
	log.Printf("%s starting, relaying to %s:%s", version.GetVersion(), b.Config.TargetHost(), b.Config.TargetPort())

	router := newRouter(b.Config, b.Registry, b.Metrics)

	signal.Notify(b.SignalChan, os.Interrupt, syscall.SIGTERM)

	go startHTTPServer(b.Config, router, b.Metrics, b.ErrChan)

	if b.Config.TLSEnabled() {
		go startHTTPSServer(b.Config, router, b.Metrics, b.ErrChan)
	}

	if b.Config.MetricsEnabled() {
		go startMetricsServer(b.Config, b.Metrics, b.ErrChan)
	}

	if b.Config.PprofEnabled() {
		go startPprof(b.Config.PprofPort(), b.ErrChan)
	}

	var dash *dashboard.Dashboard
	if b.Config.DashboardEnabled() {
		dash = dashboard.New(b.Registry, net.JoinHostPort(b.Config.TargetHost(), b.Config.TargetPort()))
		go dash.Start()
	}

	log.Println("All services started successfully")

	defer func() {
		if dash != nil {
			dash.Stop()
		}
	}()

	select {
	case err := <-b.ErrChan:
		return fmt.Errorf("service error: %w", err)
	case sig := <-b.SignalChan:
		log.Printf("Received signal %s, shutting down with %d relays active", sig, b.Registry.Count())
		return nil
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type config struct {
	targetHost        string
	targetPort        string
	targetTLS         bool
	targetTLSInsecure bool

	httpPort string

	tlsEnabled     bool
	httpsPort      string
	domain         string
	tlsStoragePath string
	acmeEmail      string
	cfAPIToken     string
	acmeStaging    bool

	staticPrefix string
	staticDir    string

	bufferSize    int
	maxHeaderSize int

	metricsEnabled bool
	metricsPort    string

	pprofEnabled bool
	pprofPort    string

	dashboardEnabled bool
}

func parse() (*config, error) {
	targetHost := getenv("TARGET_HOST", "")
	if targetHost == "" {
		return nil, fmt.Errorf("TARGET_HOST is required")
	}

	targetTLS := getenvBool("TARGET_TLS", true)

	defaultPort := "80"
	if targetTLS {
		defaultPort = "443"
	}
	targetPort := getenv("TARGET_PORT", defaultPort)

	targetTLSInsecure := getenvBool("TARGET_TLS_INSECURE", false)

	httpPort := getenv("HTTP_PORT", "8080")

	tlsEnabled := getenvBool("TLS_ENABLED", false)
	httpsPort := getenv("HTTPS_PORT", "8443")
	domain := getenv("DOMAIN", "localhost")
	tlsStoragePath := getenv("TLS_STORAGE_PATH", "certs/tls/")

	acmeEmail := getenv("ACME_EMAIL", "admin@"+domain)
	acmeStaging := getenvBool("ACME_STAGING", false)
	cfToken := getenv("CF_API_TOKEN", "")

	if tlsEnabled && domain == "localhost" {
		return nil, fmt.Errorf("DOMAIN is required when TLS is enabled")
	}

	staticPrefix := getenv("STATIC_PREFIX", "")
	staticDir := getenv("STATIC_DIR", "")
	if staticPrefix != "" && staticDir == "" {
		return nil, fmt.Errorf("STATIC_DIR is required when STATIC_PREFIX is set")
	}

	bufferSize := parseBufferSize()
	maxHeaderSize := parseMaxHeaderSize()

	metricsEnabled := getenvBool("METRICS_ENABLED", false)
	metricsPort := getenv("METRICS_PORT", "9090")

	pprofEnabled := getenvBool("PPROF_ENABLED", false)
	pprofPort := getenv("PPROF_PORT", "6060")

	dashboardEnabled := getenvBool("DASHBOARD_ENABLED", false)

	return &config{
		targetHost:        targetHost,
		targetPort:        targetPort,
		targetTLS:         targetTLS,
		targetTLSInsecure: targetTLSInsecure,
		httpPort:          httpPort,
		tlsEnabled:        tlsEnabled,
		httpsPort:         httpsPort,
		domain:            domain,
		tlsStoragePath:    tlsStoragePath,
		acmeEmail:         acmeEmail,
		cfAPIToken:        cfToken,
		acmeStaging:       acmeStaging,
		staticPrefix:      staticPrefix,
		staticDir:         staticDir,
		bufferSize:        bufferSize,
		maxHeaderSize:     maxHeaderSize,
		metricsEnabled:    metricsEnabled,
		metricsPort:       metricsPort,
		pprofEnabled:      pprofEnabled,
		pprofPort:         pprofPort,
		dashboardEnabled:  dashboardEnabled,
	}, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func parseBufferSize() int {
	raw := getenv("BUFFER_SIZE", "32768")
	size, err := strconv.Atoi(raw)
	if err != nil || size < 4096 || size > 1048576 {
		log.Println("Invalid BUFFER_SIZE, falling back to 4096")
		return 4096
	}
	return size
}

func parseMaxHeaderSize() int {
	raw := getenv("MAX_HEADER_SIZE", "65536")
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1024 || size > 1048576 {
		log.Println("Invalid MAX_HEADER_SIZE, falling back to 65536")
		return 65536
	}
	return size
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val == "true"
}

package config

type Config interface {
	TargetHost() string
	TargetPort() string
	TargetTLS() bool
	TargetTLSInsecure() bool

	HTTPPort() string

	TLSEnabled() bool
	HTTPSPort() string
	Domain() string
	TLSStoragePath() string
	ACMEEmail() string
	CFAPIToken() string
	ACMEStaging() bool

	StaticPrefix() string
	StaticDir() string

	BufferSize() int
	MaxHeaderSize() int

	MetricsEnabled() bool
	MetricsPort() string

	PprofEnabled() bool
	PprofPort() string

	DashboardEnabled() bool
}

func MustLoad() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) TargetHost() string      { return c.targetHost }
func (c *config) TargetPort() string      { return c.targetPort }
func (c *config) TargetTLS() bool         { return c.targetTLS }
func (c *config) TargetTLSInsecure() bool { return c.targetTLSInsecure }
func (c *config) HTTPPort() string        { return c.httpPort }
func (c *config) TLSEnabled() bool        { return c.tlsEnabled }
func (c *config) HTTPSPort() string       { return c.httpsPort }
func (c *config) Domain() string          { return c.domain }
func (c *config) TLSStoragePath() string  { return c.tlsStoragePath }
func (c *config) ACMEEmail() string       { return c.acmeEmail }
func (c *config) CFAPIToken() string      { return c.cfAPIToken }
func (c *config) ACMEStaging() bool       { return c.acmeStaging }
func (c *config) StaticPrefix() string    { return c.staticPrefix }
func (c *config) StaticDir() string       { return c.staticDir }
func (c *config) BufferSize() int         { return c.bufferSize }
func (c *config) MaxHeaderSize() int      { return c.maxHeaderSize }
func (c *config) MetricsEnabled() bool    { return c.metricsEnabled }
func (c *config) MetricsPort() string     { return c.metricsPort }
func (c *config) PprofEnabled() bool      { return c.pprofEnabled }
func (c *config) PprofPort() string       { return c.pprofPort }
func (c *config) DashboardEnabled() bool  { return c.dashboardEnabled }

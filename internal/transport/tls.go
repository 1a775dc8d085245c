package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"relay_pls/internal/config"

	"github.com/caddyserver/certmagic"
	"github.com/fsnotify/fsnotify"
	"github.com/libdns/cloudflare"
)

func NewTLSConfig(cfg config.Config) (*tls.Config, error) {
	var initErr error

	tlsManagerOnce.Do(func() {
		tm := createTLSManager(cfg)
		initErr = tm.initialize()
		if initErr == nil {
			globalTLSManager = tm
		}
	})

	if initErr != nil {
		return nil, initErr
	}

	return globalTLSManager.getTLSConfig(), nil
}

type tlsManager struct {
	config config.Config

	certPath    string
	keyPath     string
	storagePath string

	userCert   *tls.Certificate
	userCertMu sync.RWMutex

	magic *certmagic.Config

	useCertMagic bool
}

var globalTLSManager *tlsManager
var tlsManagerOnce sync.Once

func createTLSManager(cfg config.Config) *tlsManager {
	cleanBase := filepath.Clean(cfg.TLSStoragePath())

	return &tlsManager{
		config:      cfg,
		certPath:    filepath.Join(cleanBase, "cert.pem"),
		keyPath:     filepath.Join(cleanBase, "privkey.pem"),
		storagePath: filepath.Join(cleanBase, "certmagic"),
	}
}

func (tm *tlsManager) initialize() error {
	if tm.userCertsExistAndValid() {
		return tm.initializeWithUserCerts()
	}
	return tm.initializeWithCertMagic()
}

func (tm *tlsManager) initializeWithUserCerts() error {
	log.Printf("Using user-provided certificates from %s and %s", tm.certPath, tm.keyPath)

	if err := tm.loadUserCerts(); err != nil {
		return fmt.Errorf("failed to load user certificates: %w", err)
	}

	tm.useCertMagic = false
	tm.startCertWatcher()
	return nil
}

func (tm *tlsManager) initializeWithCertMagic() error {
	log.Printf("User certificates missing or don't cover %s, using CertMagic", tm.config.Domain())

	if err := tm.initCertMagic(); err != nil {
		return fmt.Errorf("failed to initialize CertMagic: %w", err)
	}

	tm.useCertMagic = true
	return nil
}

func (tm *tlsManager) userCertsExistAndValid() bool {
	if !tm.certFilesExist() {
		return false
	}
	return validateCertDomain(tm.certPath, tm.config.Domain())
}

func (tm *tlsManager) certFilesExist() bool {
	if _, err := os.Stat(tm.certPath); os.IsNotExist(err) {
		log.Printf("Certificate file not found: %s", tm.certPath)
		return false
	}
	if _, err := os.Stat(tm.keyPath); os.IsNotExist(err) {
		log.Printf("Key file not found: %s", tm.keyPath)
		return false
	}
	return true
}

func (tm *tlsManager) loadUserCerts() error {
	cert, err := tls.LoadX509KeyPair(tm.certPath, tm.keyPath)
	if err != nil {
		return err
	}

	tm.userCertMu.Lock()
	tm.userCert = &cert
	tm.userCertMu.Unlock()

	log.Printf("Loaded user certificates successfully")
	return nil
}

func (tm *tlsManager) startCertWatcher() {
	go func() {
		if err := watchCertFiles(tm); err != nil {
			log.Printf("Certificate watcher stopped: %v", err)
		}
	}()
}

func (tm *tlsManager) initCertMagic() error {
	if err := tm.createStorageDirectory(); err != nil {
		return err
	}

	if tm.config.CFAPIToken() == "" {
		return fmt.Errorf("CF_API_TOKEN is required for automatic certificate generation")
	}

	magic := tm.createCertMagicConfig()
	tm.magic = magic

	return tm.obtainCertificates(magic)
}

func (tm *tlsManager) createStorageDirectory() error {
	if err := os.MkdirAll(tm.storagePath, 0700); err != nil {
		return fmt.Errorf("failed to create cert storage directory: %w", err)
	}
	return nil
}

func (tm *tlsManager) createCertMagicConfig() *certmagic.Config {
	cfProvider := &cloudflare.Provider{
		APIToken: tm.config.CFAPIToken(),
	}

	storage := &certmagic.FileStorage{Path: tm.storagePath}

	cache := certmagic.NewCache(certmagic.CacheOptions{
		GetConfigForCert: func(cert certmagic.Certificate) (*certmagic.Config, error) {
			return tm.magic, nil
		},
	})

	magic := certmagic.New(cache, certmagic.Config{
		Storage: storage,
	})

	acmeIssuer := tm.createACMEIssuer(magic, cfProvider)
	magic.Issuers = []certmagic.Issuer{acmeIssuer}

	return magic
}

func (tm *tlsManager) createACMEIssuer(magic *certmagic.Config, cfProvider *cloudflare.Provider) *certmagic.ACMEIssuer {
	acmeIssuer := certmagic.NewACMEIssuer(magic, certmagic.ACMEIssuer{
		Email:  tm.config.ACMEEmail(),
		Agreed: true,
		DNS01Solver: &certmagic.DNS01Solver{
			DNSManager: certmagic.DNSManager{
				DNSProvider: cfProvider,
			},
		},
	})

	if tm.config.ACMEStaging() {
		acmeIssuer.CA = certmagic.LetsEncryptStagingCA
		log.Printf("Using Let's Encrypt staging server")
	} else {
		acmeIssuer.CA = certmagic.LetsEncryptProductionCA
		log.Printf("Using Let's Encrypt production server")
	}

	return acmeIssuer
}

func (tm *tlsManager) obtainCertificates(magic *certmagic.Config) error {
	domains := []string{tm.config.Domain()}
	log.Printf("Requesting certificates for: %v", domains)

	ctx := context.Background()
	if err := magic.ManageSync(ctx, domains); err != nil {
		return fmt.Errorf("failed to obtain certificates: %w", err)
	}

	log.Printf("Certificates obtained successfully for %v", domains)
	return nil
}

func (tm *tlsManager) getTLSConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: tm.getCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

func (tm *tlsManager) getCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	if tm.useCertMagic {
		return tm.magic.GetCertificate(hello)
	}

	tm.userCertMu.RLock()
	defer tm.userCertMu.RUnlock()

	if tm.userCert == nil {
		return nil, fmt.Errorf("no certificate available")
	}

	return tm.userCert, nil
}

// watchCertFiles reloads user-provided certificates when their files
// change on disk. Events are debounced because most tooling rewrites the
// pair with several writes in quick succession.
func watchCertFiles(tm *tlsManager) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(filepath.Dir(tm.certPath)); err != nil {
		return fmt.Errorf("failed to watch certificate directory: %w", err)
	}

	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isCertFileEvent(tm, event) {
				continue
			}
			pending = time.After(500 * time.Millisecond)

		case <-pending:
			pending = nil
			reloadUserCerts(tm)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Certificate watcher error: %v", err)
		}
	}
}

func isCertFileEvent(tm *tlsManager, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == tm.certPath || name == tm.keyPath
}

func reloadUserCerts(tm *tlsManager) {
	log.Printf("Certificate files changed, reloading...")

	if !validateCertDomain(tm.certPath, tm.config.Domain()) {
		log.Printf("New certificates don't cover required domain")
		return
	}

	if err := tm.loadUserCerts(); err != nil {
		log.Printf("Failed to reload certificates: %v", err)
		return
	}

	log.Printf("Certificates reloaded successfully")
}

func validateCertDomain(certPath, domain string) bool {
	cert, err := loadAndParseCertificate(certPath)
	if err != nil {
		return false
	}

	if !isCertificateValid(cert) {
		return false
	}

	return certCoversDomain(cert, domain)
}

func loadAndParseCertificate(certPath string) (*x509.Certificate, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		log.Printf("Failed to read certificate: %v", err)
		return nil, err
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		log.Printf("Failed to decode PEM block from certificate")
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		log.Printf("Failed to parse certificate: %v", err)
		return nil, err
	}

	return cert, nil
}

func isCertificateValid(cert *x509.Certificate) bool {
	now := time.Now()

	if now.After(cert.NotAfter) {
		log.Printf("Certificate has expired (NotAfter: %v)", cert.NotAfter)
		return false
	}

	thirtyDaysFromNow := now.Add(30 * 24 * time.Hour)
	if thirtyDaysFromNow.After(cert.NotAfter) {
		log.Printf("Certificate expiring soon (NotAfter: %v), will use CertMagic for renewal", cert.NotAfter)
		return false
	}

	return true
}

func certCoversDomain(cert *x509.Certificate, domain string) bool {
	if cert.Subject.CommonName == domain {
		return true
	}
	for _, d := range cert.DNSNames {
		if d == domain {
			return true
		}
	}

	log.Printf("Certificate does not cover domain: %s", domain)
	return false
}

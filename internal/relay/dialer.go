package relay

import (
	"crypto/tls"
	"net"
)

// Dialer yields a connected byte stream to a target host and port. The
// relay engine does not care whether the stream is encrypted.
type Dialer func(host, port string) (net.Conn, error)

func TCPDialer() Dialer {
	return func(host, port string) (net.Conn, error) {
		return net.Dial("tcp", net.JoinHostPort(host, port))
	}
}

func TLSDialer(insecureSkipVerify bool) Dialer {
	return func(host, port string) (net.Conn, error) {
		return tls.Dial("tcp", net.JoinHostPort(host, port), &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: insecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		})
	}
}

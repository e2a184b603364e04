package irc

import (
	"crypto/tls"
	"fmt"
	"net"

	"ircbridge/internal/app/ports"
)

// DialFunc opens the wire for one session. Injectable so tests can hand
// the worker an in-memory pipe instead of a real socket.
type DialFunc func(cfg ports.ConnectionConfig) (net.Conn, error)

// DefaultDial connects over TCP, wrapped in TLS when the config asks
// for it. SNI is the configured server name.
func DefaultDial(cfg ports.ConnectionConfig) (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	if cfg.UseTLS {
		return tls.Dial("tcp", addr, &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: cfg.Server,
		})
	}
	return net.Dial("tcp", addr)
}

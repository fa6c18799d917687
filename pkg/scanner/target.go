package scanner

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Target is one host endpoint to inspect.
type Target struct {
	Hostname string `json:"hostname"`
	Port     int    `json:"port"`
	StartTLS bool   `json:"starttls_smtp"`
}

// Key is the "host:port" form used by the cross-target cache.
func (t Target) Key() string {
	return fmt.Sprintf("%s:%d", t.Hostname, t.Port)
}

func (t Target) String() string {
	if t.StartTLS {
		return t.Key() + " (starttls)"
	}
	return t.Key()
}

// ParseTarget accepts "host" or "host:port". A bare host means port 443.
// Ports that speak a plaintext mail protocol are marked for STARTTLS.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, fmt.Errorf("empty target")
	}

	host, portStr := s, "443"
	if strings.Contains(s, ":") {
		var err error
		host, portStr, err = net.SplitHostPort(s)
		if err != nil {
			return Target{}, fmt.Errorf("invalid target %q: %w", s, err)
		}
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Target{}, fmt.Errorf("invalid port in target %q", s)
	}

	return Target{
		Hostname: host,
		Port:     port,
		StartTLS: DetectService(port).Connection == ConnectionSTARTTLS,
	}, nil
}

// ServerInfo is what the connectivity check learned about a reachable target.
type ServerInfo struct {
	Target Target
	IP     string
	// Addr is ip:port, dialled by every probe.
	Addr string
	// Version is the protocol version of the first successful handshake.
	Version uint16
}

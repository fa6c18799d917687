package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Connector establishes that a target is reachable and speaks TLS.
type Connector interface {
	Connect(ctx context.Context, target Target) (*ServerInfo, error)
}

// dialer opens the TCP connections every probe uses, upgrading them with
// STARTTLS when the target asks for it.
type dialer struct {
	timeout time.Duration
}

func (d *dialer) dial(ctx context.Context, addr string, target Target) (net.Conn, error) {
	nd := &net.Dialer{Timeout: d.timeout}
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if !target.StartTLS {
		return conn, nil
	}

	negotiator, err := GetStartTLSNegotiator(starttlsProtocol(target.Port))
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if d.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(d.timeout))
	}
	if err := negotiator.Negotiate(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("STARTTLS negotiation failed: %w", err)
	}
	_ = conn.SetDeadline(time.Time{})
	return conn, nil
}

// connectivityVersions are tried in order until one draws a ServerHello.
var connectivityVersions = []uint16{versionTLS12, versionTLS13, versionTLS10, versionSSL30}

// Prober is the default Connector: it resolves the target, opens a TCP
// connection and checks that some protocol version completes a hello.
type Prober struct {
	resolver Resolver
	dialer   *dialer
}

// NewProber returns a Prober using resolver and the per-connection timeout.
func NewProber(resolver Resolver, timeout time.Duration) *Prober {
	return &Prober{resolver: resolver, dialer: &dialer{timeout: timeout}}
}

func (p *Prober) Connect(ctx context.Context, target Target) (*ServerInfo, error) {
	ip, err := p.resolver.LookupIP(ctx, target.Hostname)
	if err != nil {
		if IsDNSError(err) {
			return nil, err
		}
		return nil, &ConnectivityError{Addr: target.Key(), Err: err}
	}

	info := &ServerInfo{
		Target: target,
		IP:     ip,
		Addr:   net.JoinHostPort(ip, strconv.Itoa(target.Port)),
	}

	var lastErr error
	for _, version := range connectivityVersions {
		sh, err := p.tryVersion(ctx, info, version)
		if err == nil {
			info.Version = sh.version
			return info, nil
		}
		lastErr = err
		if !errors.Is(err, errHandshakeRejected) {
			// the endpoint itself is unreachable, no point offering older versions
			break
		}
	}
	return nil, &ConnectivityError{Addr: info.Addr, Err: lastErr}
}

func (p *Prober) tryVersion(ctx context.Context, info *ServerInfo, version uint16) (*serverHello, error) {
	conn, err := p.dialer.dial(ctx, info.Addr, info.Target)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close()
	}()

	hello, err := newClientHello(version, info.Target.Hostname, candidateSuites(version), false)
	if err != nil {
		return nil, err
	}
	return exchangeHello(conn, hello, p.dialer.timeout)
}

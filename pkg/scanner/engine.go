package scanner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	zx509 "github.com/zmap/zcrypto/x509"

	"github.com/jphoke/tlsinspect/pkg/analysis"
	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/report"
)

// Engine runs a single probe command against a reachable server.
type Engine interface {
	Run(ctx context.Context, info *ServerInfo, cmd Command) (ProbeResult, error)
}

// probeEngine is the network-backed Engine.
type probeEngine struct {
	dialer  *dialer
	timeout time.Duration
	roots   *zx509.CertPool
	log     *logger.Logger
}

func newProbeEngine(timeout time.Duration, roots *zx509.CertPool, log *logger.Logger) *probeEngine {
	return &probeEngine{
		dialer:  &dialer{timeout: timeout},
		timeout: timeout,
		roots:   roots,
		log:     log,
	}
}

func (e *probeEngine) Run(ctx context.Context, info *ServerInfo, cmd Command) (ProbeResult, error) {
	var (
		result ProbeResult
		err    error
	)
	switch cmd {
	case CommandSSLv2:
		result, err = e.probeSSLv2(ctx, info)
	case CommandSSLv3, CommandTLSv10, CommandTLSv11, CommandTLSv12, CommandTLSv13:
		result, err = e.enumerateSuites(ctx, info, cmd)
	case CommandCertificateInfo:
		result, err = e.probeCertificates(ctx, info)
	case CommandRenegotiation:
		result, err = e.probeRenegotiation(ctx, info)
	default:
		err = fmt.Errorf("unknown command %d", int(cmd))
	}
	if err != nil {
		return nil, classifyProbeError(cmd, err)
	}
	return result, nil
}

func (e *probeEngine) probeSSLv2(ctx context.Context, info *ServerInfo) (ProbeResult, error) {
	conn, err := e.dialer.dial(ctx, info.Addr, info.Target)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close()
	}()

	accepted, err := exchangeSSLv2Hello(conn, e.timeout)
	if err != nil {
		return nil, err
	}
	return &ProtocolProbeResult{Protocol: report.SSLv2, Accepted: accepted}, nil
}

// enumerateSuites offers every remaining candidate suite and removes the one
// the server picks, until the server refuses.
func (e *probeEngine) enumerateSuites(ctx context.Context, info *ServerInfo, cmd Command) (ProbeResult, error) {
	protocol, _ := cmd.Protocol()
	version := cmd.wireVersion()
	result := &ProtocolProbeResult{Protocol: protocol}

	remaining := candidateSuites(version)
	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sh, err := e.hello(ctx, info, version, remaining, false)
		if errors.Is(err, errHandshakeRejected) {
			break
		}
		if err != nil {
			return nil, err
		}
		if sh.version != version {
			break
		}

		idx := slices.Index(remaining, sh.cipherSuite)
		if idx < 0 {
			e.log.Debugw("Server selected a suite that was not offered",
				"command", cmd.String(),
				"suite", fmt.Sprintf("0x%04X", sh.cipherSuite))
			break
		}
		result.Accepted = append(result.Accepted, LookupCipherSuite(sh.cipherSuite).Suite())
		remaining = slices.Delete(remaining, idx, idx+1)
	}
	return result, nil
}

func (e *probeEngine) hello(ctx context.Context, info *ServerInfo, version uint16, suites []uint16, reneg bool) (*serverHello, error) {
	conn, err := e.dialer.dial(ctx, info.Addr, info.Target)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close()
	}()

	ch, err := newClientHello(version, info.Target.Hostname, suites, reneg)
	if err != nil {
		return nil, err
	}
	return exchangeHello(conn, ch, e.timeout)
}

func (e *probeEngine) probeCertificates(ctx context.Context, info *ServerInfo) (ProbeResult, error) {
	served, err := e.fetchPeerCertificates(ctx, info)
	if err != nil {
		return nil, err
	}
	return &CertificateProbeResult{Chain: e.buildChain(served)}, nil
}

// probeRenegotiation offers renegotiation_info over TLS 1.2, then TLS 1.0.
// A server that completes the hello without echoing the extension is taken
// to accept legacy client-initiated renegotiation.
func (e *probeEngine) probeRenegotiation(ctx context.Context, info *ServerInfo) (ProbeResult, error) {
	var lastErr error
	for _, version := range []uint16{versionTLS12, versionTLS10} {
		sh, err := e.hello(ctx, info, version, candidateSuites(version), true)
		if err != nil {
			lastErr = err
			if errors.Is(err, errHandshakeRejected) {
				continue
			}
			return nil, err
		}

		res := analysis.RenegotiationResult{SupportsSecureRenegotiation: sh.secureRenegotiation}
		res.AcceptsClientRenegotiation = !sh.secureRenegotiation && sh.version < versionTLS13
		return &RenegotiationProbeResult{RenegotiationResult: res}, nil
	}
	return nil, fmt.Errorf("no protocol version accepted the renegotiation probe: %w", lastErr)
}

package scanner

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jphoke/tlsinspect/pkg/analysis"
	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/report"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type probeFunc func(call int) (ProbeResult, error)

// fakeEngine answers commands from a table and counts calls. Commands
// without an entry return an empty result of the right kind.
type fakeEngine struct {
	mu     sync.Mutex
	probes map[Command]probeFunc
	calls  map[Command]int
}

func newFakeEngine(probes map[Command]probeFunc) *fakeEngine {
	return &fakeEngine{probes: probes, calls: map[Command]int{}}
}

func (e *fakeEngine) Run(_ context.Context, _ *ServerInfo, cmd Command) (ProbeResult, error) {
	e.mu.Lock()
	call := e.calls[cmd]
	e.calls[cmd]++
	probe := e.probes[cmd]
	e.mu.Unlock()

	if probe != nil {
		return probe(call)
	}
	switch cmd {
	case CommandCertificateInfo:
		return &CertificateProbeResult{}, nil
	case CommandRenegotiation:
		return &RenegotiationProbeResult{}, nil
	}
	p, _ := cmd.Protocol()
	return &ProtocolProbeResult{Protocol: p}, nil
}

func (e *fakeEngine) callCount(cmd Command) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[cmd]
}

type fakeConnector struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (c *fakeConnector) Connect(_ context.Context, target Target) (*ServerInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &ServerInfo{Target: target, IP: "192.0.2.10", Addr: "192.0.2.10:443", Version: versionTLS12}, nil
}

func scanConfig(serial bool) config.ScanConfig {
	return config.ScanConfig{
		NetworkTimeout:   1,
		Serial:           serial,
		Certs:            true,
		Reneg:            true,
		Environment:      "local",
		BatchConcurrency: 4,
	}
}

func newTestScanner(t *testing.T, cfg config.ScanConfig, engine Engine, connector Connector) *Scanner {
	t.Helper()
	s, err := New(cfg, logger.ForTest(t),
		WithEngine(engine),
		WithConnector(connector),
		WithResolver(staticResolver{ip: "192.0.2.7"}),
		WithClock(func() time.Time { return fixedNow }),
		WithBackoff([]time.Duration{0, 0, 0}),
	)
	require.NoError(t, err)
	return s
}

func protocolResult(p report.Protocol, suites ...report.CipherSuite) probeFunc {
	return func(int) (ProbeResult, error) {
		return &ProtocolProbeResult{Protocol: p, Accepted: suites}, nil
	}
}

func failing(cmd Command) probeFunc {
	return func(int) (ProbeResult, error) {
		return nil, &ProbeExecutionError{Command: cmd, Err: errors.New("connection reset")}
	}
}

func testChain(t *testing.T) analysis.Chain {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return analysis.Chain{
		Served: []analysis.Certificate{{
			SubjectCommonName: "www.example.gov",
			IssuerCommonName:  "Example Issuing CA",
			PublicKey:         &key.PublicKey,
			SignatureHash:     "sha256",
			NotBefore:         fixedNow.AddDate(0, -1, 0),
			NotAfter:          fixedNow.AddDate(0, 11, 0),
			PolicyOIDs:        []string{"2.23.140.1.2.1"},
		}},
	}
}

func healthyProbes(t *testing.T) map[Command]probeFunc {
	ecdhe := LookupCipherSuite(0xC02F).Suite()
	tripleDES := LookupCipherSuite(0x000A).Suite()
	chain := testChain(t)

	return map[Command]probeFunc{
		CommandTLSv10: protocolResult(report.TLSv10, tripleDES),
		CommandTLSv12: protocolResult(report.TLSv12, ecdhe, tripleDES),
		CommandCertificateInfo: func(int) (ProbeResult, error) {
			return &CertificateProbeResult{Chain: chain}, nil
		},
		CommandRenegotiation: func(int) (ProbeResult, error) {
			return &RenegotiationProbeResult{RenegotiationResult: analysis.RenegotiationResult{
				AcceptsClientRenegotiation:  false,
				SupportsSecureRenegotiation: true,
			}}, nil
		},
	}
}

func TestScanAggregatesResults(t *testing.T) {
	for _, serial := range []bool{true, false} {
		t.Run(config.ScanConfig{Serial: serial}.Mode().String(), func(t *testing.T) {
			engine := newFakeEngine(healthyProbes(t))
			s := newTestScanner(t, scanConfig(serial), engine, &fakeConnector{})

			rep := s.Scan(context.Background(), Target{Hostname: "www.example.gov", Port: 443})
			require.NotNil(t, rep)

			assert.Empty(t, rep.Errors)
			assert.Equal(t, "192.0.2.10", rep.IP)
			assert.Equal(t, fixedNow, rep.ScannedAt)
			assert.Len(t, rep.Protocols, 6)
			assert.Equal(t, report.Bool(true), rep.Protocols.Supported(report.TLSv12))
			assert.Equal(t, report.Bool(false), rep.Protocols.Supported(report.SSLv3))
			assert.NotNil(t, rep.Protocols[report.SSLv3].Accepted)

			assert.Equal(t, []string{
				"TLS_RSA_WITH_3DES_EDE_CBC_SHA",
				"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
				"TLS_RSA_WITH_3DES_EDE_CBC_SHA",
			}, rep.Ciphers)
			assert.Equal(t, report.Bool(true), rep.Config.AnyDHE)
			assert.Equal(t, report.Bool(false), rep.Config.AllDHE)
			assert.Equal(t, report.Bool(true), rep.Config.Any3DES)
			assert.Equal(t, report.Bool(false), rep.Config.InsecureRenegotiation)

			require.NotNil(t, rep.Certs)
			assert.Equal(t, "ECDSA", rep.Certs.KeyType)
			assert.Equal(t, "sha256", rep.Certs.LeafSignature)
			assert.Equal(t, report.Bool(false), rep.Certs.ExpiredCertificate)
			assert.Equal(t, "Example Issuing CA", rep.Certs.ServedIssuer)

			for _, cmd := range append(ProtocolCommands, CommandCertificateInfo, CommandRenegotiation) {
				assert.Equal(t, 1, engine.callCount(cmd), cmd.String())
			}
		})
	}
}

func TestSerialAbortsAfterTwoFailures(t *testing.T) {
	engine := newFakeEngine(map[Command]probeFunc{
		CommandSSLv2:  failing(CommandSSLv2),
		CommandSSLv3:  failing(CommandSSLv3),
		CommandTLSv12: protocolResult(report.TLSv12, LookupCipherSuite(0xC02F).Suite()),
	})
	s := newTestScanner(t, scanConfig(true), engine, &fakeConnector{})

	rep := s.Scan(context.Background(), Target{Hostname: "example.gov", Port: 443})

	assert.Equal(t, []string{
		"Scan command failed: ssl_2_0_cipher_suites",
		"Scan command failed: ssl_3_0_cipher_suites",
	}, rep.Errors)
	for _, cmd := range []Command{CommandTLSv10, CommandTLSv12, CommandCertificateInfo, CommandRenegotiation} {
		assert.Zero(t, engine.callCount(cmd), cmd.String())
	}
	assert.Empty(t, rep.Protocols)
	assert.Nil(t, rep.Certs)
	assert.Nil(t, rep.Config.AnyDHE)
	assert.Nil(t, rep.Config.InsecureRenegotiation)
}

func TestSerialRetriesTimeouts(t *testing.T) {
	engine := newFakeEngine(map[Command]probeFunc{
		CommandTLSv12: func(call int) (ProbeResult, error) {
			if call == 0 {
				return nil, &ProbeTimeoutError{Command: CommandTLSv12, Err: os.ErrDeadlineExceeded}
			}
			return &ProtocolProbeResult{Protocol: report.TLSv12, Accepted: []report.CipherSuite{LookupCipherSuite(0xC02F).Suite()}}, nil
		},
		CommandTLSv13: failing(CommandTLSv13),
	})
	s := newTestScanner(t, scanConfig(true), engine, &fakeConnector{})

	rep := s.Scan(context.Background(), Target{Hostname: "example.gov", Port: 443})

	assert.Equal(t, 2, engine.callCount(CommandTLSv12))
	assert.Equal(t, 1, engine.callCount(CommandTLSv13), "non-timeout errors are not retried")
	assert.Equal(t, []string{"Scan command failed: tls_1_3_cipher_suites"}, rep.Errors)
	assert.Equal(t, report.Bool(true), rep.Protocols.Supported(report.TLSv12))
	assert.Nil(t, rep.Protocols.Supported(report.TLSv13))
	assert.Equal(t, 1, engine.callCount(CommandCertificateInfo))
}

func TestSerialRenegotiationIsNotRetried(t *testing.T) {
	engine := newFakeEngine(map[Command]probeFunc{
		CommandRenegotiation: func(int) (ProbeResult, error) {
			return nil, &ProbeTimeoutError{Command: CommandRenegotiation, Err: os.ErrDeadlineExceeded}
		},
		CommandCertificateInfo: func(int) (ProbeResult, error) {
			return &CertificateProbeResult{Chain: testChain(t)}, nil
		},
	})
	s := newTestScanner(t, scanConfig(true), engine, &fakeConnector{})

	rep := s.Scan(context.Background(), Target{Hostname: "example.gov", Port: 443})

	assert.Equal(t, 1, engine.callCount(CommandRenegotiation))
	assert.Equal(t, []string{"Scan command failed: session_renegotiation"}, rep.Errors)
	assert.Nil(t, rep.Config.InsecureRenegotiation)
	assert.NotNil(t, rep.Certs)
}

func TestBatchKeepsGoingAfterFailures(t *testing.T) {
	engine := newFakeEngine(map[Command]probeFunc{
		CommandSSLv2:           failing(CommandSSLv2),
		CommandTLSv11:          failing(CommandTLSv11),
		CommandTLSv12:          protocolResult(report.TLSv12, LookupCipherSuite(0x1301).Suite()),
		CommandCertificateInfo: failing(CommandCertificateInfo),
		CommandRenegotiation: func(int) (ProbeResult, error) {
			return &RenegotiationProbeResult{RenegotiationResult: analysis.RenegotiationResult{AcceptsClientRenegotiation: true}}, nil
		},
	})
	s := newTestScanner(t, scanConfig(false), engine, &fakeConnector{})
	require.Equal(t, config.ModeBatch, s.Mode())

	rep := s.Scan(context.Background(), Target{Hostname: "example.gov", Port: 443})

	assert.Equal(t, []string{
		"Scan command failed: ssl_2_0_cipher_suites",
		"Scan command failed: tls_1_1_cipher_suites",
		"Scan command failed: certificate_info",
	}, rep.Errors)
	for _, cmd := range append(ProtocolCommands, CommandCertificateInfo, CommandRenegotiation) {
		assert.Equal(t, 1, engine.callCount(cmd), cmd.String())
	}
	assert.Len(t, rep.Protocols, 4)
	assert.Nil(t, rep.Protocols.Supported(report.SSLv2))
	assert.Equal(t, []string{"TLS_AES_128_GCM_SHA256"}, rep.Ciphers)
	assert.Nil(t, rep.Certs)
	assert.Equal(t, report.Bool(true), rep.Config.InsecureRenegotiation)
}

func TestBatchRecoversProbePanics(t *testing.T) {
	engine := newFakeEngine(map[Command]probeFunc{
		CommandTLSv10: func(int) (ProbeResult, error) { panic("bad record") },
	})
	s := newTestScanner(t, scanConfig(false), engine, &fakeConnector{})

	rep := s.Scan(context.Background(), Target{Hostname: "example.gov", Port: 443})
	assert.Equal(t, []string{"Scan command failed: tls_1_0_cipher_suites"}, rep.Errors)
}

func TestSerialRecoversProbePanics(t *testing.T) {
	probes := healthyProbes(t)
	probes[CommandTLSv13] = func(int) (ProbeResult, error) { panic("bad record") }
	engine := newFakeEngine(probes)
	s := newTestScanner(t, scanConfig(true), engine, &fakeConnector{})

	rep := s.Scan(context.Background(), Target{Hostname: "www.example.gov", Port: 443})
	assert.Equal(t, []string{"Scan command failed: tls_1_3_cipher_suites"}, rep.Errors)
	assert.Equal(t, 1, engine.callCount(CommandTLSv13), "a panic is not retried")
	assert.Len(t, rep.Protocols, 5)
	assert.Equal(t, report.Bool(true), rep.Protocols.Supported(report.TLSv12))
	assert.NotNil(t, rep.Certs)
	assert.Equal(t, report.Bool(false), rep.Config.InsecureRenegotiation)
}

func TestScanConnectivityFailure(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
	}{
		{
			name:      "unreachable is retried",
			err:       &ConnectivityError{Addr: "192.0.2.7:443", Err: errors.New("connection refused")},
			wantCalls: 3,
		},
		{
			name:      "DNS failure is not retried",
			err:       &DNSResolutionError{Host: "example.gov", Err: errors.New("NXDOMAIN")},
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connector := &fakeConnector{err: tt.err}
			engine := newFakeEngine(nil)
			s := newTestScanner(t, scanConfig(true), engine, connector)

			rep := s.Scan(context.Background(), Target{Hostname: "example.gov", Port: 443})
			require.NotNil(t, rep)

			assert.Equal(t, tt.wantCalls, connector.calls)
			assert.Equal(t, []string{"Connectivity not established."}, rep.Errors)
			assert.Equal(t, "192.0.2.7", rep.IP)
			assert.Empty(t, rep.Protocols)
			assert.Nil(t, rep.Certs)
			assert.Zero(t, engine.callCount(CommandTLSv12))
			assert.Len(t, report.ToRow(rep), len(report.Headers))
		})
	}
}

type panicConnector struct{}

func (panicConnector) Connect(context.Context, Target) (*ServerInfo, error) {
	panic("unexpected")
}

func TestScanRecoversPanics(t *testing.T) {
	var notified []error
	s, err := New(scanConfig(true), logger.ForTest(t),
		WithEngine(newFakeEngine(nil)),
		WithConnector(panicConnector{}),
		WithResolver(staticResolver{ip: "192.0.2.7"}),
		WithNotifier(func(err error) { notified = append(notified, err) }),
	)
	require.NoError(t, err)

	rep := s.Scan(context.Background(), Target{Hostname: "example.gov", Port: 443})
	require.NotNil(t, rep)
	assert.Equal(t, []string{"No valid target for scanning, couldn't connect."}, rep.Errors)
	assert.Equal(t, "example.gov", rep.Hostname)
	require.Len(t, notified, 1)
	assert.Contains(t, notified[0].Error(), "example.gov:443")
}

func TestScanOptions(t *testing.T) {
	t.Run("certificates disabled", func(t *testing.T) {
		cfg := scanConfig(true)
		cfg.Certs = false
		cfg.Reneg = false
		engine := newFakeEngine(nil)
		s := newTestScanner(t, cfg, engine, &fakeConnector{})

		rep := s.Scan(context.Background(), Target{Hostname: "example.gov", Port: 443})
		assert.Empty(t, rep.Errors)
		assert.Zero(t, engine.callCount(CommandCertificateInfo))
		assert.Zero(t, engine.callCount(CommandRenegotiation))
		assert.Nil(t, rep.Certs)
		assert.Nil(t, rep.Config.AnyRC4, "no accepted suites leaves every flag unset")
	})

	t.Run("lambda forces serial", func(t *testing.T) {
		cfg := scanConfig(false)
		cfg.Environment = "lambda"
		s := newTestScanner(t, cfg, newFakeEngine(nil), &fakeConnector{})
		assert.Equal(t, config.ModeSerial, s.Mode())
	})
}

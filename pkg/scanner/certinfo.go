package scanner

import (
	"context"
	stdtls "crypto/tls"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	ztls "github.com/zmap/zcrypto/tls"
	zx509 "github.com/zmap/zcrypto/x509"

	"github.com/jphoke/tlsinspect/pkg/analysis"
	"github.com/jphoke/tlsinspect/pkg/logger"
)

// Common system certificate locations
var systemCertPaths = []string{
	"/etc/ssl/certs/ca-certificates.crt",     // Debian/Ubuntu/Alpine
	"/etc/pki/tls/certs/ca-bundle.crt",       // RedHat/CentOS/Fedora
	"/etc/ssl/ca-bundle.pem",                 // OpenSUSE
	"/etc/pki/tls/cert.pem",                  // Old RedHat
	"/usr/local/share/certs/ca-root-nss.crt", // FreeBSD
	"/etc/ssl/cert.pem",                      // OpenBSD
}

var systemCertDirs = []string{
	"/etc/ssl/certs",
	"/usr/local/share/certs",
	"/etc/pki/tls/certs",
}

var caFilePatterns = []string{"*.crt", "*.pem", "*.cer", "*.ca"}

// loadSystemCAs builds a pool from the first readable system bundle, falling
// back to the individual certificates in the usual directories.
func loadSystemCAs() *zx509.CertPool {
	caPool := zx509.NewCertPool()

	for _, path := range systemCertPaths {
		// #nosec G304 - well-known system bundle locations
		if certData, err := os.ReadFile(path); err == nil {
			if caPool.AppendCertsFromPEM(certData) {
				return caPool
			}
		}
	}

	for _, dir := range systemCertDirs {
		loaded := false
		for _, pattern := range []string{"*.crt", "*.pem"} {
			files, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				continue
			}
			for _, file := range files {
				// #nosec G304 - files under standard system certificate directories
				if certData, err := os.ReadFile(file); err == nil && caPool.AppendCertsFromPEM(certData) {
					loaded = true
				}
			}
		}
		if loaded {
			break
		}
	}
	return caPool
}

// LoadTrustPool returns the system roots plus the certificates in caPath,
// which may be a PEM bundle or a directory of them.
func LoadTrustPool(caPath string, log *logger.Logger) (*zx509.CertPool, error) {
	caPool := loadSystemCAs()
	if caPath == "" {
		return caPool, nil
	}

	info, err := os.Stat(caPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA path: %w", err)
	}

	files := []string{caPath}
	if info.IsDir() {
		files = nil
		for _, pattern := range caFilePatterns {
			matches, err := filepath.Glob(filepath.Join(caPath, pattern))
			if err != nil {
				log.Warnw("Error reading CA files", "pattern", pattern, "error", err)
				continue
			}
			files = append(files, matches...)
		}
	}

	for _, file := range files {
		// #nosec G304 - user supplied CA bundle
		certData, err := os.ReadFile(file)
		if err != nil {
			log.Warnw("Could not read CA file", "file", file, "error", err)
			continue
		}
		if caPool.AppendCertsFromPEM(certData) {
			log.Debugw("Loaded custom CA", "file", file)
		} else {
			log.Warnw("Failed to parse CA certificate", "file", file)
		}
	}
	return caPool, nil
}

// fetchPeerCertificates completes a handshake and returns the served chain.
// zcrypto is tried first because it still negotiates legacy parameters; the
// standard library covers TLS 1.3-only servers.
func (e *probeEngine) fetchPeerCertificates(ctx context.Context, info *ServerInfo) ([]*zx509.Certificate, error) {
	certs, zErr := e.fetchWithZCrypto(ctx, info)
	if zErr == nil {
		return certs, nil
	}
	e.log.Debugw("zcrypto handshake failed, retrying with crypto/tls", "error", zErr)

	certs, err := e.fetchWithStdlib(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("certificate handshake failed: %w", err)
	}
	return certs, nil
}

func (e *probeEngine) fetchWithZCrypto(ctx context.Context, info *ServerInfo) ([]*zx509.Certificate, error) {
	conn, err := e.dialer.dial(ctx, info.Addr, info.Target)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close()
	}()
	_ = conn.SetDeadline(time.Now().Add(e.timeout))

	tlsConn := ztls.Client(conn, &ztls.Config{
		InsecureSkipVerify: true,
		ServerName:         serverName(info.Target.Hostname),
		MinVersion:         ztls.VersionTLS10,
		MaxVersion:         ztls.VersionTLS12,
	})
	if err := tlsConn.Handshake(); err != nil {
		return nil, err
	}

	state := tlsConn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, fmt.Errorf("no certificates found")
	}
	return state.PeerCertificates, nil
}

func (e *probeEngine) fetchWithStdlib(ctx context.Context, info *ServerInfo) ([]*zx509.Certificate, error) {
	conn, err := e.dialer.dial(ctx, info.Addr, info.Target)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close()
	}()

	hsCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	tlsConn := stdtls.Client(conn, &stdtls.Config{
		InsecureSkipVerify: true, // #nosec G402 - the chain is verified separately
		ServerName:         serverName(info.Target.Hostname),
	})
	if err := tlsConn.HandshakeContext(hsCtx); err != nil {
		return nil, err
	}

	raw := tlsConn.ConnectionState().PeerCertificates
	if len(raw) == 0 {
		return nil, fmt.Errorf("no certificates found")
	}
	certs := make([]*zx509.Certificate, 0, len(raw))
	for _, c := range raw {
		parsed, err := zx509.ParseCertificate(c.Raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		certs = append(certs, parsed)
	}
	return certs, nil
}

// buildChain verifies the served chain against the trust pool. Verified is
// left nil when no valid path exists.
func (e *probeEngine) buildChain(served []*zx509.Certificate) analysis.Chain {
	chain := analysis.Chain{Served: convertCertificates(served)}

	intermediates := zx509.NewCertPool()
	for _, c := range served[1:] {
		intermediates.AddCert(c)
	}

	current, expired, never, err := served[0].Verify(zx509.VerifyOptions{
		Roots:         e.roots,
		Intermediates: intermediates,
	})
	if len(current) > 0 {
		chain.Verified = convertCertificates(current[0])
		return chain
	}
	e.log.Debugw("Certificate chain not verified",
		"expired_chains", len(expired),
		"never_valid_chains", len(never),
		"error", err)
	return chain
}

func convertCertificates(certs []*zx509.Certificate) []analysis.Certificate {
	out := make([]analysis.Certificate, 0, len(certs))
	for _, c := range certs {
		out = append(out, convertCertificate(c))
	}
	return out
}

func convertCertificate(c *zx509.Certificate) analysis.Certificate {
	cert := analysis.Certificate{
		SubjectCommonName:        c.Subject.CommonName,
		SubjectOrganization:      c.Subject.Organization,
		IssuerCommonName:         c.Issuer.CommonName,
		IssuerOrganizationalUnit: c.Issuer.OrganizationalUnit,
		PublicKey:                c.PublicKey,
		SignatureHash:            signatureHash(c.SignatureAlgorithm),
		NotBefore:                c.NotBefore,
		NotAfter:                 c.NotAfter,
	}

	// zcrypto wraps ECDSA keys in AugmentedECDSA
	if aug, ok := c.PublicKey.(*zx509.AugmentedECDSA); ok && aug.Pub != nil {
		cert.PublicKey = aug.Pub
	}

	for _, oid := range c.PolicyIdentifiers {
		cert.PolicyOIDs = append(cert.PolicyOIDs, oid.String())
	}
	return cert
}

// signatureHash extracts the lower case digest name ("sha256", "sha1",
// "md5") from algorithm names such as "SHA256-RSA" or "ECDSA-SHA384".
func signatureHash(alg zx509.SignatureAlgorithm) string {
	for _, token := range strings.Split(alg.String(), "-") {
		lower := strings.ToLower(token)
		if strings.HasPrefix(lower, "sha") || strings.HasPrefix(lower, "md") {
			return lower
		}
	}
	return ""
}

// serverName is the SNI value for host; IP literals send none.
func serverName(host string) string {
	if net.ParseIP(host) != nil {
		return ""
	}
	return host
}

// Package report holds the per-target scan report and its tabular projection.
package report

import (
	"fmt"
	"strings"
	"time"
)

// Protocol identifies one of the six probed protocol versions.
type Protocol int

const (
	SSLv2 Protocol = iota
	SSLv3
	TLSv10
	TLSv11
	TLSv12
	TLSv13
)

// Protocols lists every probed version, oldest first.
var Protocols = []Protocol{SSLv2, SSLv3, TLSv10, TLSv11, TLSv12, TLSv13}

var protocolNames = map[Protocol]string{
	SSLv2:  "sslv2",
	SSLv3:  "sslv3",
	TLSv10: "tlsv1.0",
	TLSv11: "tlsv1.1",
	TLSv12: "tlsv1.2",
	TLSv13: "tlsv1.3",
}

func (p Protocol) String() string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Protocol(%d)", int(p))
}

func (p Protocol) MarshalText() ([]byte, error) {
	if _, ok := protocolNames[p]; !ok {
		return nil, fmt.Errorf("unknown protocol %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Protocol) UnmarshalText(text []byte) error {
	for proto, name := range protocolNames {
		if name == string(text) {
			*p = proto
			return nil
		}
	}
	return fmt.Errorf("unknown protocol %q", string(text))
}

// CipherSuite is one accepted cipher suite.
type CipherSuite struct {
	Name        string `json:"name"`
	OpenSSLName string `json:"openssl_name"`
	KeySize     int    `json:"key_size,omitempty"` // bits, 0 when unknown
}

// ProtocolSupport is the outcome of one protocol probe.
type ProtocolSupport struct {
	Supported bool          `json:"supported"`
	Accepted  []CipherSuite `json:"accepted_cipher_suites"`
}

// ProtocolTable maps each probed protocol to its outcome. A protocol whose
// probe did not run or failed has no entry.
type ProtocolTable map[Protocol]ProtocolSupport

// Supported reports the supported flag for p, or nil when p is absent.
func (t ProtocolTable) Supported(p Protocol) *bool {
	s, ok := t[p]
	if !ok {
		return nil
	}
	return Bool(s.Supported)
}

// CipherFlags are derived from the union of accepted suites. Every flag is
// nil when no suite was accepted.
type CipherFlags struct {
	AnyDHE             *bool `json:"any_dhe,omitempty"`
	AllDHE             *bool `json:"all_dhe,omitempty"`
	AnyRC4             *bool `json:"any_rc4,omitempty"`
	AllRC4             *bool `json:"all_rc4,omitempty"`
	Any3DES            *bool `json:"any_3des,omitempty"`
	AnyExport          *bool `json:"any_export,omitempty"`
	AnyNULL            *bool `json:"any_NULL,omitempty"`
	AnyAnon            *bool `json:"any_anon,omitempty"`
	AnyMD5             *bool `json:"any_MD5,omitempty"`
	AnyLessThan128Bits *bool `json:"any_less_than_128_bits,omitempty"`
}

// ConfigFlags is the "config" section of a report.
type ConfigFlags struct {
	CipherFlags
	InsecureRenegotiation *bool `json:"insecure_renegotiation,omitempty"`
}

// EVStatus describes the Extended Validation policy OIDs on the leaf.
type EVStatus struct {
	Asserted        bool     `json:"asserted"`
	Trusted         bool     `json:"trusted"`
	TrustedOIDs     []string `json:"trusted_oids"`
	TrustedBrowsers []string `json:"trusted_browsers"`
}

// Certificates is the certificate section of a report. Fields that could not
// be extracted stay nil or empty.
type Certificates struct {
	KeyType                 string     `json:"key_type,omitempty"`
	KeyLength               *int       `json:"key_length,omitempty"`
	CertificateLessThan2048 *bool      `json:"certificate_less_than_2048,omitempty"`
	LeafSignature           string     `json:"leaf_signature,omitempty"`
	MD5SignedCertificate    *bool      `json:"md5_signed_certificate,omitempty"`
	SHA1SignedCertificate   *bool      `json:"sha1_signed_certificate,omitempty"`
	NotBefore               *time.Time `json:"not_before,omitempty"`
	NotAfter                *time.Time `json:"not_after,omitempty"`
	ExpiredCertificate      *bool      `json:"expired_certificate,omitempty"`
	AnySHA1Served           *bool      `json:"any_sha1_served,omitempty"`
	AnySHA1Constructed      *bool      `json:"any_sha1_constructed,omitempty"`
	ServedIssuer            string     `json:"served_issuer,omitempty"`
	ConstructedIssuer       string     `json:"constructed_issuer,omitempty"`
	EV                      *EVStatus  `json:"ev,omitempty"`
	IsSymantecCert          *bool      `json:"is_symantec_cert,omitempty"`
	SymantecDistrustDate    *string    `json:"symantec_distrust_date"`
}

// Report is the single result produced for one scanned host.
type Report struct {
	Hostname  string        `json:"hostname"`
	Port      int           `json:"port"`
	IP        string        `json:"ip"`
	StartTLS  bool          `json:"starttls_smtp"`
	Protocols ProtocolTable `json:"protocols"`
	Config    ConfigFlags   `json:"config"`
	Certs     *Certificates `json:"certs,omitempty"`
	Ciphers   []string      `json:"ciphers,omitempty"`
	Errors    []string      `json:"errors"`
	ScannedAt time.Time     `json:"scanned_at"`
}

// New returns an empty report for a host.
func New(hostname string, port int, starttls bool) *Report {
	return &Report{
		Hostname:  hostname,
		Port:      port,
		StartTLS:  starttls,
		Protocols: ProtocolTable{},
		Errors:    []string{},
	}
}

// AddError appends a human readable error.
func (r *Report) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// ErrorText joins the errors the way the row projection prints them.
func (r *Report) ErrorText() string {
	return strings.Join(r.Errors, " ")
}

// Key returns the "host:port" cache key of the report.
func (r *Report) Key() string {
	return fmt.Sprintf("%s:%d", r.Hostname, r.Port)
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

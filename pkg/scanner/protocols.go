package scanner

import (
	"fmt"

	"github.com/jphoke/tlsinspect/pkg/report"
)

// Command is one unit of probing work against a reachable target.
type Command int

const (
	CommandSSLv2 Command = iota
	CommandSSLv3
	CommandTLSv10
	CommandTLSv11
	CommandTLSv12
	CommandTLSv13
	CommandCertificateInfo
	CommandRenegotiation
)

var commandNames = map[Command]string{
	CommandSSLv2:           "ssl_2_0_cipher_suites",
	CommandSSLv3:           "ssl_3_0_cipher_suites",
	CommandTLSv10:          "tls_1_0_cipher_suites",
	CommandTLSv11:          "tls_1_1_cipher_suites",
	CommandTLSv12:          "tls_1_2_cipher_suites",
	CommandTLSv13:          "tls_1_3_cipher_suites",
	CommandCertificateInfo: "certificate_info",
	CommandRenegotiation:   "session_renegotiation",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ProtocolCommands are the cipher suite probes, oldest protocol first.
var ProtocolCommands = []Command{
	CommandSSLv2,
	CommandSSLv3,
	CommandTLSv10,
	CommandTLSv11,
	CommandTLSv12,
	CommandTLSv13,
}

var commandProtocols = map[Command]struct {
	protocol report.Protocol
	version  uint16
}{
	CommandSSLv2:  {report.SSLv2, versionSSL20},
	CommandSSLv3:  {report.SSLv3, versionSSL30},
	CommandTLSv10: {report.TLSv10, versionTLS10},
	CommandTLSv11: {report.TLSv11, versionTLS11},
	CommandTLSv12: {report.TLSv12, versionTLS12},
	CommandTLSv13: {report.TLSv13, versionTLS13},
}

// Protocol returns the protocol a cipher suite command probes.
func (c Command) Protocol() (report.Protocol, bool) {
	p, ok := commandProtocols[c]
	return p.protocol, ok
}

func (c Command) wireVersion() uint16 {
	return commandProtocols[c].version
}

// ConnectionType is how a client reaches TLS on a port.
type ConnectionType int

const (
	ConnectionTLS ConnectionType = iota
	ConnectionSTARTTLS
)

// ServiceInfo describes the service expected on a well-known port.
type ServiceInfo struct {
	Name         string
	Connection   ConnectionType
	STARTTLSType string // "smtp", "imap" or "pop3"
}

var portServiceMap = map[int]ServiceInfo{
	25:  {Name: "SMTP", Connection: ConnectionSTARTTLS, STARTTLSType: "smtp"},
	587: {Name: "SMTP Submission", Connection: ConnectionSTARTTLS, STARTTLSType: "smtp"},
	465: {Name: "SMTPS", Connection: ConnectionTLS},

	143: {Name: "IMAP", Connection: ConnectionSTARTTLS, STARTTLSType: "imap"},
	993: {Name: "IMAPS", Connection: ConnectionTLS},

	110: {Name: "POP3", Connection: ConnectionSTARTTLS, STARTTLSType: "pop3"},
	995: {Name: "POP3S", Connection: ConnectionTLS},

	443:  {Name: "HTTPS", Connection: ConnectionTLS},
	8443: {Name: "HTTPS-Alt", Connection: ConnectionTLS},
}

// DetectService looks up the service on a well-known port. Unknown ports are
// assumed to speak TLS directly.
func DetectService(port int) ServiceInfo {
	if service, ok := portServiceMap[port]; ok {
		return service
	}
	return ServiceInfo{Name: "Unknown", Connection: ConnectionTLS}
}

// starttlsProtocol picks the plaintext protocol to upgrade for a STARTTLS
// target. Targets only say "starttls", so anything not on an IMAP or POP3
// port is treated as SMTP.
func starttlsProtocol(port int) string {
	if service := DetectService(port); service.STARTTLSType != "" {
		return service.STARTTLSType
	}
	return "smtp"
}

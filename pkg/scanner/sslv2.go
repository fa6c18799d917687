package scanner

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/crypto/cryptobyte"

	"github.com/jphoke/tlsinspect/pkg/report"
)

const (
	sslv2MsgError       uint8 = 0
	sslv2MsgClientHello uint8 = 1
	sslv2MsgServerHello uint8 = 4

	sslv2ChallengeLength = 16
)

type sslv2CipherKind struct {
	spec        uint32
	name        string
	opensslName string
	keySize     int
}

var sslv2CipherKinds = []sslv2CipherKind{
	{0x010080, "SSL_CK_RC4_128_WITH_MD5", "RC4-MD5", 128},
	{0x020080, "SSL_CK_RC4_128_EXPORT40_WITH_MD5", "EXP-RC4-MD5", 40},
	{0x030080, "SSL_CK_RC2_128_CBC_WITH_MD5", "RC2-CBC-MD5", 128},
	{0x040080, "SSL_CK_RC2_128_CBC_EXPORT40_WITH_MD5", "EXP-RC2-CBC-MD5", 40},
	{0x050080, "SSL_CK_IDEA_128_CBC_WITH_MD5", "IDEA-CBC-MD5", 128},
	{0x060040, "SSL_CK_DES_64_CBC_WITH_MD5", "DES-CBC-MD5", 56},
	{0x0700C0, "SSL_CK_DES_192_EDE3_CBC_WITH_MD5", "DES-CBC3-MD5", 168},
}

func lookupSSLv2CipherKind(spec uint32) report.CipherSuite {
	for _, k := range sslv2CipherKinds {
		if k.spec == spec {
			return report.CipherSuite{Name: k.name, OpenSSLName: k.opensslName, KeySize: k.keySize}
		}
	}
	return report.CipherSuite{Name: fmt.Sprintf("UNKNOWN_SSL2_CIPHER_0x%06X", spec)}
}

// buildSSLv2ClientHello frames an SSLv2 CLIENT-HELLO offering every cipher
// kind, with a two byte record header.
func buildSSLv2ClientHello() ([]byte, error) {
	challenge := make([]byte, sslv2ChallengeLength)
	if _, err := rand.Read(challenge); err != nil {
		return nil, fmt.Errorf("failed to generate challenge: %w", err)
	}

	var body cryptobyte.Builder
	body.AddUint8(sslv2MsgClientHello)
	body.AddUint16(versionSSL20)
	body.AddUint16(uint16(len(sslv2CipherKinds) * 3))
	body.AddUint16(0) // session id length
	body.AddUint16(sslv2ChallengeLength)
	for _, k := range sslv2CipherKinds {
		body.AddUint24(k.spec)
	}
	body.AddBytes(challenge)

	msg, err := body.Bytes()
	if err != nil {
		return nil, err
	}

	var b cryptobyte.Builder
	b.AddUint16(0x8000 | uint16(len(msg)))
	b.AddBytes(msg)
	return b.Bytes()
}

// readSSLv2ServerHello returns the cipher specs the server listed. Servers
// that answer with a TLS record or an SSLv2 ERROR refuse the protocol.
func readSSLv2ServerHello(r io.Reader) ([]uint32, error) {
	first := make([]byte, 2)
	if _, err := io.ReadFull(r, first); err != nil {
		return nil, err
	}
	if first[0] == recordTypeAlert || first[0] == recordTypeHandshake {
		return nil, errHandshakeRejected
	}

	var length int
	if first[0]&0x80 != 0 {
		length = int(first[0]&0x7f)<<8 | int(first[1])
	} else {
		// three byte header: the third byte is the padding length
		padding := make([]byte, 1)
		if _, err := io.ReadFull(r, padding); err != nil {
			return nil, err
		}
		length = int(first[0]&0x3f)<<8 | int(first[1])
	}

	msg := make([]byte, length)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, err
	}

	s := cryptobyte.String(msg)
	var msgType uint8
	if !s.ReadUint8(&msgType) {
		return nil, errors.New("empty SSLv2 message")
	}
	switch msgType {
	case sslv2MsgError:
		return nil, errHandshakeRejected
	case sslv2MsgServerHello:
	default:
		return nil, fmt.Errorf("unexpected SSLv2 message type %d", msgType)
	}

	var (
		sessionIDHit, certType       uint8
		version                      uint16
		certLen, specsLen, connIDLen uint16
		cert, specs, connectionID    []byte
	)
	if !s.ReadUint8(&sessionIDHit) ||
		!s.ReadUint8(&certType) ||
		!s.ReadUint16(&version) ||
		!s.ReadUint16(&certLen) ||
		!s.ReadUint16(&specsLen) ||
		!s.ReadUint16(&connIDLen) ||
		!s.ReadBytes(&cert, int(certLen)) ||
		!s.ReadBytes(&specs, int(specsLen)) ||
		!s.ReadBytes(&connectionID, int(connIDLen)) {
		return nil, errors.New("malformed SSLv2 SERVER-HELLO")
	}
	if len(specs)%3 != 0 {
		return nil, fmt.Errorf("malformed SSLv2 cipher specs length %d", len(specs))
	}

	list := cryptobyte.String(specs)
	var out []uint32
	for !list.Empty() {
		var spec uint32
		list.ReadUint24(&spec)
		out = append(out, spec)
	}
	return out, nil
}

// exchangeSSLv2Hello sends a CLIENT-HELLO and collects the accepted cipher
// kinds. A refusal yields an empty list and no error.
func exchangeSSLv2Hello(conn net.Conn, timeout time.Duration) ([]report.CipherSuite, error) {
	hello, err := buildSSLv2ClientHello()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}
	if _, err := conn.Write(hello); err != nil {
		return nil, fmt.Errorf("failed to send CLIENT-HELLO: %w", err)
	}

	specs, err := readSSLv2ServerHello(conn)
	if err != nil {
		// closed connections, TLS alerts and garbage all mean no SSLv2
		return nil, nil
	}

	accepted := make([]report.CipherSuite, 0, len(specs))
	for _, spec := range specs {
		accepted = append(accepted, lookupSSLv2CipherKind(spec))
	}
	return accepted, nil
}

package scanner

import (
	"bytes"
	"crypto/ecdh"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/crypto/cryptobyte"
)

const (
	versionSSL20 uint16 = 0x0002
	versionSSL30 uint16 = 0x0300
	versionTLS10 uint16 = 0x0301
	versionTLS11 uint16 = 0x0302
	versionTLS12 uint16 = 0x0303
	versionTLS13 uint16 = 0x0304
)

const (
	recordTypeAlert     uint8 = 0x15
	recordTypeHandshake uint8 = 0x16

	handshakeTypeClientHello uint8 = 0x01
	handshakeTypeServerHello uint8 = 0x02

	maxRecordLength    = 16384 + 2048
	maxHandshakeLength = 1 << 16
)

const (
	extServerName          uint16 = 0x0000
	extSupportedGroups     uint16 = 0x000a
	extECPointFormats      uint16 = 0x000b
	extSignatureAlgorithms uint16 = 0x000d
	extSupportedVersions   uint16 = 0x002b
	extKeyShare            uint16 = 0x0033
	extRenegotiationInfo   uint16 = 0xff01
)

const groupX25519 uint16 = 0x001d

var supportedGroups = []uint16{groupX25519, 0x0017, 0x0018, 0x0019}

var signatureAlgorithms = []uint16{
	0x0403, 0x0503, 0x0603, // ecdsa
	0x0804, 0x0805, 0x0806, // rsa_pss_rsae
	0x0401, 0x0501, 0x0601, // rsa_pkcs1
	0x0201, 0x0203, // sha1
}

// helloRetryRequestRandom is the fixed ServerHello.random of a TLS 1.3
// HelloRetryRequest.
var helloRetryRequestRandom = []byte{
	0xCF, 0x21, 0xAD, 0x74, 0xE5, 0x9A, 0x61, 0x11,
	0xBE, 0x1D, 0x8C, 0x02, 0x1E, 0x65, 0xB8, 0x91,
	0xC2, 0xA2, 0x11, 0x16, 0x7A, 0xBB, 0x8C, 0x5E,
	0x07, 0x9E, 0x09, 0xE2, 0xC8, 0xA8, 0x33, 0x9C,
}

var errMalformedServerHello = errors.New("malformed ServerHello")

// clientHello is a single raw ClientHello offered to a server.
type clientHello struct {
	version           uint16
	serverName        string
	cipherSuites      []uint16
	renegotiationInfo bool

	random    []byte
	sessionID []byte
	keyShare  []byte
}

func newClientHello(version uint16, host string, suites []uint16, renegotiationInfo bool) (*clientHello, error) {
	h := &clientHello{
		version:           version,
		cipherSuites:      suites,
		renegotiationInfo: renegotiationInfo,
		serverName:        serverName(host),
		random:            make([]byte, 32),
	}
	if _, err := rand.Read(h.random); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	if version == versionTLS13 {
		h.sessionID = make([]byte, 32)
		if _, err := rand.Read(h.sessionID); err != nil {
			return nil, fmt.Errorf("failed to generate session id: %w", err)
		}
		key, err := ecdh.X25519().GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate key share: %w", err)
		}
		h.keyShare = key.PublicKey().Bytes()
	}
	return h, nil
}

func (h *clientHello) recordVersion() uint16 {
	if h.version == versionSSL30 {
		return versionSSL30
	}
	return versionTLS10
}

func (h *clientHello) legacyVersion() uint16 {
	if h.version == versionTLS13 {
		return versionTLS12
	}
	return h.version
}

// marshal frames the hello as a single handshake record.
func (h *clientHello) marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint8(recordTypeHandshake)
	b.AddUint16(h.recordVersion())
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint8(handshakeTypeClientHello)
		b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16(h.legacyVersion())
			b.AddBytes(h.random)
			b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddBytes(h.sessionID)
			})
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				for _, suite := range h.cipherSuites {
					b.AddUint16(suite)
				}
			})
			b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint8(0) // null compression
			})
			if h.version == versionSSL30 {
				return
			}
			b.AddUint16LengthPrefixed(h.marshalExtensions)
		})
	})
	return b.Bytes()
}

func (h *clientHello) marshalExtensions(b *cryptobyte.Builder) {
	if h.serverName != "" {
		b.AddUint16(extServerName)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint8(0) // host_name
				b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
					b.AddBytes([]byte(h.serverName))
				})
			})
		})
	}

	b.AddUint16(extSupportedGroups)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			for _, g := range supportedGroups {
				b.AddUint16(g)
			}
		})
	})

	b.AddUint16(extECPointFormats)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint8(0) // uncompressed
		})
	})

	if h.version >= versionTLS12 {
		b.AddUint16(extSignatureAlgorithms)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				for _, alg := range signatureAlgorithms {
					b.AddUint16(alg)
				}
			})
		})
	}

	if h.renegotiationInfo {
		b.AddUint16(extRenegotiationInfo)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint8(0)
		})
	}

	if h.version == versionTLS13 {
		b.AddUint16(extSupportedVersions)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint16(versionTLS13)
			})
		})

		b.AddUint16(extKeyShare)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint16(groupX25519)
				b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
					b.AddBytes(h.keyShare)
				})
			})
		})
	}
}

// serverHello holds the fields of a ServerHello the probes care about.
type serverHello struct {
	// version is the negotiated version, taken from supported_versions
	// when the server sent it.
	version             uint16
	cipherSuite         uint16
	secureRenegotiation bool
	helloRetryRequest   bool
}

// readServerHello reads handshake records until a complete ServerHello has
// arrived. An alert means the server refused the hello.
func readServerHello(r io.Reader) (*serverHello, error) {
	var pending []byte
	header := make([]byte, 5)

	for {
		if _, err := io.ReadFull(r, header); err != nil {
			return nil, err
		}
		recordType := header[0]
		length := int(header[3])<<8 | int(header[4])
		if length > maxRecordLength {
			return nil, fmt.Errorf("%w: record too long (%d)", errMalformedServerHello, length)
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}

		switch recordType {
		case recordTypeAlert:
			return nil, errHandshakeRejected
		case recordTypeHandshake:
		default:
			return nil, fmt.Errorf("%w: unexpected record type 0x%02x", errMalformedServerHello, recordType)
		}

		pending = append(pending, payload...)
		for len(pending) >= 4 {
			msgType := pending[0]
			msgLen := int(pending[1])<<16 | int(pending[2])<<8 | int(pending[3])
			if msgLen > maxHandshakeLength {
				return nil, fmt.Errorf("%w: handshake message too long (%d)", errMalformedServerHello, msgLen)
			}
			if len(pending) < 4+msgLen {
				break
			}
			body := pending[4 : 4+msgLen]
			pending = pending[4+msgLen:]

			if msgType == handshakeTypeServerHello {
				return parseServerHello(body)
			}
		}
	}
}

func parseServerHello(body []byte) (*serverHello, error) {
	s := cryptobyte.String(body)

	var (
		sh          serverHello
		random      []byte
		sessionID   cryptobyte.String
		compression uint8
	)
	if !s.ReadUint16(&sh.version) ||
		!s.ReadBytes(&random, 32) ||
		!s.ReadUint8LengthPrefixed(&sessionID) ||
		!s.ReadUint16(&sh.cipherSuite) ||
		!s.ReadUint8(&compression) {
		return nil, errMalformedServerHello
	}
	sh.helloRetryRequest = bytes.Equal(random, helloRetryRequestRandom)

	if s.Empty() {
		return &sh, nil
	}

	var extensions cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&extensions) || !s.Empty() {
		return nil, errMalformedServerHello
	}
	for !extensions.Empty() {
		var (
			extType uint16
			extData cryptobyte.String
		)
		if !extensions.ReadUint16(&extType) || !extensions.ReadUint16LengthPrefixed(&extData) {
			return nil, errMalformedServerHello
		}
		switch extType {
		case extSupportedVersions:
			if !extData.ReadUint16(&sh.version) {
				return nil, errMalformedServerHello
			}
		case extRenegotiationInfo:
			sh.secureRenegotiation = true
		}
	}
	return &sh, nil
}

// exchangeHello writes the hello and waits for the reply. Anything other than
// a readable ServerHello after the hello went out is a refusal.
func exchangeHello(conn net.Conn, hello *clientHello, timeout time.Duration) (*serverHello, error) {
	raw, err := hello.marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to build ClientHello: %w", err)
	}

	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}
	if _, err := conn.Write(raw); err != nil {
		return nil, fmt.Errorf("failed to send ClientHello: %w", err)
	}

	sh, err := readServerHello(conn)
	if err != nil {
		if errors.Is(err, errHandshakeRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errHandshakeRejected, err)
	}
	return sh, nil
}

package scanner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"slices"
	"strings"
	"testing"

	"golang.org/x/crypto/cryptobyte"
)

// fakeServerConfig describes how a fakeTLSServer answers hellos.
type fakeServerConfig struct {
	// versions the server agrees to negotiate
	versions []uint16
	// suites in server preference order
	suites []uint16
	// sslv2Specs is the cipher kind list sent in an SSLv2 SERVER-HELLO
	sslv2Specs []uint32
	// secureRenegotiation echoes renegotiation_info when offered
	secureRenegotiation bool
	// smtp runs an SMTP STARTTLS exchange before the hello
	smtp bool
	// fragment splits the ServerHello across two records
	fragment bool
}

// fakeTLSServer answers a single ClientHello per connection, just far enough
// for the probes to read a ServerHello.
type fakeTLSServer struct {
	cfg fakeServerConfig
	ln  net.Listener
}

func startFakeTLSServer(t *testing.T, cfg fakeServerConfig) *fakeTLSServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &fakeTLSServer{cfg: cfg, ln: ln}
	go srv.serve()
	t.Cleanup(func() {
		_ = ln.Close()
	})
	return srv
}

func (s *fakeTLSServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeTLSServer) serverInfo(startTLS bool) *ServerInfo {
	return &ServerInfo{
		Target: Target{Hostname: "127.0.0.1", Port: s.port(), StartTLS: startTLS},
		IP:     "127.0.0.1",
		Addr:   s.ln.Addr().String(),
	}
}

func (s *fakeTLSServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handleConnection(conn)
	}
}

func (s *fakeTLSServer) handleConnection(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()
	r := bufio.NewReader(conn)

	if s.cfg.smtp && !smtpHandshake(conn, r) {
		return
	}

	first := make([]byte, 2)
	if _, err := io.ReadFull(r, first); err != nil {
		return
	}
	if first[0]&0x80 != 0 {
		s.handleSSLv2(conn, r, first)
		return
	}

	rest := make([]byte, 3)
	if _, err := io.ReadFull(r, rest); err != nil || first[0] != recordTypeHandshake {
		return
	}
	payload := make([]byte, binary.BigEndian.Uint16(rest[1:3]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return
	}

	hello, ok := parseFakeClientHello(payload)
	if !ok {
		return
	}

	version := hello.version
	if slices.Contains(hello.supportedVersions, versionTLS13) {
		version = versionTLS13
	}
	if !slices.Contains(s.cfg.versions, version) {
		_, _ = conn.Write(alertRecord(0x46)) // protocol_version
		return
	}

	suite, found := uint16(0), false
	for _, candidate := range s.cfg.suites {
		if slices.Contains(hello.suites, candidate) {
			suite, found = candidate, true
			break
		}
	}
	if !found {
		_, _ = conn.Write(alertRecord(0x28)) // handshake_failure
		return
	}

	_, _ = conn.Write(s.buildServerHello(version, suite, hello.renegotiationInfo))
}

func (s *fakeTLSServer) handleSSLv2(conn net.Conn, r io.Reader, header []byte) {
	length := int(header[0]&0x7f)<<8 | int(header[1])
	if _, err := io.ReadFull(r, make([]byte, length)); err != nil {
		return
	}
	if len(s.cfg.sslv2Specs) == 0 {
		return
	}
	_, _ = conn.Write(buildMockSSLv2ServerHello(s.cfg.sslv2Specs))
}

func smtpHandshake(conn net.Conn, r *bufio.Reader) bool {
	if _, err := io.WriteString(conn, "220-mail.example.gov ESMTP\r\n220 ready\r\n"); err != nil {
		return false
	}
	line, err := r.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, "EHLO") {
		return false
	}
	if _, err := io.WriteString(conn, "250-mail.example.gov\r\n250-PIPELINING\r\n250 STARTTLS\r\n"); err != nil {
		return false
	}
	line, err = r.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "STARTTLS" {
		return false
	}
	_, err = io.WriteString(conn, "220 2.0.0 Ready to start TLS\r\n")
	return err == nil
}

type fakeClientHello struct {
	version           uint16
	suites            []uint16
	supportedVersions []uint16
	renegotiationInfo bool
	serverName        string
}

func parseFakeClientHello(record []byte) (*fakeClientHello, bool) {
	s := cryptobyte.String(record)
	var (
		msgType     uint8
		body        cryptobyte.String
		random      []byte
		sessionID   cryptobyte.String
		suites      cryptobyte.String
		compression cryptobyte.String
	)
	h := &fakeClientHello{}
	if !s.ReadUint8(&msgType) || msgType != handshakeTypeClientHello ||
		!s.ReadUint24LengthPrefixed(&body) ||
		!body.ReadUint16(&h.version) ||
		!body.ReadBytes(&random, 32) ||
		!body.ReadUint8LengthPrefixed(&sessionID) ||
		!body.ReadUint16LengthPrefixed(&suites) ||
		!body.ReadUint8LengthPrefixed(&compression) {
		return nil, false
	}
	for !suites.Empty() {
		var id uint16
		if !suites.ReadUint16(&id) {
			return nil, false
		}
		h.suites = append(h.suites, id)
	}
	if body.Empty() {
		return h, true
	}

	var extensions cryptobyte.String
	if !body.ReadUint16LengthPrefixed(&extensions) {
		return nil, false
	}
	for !extensions.Empty() {
		var (
			extType uint16
			data    cryptobyte.String
		)
		if !extensions.ReadUint16(&extType) || !extensions.ReadUint16LengthPrefixed(&data) {
			return nil, false
		}
		switch extType {
		case extSupportedVersions:
			var list cryptobyte.String
			if !data.ReadUint8LengthPrefixed(&list) {
				return nil, false
			}
			for !list.Empty() {
				var v uint16
				list.ReadUint16(&v)
				h.supportedVersions = append(h.supportedVersions, v)
			}
		case extRenegotiationInfo:
			h.renegotiationInfo = true
		case extServerName:
			var list, name cryptobyte.String
			var nameType uint8
			if data.ReadUint16LengthPrefixed(&list) && list.ReadUint8(&nameType) && list.ReadUint16LengthPrefixed(&name) {
				h.serverName = string(name)
			}
		}
	}
	return h, true
}

func (s *fakeTLSServer) buildServerHello(version, suite uint16, clientOfferedReneg bool) []byte {
	var body cryptobyte.Builder
	legacy := version
	if version == versionTLS13 {
		legacy = versionTLS12
	}
	body.AddUint16(legacy)
	body.AddBytes(make([]byte, 32))
	body.AddUint8(0) // session id
	body.AddUint16(suite)
	body.AddUint8(0)
	body.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		if s.cfg.secureRenegotiation && clientOfferedReneg {
			b.AddUint16(extRenegotiationInfo)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint8(0)
			})
		}
		if version == versionTLS13 {
			b.AddUint16(extSupportedVersions)
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint16(versionTLS13)
			})
		}
	})
	return buildMockServerHello(body.BytesOrPanic(), s.cfg.fragment)
}

// buildMockServerHello wraps a ServerHello body in a handshake message and
// frames it as one record, or two when fragment is set.
func buildMockServerHello(body []byte, fragment bool) []byte {
	var msg bytes.Buffer
	msg.WriteByte(handshakeTypeServerHello)
	msg.Write([]byte{byte(len(body) >> 16), byte(len(body) >> 8), byte(len(body))})
	msg.Write(body)

	parts := [][]byte{msg.Bytes()}
	if fragment {
		split := msg.Len() / 2
		parts = [][]byte{msg.Bytes()[:split], msg.Bytes()[split:]}
	}

	var buf bytes.Buffer
	for _, part := range parts {
		buf.WriteByte(recordTypeHandshake)
		_ = binary.Write(&buf, binary.BigEndian, versionTLS12)
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(part)))
		buf.Write(part)
	}
	return buf.Bytes()
}

func buildMockSSLv2ServerHello(specs []uint32) []byte {
	var msg cryptobyte.Builder
	msg.AddUint8(sslv2MsgServerHello)
	msg.AddUint8(0) // session id hit
	msg.AddUint8(1) // x509 certificate
	msg.AddUint16(versionSSL20)
	msg.AddUint16(0)                      // certificate length
	msg.AddUint16(uint16(len(specs) * 3)) // cipher specs length
	msg.AddUint16(16)                     // connection id length
	for _, spec := range specs {
		msg.AddUint24(spec)
	}
	msg.AddBytes(make([]byte, 16))
	raw := msg.BytesOrPanic()

	out := []byte{0x80 | byte(len(raw)>>8), byte(len(raw))}
	return append(out, raw...)
}

func alertRecord(description byte) []byte {
	return []byte{recordTypeAlert, 0x03, 0x01, 0x00, 0x02, 0x02, description}
}

// staticResolver maps every host to the same address.
type staticResolver struct {
	ip  string
	err error
}

func (r staticResolver) LookupIP(_ context.Context, _ string) (string, error) {
	return r.ip, r.err
}

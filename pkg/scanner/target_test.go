package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jphoke/tlsinspect/pkg/report"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		input   string
		want    Target
		wantErr bool
	}{
		{"example.gov", Target{Hostname: "example.gov", Port: 443}, false},
		{" www.example.gov:8443 ", Target{Hostname: "www.example.gov", Port: 8443}, false},
		{"mx.example.gov:25", Target{Hostname: "mx.example.gov", Port: 25, StartTLS: true}, false},
		{"imap.example.gov:143", Target{Hostname: "imap.example.gov", Port: 143, StartTLS: true}, false},
		{"mail.example.gov:465", Target{Hostname: "mail.example.gov", Port: 465}, false},
		{"[2001:db8::1]:443", Target{Hostname: "2001:db8::1", Port: 443}, false},
		{"", Target{}, true},
		{"example.gov:0", Target{}, true},
		{"example.gov:https", Target{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetKey(t *testing.T) {
	target := Target{Hostname: "mx.example.gov", Port: 25, StartTLS: true}
	assert.Equal(t, "mx.example.gov:25", target.Key())
	assert.Equal(t, "mx.example.gov:25 (starttls)", target.String())
}

func TestCommands(t *testing.T) {
	assert.Equal(t, "ssl_2_0_cipher_suites", CommandSSLv2.String())
	assert.Equal(t, "tls_1_3_cipher_suites", CommandTLSv13.String())
	assert.Equal(t, "certificate_info", CommandCertificateInfo.String())
	assert.Equal(t, "session_renegotiation", CommandRenegotiation.String())
	assert.Equal(t, "Command(42)", Command(42).String())

	assert.Len(t, ProtocolCommands, len(report.Protocols))
	for i, cmd := range ProtocolCommands {
		p, ok := cmd.Protocol()
		require.True(t, ok)
		assert.Equal(t, report.Protocols[i], p)
	}
	_, ok := CommandCertificateInfo.Protocol()
	assert.False(t, ok)
}

func TestDetectService(t *testing.T) {
	tests := []struct {
		port       int
		connection ConnectionType
		protocol   string
	}{
		{25, ConnectionSTARTTLS, "smtp"},
		{587, ConnectionSTARTTLS, "smtp"},
		{143, ConnectionSTARTTLS, "imap"},
		{110, ConnectionSTARTTLS, "pop3"},
		{443, ConnectionTLS, "smtp"},
		{993, ConnectionTLS, "smtp"},
		{10443, ConnectionTLS, "smtp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.connection, DetectService(tt.port).Connection, "port %d", tt.port)
		assert.Equal(t, tt.protocol, starttlsProtocol(tt.port), "port %d", tt.port)
	}
}

func TestResolverIPLiteral(t *testing.T) {
	for _, r := range []Resolver{
		NewResolver(nil, time.Second),
		NewResolver([]string{"192.0.2.53"}, time.Second),
	} {
		ip, err := r.LookupIP(context.Background(), "192.0.2.10")
		require.NoError(t, err)
		assert.Equal(t, "192.0.2.10", ip)
	}
}

func TestNewResolverAddsDNSPort(t *testing.T) {
	r, ok := NewResolver([]string{"192.0.2.53", "198.51.100.53:5353"}, time.Second).(*dnsResolver)
	require.True(t, ok)
	assert.Equal(t, []string{"192.0.2.53:53", "198.51.100.53:5353"}, r.servers)

	_, ok = NewResolver(nil, time.Second).(*systemResolver)
	assert.True(t, ok)
}

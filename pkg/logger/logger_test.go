package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  config.LoggerConfig
		wantErr bool
	}{
		{
			name:    "valid json config",
			config:  config.LoggerConfig{Level: "debug", Format: "json", OutputPaths: []string{"stdout"}},
			wantErr: false,
		},
		{
			name:    "valid console config",
			config:  config.LoggerConfig{Level: "info", Format: "console"},
			wantErr: false,
		},
		{
			name:    "invalid level",
			config:  config.LoggerConfig{Level: "loud", Format: "json"},
			wantErr: true,
		},
		{
			name:    "empty config uses defaults",
			config:  config.LoggerConfig{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, l)
			}
		})
	}
}

func TestLoggerHelpers(t *testing.T) {
	l := ForTest(t)

	scoped := l.WithComponent("scanner").WithTarget("mx.example.gov", 25).WithScanID("abc")
	require.NotNil(t, scoped)
	assert.NotSame(t, l, scoped)
	assert.Same(t, l.Zap(), scoped.Zap())

	scoped.Debugw("probe finished", "command", "tls_1_2_cipher_suites")
	scoped.LogDuration("scan", time.Now().Add(-time.Second))
	scoped.LogError(errors.New("boom"), "probe failed", "command", "certificate_info")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Infow("discarded", "key", "value")
	assert.NotNil(t, l.Zap())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5, cfg.Scan.NetworkTimeout)
	assert.Equal(t, 5*time.Second, cfg.Scan.Timeout())
	assert.True(t, cfg.Scan.Serial)
	assert.True(t, cfg.Scan.Certs)
	assert.True(t, cfg.Scan.Reneg)
	assert.False(t, cfg.Cache.NoFastCache)
	assert.Equal(t, ModeSerial, cfg.Scan.Mode())
	require.NoError(t, cfg.Validate())
}

func TestScanConfigMode(t *testing.T) {
	tests := []struct {
		name        string
		serial      bool
		environment string
		want        Mode
	}{
		{name: "serial local", serial: true, environment: "local", want: ModeSerial},
		{name: "batch local", serial: false, environment: "local", want: ModeBatch},
		{name: "batch empty environment", serial: false, environment: "", want: ModeBatch},
		{name: "lambda forces serial", serial: false, environment: "lambda", want: ModeSerial},
		{name: "lambda upper case", serial: false, environment: "LAMBDA", want: ModeSerial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := ScanConfig{Serial: tt.serial, Environment: tt.environment}
			assert.Equal(t, tt.want, sc.Mode())
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Scan.NetworkTimeout = 0
	cfg.Scan.Environment = "mainframe"
	cfg.Cache.Backend = "memcached"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network_timeout")
	assert.Contains(t, err.Error(), "mainframe")
	assert.Contains(t, err.Error(), "memcached")
}

func TestLoadFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tlsinspect.yaml")
	content := `
scan:
  network_timeout: 7
  serial: false
  ca_file: /etc/ssl/custom.pem
cache:
  no_fast_cache: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("network-timeout", 5, "")
	fs.Bool("certs", true, "")
	require.NoError(t, fs.Parse([]string{"--certs=false"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	// network-timeout was not set on the command line, so the file wins.
	assert.Equal(t, 7, cfg.Scan.NetworkTimeout)
	assert.False(t, cfg.Scan.Serial)
	assert.False(t, cfg.Scan.Certs)
	assert.True(t, cfg.Scan.Reneg)
	assert.True(t, cfg.Cache.NoFastCache)
	assert.Equal(t, "/etc/ssl/custom.pem", cfg.Scan.CAFile)
	assert.Equal(t, ModeBatch, cfg.Scan.Mode())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("TLSINSPECT_SCAN_ENVIRONMENT", "lambda")
	t.Setenv("TLSINSPECT_SCAN_SERIAL", "false")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "lambda", cfg.Scan.Environment)
	assert.Equal(t, ModeSerial, cfg.Scan.Mode())
}

func TestParseEnvironment(t *testing.T) {
	env, err := ParseEnvironment("")
	require.NoError(t, err)
	assert.Equal(t, EnvironmentLocal, env)

	_, err = ParseEnvironment("kubernetes")
	assert.Error(t, err)
}

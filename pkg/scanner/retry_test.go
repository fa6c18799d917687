package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyDo(t *testing.T) {
	timeout := &ProbeTimeoutError{Command: CommandTLSv12, Err: os.ErrDeadlineExceeded}
	execErr := &ProbeExecutionError{Command: CommandTLSv12, Err: errors.New("boom")}

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{"success first try", []error{nil}, 1, nil},
		{"timeout then success", []error{timeout, nil}, 2, nil},
		{"timeouts exhaust attempts", []error{timeout, timeout, timeout, nil}, 3, timeout},
		{"non-timeout is not retried", []error{execErr, nil}, 1, execErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := RetryPolicy{Backoff: []time.Duration{0, 0, 0}, Retryable: IsTimeout}
			calls := 0
			err := policy.Do(context.Background(), func(attempt int) error {
				assert.Equal(t, calls, attempt)
				err := tt.errs[calls]
				calls++
				return err
			})
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestRetryPolicyHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{Backoff: []time.Duration{0, time.Hour}, Retryable: func(error) bool { return true }}

	calls := 0
	err := policy.Do(ctx, func(int) error {
		calls++
		cancel()
		return errors.New("unreachable")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoRetry(t *testing.T) {
	assert.Equal(t, 1, NoRetry.Attempts())
	assert.Equal(t, 3, RetryPolicy{Backoff: DefaultBackoff}.Attempts())
	assert.Equal(t, []time.Duration{0, 10 * time.Second, 30 * time.Second}, DefaultBackoff)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantTimeout bool
		wantDNS     bool
	}{
		{"nil", nil, false, false},
		{"deadline exceeded", context.DeadlineExceeded, true, false},
		{"wrapped os deadline", fmt.Errorf("read: %w", os.ErrDeadlineExceeded), true, false},
		{"probe timeout", &ProbeTimeoutError{Command: CommandSSLv3, Err: errors.New("slow")}, true, false},
		{"execution wrapping deadline", &ProbeExecutionError{Command: CommandSSLv3, Err: context.DeadlineExceeded}, false, false},
		{"dns", &DNSResolutionError{Host: "x.example.gov", Err: errors.New("NXDOMAIN")}, false, true},
		{"connectivity", &ConnectivityError{Addr: "192.0.2.1:443", Err: errors.New("refused")}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTimeout, IsTimeout(tt.err))
			assert.Equal(t, tt.wantDNS, IsDNSError(tt.err))
		})
	}
}

func TestClassifyProbeError(t *testing.T) {
	assert.Nil(t, classifyProbeError(CommandTLSv10, nil))

	var timeout *ProbeTimeoutError
	require.ErrorAs(t, classifyProbeError(CommandTLSv10, os.ErrDeadlineExceeded), &timeout)
	assert.Equal(t, CommandTLSv10, timeout.Command)

	var execErr *ProbeExecutionError
	require.ErrorAs(t, classifyProbeError(CommandTLSv10, errors.New("reset")), &execErr)
	assert.Equal(t, "tls_1_0_cipher_suites failed: reset", execErr.Error())

	already := &ProbeExecutionError{Command: CommandSSLv2, Err: errors.New("x")}
	assert.Same(t, already, classifyProbeError(CommandTLSv10, already))
}

package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
)

// DNSResolutionError means the target hostname did not resolve. It is never
// retried.
type DNSResolutionError struct {
	Host string
	Err  error
}

func (e *DNSResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Host, e.Err)
}

func (e *DNSResolutionError) Unwrap() error { return e.Err }

// ConnectivityError means the target resolved but no TLS-capable endpoint
// answered.
type ConnectivityError struct {
	Addr string
	Err  error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ProbeTimeoutError is a probe that ran out of time. Serial mode retries it.
type ProbeTimeoutError struct {
	Command Command
	Err     error
}

func (e *ProbeTimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Command, e.Err)
}

func (e *ProbeTimeoutError) Unwrap() error { return e.Err }

func (e *ProbeTimeoutError) Timeout() bool { return true }

// ProbeExecutionError is any other probe failure.
type ProbeExecutionError struct {
	Command Command
	Err     error
}

func (e *ProbeExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *ProbeExecutionError) Unwrap() error { return e.Err }

// errHandshakeRejected marks a server refusing the offered hello. During
// cipher enumeration it ends the loop rather than failing the probe.
var errHandshakeRejected = errors.New("handshake rejected")

// IsTimeout reports whether err is, or wraps, a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var probeTimeout *ProbeTimeoutError
	if errors.As(err, &probeTimeout) {
		return true
	}
	var probeExec *ProbeExecutionError
	if errors.As(err, &probeExec) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsDNSError reports whether err is a DNS resolution failure.
func IsDNSError(err error) bool {
	var dnsErr *DNSResolutionError
	return errors.As(err, &dnsErr)
}

// classifyProbeError wraps a raw probe error into the taxonomy.
func classifyProbeError(cmd Command, err error) error {
	if err == nil {
		return nil
	}
	var probeTimeout *ProbeTimeoutError
	var probeExec *ProbeExecutionError
	if errors.As(err, &probeTimeout) || errors.As(err, &probeExec) {
		return err
	}
	if IsTimeout(err) {
		return &ProbeTimeoutError{Command: cmd, Err: err}
	}
	return &ProbeExecutionError{Command: cmd, Err: err}
}

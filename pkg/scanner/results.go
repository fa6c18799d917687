package scanner

import (
	"github.com/jphoke/tlsinspect/pkg/analysis"
	"github.com/jphoke/tlsinspect/pkg/report"
)

// ProbeResult is the outcome of one Command. The concrete type depends on
// the command kind.
type ProbeResult interface {
	probeResult()
}

// ProtocolProbeResult lists the suites one protocol version accepted.
type ProtocolProbeResult struct {
	Protocol report.Protocol
	Accepted []report.CipherSuite
}

// Supported reports whether any suite was accepted.
func (r *ProtocolProbeResult) Supported() bool {
	return len(r.Accepted) > 0
}

// CertificateProbeResult holds the served and verified chains.
type CertificateProbeResult struct {
	Chain analysis.Chain
}

type RenegotiationProbeResult struct {
	analysis.RenegotiationResult
}

func (*ProtocolProbeResult) probeResult()      {}
func (*CertificateProbeResult) probeResult()   {}
func (*RenegotiationProbeResult) probeResult() {}

// BatchItem pairs a submitted command with its result or error.
type BatchItem struct {
	Command Command
	Result  ProbeResult
	Err     error
}

// BatchResponse collects batch results in submission order.
type BatchResponse struct {
	Items []BatchItem
}

package analysis

// RenegotiationResult is the outcome of the renegotiation probe.
type RenegotiationResult struct {
	AcceptsClientRenegotiation  bool
	SupportsSecureRenegotiation bool
}

// AnalyzeRenegotiation reports insecure renegotiation: the server accepts
// client-initiated renegotiation without RFC 5746 protection.
func AnalyzeRenegotiation(r RenegotiationResult) bool {
	return r.AcceptsClientRenegotiation && !r.SupportsSecureRenegotiation
}

package analysis

import (
	"fmt"
	"time"
)

// Symantec distrust timelines.
const (
	DistrustMarch2018     = "MARCH_2018"
	DistrustSeptember2018 = "SEPTEMBER_2018"
	DistrustUnknown       = "Unknown"
)

// Certificates issued before this date lost trust in the first wave.
var symantecCutoff = time.Date(2016, time.June, 1, 0, 0, 0, 0, time.UTC)

// Organizations that operated the legacy Symantec PKI.
var symantecOrganizations = map[string]bool{
	"Symantec Corporation": true,
	"VeriSign, Inc.":       true,
	"GeoTrust Inc.":        true,
	"GeoTrust, Inc.":       true,
	"thawte, Inc.":         true,
	"Thawte Consulting":    true,
	"Thawte Consulting cc": true,
	"Equifax":              true,
	"Equifax Secure Inc.":  true,
	"RapidSSL":             true,
}

// Independently operated sub-CAs chaining to Symantec roots that browsers
// kept trusting.
var symantecExemptOrganizations = map[string]bool{
	"Apple Inc.":            true,
	"Google Inc":            true,
	"Google Trust Services": true,
}

// HasLegacySymantecAnchor reports whether a verified chain runs through a
// legacy Symantec authority without passing an exempt sub-CA.
func HasLegacySymantecAnchor(verified []Certificate) bool {
	blacklisted := false
	for i, c := range verified {
		for _, org := range c.SubjectOrganization {
			// The leaf belongs to the site owner, not the CA.
			if i > 0 && symantecExemptOrganizations[org] {
				return false
			}
			if i > 0 && symantecOrganizations[org] {
				blacklisted = true
			}
		}
	}
	return blacklisted
}

// SymantecDistrustTimeline classifies when a Symantec-anchored chain lost
// browser trust, based on the leaf issuance date.
func SymantecDistrustTimeline(verified []Certificate) (string, error) {
	if len(verified) == 0 {
		return "", fmt.Errorf("empty verified chain")
	}
	leaf := verified[0]
	if leaf.NotBefore.IsZero() {
		return "", fmt.Errorf("leaf has no issuance date")
	}
	if leaf.NotBefore.Before(symantecCutoff) {
		return DistrustMarch2018, nil
	}
	return DistrustSeptember2018, nil
}

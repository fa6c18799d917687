package analysis

import "github.com/jphoke/tlsinspect/pkg/report"

// EVGuidelinesOID is the CA/Browser Forum policy OID asserting EV issuance.
const EVGuidelinesOID = "2.23.140.1.1"

type oidSet map[string]struct{}

func newOIDSet(oids ...string) oidSet {
	s := make(oidSet, len(oids))
	for _, o := range oids {
		s[o] = struct{}{}
	}
	return s
}

func (s oidSet) has(oid string) bool {
	_, ok := s[oid]
	return ok
}

type evRegistry struct {
	browser string
	oids    oidSet
}

var evRegistries = []evRegistry{
	{browser: "Mozilla", oids: mozillaEV},
	{browser: "Google", oids: googleEV},
	{browser: "Microsoft", oids: microsoftEV},
	{browser: "Apple", oids: appleEV},
}

// ClassifyEV matches leaf policy OIDs against the browser EV registries.
// Asserted reflects only the last OID examined.
func ClassifyEV(oids []string) report.EVStatus {
	status := report.EVStatus{
		TrustedOIDs:     []string{},
		TrustedBrowsers: []string{},
	}

	for _, oid := range oids {
		status.Asserted = oid == EVGuidelinesOID

		var browsers []string
		for _, reg := range evRegistries {
			if reg.oids.has(oid) {
				browsers = append(browsers, reg.browser)
			}
		}
		if len(browsers) == 0 {
			continue
		}

		status.Trusted = true
		status.TrustedOIDs = appendUnique(status.TrustedOIDs, oid)
		for _, b := range browsers {
			status.TrustedBrowsers = appendUnique(status.TrustedBrowsers, b)
		}
	}

	return status
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEV(t *testing.T) {
	tests := []struct {
		name         string
		oids         []string
		wantAsserted bool
		wantTrusted  bool
		wantOIDs     []string
		wantBrowsers []string
	}{
		{
			name:         "no policies",
			oids:         nil,
			wantOIDs:     []string{},
			wantBrowsers: []string{},
		},
		{
			name:         "apple only oid",
			oids:         []string{"1.2.250.1.177.1.18.2.2"},
			wantTrusted:  true,
			wantOIDs:     []string{"1.2.250.1.177.1.18.2.2"},
			wantBrowsers: []string{"Apple"},
		},
		{
			name:         "generic oid last",
			oids:         []string{"2.16.840.1.114412.2.1", EVGuidelinesOID},
			wantAsserted: true,
			wantTrusted:  true,
			wantOIDs:     []string{"2.16.840.1.114412.2.1"},
			wantBrowsers: []string{"Mozilla", "Google", "Microsoft", "Apple"},
		},
		{
			name:         "generic oid overwritten by later policy",
			oids:         []string{EVGuidelinesOID, "2.23.140.1.2.2"},
			wantAsserted: false,
			wantOIDs:     []string{},
			wantBrowsers: []string{},
		},
		{
			name:         "microsoft only then apple only",
			oids:         []string{"1.3.6.1.4.1.311.94.1.1", "1.3.6.1.4.1.23223.2", "1.3.6.1.4.1.311.94.1.1"},
			wantTrusted:  true,
			wantOIDs:     []string{"1.3.6.1.4.1.311.94.1.1", "1.3.6.1.4.1.23223.2"},
			wantBrowsers: []string{"Microsoft", "Apple"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyEV(tt.oids)
			assert.Equal(t, tt.wantAsserted, got.Asserted)
			assert.Equal(t, tt.wantTrusted, got.Trusted)
			assert.Equal(t, tt.wantOIDs, got.TrustedOIDs)
			assert.Equal(t, tt.wantBrowsers, got.TrustedBrowsers)
		})
	}
}

func TestEVRegistriesLoaded(t *testing.T) {
	assert.Len(t, mozillaEV, 40)
	assert.Len(t, googleEV, 43)
	assert.Len(t, microsoftEV, 65)
	assert.Len(t, appleEV, 44)
}

package scanner

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zx509 "github.com/zmap/zcrypto/x509"
	"github.com/zmap/zcrypto/x509/pkix"

	"github.com/jphoke/tlsinspect/pkg/analysis"
)

func TestSignatureHash(t *testing.T) {
	tests := map[zx509.SignatureAlgorithm]string{
		zx509.SHA256WithRSA:             "sha256",
		zx509.SHA1WithRSA:               "sha1",
		zx509.MD5WithRSA:                "md5",
		zx509.ECDSAWithSHA1:             "sha1",
		zx509.ECDSAWithSHA384:           "sha384",
		zx509.SHA256WithRSAPSS:          "sha256",
		zx509.UnknownSignatureAlgorithm: "",
	}
	for alg, want := range tests {
		assert.Equal(t, want, signatureHash(alg), alg.String())
	}
}

func TestSHA1ServedChain(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &zx509.Certificate{
		SerialNumber:       big.NewInt(7),
		Subject:            pkix.Name{CommonName: "legacy.example.gov"},
		Issuer:             pkix.Name{CommonName: "legacy.example.gov"},
		NotBefore:          fixedNow.AddDate(-1, 0, 0),
		NotAfter:           fixedNow.AddDate(1, 0, 0),
		SignatureAlgorithm: zx509.ECDSAWithSHA1,
	}
	der, err := zx509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	parsed, err := zx509.ParseCertificate(der)
	require.NoError(t, err)

	cert := convertCertificate(parsed)
	assert.Equal(t, "sha1", cert.SignatureHash)
	assert.IsType(t, &ecdsa.PublicKey{}, cert.PublicKey)

	certs, errs := analysis.AnalyzeCertificates(analysis.Chain{Served: []analysis.Certificate{cert}}, fixedNow)
	require.Empty(t, errs)
	assert.Equal(t, "sha1", certs.LeafSignature)
	require.NotNil(t, certs.AnySHA1Served)
	assert.True(t, *certs.AnySHA1Served)
	require.NotNil(t, certs.SHA1SignedCertificate)
	assert.False(t, *certs.SHA1SignedCertificate)
}

package analysis

import (
	"crypto/dsa" //nolint:staticcheck // DSA leaf keys still turn up in the wild.
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jphoke/tlsinspect/pkg/report"
)

const (
	noServedIssuer      = "(None found)"
	noConstructedIssuer = "(None constructed)"
)

// Certificate is the subset of an X.509 certificate the analyzer needs. The
// scanner fills it from parsed certificates.
type Certificate struct {
	SubjectCommonName        string
	SubjectOrganization      []string
	IssuerCommonName         string
	IssuerOrganizationalUnit []string

	// PublicKey holds a *rsa.PublicKey, *dsa.PublicKey, *ecdsa.PublicKey or
	// any other key type.
	PublicKey any

	// SignatureHash is the lower case digest name of the signature
	// algorithm, e.g. "sha256". Empty when unknown.
	SignatureHash string

	NotBefore  time.Time
	NotAfter   time.Time
	PolicyOIDs []string
}

// Chain holds the served chain (leaf first) and the chain built during
// verification. Verified is nil when validation failed.
type Chain struct {
	Served   []Certificate
	Verified []Certificate
}

// FieldError records a certificate field that could not be extracted.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("certificate field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// AnalyzeCertificates derives the certificate section of a report. Each field
// is computed independently; a failing field is left unset and reported in
// the returned errors.
func AnalyzeCertificates(chain Chain, now time.Time) (*report.Certificates, []error) {
	out := &report.Certificates{}
	var errs []error

	guard := func(field string, fn func() error) {
		defer func() {
			if r := recover(); r != nil {
				errs = append(errs, &FieldError{Field: field, Err: fmt.Errorf("panic: %v", r)})
			}
		}()
		if err := fn(); err != nil {
			errs = append(errs, &FieldError{Field: field, Err: err})
		}
	}

	if len(chain.Served) == 0 {
		return out, []error{&FieldError{Field: "served_chain", Err: fmt.Errorf("no certificates served")}}
	}
	leaf := chain.Served[0]

	guard("served_issuer", func() error {
		out.ServedIssuer = issuerName(chain.Served[len(chain.Served)-1], noServedIssuer)
		return nil
	})

	guard("constructed_issuer", func() error {
		if len(chain.Verified) > 0 {
			out.ConstructedIssuer = issuerName(chain.Verified[len(chain.Verified)-1], noConstructedIssuer)
		}
		return nil
	})

	guard("key", func() error {
		keyType, keyLength, err := describeKey(leaf.PublicKey)
		if err != nil {
			return err
		}
		out.KeyType = keyType
		if keyLength > 0 {
			out.KeyLength = report.Int(keyLength)
			out.CertificateLessThan2048 = report.Bool(keyLength < 2048)
		}
		return nil
	})

	guard("leaf_signature", func() error {
		if leaf.SignatureHash == "" {
			return fmt.Errorf("unknown signature hash")
		}
		out.LeafSignature = leaf.SignatureHash
		// Upper case literals: digest names are lower case, so these only
		// match producers that report upper case names.
		out.MD5SignedCertificate = report.Bool(leaf.SignatureHash == "MD5")
		out.SHA1SignedCertificate = report.Bool(leaf.SignatureHash == "SHA1")
		return nil
	})

	guard("validity", func() error {
		if leaf.NotBefore.IsZero() || leaf.NotAfter.IsZero() {
			return fmt.Errorf("missing validity period")
		}
		nb, na := leaf.NotBefore, leaf.NotAfter
		out.NotBefore = &nb
		out.NotAfter = &na
		out.ExpiredCertificate = report.Bool(now.Before(nb) || now.After(na))
		return nil
	})

	guard("any_sha1_served", func() error {
		found := false
		for _, c := range chain.Served {
			if c.SignatureHash == "sha1" {
				found = true
			}
		}
		out.AnySHA1Served = report.Bool(found)
		return nil
	})

	guard("any_sha1_constructed", func() error {
		if out.ConstructedIssuer != "" {
			out.AnySHA1Constructed = report.Bool(verifiedChainHasSHA1(chain.Verified))
		}
		return nil
	})

	guard("ev", func() error {
		ev := ClassifyEV(leaf.PolicyOIDs)
		out.EV = &ev
		return nil
	})

	guard("symantec", func() error {
		if len(chain.Verified) == 0 {
			return nil
		}
		isSymantec := HasLegacySymantecAnchor(chain.Verified)
		out.IsSymantecCert = report.Bool(isSymantec)
		if !isSymantec {
			out.SymantecDistrustDate = nil
			return nil
		}
		timeline, err := SymantecDistrustTimeline(chain.Verified)
		if err != nil {
			out.SymantecDistrustDate = report.String(DistrustUnknown)
			return err
		}
		out.SymantecDistrustDate = report.String(timeline)
		return nil
	})

	return out, errs
}

func issuerName(c Certificate, fallback string) string {
	if c.IssuerCommonName != "" {
		return c.IssuerCommonName
	}
	for _, ou := range c.IssuerOrganizationalUnit {
		if ou != "" {
			return ou
		}
	}
	return fallback
}

func describeKey(key any) (string, int, error) {
	switch k := key.(type) {
	case *rsa.PublicKey:
		return "RSA", k.N.BitLen(), nil
	case *dsa.PublicKey:
		return "DSA", k.P.BitLen(), nil
	case *ecdsa.PublicKey:
		return "ECDSA", k.Curve.Params().BitSize, nil
	case nil:
		return "", 0, fmt.Errorf("no public key")
	default:
		return reflect.TypeOf(key).String(), 0, nil
	}
}

// verifiedChainHasSHA1 ignores the last certificate: root signatures are not
// checked by clients.
func verifiedChainHasSHA1(verified []Certificate) bool {
	if len(verified) < 2 {
		return false
	}
	for _, c := range verified[:len(verified)-1] {
		if strings.EqualFold(c.SignatureHash, "sha1") {
			return true
		}
	}
	return false
}

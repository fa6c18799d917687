package report

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is how certificate dates are rendered in rows.
const DateLayout = "2006-01-02 15:04:05"

// Headers is the fixed column order of the tabular projection.
var Headers = []string{
	"Scanned Hostname",
	"Scanned Port",
	"Scanned IP",
	"Scanned for STARTTLS SMTP",
	"SSLv2", "SSLv3", "TLSv1.0", "TLSv1.1", "TLSv1.2", "TLSv1.3",

	"Any Forward Secrecy", "All Forward Secrecy",
	"Any RC4", "All RC4",
	"Any 3DES",

	"Key Type", "Key Length",
	"Signature Algorithm",
	"SHA-1 in Served Chain",
	"SHA-1 in Constructed Chain",
	"Not Before", "Not After",
	"Highest Served Issuer", "Highest Constructed Issuer",

	"Asserts EV", "Trusted for EV",
	"EV Trusted OIDs", "EV Trusted Browsers",

	"Is Symantec Cert", "Symantec Distrust Date",

	"Any Export", "Any NULL", "Any Anon", "Any MD5", "Any Less Than 128 Bits",
	"Insecure Renegotiation",
	"Certificate Less Than 2048",
	"MD5 Signed Certificate", "SHA-1 Signed Certificate",
	"Expired Certificate",

	"Accepted Ciphers",

	"Errors",
}

// ToRow projects a report onto the Headers columns.
func ToRow(r *Report) []string {
	certs := r.Certs
	if certs == nil {
		certs = &Certificates{}
	}
	ev := certs.EV
	if ev == nil {
		ev = &EVStatus{}
	}
	cfg := r.Config

	row := []string{
		r.Hostname,
		strconv.Itoa(r.Port),
		r.IP,
		formatBool(r.StartTLS),
	}
	for _, p := range Protocols {
		row = append(row, formatOptBool(r.Protocols.Supported(p)))
	}

	row = append(row,
		formatOptBool(cfg.AnyDHE), formatOptBool(cfg.AllDHE),
		formatOptBool(cfg.AnyRC4), formatOptBool(cfg.AllRC4),
		formatOptBool(cfg.Any3DES),

		certs.KeyType, formatOptInt(certs.KeyLength),
		certs.LeafSignature,
		formatOptBool(certs.AnySHA1Served),
		formatOptBool(certs.AnySHA1Constructed),
		formatOptTime(certs.NotBefore), formatOptTime(certs.NotAfter),
		certs.ServedIssuer, certs.ConstructedIssuer,
	)

	// EV columns only render when the certificate section produced them.
	if certs.EV != nil {
		row = append(row, formatBool(ev.Asserted), formatBool(ev.Trusted))
	} else {
		row = append(row, "", "")
	}
	row = append(row,
		strings.Join(ev.TrustedOIDs, ", "),
		strings.Join(ev.TrustedBrowsers, ", "),

		formatOptBool(certs.IsSymantecCert), formatOptString(certs.SymantecDistrustDate),

		formatOptBool(cfg.AnyExport),
		formatOptBool(cfg.AnyNULL),
		formatOptBool(cfg.AnyAnon),
		formatOptBool(cfg.AnyMD5),
		formatOptBool(cfg.AnyLessThan128Bits),

		formatOptBool(cfg.InsecureRenegotiation),

		formatOptBool(certs.CertificateLessThan2048),
		formatOptBool(certs.MD5SignedCertificate),
		formatOptBool(certs.SHA1SignedCertificate),
		formatOptBool(certs.ExpiredCertificate),

		strings.Join(r.Ciphers, ", "),

		r.ErrorText(),
	)
	return row
}

// ToRows projects every report, in order.
func ToRows(reports []*Report) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, ToRow(r))
	}
	return rows
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatOptBool(b *bool) string {
	if b == nil {
		return ""
	}
	return formatBool(*b)
}

func formatOptInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func formatOptString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

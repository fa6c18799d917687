// Package analysis derives report flags from raw probe results. Everything
// here is a pure function over its inputs.
package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jphoke/tlsinspect/pkg/report"
)

// keySizePattern finds "<LETTERS><digits>" tokens followed by a separator,
// e.g. AES128- or CAMELLIA256_.
var keySizePattern = regexp.MustCompile(`([A-Z]+_?\d+)[-_]`)

var digitsPattern = regexp.MustCompile(`\d+`)

// Tokens whose digits are not a key size.
var keySizeSkip = map[string]bool{
	"RC4":      true,
	"RC2":      true,
	"MD5":      true,
	"CHACHA20": true,
	"CCM_8":    true,
	"EDE3":     true,
	"CBC3":     true,
}

// AcceptedSuites returns the union of accepted suites across the table in
// protocol order, oldest first.
func AcceptedSuites(table report.ProtocolTable) []report.CipherSuite {
	var all []report.CipherSuite
	for _, p := range report.Protocols {
		if support, ok := table[p]; ok {
			all = append(all, support.Accepted...)
		}
	}
	return all
}

// CipherNames lists the IANA names of suites, in order.
func CipherNames(suites []report.CipherSuite) []string {
	names := make([]string, 0, len(suites))
	for _, s := range suites {
		names = append(names, s.Name)
	}
	return names
}

// ClassifyCiphers computes the cipher flags over the accepted suites. All
// flags are nil when suites is empty.
func ClassifyCiphers(suites []report.CipherSuite) report.CipherFlags {
	if len(suites) == 0 {
		return report.CipherFlags{}
	}

	anyDHE, allDHE := false, true
	anyRC4, allRC4 := false, true
	var any3DES, anyExport, anyNULL, anyAnon, anyMD5, anyWeak bool

	for _, suite := range suites {
		name := suite.OpenSSLName
		if name == "" {
			name = suite.Name
		}

		if strings.Contains(name, "RC4") {
			anyRC4 = true
		} else {
			allRC4 = false
		}

		if isTripleDES(name) {
			any3DES = true
		}

		if strings.HasPrefix(name, "DHE-") || strings.HasPrefix(name, "ECDHE-") {
			anyDHE = true
		} else {
			allDHE = false
		}

		if strings.Contains(name, "EXP") {
			anyExport = true
		}
		if strings.Contains(name, "NULL") {
			anyNULL = true
		}
		if strings.Contains(name, "MD5") {
			anyMD5 = true
		}
		if isAnonymous(name) || isAnonymous(suite.Name) {
			anyAnon = true
		}

		if LessThan128Bits(name, suite.KeySize) {
			anyWeak = true
		}
	}

	return report.CipherFlags{
		AnyDHE:             report.Bool(anyDHE),
		AllDHE:             report.Bool(allDHE),
		AnyRC4:             report.Bool(anyRC4),
		AllRC4:             report.Bool(allRC4),
		Any3DES:            report.Bool(any3DES),
		AnyExport:          report.Bool(anyExport),
		AnyNULL:            report.Bool(anyNULL),
		AnyAnon:            report.Bool(anyAnon),
		AnyMD5:             report.Bool(anyMD5),
		AnyLessThan128Bits: report.Bool(anyWeak),
	}
}

// LessThan128Bits reports whether a suite's symmetric key is weaker than 128
// bits. A known key size decides directly; otherwise the name is inspected.
func LessThan128Bits(name string, keySize int) bool {
	if keySize > 0 {
		return keySize < 128
	}

	weak := false
	if strings.Contains(name, "DES") && !isTripleDES(name) {
		weak = true
	}
	if strings.Contains(name, "EXP") {
		weak = true
	}

	for _, m := range keySizePattern.FindAllStringSubmatch(name, -1) {
		token := m[1]
		if keySizeSkip[token] {
			continue
		}
		digits := digitsPattern.FindString(token)
		if digits == "" {
			continue
		}
		if n, err := strconv.Atoi(digits); err == nil && n < 128 {
			weak = true
		}
	}
	return weak
}

func isTripleDES(name string) bool {
	return strings.Contains(name, "3DES") || strings.Contains(name, "DES-CBC3")
}

func isAnonymous(name string) bool {
	return strings.Contains(name, "ANON") || strings.Contains(name, "anon")
}

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/jphoke/tlsinspect/pkg/report"
)

type writeFunc func(w io.Writer, reports []*report.Report) error

func outputWriter(format string) (writeFunc, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return writeText, nil
	case "csv":
		return writeCSV, nil
	case "json":
		return writeJSON, nil
	case "yaml", "yml":
		return writeYAML, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, csv, json or yaml)", format)
	}
}

func writeCSV(w io.Writer, reports []*report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(report.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(report.ToRows(reports)); err != nil {
		return err
	}
	return cw.Error()
}

func writeJSON(w io.Writer, reports []*report.Report) error {
	if reports == nil {
		reports = []*report.Report{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

// writeYAML emits the same field names as the JSON output.
func writeYAML(w io.Writer, reports []*report.Report) error {
	if reports == nil {
		reports = []*report.Report{}
	}
	data, err := json.Marshal(reports)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}

var (
	colorGood  = color.New(color.FgGreen).SprintFunc()
	colorWarn  = color.New(color.FgYellow).SprintFunc()
	colorBad   = color.New(color.FgRed).SprintFunc()
	colorTitle = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// legacyProtocols should not be accepted by a well-configured endpoint.
var legacyProtocols = map[report.Protocol]bool{
	report.SSLv2:  true,
	report.SSLv3:  true,
	report.TLSv10: true,
	report.TLSv11: true,
}

func writeText(w io.Writer, reports []*report.Report) error {
	for i, rep := range reports {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("-", 72))
		}
		writeTextReport(w, rep)
	}

	failed := 0
	for _, rep := range reports {
		if len(rep.Errors) > 0 {
			failed++
		}
	}
	fmt.Fprintf(w, "\n%s %d endpoints, %s\n", colorTitle("Summary:"), len(reports), countWithErrors(failed))
	return nil
}

func countWithErrors(n int) string {
	if n == 0 {
		return colorGood("0 with errors")
	}
	return colorBad(fmt.Sprintf("%d with errors", n))
}

func writeTextReport(w io.Writer, rep *report.Report) {
	title := rep.Key()
	if rep.StartTLS {
		title += " (STARTTLS)"
	}
	fmt.Fprintf(w, "%s", colorTitle(title))
	if rep.IP != "" {
		fmt.Fprintf(w, " [%s]", rep.IP)
	}
	fmt.Fprintln(w)

	var protos []string
	for _, p := range report.Protocols {
		supported := rep.Protocols.Supported(p)
		switch {
		case supported == nil:
			protos = append(protos, p.String()+" ?")
		case *supported && legacyProtocols[p]:
			protos = append(protos, colorBad(p.String()))
		case *supported:
			protos = append(protos, colorGood(p.String()))
		}
	}
	if len(protos) > 0 {
		fmt.Fprintf(w, "  Protocols: %s\n", strings.Join(protos, " "))
	}

	if len(rep.Ciphers) > 0 {
		fmt.Fprintf(w, "  Ciphers:   %d accepted\n", len(rep.Ciphers))
	}
	if weak := cipherWarnings(rep.Config); len(weak) > 0 {
		fmt.Fprintf(w, "  Warnings:  %s\n", colorWarn(strings.Join(weak, ", ")))
	}

	if c := rep.Certs; c != nil {
		key := c.KeyType
		if c.KeyLength != nil {
			key = fmt.Sprintf("%s %d", key, *c.KeyLength)
		}
		fmt.Fprintf(w, "  Key:       %s, signed with %s\n", key, c.LeafSignature)
		if c.NotAfter != nil {
			expiry := c.NotAfter.Format(report.DateLayout)
			if c.ExpiredCertificate != nil && *c.ExpiredCertificate {
				expiry = colorBad(expiry + " (expired)")
			}
			fmt.Fprintf(w, "  Expires:   %s\n", expiry)
		}
		if c.ServedIssuer != "" {
			fmt.Fprintf(w, "  Issuer:    %s\n", c.ServedIssuer)
		}
		if c.EV != nil && c.EV.Trusted {
			fmt.Fprintf(w, "  EV:        %s\n", strings.Join(c.EV.TrustedBrowsers, ", "))
		}
	}

	for _, e := range rep.Errors {
		fmt.Fprintf(w, "  %s %s\n", colorBad("Error:"), e)
	}
}

func cipherWarnings(cfg report.ConfigFlags) []string {
	checks := []struct {
		flag *bool
		name string
	}{
		{cfg.AnyRC4, "RC4"},
		{cfg.Any3DES, "3DES"},
		{cfg.AnyExport, "export grade"},
		{cfg.AnyNULL, "NULL"},
		{cfg.AnyAnon, "anonymous"},
		{cfg.AnyMD5, "MD5"},
		{cfg.AnyLessThan128Bits, "under 128 bits"},
		{cfg.InsecureRenegotiation, "insecure renegotiation"},
	}

	var out []string
	if cfg.AllDHE != nil && !*cfg.AllDHE {
		out = append(out, "not all forward secret")
	}
	for _, c := range checks {
		if c.flag != nil && *c.flag {
			out = append(out, c.name)
		}
	}
	return out
}

package scanner

import (
	"bufio"
	"fmt"
	"net"
	"slices"
	"strings"
)

// StartTLSNegotiator upgrades a plaintext session so the next bytes on the
// connection are a TLS handshake.
type StartTLSNegotiator interface {
	Negotiate(conn net.Conn) error
}

// SMTPStartTLS handles SMTP STARTTLS negotiation
type SMTPStartTLS struct {
	// ClientName is sent in EHLO.
	ClientName string
}

func (s *SMTPStartTLS) Negotiate(conn net.Conn) error {
	reader := bufio.NewReader(conn)

	if _, err := readSMTPReply(reader, "220"); err != nil {
		return fmt.Errorf("failed to read SMTP greeting: %w", err)
	}

	name := s.ClientName
	if name == "" {
		name = "localhost"
	}
	if _, err := fmt.Fprintf(conn, "EHLO %s\r\n", name); err != nil {
		return fmt.Errorf("failed to send EHLO: %w", err)
	}

	lines, err := readSMTPReply(reader, "250")
	if err != nil {
		return fmt.Errorf("failed to read EHLO response: %w", err)
	}
	if !slices.ContainsFunc(lines, func(line string) bool { return ehloKeyword(line) == "STARTTLS" }) {
		return fmt.Errorf("server does not support STARTTLS")
	}

	if err := writeLine(conn, "STARTTLS"); err != nil {
		return err
	}
	if _, err := readSMTPReply(reader, "220"); err != nil {
		return fmt.Errorf("STARTTLS failed: %w", err)
	}
	return nil
}

// ehloKeyword returns the upper-cased extension keyword of one EHLO reply
// line ("250-STARTTLS", "250 SIZE 10240000").
func ehloKeyword(line string) string {
	if len(line) < 5 {
		return ""
	}
	fields := strings.Fields(line[4:])
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// readSMTPReply reads a possibly multi-line reply and checks its code.
func readSMTPReply(reader *bufio.Reader, code string) ([]string, error) {
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return lines, err
		}
		line = strings.TrimRight(line, "\r\n")
		lines = append(lines, line)

		if len(line) < 4 || line[3] != '-' {
			if !strings.HasPrefix(line, code) {
				return lines, fmt.Errorf("unexpected reply %q", line)
			}
			return lines, nil
		}
	}
}

// IMAPStartTLS upgrades an IMAP session (RFC 3501 section 6.2.1).
type IMAPStartTLS struct{}

func (i *IMAPStartTLS) Negotiate(conn net.Conn) error {
	reader := bufio.NewReader(conn)
	if _, err := reader.ReadString('\n'); err != nil {
		return fmt.Errorf("failed to read IMAP greeting: %w", err)
	}

	if err := writeLine(conn, "a001 CAPABILITY"); err != nil {
		return err
	}
	ok, err := scanCapabilities(reader, "STARTTLS", func(line string) bool {
		return strings.HasPrefix(line, "a001 ")
	})
	if err != nil {
		return fmt.Errorf("failed to read CAPABILITY response: %w", err)
	}
	if !ok {
		return fmt.Errorf("server does not support STARTTLS")
	}

	return command(conn, reader, "a002 STARTTLS", "a002 OK")
}

// POP3StartTLS upgrades a POP3 session with STLS (RFC 2595 section 4).
type POP3StartTLS struct{}

func (p *POP3StartTLS) Negotiate(conn net.Conn) error {
	reader := bufio.NewReader(conn)
	greeting, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read POP3 greeting: %w", err)
	}
	if !strings.HasPrefix(greeting, "+OK") {
		return fmt.Errorf("invalid POP3 greeting: %s", strings.TrimSpace(greeting))
	}

	if err := writeLine(conn, "CAPA"); err != nil {
		return err
	}
	ok, err := scanCapabilities(reader, "STLS", func(line string) bool {
		return line == "." || strings.HasPrefix(line, "-ERR")
	})
	if err != nil {
		return fmt.Errorf("failed to read CAPA response: %w", err)
	}
	if !ok {
		return fmt.Errorf("server does not support STLS")
	}

	return command(conn, reader, "STLS", "+OK")
}

// scanCapabilities reads a capability listing up to and including the line
// for which last returns true, and reports whether any line advertised
// capability as a whole word.
func scanCapabilities(reader *bufio.Reader, capability string, last func(line string) bool) (bool, error) {
	found := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		line = strings.TrimSpace(line)
		if slices.Contains(strings.Fields(strings.ToUpper(line)), capability) {
			found = true
		}
		if last(line) {
			return found, nil
		}
	}
}

func writeLine(conn net.Conn, line string) error {
	if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
		return fmt.Errorf("failed to send %q: %w", line, err)
	}
	return nil
}

// command sends line and expects a single reply starting with okPrefix.
func command(conn net.Conn, reader *bufio.Reader, line, okPrefix string) error {
	if err := writeLine(conn, line); err != nil {
		return err
	}
	response, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", line, err)
	}
	if !strings.HasPrefix(response, okPrefix) {
		return fmt.Errorf("%s failed: %s", line, strings.TrimSpace(response))
	}
	return nil
}

// GetStartTLSNegotiator returns the negotiator for a plaintext protocol.
func GetStartTLSNegotiator(protocol string) (StartTLSNegotiator, error) {
	switch strings.ToLower(protocol) {
	case "smtp":
		return &SMTPStartTLS{}, nil
	case "imap":
		return &IMAPStartTLS{}, nil
	case "pop3":
		return &POP3StartTLS{}, nil
	default:
		return nil, fmt.Errorf("unsupported STARTTLS protocol: %s", protocol)
	}
}

package main

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

var hostnameRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// validateDomain validates and normalizes the domain of a scan request
func validateDomain(domain string) (string, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return "", fmt.Errorf("domain cannot be empty")
	}

	// Accept pasted URLs
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimSuffix(domain, "/")
	domain = strings.TrimSuffix(domain, ".")

	if strings.Contains(domain, "/") {
		return "", fmt.Errorf("domain cannot contain URL paths")
	}
	if strings.Contains(domain, ":") {
		return "", fmt.Errorf("domain cannot contain a port")
	}
	if net.ParseIP(domain) != nil {
		return "", fmt.Errorf("expected a domain name, got an IP address")
	}
	if !isValidHostname(domain) || !strings.Contains(domain, ".") {
		return "", fmt.Errorf("invalid domain name")
	}

	return strings.ToLower(domain), nil
}

// isValidHostname checks if the string is a valid hostname
func isValidHostname(hostname string) bool {
	if len(hostname) > 253 {
		return false
	}
	return hostnameRegex.MatchString(hostname)
}

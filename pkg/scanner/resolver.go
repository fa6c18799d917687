package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Resolver turns a hostname into the IP address probes will dial.
type Resolver interface {
	LookupIP(ctx context.Context, host string) (string, error)
}

// NewResolver returns a resolver querying nameservers directly, or the
// system resolver when none are configured.
func NewResolver(nameservers []string, timeout time.Duration) Resolver {
	if len(nameservers) == 0 {
		return &systemResolver{resolver: net.DefaultResolver}
	}
	servers := make([]string, 0, len(nameservers))
	for _, ns := range nameservers {
		if _, _, err := net.SplitHostPort(ns); err != nil {
			ns = net.JoinHostPort(ns, "53")
		}
		servers = append(servers, ns)
	}
	return &dnsResolver{
		client:  &dns.Client{Timeout: timeout},
		servers: servers,
	}
}

type systemResolver struct {
	resolver *net.Resolver
}

func (r *systemResolver) LookupIP(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	addrs, err := r.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return "", &DNSResolutionError{Host: host, Err: err}
		}
		return "", err
	}
	if len(addrs) == 0 {
		return "", &DNSResolutionError{Host: host, Err: errors.New("no addresses")}
	}

	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}

// dnsResolver sends A then AAAA queries to each configured nameserver in
// turn.
type dnsResolver struct {
	client  *dns.Client
	servers []string
}

func (r *dnsResolver) LookupIP(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	var lastErr error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		ip, err := r.query(ctx, host, qtype)
		if err == nil {
			return ip, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (r *dnsResolver) query(ctx context.Context, host string, qtype uint16) (string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)

	var lastErr error
	for _, server := range r.servers {
		resp, _, err := r.client.ExchangeContext(ctx, m, server)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Rcode == dns.RcodeNameError {
			return "", &DNSResolutionError{Host: host, Err: fmt.Errorf("NXDOMAIN from %s", server)}
		}
		for _, ans := range resp.Answer {
			switch rr := ans.(type) {
			case *dns.A:
				return rr.A.String(), nil
			case *dns.AAAA:
				return rr.AAAA.String(), nil
			}
		}
		lastErr = &DNSResolutionError{Host: host, Err: fmt.Errorf("no %s records", dns.TypeToString[qtype])}
	}

	if lastErr == nil {
		lastErr = errors.New("no nameservers configured")
	}
	if IsTimeout(lastErr) {
		return "", lastErr
	}
	if !IsDNSError(lastErr) {
		lastErr = &DNSResolutionError{Host: host, Err: lastErr}
	}
	return "", lastErr
}

// Package hosts decides which endpoints to inspect for a domain, using the
// cached output of the HTTPS (pshtt) and mail-security (trustymail) scans
// when it exists.
package hosts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/jphoke/tlsinspect/pkg/cache"
	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/report"
	"github.com/jphoke/tlsinspect/pkg/scanner"
)

const (
	ScanPSHTT      = "pshtt"
	ScanTrustymail = "trustymail"

	fieldSupportsHTTPS    = "Domain Supports HTTPS"
	fieldCanonicalURL     = "Canonical URL"
	fieldSTARTTLSResults  = "Domain Supports STARTTLS Results"
	defaultHTTPSPort      = 443
	canonicalWWWURLPrefix = "https://www."
)

// Plan is the work for one domain: targets still to scan and reports
// reused from the cache.
type Plan struct {
	Domain  string
	Targets []scanner.Target
	Cached  []*report.Report
}

// Planner builds a Plan per domain. A nil cache disables reuse.
type Planner struct {
	cacheDir string
	scans    []string
	cache    cache.Cache
	log      *logger.Logger
}

func NewPlanner(cacheDir string, scans []string, c cache.Cache, log *logger.Logger) *Planner {
	return &Planner{
		cacheDir: cacheDir,
		scans:    scans,
		cache:    c,
		log:      log.WithComponent("hosts"),
	}
}

func (p *Planner) Plan(ctx context.Context, domain string) (*Plan, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, errors.New("empty domain")
	}
	plan := &Plan{Domain: domain}
	log := p.log.WithFields("domain", domain)

	// The web endpoint is skipped for mail-only runs unless pshtt ran too.
	pshttScan := slices.Contains(p.scans, ScanPSHTT)
	trustymailScan := slices.Contains(p.scans, ScanTrustymail)
	if pshttScan || !trustymailScan {
		web, err := p.loadPSHTT(domain)
		if err != nil {
			log.Warnw("Ignoring unreadable pshtt data", "error", err)
		}
		if web != nil && !web.supportsHTTPS() {
			log.Warnw("HTTPS not supported")
		} else {
			hostname := domain
			if web != nil && web.usesWWW() && !strings.HasPrefix(domain, "www.") {
				hostname = "www." + domain
			}
			plan.Targets = append(plan.Targets, scanner.Target{Hostname: hostname, Port: defaultHTTPSPort})
		}
	}

	mailServers, err := p.loadMailServers(domain)
	if err != nil {
		log.Warnw("Ignoring unreadable trustymail data", "error", err)
	}
	for _, server := range mailServers {
		target, err := mailTarget(server)
		if err != nil {
			log.Warnw("Skipping malformed mail server", "server", server, "error", err)
			continue
		}

		if cached := p.lookup(ctx, target.Key()); cached != nil {
			log.Debugw("Using cached data", "server", target.Key())
			plan.Cached = append(plan.Cached, cached)
			continue
		}
		log.Debugw("Adding mail server to scan list", "server", target.Key())
		plan.Targets = append(plan.Targets, target)
	}

	if len(plan.Targets) == 0 {
		log.Warnw("No hosts to scan", "cached", len(plan.Cached))
	}
	return plan, nil
}

func (p *Planner) lookup(ctx context.Context, key string) *report.Report {
	if p.cache == nil {
		return nil
	}
	rep, err := p.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			p.log.Warnw("Fast cache lookup failed", "key", key, "error", err)
		}
		return nil
	}
	return rep
}

func mailTarget(server string) (scanner.Target, error) {
	host, portStr, err := splitHostPort(server)
	if err != nil {
		return scanner.Target{}, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return scanner.Target{}, fmt.Errorf("invalid port %q", portStr)
	}
	return scanner.Target{Hostname: strings.ToLower(host), Port: port, StartTLS: true}, nil
}

func splitHostPort(server string) (string, string, error) {
	i := strings.LastIndex(server, ":")
	if i <= 0 || i == len(server)-1 {
		return "", "", fmt.Errorf("expected host:port, got %q", server)
	}
	return server[:i], server[i+1:], nil
}

// record is one row of a pshtt or trustymail result.
type record map[string]any

func (r record) supportsHTTPS() bool {
	switch v := r[fieldSupportsHTTPS].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	// No answer is not a "no".
	return true
}

func (r record) usesWWW() bool {
	url, _ := r[fieldCanonicalURL].(string)
	return strings.HasPrefix(strings.ToLower(url), canonicalWWWURLPrefix)
}

func (p *Planner) loadPSHTT(domain string) (record, error) {
	return p.loadRecord(ScanPSHTT, domain)
}

func (p *Planner) loadMailServers(domain string) ([]string, error) {
	rec, err := p.loadRecord(ScanTrustymail, domain)
	if err != nil || rec == nil {
		return nil, err
	}

	var servers []string
	switch v := rec[fieldSTARTTLSResults].(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				servers = append(servers, s)
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				servers = append(servers, strings.TrimSpace(s))
			}
		}
	}
	return servers, nil
}

// loadRecord reads <cacheDir>/<scan>/<domain>.json. Scanners write either
// one object or a list holding one object. A missing file yields nil, nil.
func (p *Planner) loadRecord(scan, domain string) (record, error) {
	path := filepath.Join(p.cacheDir, scan, domain+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var list []record
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		return list[0], nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rec, nil
}

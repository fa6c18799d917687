// Package runner scans many domains concurrently: it plans the endpoints of
// each domain, inspects them with a rate limit shared by all workers, and
// feeds STARTTLS results back into the fast cache.
package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jphoke/tlsinspect/pkg/cache"
	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/jphoke/tlsinspect/pkg/hosts"
	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/report"
	"github.com/jphoke/tlsinspect/pkg/scanner"
)

// Scanner inspects one endpoint. *scanner.Scanner satisfies it.
type Scanner interface {
	Scan(ctx context.Context, target scanner.Target) *report.Report
}

// Planner picks the endpoints of a domain. *hosts.Planner satisfies it.
type Planner interface {
	Plan(ctx context.Context, domain string) (*hosts.Plan, error)
}

// Result holds every report produced for one domain, fresh scans first and
// then reports reused from the cache.
type Result struct {
	Domain  string
	Reports []*report.Report
	Err     error
}

// Runner fans domains out over a bounded set of workers.
type Runner struct {
	planner     Planner
	scanner     Scanner
	cache       cache.Cache
	noFastCache bool
	workers     int
	limiter     *rate.Limiter
	log         *logger.Logger
}

// New builds a Runner. The cache may be nil.
func New(cfg config.RunnerConfig, cacheCfg config.CacheConfig, planner Planner, s Scanner, c cache.Cache, log *logger.Logger) *Runner {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &Runner{
		planner:     planner,
		scanner:     s,
		cache:       c,
		noFastCache: cacheCfg.NoFastCache,
		workers:     workers,
		limiter:     rate.NewLimiter(limit, burst),
		log:         log.WithComponent("runner"),
	}
}

// Run scans every domain and returns one Result per domain in input order.
// A domain that fails to plan carries the error in its Result; Run itself
// only fails when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, domains []string, onResult func(*Result)) ([]*Result, error) {
	results := make([]*Result, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, domain := range domains {
		i, domain := i, domain
		g.Go(func() error {
			res := r.ScanDomain(gctx, domain)
			results[i] = res
			if onResult != nil {
				onResult(res)
			}
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("scan run interrupted: %w", err)
	}
	return results, nil
}

// ScanDomain plans, scans and post-processes a single domain.
func (r *Runner) ScanDomain(ctx context.Context, domain string) *Result {
	start := time.Now()
	log := r.log.WithFields("domain", domain)

	plan, err := r.planner.Plan(ctx, domain)
	if err != nil {
		log.Warnw("Failed to plan hosts", "error", err)
		return &Result{Domain: domain, Err: err}
	}

	res := &Result{Domain: plan.Domain}
	for _, target := range plan.Targets {
		if err := r.limiter.Wait(ctx); err != nil {
			res.Err = err
			break
		}
		res.Reports = append(res.Reports, r.scanner.Scan(ctx, target))
	}
	res.Reports = append(res.Reports, plan.Cached...)

	r.PostScan(ctx, res.Reports)
	log.LogDuration("domain scan", start, "targets", len(plan.Targets), "cached", len(plan.Cached))
	return res
}

// PostScan adds STARTTLS reports to the fast cache. Existing entries are
// left alone.
func (r *Runner) PostScan(ctx context.Context, reports []*report.Report) {
	if r.noFastCache || r.cache == nil {
		return
	}
	for _, rep := range reports {
		if rep == nil || !rep.StartTLS {
			continue
		}
		stored, err := r.cache.PutIfAbsent(ctx, rep.Key(), rep)
		if err != nil {
			r.log.Warnw("Failed to update fast cache", "key", rep.Key(), "error", err)
			continue
		}
		if stored {
			r.log.Debugw("Cached STARTTLS report", "key", rep.Key())
		}
	}
}

// Reports flattens results in order.
func Reports(results []*Result) []*report.Report {
	var out []*report.Report
	for _, res := range results {
		if res != nil {
			out = append(out, res.Reports...)
		}
	}
	return out
}

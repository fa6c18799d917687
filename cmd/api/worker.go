package main

import (
	"context"
	"errors"
	"time"

	"github.com/jphoke/tlsinspect/pkg/runner"
	"github.com/jphoke/tlsinspect/pkg/store"
)

// domainScanner scans one domain. *runner.Runner satisfies it.
type domainScanner interface {
	ScanDomain(ctx context.Context, domain string) *runner.Result
}

func (s *Server) startWorkers(ctx context.Context, count int, scanner domainScanner) {
	for i := 0; i < count; i++ {
		go s.worker(ctx, i, scanner)
	}
}

func (s *Server) worker(ctx context.Context, id int, scanner domainScanner) {
	log := s.log.WithFields("worker", id)
	log.Infow("Worker started")

	for {
		worked, err := s.processNext(ctx, scanner)
		if err != nil {
			log.Warnw("Failed to get work", "error", err)
		}
		if worked {
			continue
		}

		// No work available
		select {
		case <-ctx.Done():
			log.Infow("Worker stopped")
			return
		case <-time.After(s.pollEvery):
		}
	}
}

// processNext claims one queued scan and runs it. It reports whether a scan
// was claimed.
func (s *Server) processNext(ctx context.Context, scanner domainScanner) (bool, error) {
	scan, err := s.store.ClaimNext(ctx)
	if errors.Is(err, store.ErrNoWork) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log := s.log.WithScanID(scan.ID).WithFields("domain", scan.Domain)
	log.Infow("Scanning domain")
	s.updates.publish(ctx, scan)

	start := time.Now()
	res := scanner.ScanDomain(ctx, scan.Domain)
	if res.Err != nil {
		scan.Status, scan.ErrorMessage = store.StatusFailed, res.Err.Error()
		if err := s.store.FailScan(ctx, scan.ID, res.Err.Error()); err != nil {
			return true, err
		}
	} else {
		scan.Status, scan.TargetCount = store.StatusCompleted, len(res.Reports)
		if err := s.store.CompleteScan(ctx, scan.ID, res.Reports); err != nil {
			_ = s.store.FailScan(ctx, scan.ID, "failed to save reports")
			return true, err
		}
	}
	s.updates.publish(ctx, scan)

	log.Infow("Completed scan", "status", scan.Status, "reports", len(res.Reports), "duration", time.Since(start))
	return true, nil
}

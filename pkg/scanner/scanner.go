// Package scanner probes a host's TLS/SSL endpoint and assembles one report
// per target: protocol support, accepted cipher suites, certificate chain
// and renegotiation behaviour.
package scanner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jphoke/tlsinspect/pkg/analysis"
	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/report"
)

// maxCommandErrors is the number of failed commands after which a serial
// scan gives up on the remaining ones.
const maxCommandErrors = 2

const (
	errConnectivity = "Connectivity not established."
	errNoTarget     = "No valid target for scanning, couldn't connect."
)

// Scanner inspects targets with a probe engine. It is safe for concurrent
// use by several goroutines.
type Scanner struct {
	cfg       config.ScanConfig
	mode      config.Mode
	log       *logger.Logger
	engine    Engine
	connector Connector
	resolver  Resolver
	now       func() time.Time
	backoff   []time.Duration
	notify    func(error)
}

// Option customises a Scanner.
type Option func(*Scanner)

// WithEngine replaces the network probe engine.
func WithEngine(e Engine) Option {
	return func(s *Scanner) { s.engine = e }
}

// WithConnector replaces the connectivity check.
func WithConnector(c Connector) Option {
	return func(s *Scanner) { s.connector = c }
}

// WithResolver sets the resolver used for connectivity and for filling the
// IP of unreachable targets.
func WithResolver(r Resolver) Option {
	return func(s *Scanner) { s.resolver = r }
}

// WithClock sets the time source used for certificate validity checks.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithBackoff overrides the retry schedule for connectivity and probes.
func WithBackoff(backoff []time.Duration) Option {
	return func(s *Scanner) { s.backoff = backoff }
}

// WithNotifier sets a callback for unexpected scan failures, such as a
// panic that escaped a scan. It is called after the failure is logged.
func WithNotifier(notify func(error)) Option {
	return func(s *Scanner) { s.notify = notify }
}

// New builds a Scanner from the scan configuration. The execution mode is
// resolved once here, and the trust store is loaded unless an engine is
// supplied.
func New(cfg config.ScanConfig, log *logger.Logger, opts ...Option) (*Scanner, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &Scanner{
		cfg:     cfg,
		mode:    cfg.Mode(),
		log:     log.WithComponent("scanner"),
		now:     time.Now,
		backoff: DefaultBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.resolver == nil {
		s.resolver = NewResolver(cfg.Nameservers, cfg.Timeout())
	}
	if s.connector == nil {
		s.connector = NewProber(s.resolver, cfg.Timeout())
	}
	if s.engine == nil {
		roots, err := LoadTrustPool(cfg.CAFile, s.log)
		if err != nil {
			return nil, fmt.Errorf("failed to load trust store: %w", err)
		}
		s.engine = newProbeEngine(cfg.Timeout(), roots, s.log)
	}
	return s, nil
}

// Mode returns the execution mode resolved from the configuration.
func (s *Scanner) Mode() config.Mode {
	return s.mode
}

// Scan inspects one target. It always returns a report; failures are
// recorded in the report's errors.
func (s *Scanner) Scan(ctx context.Context, target Target) (rep *report.Report) {
	start := time.Now()
	log := s.log.WithTarget(target.Hostname, target.Port)

	rep = report.New(target.Hostname, target.Port, target.StartTLS)
	rep.ScannedAt = s.now().UTC()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unknown error while scanning %s: %v", target, r)
			log.Errorw("Unknown error while scanning", "panic", r)
			if s.notify != nil {
				s.notify(err)
			}
			rep.AddError(errNoTarget)
		}
	}()

	info, err := s.connect(ctx, target, log)
	if err != nil {
		log.Warnw("Connectivity not established", "error", err)
		rep.AddError(errConnectivity)
		if ip, lookupErr := s.resolver.LookupIP(ctx, target.Hostname); lookupErr == nil {
			rep.IP = ip
		}
		return rep
	}
	rep.IP = info.IP

	var resp *BatchResponse
	switch s.mode {
	case config.ModeBatch:
		resp = s.runBatch(ctx, info, rep, log)
	default:
		resp = s.runSerial(ctx, info, rep, log)
	}
	s.aggregate(rep, resp, log)

	log.LogDuration("scan", start, "mode", s.mode.String(), "errors", len(rep.Errors))
	return rep
}

func (s *Scanner) connect(ctx context.Context, target Target, log *logger.Logger) (*ServerInfo, error) {
	policy := RetryPolicy{
		Backoff:   s.backoff,
		Retryable: func(err error) bool { return !IsDNSError(err) },
	}

	var info *ServerInfo
	err := policy.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			log.Debugw("Retrying connectivity check", "attempt", attempt+1)
		}
		var err error
		info, err = s.connector.Connect(ctx, target)
		return err
	})
	return info, err
}

type serialStep struct {
	cmd    Command
	policy RetryPolicy
}

// runSerial runs one command at a time, retrying timeouts, and stops once
// maxCommandErrors commands have failed.
func (s *Scanner) runSerial(ctx context.Context, info *ServerInfo, rep *report.Report, log *logger.Logger) *BatchResponse {
	probeRetry := RetryPolicy{Backoff: s.backoff, Retryable: IsTimeout}

	steps := make([]serialStep, 0, len(ProtocolCommands)+2)
	for _, cmd := range ProtocolCommands {
		steps = append(steps, serialStep{cmd: cmd, policy: probeRetry})
	}
	if s.cfg.Certs {
		steps = append(steps, serialStep{cmd: CommandCertificateInfo, policy: probeRetry})
	}
	if s.cfg.Reneg {
		steps = append(steps, serialStep{cmd: CommandRenegotiation, policy: NoRetry})
	}

	resp := &BatchResponse{}
	errs := 0
	for i, step := range steps {
		if errs >= maxCommandErrors {
			log.Warnw("Too many errors, aborting rest of scans.", "skipped", len(steps)-i)
			break
		}

		var result ProbeResult
		err := step.policy.Do(ctx, func(attempt int) error {
			if attempt > 0 {
				log.Debugw("Retrying command", "command", step.cmd.String(), "attempt", attempt+1)
			}
			var err error
			result, err = s.runProbe(ctx, info, step.cmd)
			return err
		})
		if err != nil {
			errs++
			log.Warnw("Scan command failed", "command", step.cmd.String(), "error", err)
			rep.AddError(fmt.Sprintf("Scan command failed: %s", step.cmd))
		}
		resp.Items = append(resp.Items, BatchItem{Command: step.cmd, Result: result, Err: err})
	}
	return resp
}

// runProbe runs one command, turning a panic into a failure of that command
// alone.
func (s *Scanner) runProbe(ctx context.Context, info *ServerInfo, cmd Command) (result ProbeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &ProbeExecutionError{Command: cmd, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return s.engine.Run(ctx, info, cmd)
}

// runBatch submits every command at once. A failed command never affects
// the others.
func (s *Scanner) runBatch(ctx context.Context, info *ServerInfo, rep *report.Report, log *logger.Logger) *BatchResponse {
	cmds := append([]Command{}, ProtocolCommands...)
	if s.cfg.Certs {
		cmds = append(cmds, CommandCertificateInfo)
	}
	if s.cfg.Reneg {
		cmds = append(cmds, CommandRenegotiation)
	}

	resp := &BatchResponse{Items: make([]BatchItem, len(cmds))}

	var g errgroup.Group
	if s.cfg.BatchConcurrency > 0 {
		g.SetLimit(s.cfg.BatchConcurrency)
	}
	for i, cmd := range cmds {
		i, cmd := i, cmd
		g.Go(func() error {
			result, err := s.runProbe(ctx, info, cmd)
			resp.Items[i] = BatchItem{Command: cmd, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, item := range resp.Items {
		if item.Err != nil {
			log.Warnw("Scan command failed", "command", item.Command.String(), "error", item.Err)
			rep.AddError(fmt.Sprintf("Scan command failed: %s", item.Command))
		}
	}
	return resp
}

// aggregate folds the probe results into the report. A missing result only
// leaves its own section empty.
func (s *Scanner) aggregate(rep *report.Report, resp *BatchResponse, log *logger.Logger) {
	for _, item := range resp.Items {
		if item.Err != nil || item.Result == nil {
			continue
		}
		switch r := item.Result.(type) {
		case *ProtocolProbeResult:
			accepted := r.Accepted
			if accepted == nil {
				accepted = []report.CipherSuite{}
			}
			rep.Protocols[r.Protocol] = report.ProtocolSupport{Supported: r.Supported(), Accepted: accepted}
		case *CertificateProbeResult:
			certs, errs := analysis.AnalyzeCertificates(r.Chain, s.now())
			for _, err := range errs {
				log.Debugw("Certificate field not extracted", "error", err)
			}
			rep.Certs = certs
		case *RenegotiationProbeResult:
			rep.Config.InsecureRenegotiation = report.Bool(analysis.AnalyzeRenegotiation(r.RenegotiationResult))
		default:
			log.Warnw("Unexpected probe result", "command", item.Command.String(), "type", fmt.Sprintf("%T", r))
		}
	}

	suites := analysis.AcceptedSuites(rep.Protocols)
	rep.Ciphers = analysis.CipherNames(suites)
	rep.Config.CipherFlags = analysis.ClassifyCiphers(suites)
}

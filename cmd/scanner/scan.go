package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jphoke/tlsinspect/pkg/cache"
	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/jphoke/tlsinspect/pkg/hosts"
	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/report"
	"github.com/jphoke/tlsinspect/pkg/runner"
	"github.com/jphoke/tlsinspect/pkg/scanner"
)

var (
	inputFile    string
	outputFormat string
)

var scanCmd = &cobra.Command{
	Use:   "scan [domains...]",
	Short: "Plan and scan the web and mail endpoints of domains",
	Long: `scan reads cached pshtt and trustymail results from --cache-dir to decide
which endpoints of each domain to inspect. Without cached data the bare
domain is scanned on port 443.`,
	Example: `  scanner scan example.gov
  scanner scan --input domains.csv --output csv > results.csv
  scanner scan --scans pshtt,trustymail --cache-dir ./cache example.gov`,
	RunE: func(cmd *cobra.Command, args []string) error {
		domains, err := collectInputs(args, inputFile)
		if err != nil {
			return err
		}
		return runScan(cmd, domains, false)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect host[:port]...",
	Short: "Scan endpoints directly, without host planning",
	Example: `  scanner inspect www.example.gov
  scanner inspect mx.example.gov:25 --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := collectInputs(args, inputFile)
		if err != nil {
			return err
		}
		return runScan(cmd, targets, true)
	},
}

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Print the CSV column headers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCSV(cmd.OutOrStdout(), nil)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{scanCmd, inspectCmd} {
		addScanFlags(cmd.Flags())
	}
}

func addScanFlags(fs *pflag.FlagSet) {
	d := config.Default()

	fs.StringVarP(&inputFile, "input", "i", "", "file with one domain or target per line (CSV, first column)")
	fs.StringVarP(&outputFormat, "output", "o", "text", "output format: text, csv, json, yaml")

	fs.Int("network-timeout", d.Scan.NetworkTimeout, "network timeout in seconds")
	fs.String("ca-file", "", "extra trusted CA certificates (PEM file or directory)")
	fs.Bool("serial", d.Scan.Serial, "run probes one at a time with retries")
	fs.Bool("certs", d.Scan.Certs, "analyze certificate chains")
	fs.Bool("reneg", d.Scan.Reneg, "test for insecure renegotiation")
	fs.String("environment", d.Scan.Environment, "execution environment (local, lambda)")
	fs.Int("batch-concurrency", d.Scan.BatchConcurrency, "parallel probes per target in batch mode")
	fs.StringSlice("nameserver", nil, "DNS servers to resolve targets with")

	fs.Bool("no-fast-cache", false, "do not reuse or store mail server results")
	fs.String("cache-backend", d.Cache.Backend, "fast cache backend (memory, redis)")
	fs.String("redis-addr", d.Redis.Addr, "redis address for the redis cache backend")

	fs.Int("workers", d.Runner.Workers, "domains scanned in parallel")
	fs.Float64("rate", d.Runner.Rate, "maximum endpoints started per second (0 = unlimited)")

	fs.String("cache-dir", d.Hosts.CacheDir, "directory holding pshtt and trustymail results")
	fs.StringSlice("scans", nil, "scanners that ran alongside this one (pshtt, trustymail)")
}

func runScan(cmd *cobra.Command, inputs []string, direct bool) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no domains given; pass them as arguments or with --input")
	}
	write, err := outputWriter(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := scanner.New(cfg.Scan, log, scanner.WithNotifier(func(err error) {
		fmt.Fprintln(os.Stderr, colorBad("error:"), err)
	}))
	if err != nil {
		return err
	}
	log.Infow("Starting scan", "inputs", len(inputs), "mode", s.Mode().String())

	var reports []*report.Report
	if direct {
		reports, err = inspectTargets(ctx, s, inputs)
	} else {
		reports, err = scanDomains(ctx, cfg, s, inputs, log)
	}
	if err != nil {
		return err
	}

	return write(cmd.OutOrStdout(), reports)
}

func scanDomains(ctx context.Context, cfg *config.Config, s *scanner.Scanner, domains []string, log *logger.Logger) ([]*report.Report, error) {
	var c cache.Cache
	if !cfg.Cache.NoFastCache {
		var err error
		c, err = cache.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = c.Close()
		}()
	}

	planner := hosts.NewPlanner(cfg.Hosts.CacheDir, cfg.Hosts.Scans, c, log)
	r := runner.New(cfg.Runner, cfg.Cache, planner, s, c, log)

	results, err := r.Run(ctx, domains, func(res *runner.Result) {
		if res.Err != nil {
			log.Warnw("Domain produced no reports", "domain", res.Domain, "error", res.Err)
			return
		}
		log.Infow("Domain scanned", "domain", res.Domain, "reports", len(res.Reports))
	})
	if err != nil {
		return nil, err
	}
	return runner.Reports(results), nil
}

func inspectTargets(ctx context.Context, s *scanner.Scanner, inputs []string) ([]*report.Report, error) {
	reports := make([]*report.Report, 0, len(inputs))
	for _, in := range inputs {
		target, err := scanner.ParseTarget(in)
		if err != nil {
			return nil, err
		}
		reports = append(reports, s.Scan(ctx, target))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return reports, nil
}

func collectInputs(args []string, file string) ([]string, error) {
	inputs := append([]string{}, args...)
	if file == "" {
		return inputs, nil
	}

	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file) // #nosec G304 - CLI tool, user-provided filename is expected
		if err != nil {
			return nil, fmt.Errorf("cannot open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	fromFile, err := parseInputFile(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse input file: %w", err)
	}
	return append(inputs, fromFile...), nil
}

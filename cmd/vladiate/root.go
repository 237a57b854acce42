package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vladiate/internal/config"
	"vladiate/internal/csvexport"
	"vladiate/internal/domain"
	"vladiate/internal/exits"
	"vladiate/internal/logging"
	"vladiate/internal/metrics"
	"vladiate/internal/port"
	"vladiate/internal/report"
	"vladiate/internal/runner"
	s3storage "vladiate/internal/storage/s3"
	"vladiate/internal/validator"
	"vladiate/internal/vlad"
	"vladiate/internal/vladfile"
)

type cli struct {
	stdout io.Writer
	stderr io.Writer

	vladfile    string
	list        bool
	showVersion bool
	processes   int
	quiet       bool
	reportOut   string
	metricsFile string

	code int
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	cmd := c.command()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exits.Code(false, err)
	}
	return c.code
}

func (c *cli) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vladiate [flags] [Vlad ...]",
		Short:         "Strict validation of delimited files",
		Long:          "vladiate checks CSV and similar files against the column and row rules declared in a vladfile.",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          c.run,
	}

	f := cmd.Flags()
	f.StringVarP(&c.vladfile, "vladfile", "f", vladfile.DefaultName, "vladfile to load, e.g. '../other.yaml'")
	f.BoolVarP(&c.list, "list", "l", false, "show the available vlads and exit")
	f.BoolVarP(&c.showVersion, "version", "V", false, "show the version and exit")
	f.IntVarP(&c.processes, "processes", "p", 1, "number of vlads to validate at once")
	f.BoolVarP(&c.quiet, "quiet", "q", false, "do not print reports")
	f.StringVar(&c.reportOut, "report-out", "", "write failure reports as CSV to a directory or s3://bucket/prefix")
	f.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	return cmd
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	if c.showVersion {
		fmt.Fprintf(c.stdout, "Vladiate %s\n", version)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.applyConfig(cmd, cfg)
	if c.processes < 1 {
		return fmt.Errorf("processes must be at least 1, got %d", c.processes)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	path, err := vladfile.Find(c.vladfile)
	if err != nil {
		return err
	}
	file, err := vladfile.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("loaded vladfile", zap.String("path", path), zap.Int("vlads", len(file.Vlads)))

	if c.list {
		fmt.Fprintln(c.stdout, "Available vlads:")
		for _, name := range file.Names() {
			fmt.Fprintf(c.stdout, "    %s\n", name)
		}
		return nil
	}

	ctx := cmd.Context()

	var storage port.ObjectStorage
	if file.Uses(domain.SourceTypeS3) || csvexport.IsRemote(c.reportOut) {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var reporters report.Multi
	if c.quiet {
		reporters = append(reporters, report.Nop{})
	} else {
		reporters = append(reporters, report.NewText(c.stdout))
	}
	var collector *metrics.Collector
	if c.metricsFile != "" {
		collector = metrics.NewCollector(nil)
		reporters = append(reporters, collector)
	}

	summary, err := runner.Run(ctx, file, args, runner.Options{
		Processes: c.processes,
		Deps: vladfile.Deps{
			Registry:  validator.DefaultRegistry(),
			Storage:   storage,
			Delimiter: cfg.Run.DelimiterRune(),
			Reporter:  reporters,
			Logger:    logger,
		},
		Logger: logger,
	})
	if err != nil {
		var bad *validator.BadValidatorError
		if errors.As(err, &bad) {
			logger.Error("misconfigured rule", zap.String("rule", bad.Rule), zap.Strings("missing", bad.Missing))
		}
		return err
	}

	if c.reportOut != "" {
		if err := c.publish(ctx, storage, summary.Results, logger); err != nil {
			return err
		}
	}
	if collector != nil {
		if err := collector.WriteTextfile(c.metricsFile); err != nil {
			return err
		}
	}

	c.code = exits.Code(summary.Passed, nil)
	return nil
}

// applyConfig fills options the command line left unset from cfg.
func (c *cli) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("vladfile") && cfg.Run.Vladfile != "" {
		c.vladfile = cfg.Run.Vladfile
	}
	if !flags.Changed("processes") {
		c.processes = cfg.Run.Processes
	}
	if !flags.Changed("report-out") {
		c.reportOut = cfg.Run.ReportOut
	}
}

func (c *cli) publish(ctx context.Context, storage port.ObjectStorage, results []*vlad.Result, logger *zap.Logger) error {
	for _, res := range results {
		records := res.Records()
		if len(records) == 0 {
			continue
		}
		dest, err := csvexport.Publish(ctx, storage, c.reportOut, res.Name, records)
		if err != nil {
			return err
		}
		logger.Info("wrote failure report", zap.String("vlad", res.Name), zap.String("location", dest), zap.Int("failures", len(records)))
	}
	return nil
}

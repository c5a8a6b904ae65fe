package main

import (
	"fmt"
	"io"
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hashsum/internal/config"
	"hashsum/internal/digest"
	"hashsum/internal/metrics"
	"hashsum/internal/progress"
	"hashsum/internal/report"
	"hashsum/internal/verify"
)

var version = "dev"

type options struct {
	hashType     digest.Algorithm
	logLevel     string
	configPath   string
	workers      int
	showProgress bool
	showStats    bool
	output       string
	quiet        bool

	checksumFile string
	bsd          bool

	logger log.FieldLogger
	format report.Format
}

var envFlags = map[string]string{
	"HASHSUM_HASH_TYPE": "hash-type",
	"HASHSUM_LOG_LEVEL": "log-level",
	"HASHSUM_CONFIG":    "config",
	"HASHSUM_WORKERS":   "workers",
	"HASHSUM_OUTPUT":    "output",
}

func newRootCmd() *cobra.Command {
	o := &options{hashType: digest.Default}

	rootCmd := &cobra.Command{
		Use:           "hashsum",
		Short:         "Compute file digests and verify them against checksum files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.complete(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.VarP(&o.hashType, "hash-type", "t", fmt.Sprintf("Hash algorithm to use, one of %v", digest.Algorithms()))
	pf.StringVar(&o.logLevel, "log-level", log.InfoLevel.String(), "The logging level for diagnostics written to stderr")
	pf.StringVar(&o.configPath, "config", "", "Path to a YAML file with default flag values")
	pf.IntVar(&o.workers, "workers", runtime.NumCPU(), "Number of files hashed in parallel; 1 hashes one file at a time")
	pf.BoolVar(&o.showProgress, "progress", false, "Show a progress bar on stderr")
	pf.BoolVar(&o.showStats, "stats", false, "Print run statistics to stderr when done")
	pf.StringVarP(&o.output, "output", "o", string(report.Text), "Output format: text or json")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "Don't print OK for each successfully verified file")

	rootCmd.AddCommand(newHashCmd(o), newVerifyCmd(o))
	return rootCmd
}

// complete resolves env vars and the config file into flags, then builds
// the logger and output format.
func (o *options) complete(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if err := config.MapEnvVarToFlag(envFlags, flags); err != nil {
		return fmt.Errorf("failed to update flags from ENV vars: %w", err)
	}

	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		if err := config.Apply(flags, c.Values()); err != nil {
			return fmt.Errorf("applying %s: %w", o.configPath, err)
		}
	}

	logger, err := setupLogger(cmd.ErrOrStderr(), o.logLevel)
	if err != nil {
		return err
	}
	o.logger = logger.WithField("cmd", cmd.Name())

	o.format, err = report.ParseFormat(o.output)
	if err != nil {
		return err
	}
	if o.workers < 0 {
		return fmt.Errorf("--workers must be >= 0, got %d", o.workers)
	}

	o.logger.WithFields(log.Fields{
		"hash_type": o.hashType.String(),
		"workers":   o.workers,
	}).Debug("configured")
	return nil
}

func setupLogger(w io.Writer, logLevelStr string) (*log.Entry, error) {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "01-02-2006 15:04:05",
	})

	logLevel, err := log.ParseLevel(logLevelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevelStr, err)
	}
	logger.SetLevel(logLevel)

	return logger.WithField("app", "hashsum"), nil
}

// run carries the per-invocation stats and optional progress bar.
type run struct {
	stats *metrics.Stats
	bar   *progress.Bar
	o     *options
	errw  io.Writer
}

func (o *options) start(cmd *cobra.Command, verb string, totalBytes int64) *run {
	r := &run{stats: &metrics.Stats{}, o: o, errw: cmd.ErrOrStderr()}
	r.stats.Start()
	if o.showProgress {
		r.bar = progress.New(r.errw, verb, totalBytes, r.stats.Snapshot)
	}
	return r
}

func (r *run) verifyOptions() verify.Options {
	opts := verify.Options{
		Workers: r.o.workers,
		Stats:   r.stats,
		Logger:  r.o.logger,
	}
	if r.bar != nil {
		opts.OnBytes = r.bar.AddBytes
	}
	return opts
}

func (r *run) finish() {
	r.bar.Close()
	r.stats.Stop()
	if r.o.showStats {
		metrics.Print(r.errw, r.stats)
	}
}

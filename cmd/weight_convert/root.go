package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lucasjlepore/huawei-weight-export/internal/cliutil"
	"github.com/lucasjlepore/huawei-weight-export/internal/config"
	"github.com/lucasjlepore/huawei-weight-export/internal/logging"
	"github.com/lucasjlepore/huawei-weight-export/pipeline"
)

type flagValues struct {
	configPath  string
	format      string
	metricsFile string
	summary     bool
	logLevel    string
	logFormat   string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var flags flagValues

	cmd := &cobra.Command{
		Use:   "weight_convert [flags] <json_folder> [<out_folder>]",
		Short: "Convert Huawei Health weight exports to CSV, Parquet, FIT or SQLite",
		Long: "Without <out_folder>, files go to an \"out\" folder next to the executable.\n" +
			"Under \"go run\" that is a temporary build directory, so pass <out_folder> explicitly.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			outArg := ""
			if len(args) == 2 {
				outArg = args[1]
			}
			return convert(cfg, args[0], outArg, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file (default $WEIGHT_CONFIG)")
	f.StringVarP(&flags.format, "format", "f", "", "Output format: csv|parquet|fit|sqlite")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	f.BoolVar(&flags.summary, "summary", false, "Print a per-user summary table after writing")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error|disabled")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: console|json")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// applyFlags lets explicitly set flags win over file and env values.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags flagValues) {
	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Format = flags.format
	}
	if changed("metrics-file") {
		cfg.MetricsFile = flags.metricsFile
	}
	if changed("summary") {
		cfg.Summary = flags.summary
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
}

func convert(cfg *config.Config, inArg, outArg string, stdout, stderr io.Writer) error {
	inputDir, err := cliutil.ResolveInputDir(inArg)
	if err != nil {
		return err
	}
	outDir, err := cliutil.ResolveOutDir(outArg)
	if err != nil {
		return err
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: stderr})
	var metrics *pipeline.Metrics
	if cfg.MetricsFile != "" {
		metrics = pipeline.NewMetrics()
	}

	result, runErr := pipeline.Run(pipeline.Options{
		InputDir: inputDir,
		OutDir:   outDir,
		Format:   cfg.Format,
		Report:   stdout,
		Logger:   &log,
		Metrics:  metrics,
	})

	if metrics != nil {
		path, err := cliutil.ResolvePath(cfg.MetricsFile)
		if err != nil {
			return err
		}
		if err := metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Debug().Str("path", path).Msg("wrote metrics textfile")
	}

	if cfg.Summary && result != nil {
		fmt.Fprintln(stdout, renderSummaryTable(pipeline.Summaries(result.Table), shouldColorize(stdout)))
	}
	return runErr
}

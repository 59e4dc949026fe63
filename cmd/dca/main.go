package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brookluers/dcurves/config"
)

var (
	// Version information (set by build flags)
	Version = "dev"

	cfgFile   string
	verbose   bool
	logFormat string
	logger    *logrus.Logger
	cfg       *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dca",
	Short: "Decision curve analysis of risk prediction models",
	Long: `dca computes decision curves (net benefit and net interventions
avoided across risk thresholds) for binary and time-to-event outcomes.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Log.Format = logFormat
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		logger, err = newLogger(cfg.Log)
		return err
	},
}

func newLogger(lc config.LogConfig) (*logrus.Logger, error) {

	lg := logrus.New()
	lg.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	lg.SetLevel(level)

	switch lc.Format {
	case "json":
		lg.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		lg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", lc.Format)
	}

	return lg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dca.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(binaryCmd)
	rootCmd.AddCommand(censdistCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(configCmd)
}

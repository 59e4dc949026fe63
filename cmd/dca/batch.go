package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var batchJobs int

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run every analysis in the config file",
	Long: `Run the analyses listed in the config file concurrently, writing
<output.dir>/<name>.<output.format> for each.

Examples:
  dca batch --config analyses.yaml --jobs 8`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchJobs, "jobs", 0, "maximum concurrent analyses (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {

	if len(cfg.Analyses) == 0 {
		return fmt.Errorf("no analyses in config")
	}

	jobs := cfg.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs = batchJobs
	}
	if jobs <= 0 {
		jobs = 1
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)

	for _, a := range cfg.Analyses {
		a := a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			log := logger.WithFields(logrus.Fields{
				"analysis": a.Name,
				"run_id":   uuid.New().String(),
			})
			fname := filepath.Join(cfg.Output.Dir, a.Name+"."+cfg.Output.Format)
			if err := runAnalysis(a, fname, cfg.Output.Format, log); err != nil {
				return fmt.Errorf("analysis %q: %w", a.Name, err)
			}
			log.WithField("file", fname).Info("wrote results")

			return nil
		})
	}

	return g.Wait()
}

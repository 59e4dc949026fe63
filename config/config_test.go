package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testConfig = `
jobs: 2
output:
  dir: results
  format: json
analyses:
  - name: binary
    data: df_binary.csv
    outcome: cancer
    models: [famhistory, cancerpredmarker]
    harm:
      famhistory: 0.01
    thresh_range: [0, 0.5, 0.1]
  - name: survival
    data: df_surv.csv
    outcome: cancer
    models: [marker]
    models_to_prob: [marker]
    time: 1.5
    time_to_outcome_col: ttcancer
    nper: 100
    plot:
      file: surv.png
      graph_type: net_intervention_avoided
      y_limits: [-10, 50]
`

func writeConfig(t *testing.T, content string) string {
	fname := filepath.Join(t.TempDir(), "dca.yaml")
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))
	return fname
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Jobs)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, "results", cfg.Output.Dir)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "text", cfg.Log.Format, "unset values keep their defaults")
	require.Len(t, cfg.Analyses, 2)

	b := cfg.Analyses[0]
	assert.Equal(t, []string{"famhistory", "cancerpredmarker"}, b.Models)
	assert.Equal(t, 0.01, b.Harm["famhistory"])
	assert.Nil(t, b.Time)

	s := cfg.Analyses[1]
	require.NotNil(t, s.Time)
	assert.Equal(t, 1.5, *s.Time)
	assert.Equal(t, "ttcancer", s.TimeToOutcomeCol)
	assert.Equal(t, 100, s.NPer)
	assert.Equal(t, "net_intervention_avoided", s.Plot.GraphType)
	assert.Equal(t, []float64{-10, 50}, s.Plot.YLimits)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DCA_JOBS", "7")
	t.Setenv("DCA_OUTPUT_FORMAT", "csv")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Jobs)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad format", "output:\n  format: xml\n"},
		{"unnamed analysis", "analyses:\n  - data: a.csv\n    outcome: y\n    models: [m]\n"},
		{"duplicate analysis", "analyses:\n  - {name: a, data: a.csv, outcome: y, models: [m]}\n  - {name: a, data: a.csv, outcome: y, models: [m]}\n"},
		{"no models", "analyses:\n  - {name: a, data: a.csv, outcome: y}\n"},
		{"both thresholds", "analyses:\n  - {name: a, data: a.csv, outcome: y, models: [m], thresholds: [0.1], thresh_range: [0, 1, 0.1]}\n"},
		{"malformed", "analyses: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAnalysisOptions(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	opts, err := cfg.Analyses[0].Options()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5}, opts.Thresholds)
	assert.Equal(t, 0.01, opts.Harm["famhistory"])

	opts, err = cfg.Analyses[1].Options()
	require.NoError(t, err)
	assert.Nil(t, opts.Thresholds)
	assert.Equal(t, 1.5, *opts.Time)
	assert.Equal(t, []string{"marker"}, opts.ModelsToProb)
}

func TestExpandRange(t *testing.T) {
	th, err := ExpandRange([]float64{0.01, 0.99, 0.01})
	require.NoError(t, err)
	require.Len(t, th, 99)
	assert.Equal(t, 0.01, th[0])
	assert.Equal(t, 0.99, th[98])

	_, err = ExpandRange([]float64{0, 1})
	assert.Error(t, err)
}

func TestSaveString(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	var round Config
	require.NoError(t, yaml.Unmarshal([]byte(cfg.String()), &round))
	assert.Equal(t, cfg.Analyses[1].TimeToOutcomeCol, round.Analyses[1].TimeToOutcomeCol)

	fname := filepath.Join(t.TempDir(), "sub", "saved.yaml")
	require.NoError(t, cfg.Save(fname))

	saved, err := Load(fname)
	require.NoError(t, err)
	assert.Equal(t, cfg.Jobs, saved.Jobs)
	assert.Equal(t, cfg.Analyses[0].Models, saved.Analyses[0].Models)
	assert.Equal(t, *cfg.Analyses[1].Time, *saved.Analyses[1].Time)
}

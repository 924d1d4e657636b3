package run

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/metailurini/lazyset/internal/workload"
)

// parse runs the command's flags through loadConfig instead of its action.
func parse(t *testing.T, args ...string) (workload.Config, error) {
	t.Helper()
	configPath, listenAddress, metricShards = "", "", 0

	var cfg workload.Config
	var loadErr error
	app := &cli.App{
		Commands: []*cli.Command{{
			Name:  Command.Name,
			Flags: Command.Flags,
			Action: func(cCtx *cli.Context) error {
				cfg, loadErr = loadConfig(cCtx)
				return nil
			},
		}},
	}
	require.NoError(t, app.Run(append([]string{"lazybench", "run"}, args...)))
	return cfg, loadErr
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, workload.DefaultConfig(), cfg)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 2\nkey_range: 500\ninitial_size: 100\n"), 0o644))

	cfg, err := parse(t, "--config", path, "--threads", "16", "--duration", "1s", "--verify=false")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Threads)
	assert.Equal(t, int64(500), cfg.KeyRange)
	assert.Equal(t, int64(100), cfg.InitialSize)
	assert.Equal(t, time.Second, cfg.Duration)
	assert.False(t, cfg.Verify)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LAZYBENCH_INSERT_PERCENT", "40")
	t.Setenv("LAZYBENCH_DELETE_PERCENT", "40")

	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.InsertPercent)
	assert.Equal(t, 40, cfg.DeletePercent)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	_, err := parse(t, "--insert", "80", "--delete", "30")
	assert.ErrorIs(t, err, workload.ErrInvalidConfig)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	app := &cli.App{Writer: &buf}
	cCtx := cli.NewContext(app, nil, nil)

	r := workload.Report{RunID: "abc", Config: workload.DefaultConfig(), Elapsed: time.Second, InitialSize: 10, FinalSize: 11}
	r.Totals.Attempts[workload.OpInsert] = 4
	r.Totals.Successes[workload.OpInsert] = 1
	printReport(cCtx, r)

	out := buf.String()
	assert.Contains(t, out, "run abc")
	assert.Contains(t, out, "throughput: 4 ops/s")
	assert.Contains(t, out, "size: initial 10, expected 11, final 11")
}

package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspera-non-spernit/guru/internal/config"
	"github.com/aspera-non-spernit/guru/internal/store"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestBindFlagsMapsDashedNames(t *testing.T) {
	v, err := config.New("")
	require.NoError(t, err)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.Int("max-epochs", 0, "")
	flags.Float64("rate", 0, "")
	require.NoError(t, flags.Parse([]string{"--log-level=debug", "--max-epochs=7", "--rate=0.5"}))

	require.NoError(t, bindFlags(v, flags))

	assert.Equal(t, "debug", v.GetString("log.level"))
	assert.Equal(t, 7, v.GetInt("max_epochs"))
	assert.Equal(t, 0.5, v.GetFloat64("rate"))
	// unset flags leave the defaults alone
	assert.Equal(t, 0.3, v.GetFloat64("momentum"))
}

func TestFixturesThenPlainTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "season.yaml")

	execute(t, "fixtures", "--clubs", "Ajax,Benfica,Celtic", "--start", "2024-08-10T15:00:00+02:00", "--out", path)

	matches, err := store.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, matches, 6)
	for _, m := range matches {
		assert.False(t, m.HasResult())
	}

	played, err := store.Decode([]byte(`[
		{"date": "2024-08-10T15:00:00+02:00", "home": "Ajax", "away": "Benfica", "result": [2, 0]},
		{"date": "2024-08-17T15:00:00+02:00", "home": "Celtic", "away": "Ajax", "result": [1, 1]}
	]`), store.JSON)
	require.NoError(t, err)
	results := filepath.Join(dir, "results.json")
	require.NoError(t, store.SaveFile(results, played))

	out := execute(t, "table", "--plain", "--data", results)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Standings", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "Ajax"), lines[2])
	assert.True(t, strings.HasPrefix(lines[4], "Benfica"), lines[4])
}

package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestIngestCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "trialdex",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "csv",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dataset",
						Required: true,
					},
				),
			},
		},
	}

	t.Run("csv is required", func(t *testing.T) {
		err := app.Run([]string{"trialdex", "ingest", "--db", "/tmp/test", "--dataset", "oncology"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "csv")
	})

	t.Run("dataset is required", func(t *testing.T) {
		err := app.Run([]string{"trialdex", "ingest", "--db", "/tmp/test", "--csv", "/tmp/x.csv"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dataset")
	})
}

func TestStoreFlags(t *testing.T) {
	flags := storeFlags()
	require.Len(t, flags, 2)

	dbFlag, ok := flags[0].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "db", dbFlag.Name)
	assert.True(t, dbFlag.Required)

	indexFlag, ok := flags[1].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "index-file", indexFlag.Name)
	assert.False(t, indexFlag.Required)
}

func TestEmbeddingFlags(t *testing.T) {
	flags := embeddingFlags()
	require.Len(t, flags, 2)

	hostFlag, ok := flags[0].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "embedding-host", hostFlag.Name)
	assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)

	modelFlag, ok := flags[1].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "embedding-model", modelFlag.Name)
	assert.Equal(t, "all-minilm", modelFlag.Value)
}

func TestSetupLogger(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "debug", level: "debug", wantErr: false},
		{name: "info", level: "info", wantErr: false},
		{name: "warn", level: "warn", wantErr: false},
		{name: "error", level: "error", wantErr: false},
		{name: "uppercase accepted", level: "INFO", wantErr: false},
		{name: "invalid level", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: "info"},
				},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}
			err := app.Run([]string{"trialdex", "--log-level", tt.level})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("/home/coach")
	assert.Equal(t, "/home/coach/.teamsheet/teamsheet.db", cfg.DBPath)
	assert.Equal(t, 90, cfg.SuggestThreshold)
	assert.Equal(t, 80, cfg.GroupThreshold)
	assert.Equal(t, 50, cfg.MilestoneEvery)
	assert.Equal(t, 100, cfg.LeaderboardLimit)
	assert.Equal(t, "/home/coach/.teamsheet/config.yaml", FilePath("/home/coach"))
}

func TestLoad(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		home := t.TempDir()
		cfg, err := Load(filepath.Join(home, "nope.yaml"), home)
		require.NoError(t, err)
		assert.Equal(t, Default(home), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		home := t.TempDir()
		path := filepath.Join(home, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("club: Farnham\ngroup_threshold: 85\nlog_json: true\n"), 0o644))

		cfg, err := Load(path, home)
		require.NoError(t, err)
		assert.Equal(t, "Farnham", cfg.Club)
		assert.Equal(t, 85, cfg.GroupThreshold)
		assert.True(t, cfg.LogJSON)
		assert.Equal(t, 90, cfg.SuggestThreshold, "unset keys keep defaults")
	})

	t.Run("env overrides file", func(t *testing.T) {
		home := t.TempDir()
		path := filepath.Join(home, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/file.db\n"), 0o644))
		t.Setenv("TEAMSHEET_DB", "/tmp/env.db")
		t.Setenv("TEAMSHEET_LOG_LEVEL", "debug")

		cfg, err := Load(path, home)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env.db", cfg.DBPath)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		home := t.TempDir()
		path := filepath.Join(home, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("club: [unclosed\n"), 0o644))
		_, err := Load(path, home)
		assert.Error(t, err)
	})

	t.Run("threshold out of range", func(t *testing.T) {
		home := t.TempDir()
		path := filepath.Join(home, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("suggest_threshold: 120\n"), 0o644))
		_, err := Load(path, home)
		assert.ErrorContains(t, err, "suggest_threshold")
	})
}

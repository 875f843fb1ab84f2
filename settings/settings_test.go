package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"unknown strategy", func(s *Settings) { s.Strategy = "teleport" }},
		{"zero multiplier", func(s *Settings) { s.ConstantVelocityMultiplier = 0 }},
		{"negative smoothing", func(s *Settings) { s.ExponentialSmoothingRate = -1 }},
		{"negative margin", func(s *Settings) { s.SnapshotLatencyMargin = -0.1 }},
		{"zero sync interval", func(s *Settings) { s.SyncInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestSaveDefaultAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posesync.toml")
	require.NoError(t, SaveDefault(path))
	assert.Error(t, SaveDefault(path), "second save must not overwrite")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posesync.toml")
	require.NoError(t, os.WriteFile(path, []byte("Strategy = \"lerp\"\nSyncInterval = 0.1\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StrategyLerp, s.Strategy)
	assert.Equal(t, 0.1, s.SyncInterval)
	assert.Equal(t, DefaultSettings().ExponentialSmoothingRate, s.ExponentialSmoothingRate)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

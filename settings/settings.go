package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/posesync/oerror"
	"github.com/pelletier/go-toml"
)

// Strategy is the per-tick update strategy used to move an object towards its received poses.
type Strategy string

const (
	// StrategyConstantVelocity moves at the speed measured between the last two updates.
	StrategyConstantVelocity Strategy = "constant_velocity"
	// StrategyLerp exponentially smooths position linearly and orientation with a normalized lerp.
	StrategyLerp Strategy = "lerp"
	// StrategySlerp exponentially smooths both position and orientation spherically.
	StrategySlerp Strategy = "slerp"
	// StrategySnapshotInterpolation renders the object slightly in the past, between two buffered
	// snapshots.
	StrategySnapshotInterpolation Strategy = "snapshot_interpolation"
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyConstantVelocity, StrategyLerp, StrategySlerp, StrategySnapshotInterpolation:
		return true
	}
	return false
}

// Settings contains everything that can be configured for pose reconciliation.
type Settings struct {
	// UseSmoothedFrameTime makes ticks use a moving average of the frame time instead of the raw dt.
	UseSmoothedFrameTime bool
	// Strategy is the update strategy applied on every tick.
	Strategy Strategy
	// ConstantVelocityMultiplier scales the measured speeds under StrategyConstantVelocity.
	ConstantVelocityMultiplier float64
	// ExponentialSmoothingRate is the rate k of the 1-e^(-k*dt) smoothing factor.
	ExponentialSmoothingRate float64
	// UseDriverAbstraction routes poses through a physics body when the object has one.
	UseDriverAbstraction bool
	// Debug controls the markers drawn on buffered snapshots under StrategySnapshotInterpolation.
	Debug struct {
		Enabled               bool
		MaxVisualizationCount int
		VisualizationScale    float64
	}
	// SnapshotLatencyMargin is how far in the past, in seconds, snapshot interpolation renders.
	SnapshotLatencyMargin float64
	// SyncInterval is the expected number of seconds between two updates of an object.
	SyncInterval float64
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{
		UseSmoothedFrameTime:       true,
		Strategy:                   StrategySnapshotInterpolation,
		ConstantVelocityMultiplier: 1,
		ExponentialSmoothingRate:   12,
		SnapshotLatencyMargin:      0.1,
		SyncInterval:               0.05,
	}
	s.Debug.MaxVisualizationCount = 8
	s.Debug.VisualizationScale = 0.25
	return s
}

// Validate checks that every setting is within its bounds.
func (s Settings) Validate() error {
	switch {
	case !s.Strategy.Valid():
		return oerror.New("unknown strategy %q", s.Strategy)
	case !(s.ConstantVelocityMultiplier > 0):
		return oerror.New("constant velocity multiplier must be positive, got %v", s.ConstantVelocityMultiplier)
	case !(s.ExponentialSmoothingRate > 0):
		return oerror.New("exponential smoothing rate must be positive, got %v", s.ExponentialSmoothingRate)
	case !(s.SnapshotLatencyMargin >= 0):
		return oerror.New("snapshot latency margin must not be negative, got %v", s.SnapshotLatencyMargin)
	case !(s.SyncInterval > 0):
		return oerror.New("sync interval must be positive, got %v", s.SyncInterval)
	case s.Debug.MaxVisualizationCount < 0:
		return oerror.New("max visualization count must not be negative, got %v", s.Debug.MaxVisualizationCount)
	}
	return nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %w", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %w", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist
// or holds invalid settings. Keys missing from the file keep their default value.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err = settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

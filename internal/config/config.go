package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "autoragdoll"

// SegmentConfig sizes primitive segments relative to their bone length.
type SegmentConfig struct {
	LengthRatio float32 `json:"lengthRatio" mapstructure:"lengthRatio"`
	RadiusRatio float32 `json:"radiusRatio" mapstructure:"radiusRatio"`
}

// AnchorConfig sizes joint and offset empties relative to their bone length.
type AnchorConfig struct {
	DisplayRatio float32 `json:"displayRatio" mapstructure:"displayRatio"`
}

type VGroupConfig struct {
	Threshold float32 `json:"threshold" mapstructure:"threshold"`
}

type RemeshConfig struct {
	Enabled   bool    `json:"enabled" mapstructure:"enabled"`
	VoxelSize float32 `json:"voxelSize" mapstructure:"voxelSize"`
	MaxVoxels int     `json:"maxVoxels" mapstructure:"maxVoxels"`
}

type SimpleConfig struct {
	Shape string `json:"shape" mapstructure:"shape"`
}

type RemeshedConfig struct {
	CollisionShape   string `json:"collisionShape" mapstructure:"collisionShape"`
	HideOriginalMesh bool   `json:"hideOriginalMesh" mapstructure:"hideOriginalMesh"`
}

// Settings is the full configuration tree.
type Settings struct {
	LogLevel string         `json:"logLevel" mapstructure:"logLevel"`
	Segment  SegmentConfig  `json:"segment" mapstructure:"segment"`
	Anchor   AnchorConfig   `json:"anchor" mapstructure:"anchor"`
	VGroup   VGroupConfig   `json:"vgroup" mapstructure:"vgroup"`
	Remesh   RemeshConfig   `json:"remesh" mapstructure:"remesh"`
	Simple   SimpleConfig   `json:"simple" mapstructure:"simple"`
	Remeshed RemeshedConfig `json:"remeshed" mapstructure:"remeshed"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		LogLevel: "info",
		Segment:  SegmentConfig{LengthRatio: 0.9, RadiusRatio: 0.1},
		Anchor:   AnchorConfig{DisplayRatio: 0.2},
		VGroup:   VGroupConfig{Threshold: 0.9},
		Remesh:   RemeshConfig{Enabled: true, VoxelSize: 0.1, MaxVoxels: 2000000},
		Simple:   SimpleConfig{Shape: "BOX"},
		Remeshed: RemeshedConfig{CollisionShape: "CONVEX_HULL", HideOriginalMesh: false},
	}
}

// SetDefaults registers Default() with viper.
func SetDefaults() {
	d := Default()
	viper.SetDefault("logLevel", d.LogLevel)

	viper.SetDefault("segment.lengthRatio", d.Segment.LengthRatio)
	viper.SetDefault("segment.radiusRatio", d.Segment.RadiusRatio)

	viper.SetDefault("anchor.displayRatio", d.Anchor.DisplayRatio)

	viper.SetDefault("vgroup.threshold", d.VGroup.Threshold)

	viper.SetDefault("remesh.enabled", d.Remesh.Enabled)
	viper.SetDefault("remesh.voxelSize", d.Remesh.VoxelSize)
	viper.SetDefault("remesh.maxVoxels", d.Remesh.MaxVoxels)

	viper.SetDefault("simple.shape", d.Simple.Shape)

	viper.SetDefault("remeshed.collisionShape", d.Remeshed.CollisionShape)
	viper.SetDefault("remeshed.hideOriginalMesh", d.Remeshed.HideOriginalMesh)
}

// Load sets default values and reads autoragdoll.{yaml,json,...} from
// configDir. A missing file is not an error.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Get decodes the current viper state into Settings.
func Get() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects values no build could use.
func (s Settings) Validate() error {
	if s.Segment.LengthRatio <= 0 || s.Segment.RadiusRatio <= 0 {
		return fmt.Errorf("segment ratios must be positive")
	}
	if s.Anchor.DisplayRatio <= 0 {
		return fmt.Errorf("anchor.displayRatio must be positive, got %g", s.Anchor.DisplayRatio)
	}
	if s.VGroup.Threshold <= 0 || s.VGroup.Threshold > 1 {
		return fmt.Errorf("vgroup.threshold must be in (0,1], got %g", s.VGroup.Threshold)
	}
	if s.Remesh.MaxVoxels < 0 {
		return fmt.Errorf("remesh.maxVoxels must not be negative")
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

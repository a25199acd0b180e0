package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = []struct {
	flag, key string
}{
	{"log-level", "logLevel"},
	{"shape", "simple.shape"},
	{"collision-shape", "remeshed.collisionShape"},
	{"hide-original", "remeshed.hideOriginalMesh"},
	{"remesh", "remesh.enabled"},
	{"voxel-size", "remesh.voxelSize"},
	{"max-voxels", "remesh.maxVoxels"},
	{"threshold", "vgroup.threshold"},
}

// AddFlags registers the config-backed flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("log-level", d.LogLevel, "log level: trace, debug, info, warn, error")
	fs.String("shape", d.Simple.Shape, "segment shape for simple ragdolls: BOX, CAPSULE, CYLINDER")
	fs.String("collision-shape", d.Remeshed.CollisionShape, "collision shape for remeshed ragdolls: CONVEX_HULL, MESH")
	fs.Bool("hide-original", d.Remeshed.HideOriginalMesh, "hide the source mesh after a remeshed build")
	fs.Bool("remesh", d.Remesh.Enabled, "voxel remesh weight-region segments")
	fs.Float32("voxel-size", d.Remesh.VoxelSize, "voxel size for remeshing")
	fs.Int("max-voxels", d.Remesh.MaxVoxels, "largest voxel grid a remesh may allocate")
	fs.Float32("threshold", d.VGroup.Threshold, "minimum vertex weight kept in a segment")
}

// BindFlags makes flags set on fs override the config file.
func BindFlags(fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", fk.flag, err)
		}
	}
	return nil
}
